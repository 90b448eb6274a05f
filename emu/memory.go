// Package emu provides functional CHIP-8 emulation.
package emu

// Memory layout.
const (
	MemorySize     = 4096
	ProgramStart   = 0x200
	MaxProgramSize = MemorySize - ProgramStart
)

// Memory is the 4 KiB CHIP-8 address space. The font table occupies the
// bottom of memory from power-on.
type Memory struct {
	data [MemorySize]byte
}

// NewMemory creates a zeroed memory with the font table loaded.
func NewMemory() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset zeroes memory and reloads the font table.
func (m *Memory) Reset() {
	m.data = [MemorySize]byte{}
	copy(m.data[FontBase:], Font[:])
}

// CheckRange verifies that n bytes starting at addr lie inside memory.
// The error reports addr, the start of the failed access.
func (m *Memory) CheckRange(addr uint16, n int) error {
	if int(addr)+n > MemorySize {
		return &OutOfBoundsError{Address: int(addr)}
	}
	return nil
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint16) (uint8, error) {
	if err := m.CheckRange(addr, 1); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint16, value uint8) error {
	if err := m.CheckRange(addr, 1); err != nil {
		return err
	}
	m.data[addr] = value
	return nil
}

// Read16 reads a big-endian word.
func (m *Memory) Read16(addr uint16) (uint16, error) {
	if err := m.CheckRange(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m.data[addr])<<8 | uint16(m.data[addr+1]), nil
}

// LoadProgram clears the program area and copies program into it at
// ProgramStart.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return &RomTooLargeError{Size: len(program), Max: MaxProgramSize}
	}
	clear(m.data[ProgramStart:])
	copy(m.data[ProgramStart:], program)
	return nil
}

// Slice returns n bytes starting at addr without copying. The caller must
// have validated the range.
func (m *Memory) Slice(addr uint16, n int) []byte {
	return m.data[int(addr) : int(addr)+n]
}

// Bytes returns the whole address space.
func (m *Memory) Bytes() []byte {
	return m.data[:]
}
