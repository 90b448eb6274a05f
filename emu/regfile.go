package emu

// StackDepth is the number of return addresses the call stack holds.
const StackDepth = 16

// FlagReg is the index of VF.
const FlagReg = 0xF

// Machine holds the complete CHIP-8 machine state.
type Machine struct {
	// V holds the general-purpose registers V0-VF. VF doubles as the
	// carry, borrow and collision flag.
	V [16]uint8

	// I is the index register.
	I uint16

	// PC is the program counter.
	PC uint16

	// Stack holds return addresses; SP is the current depth.
	Stack [StackDepth]uint16
	SP    uint8

	// DT and ST are the delay and sound timers.
	DT uint8
	ST uint8

	Memory  *Memory
	Display *Framebuffer
	Keypad  *Keypad

	drawFlag bool
}

// NewMachine creates a machine in its power-on state.
func NewMachine() *Machine {
	m := &Machine{
		Memory:  NewMemory(),
		Display: &Framebuffer{},
		Keypad:  &Keypad{},
	}
	m.PC = ProgramStart
	return m
}

// Reset restores the power-on state: registers, timers, stack, memory,
// framebuffer and keypad are cleared and PC returns to ProgramStart.
func (m *Machine) Reset() {
	m.V = [16]uint8{}
	m.I = 0
	m.PC = ProgramStart
	m.Stack = [StackDepth]uint16{}
	m.SP = 0
	m.DT = 0
	m.ST = 0
	m.Memory.Reset()
	m.Display.Clear()
	m.Keypad.Reset()
	m.drawFlag = false
}

// ReadReg reads Vx. Only the low nibble of reg is used.
func (m *Machine) ReadReg(reg uint8) uint8 {
	return m.V[reg&0xF]
}

// WriteReg writes Vx. Only the low nibble of reg is used.
func (m *Machine) WriteReg(reg uint8, value uint8) {
	m.V[reg&0xF] = value
}

// SetFlag writes VF as 1 or 0.
func (m *Machine) SetFlag(set bool) {
	if set {
		m.V[FlagReg] = 1
		return
	}
	m.V[FlagReg] = 0
}

// RaiseDrawFlag marks the framebuffer as changed.
func (m *Machine) RaiseDrawFlag() {
	m.drawFlag = true
}

// DrawFlag reports whether the framebuffer changed since the last take.
func (m *Machine) DrawFlag() bool {
	return m.drawFlag
}

// TakeDrawFlag returns the draw flag and clears it.
func (m *Machine) TakeDrawFlag() bool {
	drew := m.drawFlag
	m.drawFlag = false
	return drew
}

// TickTimers decrements the delay and sound timers, clamping at zero.
func (m *Machine) TickTimers() {
	if m.DT > 0 {
		m.DT--
	}
	if m.ST > 0 {
		m.ST--
	}
}

// SoundActive reports whether the sound timer is running.
func (m *Machine) SoundActive() bool {
	return m.ST > 0
}
