package emu

// BranchUnit implements CHIP-8 control transfer: jumps, calls, returns
// and conditional skips.
type BranchUnit struct {
	machine *Machine
}

// NewBranchUnit creates a new BranchUnit connected to the given machine.
func NewBranchUnit(machine *Machine) *BranchUnit {
	return &BranchUnit{machine: machine}
}

// JP jumps to an absolute address. SYS is executed the same way.
func (b *BranchUnit) JP(nnn uint16) {
	b.machine.PC = nnn
}

// JPV0 jumps to nnn + V0.
func (b *BranchUnit) JPV0(nnn uint16) {
	b.machine.PC = nnn + uint16(b.machine.V[0])
}

// CALL pushes the address of the call instruction and jumps to nnn.
func (b *BranchUnit) CALL(nnn uint16) error {
	m := b.machine
	if int(m.SP) >= StackDepth {
		return ErrStackOverflow
	}
	m.Stack[m.SP] = m.PC
	m.SP++
	m.PC = nnn
	return nil
}

// RET pops a call-site address and resumes at the instruction after it.
func (b *BranchUnit) RET() error {
	m := b.machine
	if m.SP == 0 {
		return ErrStackUnderflow
	}
	m.SP--
	m.PC = m.Stack[m.SP] + 2
	return nil
}

// Skip advances PC past the next instruction when taken, else to it.
func (b *BranchUnit) Skip(taken bool) {
	if taken {
		b.machine.PC += 4
		return
	}
	b.machine.PC += 2
}

// SEImm reports whether Vx == kk.
func (b *BranchUnit) SEImm(x, kk uint8) bool {
	return b.machine.ReadReg(x) == kk
}

// SNEImm reports whether Vx != kk.
func (b *BranchUnit) SNEImm(x, kk uint8) bool {
	return b.machine.ReadReg(x) != kk
}

// SEReg reports whether Vx == Vy.
func (b *BranchUnit) SEReg(x, y uint8) bool {
	return b.machine.ReadReg(x) == b.machine.ReadReg(y)
}

// SNEReg reports whether Vx != Vy.
func (b *BranchUnit) SNEReg(x, y uint8) bool {
	return b.machine.ReadReg(x) != b.machine.ReadReg(y)
}
