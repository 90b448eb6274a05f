// Package emu provides functional CHIP-8 emulation.
package emu

import "math/rand/v2"

// ALU implements CHIP-8 register arithmetic and logic operations.
type ALU struct {
	machine *Machine
	rng     *rand.Rand
}

// NewALU creates a new ALU connected to the given machine. rng backs RND.
func NewALU(machine *Machine, rng *rand.Rand) *ALU {
	return &ALU{machine: machine, rng: rng}
}

// LDImm loads an immediate: Vx = kk
func (a *ALU) LDImm(x, kk uint8) {
	a.machine.WriteReg(x, kk)
}

// ADDImm adds an immediate without touching VF: Vx = Vx + kk
func (a *ALU) ADDImm(x, kk uint8) {
	a.machine.WriteReg(x, a.machine.ReadReg(x)+kk)
}

// LD copies a register: Vx = Vy
func (a *ALU) LD(x, y uint8) {
	a.machine.WriteReg(x, a.machine.ReadReg(y))
}

// OR performs bitwise or: Vx = Vx | Vy
func (a *ALU) OR(x, y uint8) {
	a.machine.WriteReg(x, a.machine.ReadReg(x)|a.machine.ReadReg(y))
}

// AND performs bitwise and: Vx = Vx & Vy
func (a *ALU) AND(x, y uint8) {
	a.machine.WriteReg(x, a.machine.ReadReg(x)&a.machine.ReadReg(y))
}

// XOR performs bitwise exclusive or: Vx = Vx ^ Vy
func (a *ALU) XOR(x, y uint8) {
	a.machine.WriteReg(x, a.machine.ReadReg(x)^a.machine.ReadReg(y))
}

// ADD adds with carry: Vx = Vx + Vy, VF = carry
func (a *ALU) ADD(x, y uint8) {
	sum := uint16(a.machine.ReadReg(x)) + uint16(a.machine.ReadReg(y))

	a.machine.WriteReg(x, uint8(sum))
	a.machine.SetFlag(sum > 0xFF)
}

// SUB subtracts with borrow: Vx = Vx - Vy, VF = Vx >= Vy
func (a *ALU) SUB(x, y uint8) {
	vx := a.machine.ReadReg(x)
	vy := a.machine.ReadReg(y)

	a.machine.WriteReg(x, vx-vy)
	a.machine.SetFlag(vx >= vy)
}

// SUBN performs reverse subtraction: Vx = Vy - Vx, VF = Vy >= Vx
func (a *ALU) SUBN(x, y uint8) {
	vx := a.machine.ReadReg(x)
	vy := a.machine.ReadReg(y)

	a.machine.WriteReg(x, vy-vx)
	a.machine.SetFlag(vy >= vx)
}

// SHR shifts right by one: Vx = Vx >> 1, VF = shifted-out bit
func (a *ALU) SHR(x uint8) {
	vx := a.machine.ReadReg(x)

	a.machine.WriteReg(x, vx>>1)
	a.machine.SetFlag(vx&0x01 != 0)
}

// SHL shifts left by one: Vx = Vx << 1, VF = shifted-out bit
func (a *ALU) SHL(x uint8) {
	vx := a.machine.ReadReg(x)

	a.machine.WriteReg(x, vx<<1)
	a.machine.SetFlag(vx&0x80 != 0)
}

// RND loads a masked random byte: Vx = rand() & kk
func (a *ALU) RND(x, kk uint8) {
	a.machine.WriteReg(x, uint8(a.rng.Uint64())&kk)
}
