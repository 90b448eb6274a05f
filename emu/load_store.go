package emu

// LoadStoreUnit implements the CHIP-8 index register, memory and timer
// transfer instructions.
type LoadStoreUnit struct {
	machine *Machine
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given machine.
func NewLoadStoreUnit(machine *Machine) *LoadStoreUnit {
	return &LoadStoreUnit{machine: machine}
}

// LDI loads the index register: I = nnn
func (lsu *LoadStoreUnit) LDI(nnn uint16) {
	lsu.machine.I = nnn
}

// ADDI adds to the index register: I = I + Vx. VF is unchanged.
func (lsu *LoadStoreUnit) ADDI(x uint8) {
	lsu.machine.I += uint16(lsu.machine.ReadReg(x))
}

// LDF points I at the font glyph for the low nibble of Vx.
func (lsu *LoadStoreUnit) LDF(x uint8) {
	lsu.machine.I = GlyphAddress(lsu.machine.ReadReg(x))
}

// LDB stores the decimal digits of Vx at I, I+1 and I+2.
func (lsu *LoadStoreUnit) LDB(x uint8) error {
	m := lsu.machine
	if err := m.Memory.CheckRange(m.I, 3); err != nil {
		return err
	}

	v := m.ReadReg(x)
	out := m.Memory.Slice(m.I, 3)
	out[0] = v / 100
	out[1] = v / 10 % 10
	out[2] = v % 10
	return nil
}

// STRegs stores V0 through Vx at I. I is unchanged.
func (lsu *LoadStoreUnit) STRegs(x uint8) error {
	m := lsu.machine
	n := int(x&0xF) + 1
	if err := m.Memory.CheckRange(m.I, n); err != nil {
		return err
	}
	copy(m.Memory.Slice(m.I, n), m.V[:n])
	return nil
}

// LDRegs loads V0 through Vx from I. I is unchanged.
func (lsu *LoadStoreUnit) LDRegs(x uint8) error {
	m := lsu.machine
	n := int(x&0xF) + 1
	if err := m.Memory.CheckRange(m.I, n); err != nil {
		return err
	}
	copy(m.V[:n], m.Memory.Slice(m.I, n))
	return nil
}

// LDVxDT reads the delay timer: Vx = DT
func (lsu *LoadStoreUnit) LDVxDT(x uint8) {
	lsu.machine.WriteReg(x, lsu.machine.DT)
}

// LDDTVx sets the delay timer: DT = Vx
func (lsu *LoadStoreUnit) LDDTVx(x uint8) {
	lsu.machine.DT = lsu.machine.ReadReg(x)
}

// LDSTVx sets the sound timer: ST = Vx
func (lsu *LoadStoreUnit) LDSTVx(x uint8) {
	lsu.machine.ST = lsu.machine.ReadReg(x)
}
