package emu

// KeyCount is the number of keys on the hex keypad.
const KeyCount = 16

// Keypad holds the pressed state of the sixteen hex keys.
type Keypad struct {
	keys [KeyCount]bool
}

// Set records a key transition. Keys outside 0x0-0xF are ignored.
func (k *Keypad) Set(key uint8, pressed bool) {
	if key >= KeyCount {
		return
	}
	k.keys[key] = pressed
}

// Pressed reports whether key is held. Keys outside 0x0-0xF read as released.
func (k *Keypad) Pressed(key uint8) bool {
	if key >= KeyCount {
		return false
	}
	return k.keys[key]
}

// Reset releases every key.
func (k *Keypad) Reset() {
	k.keys = [KeyCount]bool{}
}

// InputUnit implements the keypad instructions, including the blocking
// key wait of Fx0A.
type InputUnit struct {
	machine *Machine

	waiting bool
	waitReg uint8
}

// NewInputUnit creates a new InputUnit connected to the given machine.
func NewInputUnit(machine *Machine) *InputUnit {
	return &InputUnit{machine: machine}
}

// SKP skips the next instruction if the key in Vx is pressed.
func (u *InputUnit) SKP(x uint8) bool {
	return u.machine.Keypad.Pressed(u.machine.ReadReg(x) & 0xF)
}

// SKNP skips the next instruction if the key in Vx is not pressed.
func (u *InputUnit) SKNP(x uint8) bool {
	return !u.SKP(x)
}

// WaitKey enters the awaiting-key state for Vx. PC is left on the Fx0A
// instruction until a key is pressed.
func (u *InputUnit) WaitKey(x uint8) {
	u.waiting = true
	u.waitReg = x
}

// Waiting reports whether the unit is blocked on Fx0A.
func (u *InputUnit) Waiting() bool {
	return u.waiting
}

// KeyEvent updates the keypad and, on a press while waiting, completes
// Fx0A by storing the key and stepping past the instruction.
// It returns true when a pending wait was satisfied.
func (u *InputUnit) KeyEvent(key uint8, pressed bool) bool {
	if key >= KeyCount {
		return false
	}
	u.machine.Keypad.Set(key, pressed)

	if !u.waiting || !pressed {
		return false
	}
	u.machine.WriteReg(u.waitReg, key)
	u.machine.PC += 2
	u.waiting = false
	return true
}

// Reset cancels any pending wait.
func (u *InputUnit) Reset() {
	u.waiting = false
	u.waitReg = 0
}
