package term

import "github.com/sarchlab/c8sim/emu"

// Keys turns terminal key presses into held keypad keys. A terminal only
// reports presses, so each press holds its key down for a fixed number of
// frames.
type Keys struct {
	holdFrames int
	held       [emu.KeyCount]int
}

// NewKeys creates a key tracker that holds each press for holdFrames
// frames. A hold of zero still keeps the key down for one frame.
func NewKeys(holdFrames int) *Keys {
	if holdFrames < 1 {
		holdFrames = 1
	}
	return &Keys{holdFrames: holdFrames}
}

// Press starts or extends the hold of key and reports it to e.
func (k *Keys) Press(e *emu.Emulator, key uint8) {
	if key >= emu.KeyCount {
		return
	}
	k.held[key] = k.holdFrames
	e.SetKey(key, true)
}

// EndFrame counts down every held key and releases those that expire.
func (k *Keys) EndFrame(e *emu.Emulator) {
	for key, frames := range k.held {
		if frames == 0 {
			continue
		}
		k.held[key]--
		if k.held[key] == 0 {
			e.SetKey(uint8(key), false)
		}
	}
}

// Held reports whether key is currently held.
func (k *Keys) Held(key uint8) bool {
	return key < emu.KeyCount && k.held[key] > 0
}
