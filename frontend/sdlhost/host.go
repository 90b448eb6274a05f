package sdlhost

import (
	"context"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/frontend"
	"github.com/sarchlab/c8sim/timing/core"
)

// KeyFor maps an SDL keycode to a hex key using the shared QWERTY layout.
func KeyFor(sym sdl.Keycode) (uint8, bool) {
	if sym < 0 || sym > 0x7F {
		return 0, false
	}
	return frontend.KeyFor(rune(sym))
}

func keyState(pressed bool) string {
	if pressed {
		return "down"
	}
	return "up"
}

// Host runs a core in an SDL window until the window closes or Esc is
// pressed.
type Host struct {
	logger *log.Logger
}

// NewHost creates a host. logger may be nil.
func NewHost(logger *log.Logger) *Host {
	return &Host{logger: logger}
}

// poll drains pending events into e and reports whether to quit.
func (h *Host) poll(e *emu.Emulator) bool {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			return true

		case *sdl.KeyboardEvent:
			if ev.Repeat != 0 {
				continue
			}
			if ev.Keysym.Sym == sdl.K_ESCAPE {
				return true
			}
			key, ok := KeyFor(ev.Keysym.Sym)
			if !ok {
				continue
			}
			pressed := ev.Type == sdl.KEYDOWN
			e.SetKey(key, pressed)
			if h.logger != nil {
				h.logger.Debug("key event", log.Uint8("key", key), log.String("state", keyState(pressed)))
			}
		}
	}
	return false
}

// Run paces c at frameHz until ctx is cancelled, the user quits or a frame
// fails. It must be called from the thread that initialized SDL.
func (h *Host) Run(ctx context.Context, c *core.Core, frameHz int) error {
	ticker := time.NewTicker(time.Second / time.Duration(frameHz))
	defer ticker.Stop()

	e := c.Emulator()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if h.poll(e) {
			return nil
		}
		if err := c.Tick(); err != nil {
			return err
		}
	}
}
