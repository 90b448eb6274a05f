package term

import (
	"context"
	"io"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/frontend"
	"github.com/sarchlab/c8sim/timing/core"
)

// ctrlC quits too, since raw mode turns off signal generation.
const ctrlC = 0x03

// Host draws frames to a terminal and feeds it key presses. It implements
// core.FrameSink.
type Host struct {
	out      io.Writer
	keys     *Keys
	logger   *log.Logger
	sounding bool
}

// NewHost creates a host drawing to out. logger may be nil.
func NewHost(out io.Writer, holdFrames int, logger *log.Logger) *Host {
	return &Host{
		out:    out,
		keys:   NewKeys(holdFrames),
		logger: logger,
	}
}

// Keys returns the host's key tracker.
func (h *Host) Keys() *Keys {
	return h.keys
}

// Frame redraws the terminal when the frame drew and rings the bell when
// the buzzer starts.
func (h *Host) Frame(fb *emu.Framebuffer, drew, sound bool) error {
	if drew {
		if err := Render(h.out, fb); err != nil {
			return err
		}
	}
	if sound && !h.sounding {
		if _, err := io.WriteString(h.out, bell); err != nil {
			return err
		}
	}
	h.sounding = sound
	return nil
}

// HandleInput applies one input byte and reports whether it asks to quit.
func (h *Host) HandleInput(e *emu.Emulator, b byte) (quit bool) {
	if b == frontend.Escape || b == ctrlC {
		return true
	}
	if key, ok := frontend.KeyFor(rune(b)); ok {
		h.keys.Press(e, key)
		if h.logger != nil {
			h.logger.Debug("key pressed", log.Uint8("key", key))
		}
	}
	return false
}

// Run paces c at frameHz against the wall clock until ctx is cancelled,
// the user quits, or a frame fails. Key bytes arrive on input.
func (h *Host) Run(ctx context.Context, c *core.Core, input <-chan byte, frameHz int) error {
	ticker := time.NewTicker(time.Second / time.Duration(frameHz))
	defer ticker.Stop()

	e := c.Emulator()
	for {
		select {
		case <-ctx.Done():
			return nil

		case b, ok := <-input:
			if !ok {
				input = nil
				continue
			}
			if h.HandleInput(e, b) {
				return nil
			}

		case <-ticker.C:
			if err := c.Tick(); err != nil {
				return err
			}
			h.keys.EndFrame(e)
		}
	}
}
