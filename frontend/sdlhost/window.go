// Package sdlhost is a graphical host built on SDL2: a scaled window for the
// framebuffer, queued audio for the buzzer and keyboard input.
package sdlhost

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/sarchlab/c8sim/emu"
)

// Window draws frames into an SDL window. It implements core.FrameSink
// together with the speaker it owns.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	speaker  *Speaker
	scale    int32
	rects    []sdl.Rect
}

// NewWindow opens a hidden-until-drawn window sized for a scaled display.
// sdl.Init must have been called with INIT_VIDEO.
func NewWindow(title string, scale int, speaker *Speaker) (*Window, error) {
	if scale < 1 {
		scale = 1
	}
	w := &Window{
		speaker: speaker,
		scale:   int32(scale),
		rects:   make([]sdl.Rect, 0, emu.DisplayCells),
	}

	var err error
	w.window, err = sdl.CreateWindow(title,
		int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		emu.DisplayWidth*w.scale, emu.DisplayHeight*w.scale,
		uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}

	w.renderer, err = sdl.CreateRenderer(w.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		_ = w.window.Destroy()
		return nil, fmt.Errorf("sdl: %w", err)
	}

	return w, nil
}

// pixelRects appends one scaled rectangle per lit pixel to rects.
func pixelRects(rects []sdl.Rect, fb *emu.Framebuffer, scale int32) []sdl.Rect {
	rects = rects[:0]
	for y := 0; y < emu.DisplayHeight; y++ {
		for x := 0; x < emu.DisplayWidth; x++ {
			if !fb.Pixel(x, y) {
				continue
			}
			rects = append(rects, sdl.Rect{
				X: int32(x) * scale,
				Y: int32(y) * scale,
				W: scale,
				H: scale,
			})
		}
	}
	return rects
}

// Draw paints fb white on black and presents it.
func (w *Window) Draw(fb *emu.Framebuffer) error {
	if err := w.renderer.SetDrawColor(0, 0, 0, 255); err != nil {
		return err
	}
	if err := w.renderer.Clear(); err != nil {
		return err
	}

	w.rects = pixelRects(w.rects, fb, w.scale)
	if len(w.rects) > 0 {
		if err := w.renderer.SetDrawColor(255, 255, 255, 255); err != nil {
			return err
		}
		if err := w.renderer.FillRects(w.rects); err != nil {
			return err
		}
	}

	w.renderer.Present()
	return nil
}

// Frame redraws when the frame drew and feeds the speaker.
func (w *Window) Frame(fb *emu.Framebuffer, drew, sound bool) error {
	if drew {
		if err := w.Draw(fb); err != nil {
			return fmt.Errorf("sdl: %w", err)
		}
	}
	if w.speaker != nil {
		return w.speaker.Feed(sound)
	}
	return nil
}

// Destroy releases the renderer and window.
func (w *Window) Destroy() error {
	if err := w.renderer.Destroy(); err != nil {
		return err
	}
	return w.window.Destroy()
}
