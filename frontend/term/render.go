// Package term is a text-mode host: it draws the framebuffer with
// half-block characters and reads the keypad from a raw-mode terminal.
package term

import (
	"bufio"
	"io"

	"github.com/sarchlab/c8sim/emu"
)

// ANSI control sequences.
const (
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	bell        = "\a"
)

// Rows is the number of text rows a frame occupies.
const Rows = emu.DisplayHeight / 2

// halfBlocks is indexed by top<<1 | bottom.
var halfBlocks = [4]string{" ", "▄", "▀", "█"}

// Render writes fb to w as Rows lines of half-block characters, each
// character covering two vertically adjacent pixels. The cursor is moved
// home first so successive frames overwrite each other.
func Render(w io.Writer, fb *emu.Framebuffer) error {
	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString(cursorHome)

	for y := 0; y < emu.DisplayHeight; y += 2 {
		for x := 0; x < emu.DisplayWidth; x++ {
			_, _ = bw.WriteString(halfBlocks[fb.At(x, y)<<1|fb.At(x, y+1)])
		}
		_, _ = bw.WriteString("\r\n")
	}

	return bw.Flush()
}
