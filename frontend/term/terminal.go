package term

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Terminal is a posix terminal switched between its original mode and
// raw mode for key-at-a-time input.
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr unix.Termios
	rawAttr unix.Termios
}

// Open prepares input and output for use as a raw-mode terminal. The
// terminal is left in its original mode until RawMode is called.
func Open(input, output *os.File) (*Terminal, error) {
	if input == nil || output == nil {
		return nil, fmt.Errorf("terminal requires an input and an output file")
	}

	t := &Terminal{input: input, output: output}
	if err := termios.Tcgetattr(input.Fd(), &t.canAttr); err != nil {
		return nil, fmt.Errorf("%s is not a terminal: %w", input.Name(), err)
	}
	t.rawAttr = t.canAttr
	termios.Cfmakeraw(&t.rawAttr)

	return t, nil
}

// Output returns the writer frames are drawn to.
func (t *Terminal) Output() io.Writer {
	return t.output
}

// RawMode puts the terminal into raw mode, clears it and hides the cursor.
func (t *Terminal) RawMode() error {
	if err := termios.Tcsetattr(t.input.Fd(), termios.TCSANOW, &t.rawAttr); err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	_, err := io.WriteString(t.output, clearScreen+hideCursor)
	return err
}

// Restore returns the terminal to the mode it had when opened.
func (t *Terminal) Restore() error {
	_, _ = io.WriteString(t.output, showCursor+"\r\n")
	if err := termios.Tcsetattr(t.input.Fd(), termios.TCSANOW, &t.canAttr); err != nil {
		return fmt.Errorf("failed to restore terminal: %w", err)
	}
	return nil
}

// Size returns the output terminal's size in characters.
func (t *Terminal) Size() (cols, rows int, err error) {
	ws, err := unix.IoctlGetWinsize(int(t.output.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read terminal size: %w", err)
	}
	return int(ws.Col), int(ws.Row), nil
}

// Fits reports whether a full frame fits in the terminal.
func (t *Terminal) Fits() bool {
	cols, rows, err := t.Size()
	return err == nil && cols >= 64 && rows >= Rows
}

// ReadKeys reads input bytes on a new goroutine and delivers them on the
// returned channel, which is closed when reading fails.
func (t *Terminal) ReadKeys() <-chan byte {
	return readBytes(t.input)
}

func readBytes(r io.Reader) <-chan byte {
	ch := make(chan byte, 16)
	go func() {
		defer close(ch)
		buf := make([]byte, 16)
		for {
			n, err := r.Read(buf)
			for _, b := range buf[:n] {
				ch <- b
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}
