package emu

import "strings"

// Framebuffer dimensions.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
	DisplayCells  = DisplayWidth * DisplayHeight
)

// Framebuffer is the 64x32 monochrome display. Cells are stored row-major
// and hold 0 or 1.
type Framebuffer struct {
	cells [DisplayCells]uint8
}

// Index returns the cell index of (x, y) after wrapping both coordinates.
func Index(x, y int) int {
	x %= DisplayWidth
	if x < 0 {
		x += DisplayWidth
	}
	y %= DisplayHeight
	if y < 0 {
		y += DisplayHeight
	}
	return y*DisplayWidth + x
}

// At returns the cell value at (x, y). Coordinates wrap.
func (f *Framebuffer) At(x, y int) uint8 {
	return f.cells[Index(x, y)]
}

// Pixel reports whether the pixel at (x, y) is lit.
func (f *Framebuffer) Pixel(x, y int) bool {
	return f.At(x, y) != 0
}

// Cells returns the backing cells. The slice aliases the framebuffer.
func (f *Framebuffer) Cells() []uint8 {
	return f.cells[:]
}

// Clear turns every pixel off.
func (f *Framebuffer) Clear() {
	f.cells = [DisplayCells]uint8{}
}

// Lit returns the number of lit pixels.
func (f *Framebuffer) Lit() int {
	n := 0
	for _, c := range f.cells {
		n += int(c)
	}
	return n
}

// flip toggles (x, y) and reports whether a lit pixel was turned off.
func (f *Framebuffer) flip(x, y int) bool {
	i := Index(x, y)
	erased := f.cells[i] == 1
	f.cells[i] ^= 1
	return erased
}

// String renders the framebuffer with '#' for lit and '.' for dark pixels,
// one line per row.
func (f *Framebuffer) String() string {
	var sb strings.Builder
	sb.Grow((DisplayWidth + 1) * DisplayHeight)
	for y := 0; y < DisplayHeight; y++ {
		for x := 0; x < DisplayWidth; x++ {
			if f.cells[y*DisplayWidth+x] != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DisplayUnit implements the CHIP-8 graphics instructions.
type DisplayUnit struct {
	machine *Machine
}

// NewDisplayUnit creates a new DisplayUnit connected to the given machine.
func NewDisplayUnit(machine *Machine) *DisplayUnit {
	return &DisplayUnit{machine: machine}
}

// CLS clears the framebuffer and raises the draw flag.
func (d *DisplayUnit) CLS() {
	d.machine.Display.Clear()
	d.machine.RaiseDrawFlag()
}

// DRW XORs the n-byte sprite at I onto the framebuffer at (Vx, Vy).
// Each pixel wraps independently. VF is set when any lit pixel is erased.
// The sprite range is checked before anything is drawn.
func (d *DisplayUnit) DRW(x, y, n uint8) error {
	m := d.machine
	if err := m.Memory.CheckRange(m.I, int(n)); err != nil {
		return err
	}

	sprite := m.Memory.Slice(m.I, int(n))
	originX := int(m.ReadReg(x))
	originY := int(m.ReadReg(y))

	collision := false
	for row, bits := range sprite {
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			if m.Display.flip(originX+col, originY+row) {
				collision = true
			}
		}
	}

	m.SetFlag(collision)
	m.RaiseDrawFlag()
	return nil
}
