// Package loader provides CHIP-8 ROM loading.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/c8sim/emu"
)

// ErrEmptyROM is returned for a ROM file with no bytes.
var ErrEmptyROM = errors.New("ROM file is empty")

// Program represents a ROM image ready to be copied to 0x200.
type Program struct {
	// Path is the file the image was read from.
	Path string
	// Data contains the raw program bytes.
	Data []byte
}

// Load reads a CHIP-8 ROM image from path.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ROM file: %w", err)
	}

	return FromBytes(path, data)
}

// FromBytes validates an in-memory ROM image.
func FromBytes(path string, data []byte) (*Program, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyROM)
	}
	if len(data) > emu.MaxProgramSize {
		return nil, fmt.Errorf("%s: %w", path,
			&emu.RomTooLargeError{Size: len(data), Max: emu.MaxProgramSize})
	}

	return &Program{Path: path, Data: data}, nil
}

// Title returns the file name without directory or extension.
func (p *Program) Title() string {
	base := filepath.Base(p.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Words returns the number of whole instruction words in the image.
func (p *Program) Words() int {
	return len(p.Data) / 2
}

// LoadInto copies the program into the emulator and points PC at it.
func (p *Program) LoadInto(e *emu.Emulator) error {
	if err := e.LoadProgram(p.Data); err != nil {
		return fmt.Errorf("failed to load %s: %w", p.Path, err)
	}
	return nil
}
