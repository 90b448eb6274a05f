package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/sarchlab/c8sim/emu"
)

// Error is an assembly error tied to a source position.
type Error struct {
	Pos lexer.Position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.Filename != "" {
		return fmt.Sprintf("%s:%d: %s", e.Pos.Filename, e.Pos.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Pos.Line, e.Msg)
}

func errorf(pos lexer.Position, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Program is assembled machine code.
type Program struct {
	// Code is loaded at emu.ProgramStart.
	Code []byte
	// Labels maps each label to its address.
	Labels map[string]uint16
}

// Assemble parses and assembles source.
func Assemble(filename, source string) (*Program, error) {
	file, err := Parse(filename, source)
	if err != nil {
		return nil, err
	}
	return AssembleFile(file)
}

// AssembleFile assembles a parsed file in two passes: the first assigns
// label addresses, the second encodes.
func AssembleFile(file *File) (*Program, error) {
	prog := &Program{Labels: make(map[string]uint16)}

	addr := emu.ProgramStart
	for _, line := range file.Lines {
		if line.Label != "" {
			name := strings.TrimSuffix(line.Label, ":")
			if _, ok := prog.Labels[name]; ok {
				return nil, errorf(line.Pos, "duplicate label %q", name)
			}
			if isReserved(name) {
				return nil, errorf(line.Pos, "label %q is a register name", name)
			}
			prog.Labels[name] = uint16(addr)
		}
		if line.Instr != nil {
			size, err := sizeOf(line.Instr)
			if err != nil {
				return nil, err
			}
			addr += size
		}
	}

	for _, line := range file.Lines {
		if line.Instr == nil {
			continue
		}
		code, err := encode(line.Instr, prog.Labels)
		if err != nil {
			return nil, err
		}
		prog.Code = append(prog.Code, code...)
	}

	if len(prog.Code) > emu.MaxProgramSize {
		return nil, fmt.Errorf("program is %d bytes, limit is %d", len(prog.Code), emu.MaxProgramSize)
	}
	return prog, nil
}

func sizeOf(in *Instr) (int, error) {
	switch strings.ToUpper(in.Mnemonic) {
	case "DB":
		if len(in.Operands) == 0 {
			return 0, errorf(in.Pos, "db needs at least one value")
		}
		return len(in.Operands), nil
	case "DW":
		if len(in.Operands) == 0 {
			return 0, errorf(in.Pos, "dw needs at least one value")
		}
		return 2 * len(in.Operands), nil
	}
	return 2, nil
}

// ParseNumber parses a numeric literal in any of the accepted notations.
func ParseNumber(s string) (int, error) {
	base := 10
	digits := s
	switch {
	case strings.HasPrefix(s, "$"), strings.HasPrefix(s, "#"):
		base, digits = 16, s[1:]
	case strings.HasPrefix(s, "%"):
		base, digits = 2, s[1:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base, digits = 16, s[2:]
	}

	n, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return int(n), nil
}
