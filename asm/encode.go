package asm

import (
	"errors"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

type argKind uint8

const (
	argValue argKind = iota
	argV
	argI
	argIndirect
	argDT
	argST
	argK
	argF
	argB
)

var argNames = map[string]argKind{
	"I":  argI,
	"DT": argDT,
	"ST": argST,
	"K":  argK,
	"F":  argF,
	"B":  argB,
}

type arg struct {
	kind argKind
	n    int
	pos  lexer.Position
}

// register returns the index of a V0-VF register name.
func register(name string) (uint8, bool) {
	if len(name) != 2 || (name[0] != 'V' && name[0] != 'v') {
		return 0, false
	}
	n := strings.IndexByte("0123456789ABCDEF", upper(name[1]))
	if n < 0 {
		return 0, false
	}
	return uint8(n), true
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func isReserved(name string) bool {
	if _, ok := register(name); ok {
		return true
	}
	_, ok := argNames[strings.ToUpper(name)]
	return ok
}

func resolve(op *Operand, labels map[string]uint16) (arg, error) {
	switch {
	case op.Indirect:
		return arg{kind: argIndirect, pos: op.Pos}, nil

	case op.Number != nil:
		n, err := ParseNumber(*op.Number)
		if err != nil {
			return arg{}, errorf(op.Pos, "%v", err)
		}
		return arg{kind: argValue, n: n, pos: op.Pos}, nil
	}

	name := *op.Ident
	if x, ok := register(name); ok {
		return arg{kind: argV, n: int(x), pos: op.Pos}, nil
	}
	if kind, ok := argNames[strings.ToUpper(name)]; ok {
		return arg{kind: kind, pos: op.Pos}, nil
	}
	addr, ok := labels[name]
	if !ok {
		return arg{}, errorf(op.Pos, "undefined label %q", name)
	}
	return arg{kind: argValue, n: int(addr), pos: op.Pos}, nil
}

func match(args []arg, kinds ...argKind) bool {
	if len(args) != len(kinds) {
		return false
	}
	for i, k := range kinds {
		if args[i].kind != k {
			return false
		}
	}
	return true
}

func limit(a arg, max int, what string) (uint16, error) {
	if a.n > max {
		return 0, errorf(a.pos, "%s $%X out of range", what, a.n)
	}
	return uint16(a.n), nil
}

func word(w uint16) []byte {
	return []byte{byte(w >> 8), byte(w)}
}

func encode(in *Instr, labels map[string]uint16) ([]byte, error) {
	args := make([]arg, 0, len(in.Operands))
	for _, op := range in.Operands {
		a, err := resolve(op, labels)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}

	mnemonic := strings.ToUpper(in.Mnemonic)
	switch mnemonic {
	case "DB":
		return encodeData(args, 0xFF, 1)
	case "DW":
		return encodeData(args, 0xFFFF, 2)
	}

	w, err := encodeInstr(mnemonic, args)
	if err != nil {
		var asmErr *Error
		if errors.As(err, &asmErr) {
			return nil, asmErr
		}
		return nil, errorf(in.Pos, "%s: %v", in.Mnemonic, err)
	}
	return word(w), nil
}

func encodeData(args []arg, max, size int) ([]byte, error) {
	out := make([]byte, 0, len(args)*size)
	for _, a := range args {
		if a.kind != argValue {
			return nil, errorf(a.pos, "data value expected")
		}
		v, err := limit(a, max, "value")
		if err != nil {
			return nil, err
		}
		if size == 2 {
			out = append(out, word(v)...)
		} else {
			out = append(out, byte(v))
		}
	}
	return out, nil
}

type operandError string

func (e operandError) Error() string { return string(e) }

const errOperands = operandError("invalid operands")

// xy packs register operands into the second and third nibbles.
func xy(x, y arg) uint16 {
	return uint16(x.n)<<8 | uint16(y.n)<<4
}

func encodeInstr(mnemonic string, args []arg) (uint16, error) {
	switch mnemonic {
	case "CLS":
		if len(args) == 0 {
			return 0x00E0, nil
		}
	case "RET":
		if len(args) == 0 {
			return 0x00EE, nil
		}
	case "SYS", "CALL":
		if match(args, argValue) {
			nnn, err := limit(args[0], 0xFFF, "address")
			if mnemonic == "CALL" {
				nnn |= 0x2000
			}
			return nnn, err
		}
	case "JP":
		if match(args, argValue) {
			nnn, err := limit(args[0], 0xFFF, "address")
			return 0x1000 | nnn, err
		}
		if match(args, argV, argValue) && args[0].n == 0 {
			nnn, err := limit(args[1], 0xFFF, "address")
			return 0xB000 | nnn, err
		}
	case "SE", "SNE":
		imm, reg := uint16(0x3000), uint16(0x5000)
		if mnemonic == "SNE" {
			imm, reg = 0x4000, 0x9000
		}
		if match(args, argV, argValue) {
			kk, err := limit(args[1], 0xFF, "byte")
			return imm | uint16(args[0].n)<<8 | kk, err
		}
		if match(args, argV, argV) {
			return reg | xy(args[0], args[1]), nil
		}
	case "LD":
		return encodeLD(args)
	case "ADD":
		switch {
		case match(args, argV, argValue):
			kk, err := limit(args[1], 0xFF, "byte")
			return 0x7000 | uint16(args[0].n)<<8 | kk, err
		case match(args, argV, argV):
			return 0x8004 | xy(args[0], args[1]), nil
		case match(args, argI, argV):
			return 0xF01E | uint16(args[1].n)<<8, nil
		}
	case "OR", "AND", "XOR", "SUB", "SUBN":
		if match(args, argV, argV) {
			return 0x8000 | xy(args[0], args[1]) | aluCodes[mnemonic], nil
		}
	case "SHR", "SHL":
		code := aluCodes[mnemonic]
		if match(args, argV) {
			return 0x8000 | uint16(args[0].n)<<8 | code, nil
		}
		if match(args, argV, argV) {
			return 0x8000 | xy(args[0], args[1]) | code, nil
		}
	case "RND":
		if match(args, argV, argValue) {
			kk, err := limit(args[1], 0xFF, "byte")
			return 0xC000 | uint16(args[0].n)<<8 | kk, err
		}
	case "DRW":
		if match(args, argV, argV, argValue) {
			n, err := limit(args[2], 0xF, "nibble")
			return 0xD000 | xy(args[0], args[1]) | n, err
		}
	case "SKP":
		if match(args, argV) {
			return 0xE09E | uint16(args[0].n)<<8, nil
		}
	case "SKNP":
		if match(args, argV) {
			return 0xE0A1 | uint16(args[0].n)<<8, nil
		}
	default:
		return 0, operandError("unknown mnemonic")
	}
	return 0, errOperands
}

var aluCodes = map[string]uint16{
	"OR":   0x1,
	"AND":  0x2,
	"XOR":  0x3,
	"SUB":  0x5,
	"SHR":  0x6,
	"SUBN": 0x7,
	"SHL":  0xE,
}

func encodeLD(args []arg) (uint16, error) {
	if len(args) != 2 {
		return 0, errOperands
	}
	dst, src := args[0], args[1]
	x := uint16(dst.n) << 8

	switch {
	case match(args, argV, argValue):
		kk, err := limit(src, 0xFF, "byte")
		return 0x6000 | x | kk, err
	case match(args, argV, argV):
		return 0x8000 | xy(dst, src), nil
	case match(args, argI, argValue):
		nnn, err := limit(src, 0xFFF, "address")
		return 0xA000 | nnn, err
	case match(args, argV, argDT):
		return 0xF007 | x, nil
	case match(args, argV, argK):
		return 0xF00A | x, nil
	case match(args, argV, argIndirect):
		return 0xF065 | x, nil
	}

	// The remaining forms take the register as source.
	x = uint16(src.n) << 8
	switch {
	case match(args, argDT, argV):
		return 0xF015 | x, nil
	case match(args, argST, argV):
		return 0xF018 | x, nil
	case match(args, argF, argV):
		return 0xF029 | x, nil
	case match(args, argB, argV):
		return 0xF033 | x, nil
	case match(args, argIndirect, argV):
		return 0xF055 | x, nil
	}
	return 0, errOperands
}
