// Package disasm renders CHIP-8 programs as assembly listings.
//
// Mnemonics come from the retrogolib CHIP-8 opcode tables; operands are
// formatted from the fields decoded by the insts package. Words that match
// no opcode are emitted as data.
package disasm

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"

	"github.com/sarchlab/c8sim/insts"
)

// Data directives used for undecodable words and a trailing odd byte.
const (
	DataWord = "dw"
	DataByte = "db"
)

// Line is one disassembled word.
type Line struct {
	Address  uint16
	Word     uint16
	Size     int // 2, or 1 for a trailing odd byte
	Mnemonic string
	Operands string
	Data     bool // true when the word did not decode
}

// Text returns the instruction text without address or raw bytes.
func (l Line) Text() string {
	if l.Operands == "" {
		return l.Mnemonic
	}
	return l.Mnemonic + " " + l.Operands
}

// String formats the line as "0200: 00E0  cls".
func (l Line) String() string {
	if l.Size == 1 {
		return fmt.Sprintf("%04X: %02X    %s", l.Address, l.Word, l.Text())
	}
	return fmt.Sprintf("%04X: %04X  %s", l.Address, l.Word, l.Text())
}

// Disassembler turns big-endian instruction words into listing lines.
type Disassembler struct {
	decoder *insts.Decoder
}

// New creates a disassembler.
func New() *Disassembler {
	return &Disassembler{decoder: insts.NewDecoder()}
}

// Mnemonic returns the table mnemonic for word, or false when no opcode
// pattern matches.
func Mnemonic(word uint16) (string, bool) {
	for _, op := range chip8.Opcodes[int(word>>12)] {
		if op.Instruction != nil && op.Info.Mask&word == op.Info.Value {
			return op.Instruction.Name, true
		}
	}
	return "", false
}

// Word disassembles a single instruction word located at addr.
func (d *Disassembler) Word(addr, word uint16) Line {
	line := Line{Address: addr, Word: word, Size: 2}

	inst := d.decoder.Decode(word)
	if inst.Op == insts.OpUnknown {
		return dataWord(line)
	}

	name, ok := Mnemonic(word)
	if !ok {
		name = strings.ToLower(inst.Op.String())
	}
	line.Mnemonic = name
	line.Operands = operands(inst)
	return line
}

// Disassemble walks data two bytes at a time starting at base. A trailing
// odd byte becomes a byte directive.
func (d *Disassembler) Disassemble(data []byte, base uint16) []Line {
	lines := make([]Line, 0, (len(data)+1)/2)
	for i := 0; i < len(data); i += 2 {
		addr := base + uint16(i)
		if i+1 == len(data) {
			lines = append(lines, Line{
				Address:  addr,
				Word:     uint16(data[i]),
				Size:     1,
				Mnemonic: DataByte,
				Operands: fmt.Sprintf("$%02X", data[i]),
				Data:     true,
			})
			break
		}
		lines = append(lines, d.Word(addr, uint16(data[i])<<8|uint16(data[i+1])))
	}
	return lines
}

// Listing returns the formatted lines joined by newlines.
func (d *Disassembler) Listing(data []byte, base uint16) string {
	var sb strings.Builder
	for _, line := range d.Disassemble(data, base) {
		sb.WriteString(line.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func dataWord(line Line) Line {
	line.Mnemonic = DataWord
	line.Operands = fmt.Sprintf("$%04X", line.Word)
	line.Data = true
	return line
}

func operands(inst *insts.Instruction) string {
	switch inst.Op {
	case insts.OpCLS, insts.OpRET:
		return ""
	case insts.OpSYS, insts.OpJP, insts.OpCALL:
		return fmt.Sprintf("$%03X", inst.NNN)
	case insts.OpJPV0:
		return fmt.Sprintf("V0, $%03X", inst.NNN)
	case insts.OpLDI:
		return fmt.Sprintf("I, $%03X", inst.NNN)
	case insts.OpSEImm, insts.OpSNEImm, insts.OpLDImm, insts.OpADDImm, insts.OpRND:
		return fmt.Sprintf("V%X, $%02X", inst.X, inst.KK)
	case insts.OpSEReg, insts.OpSNEReg, insts.OpLDReg, insts.OpOR, insts.OpAND,
		insts.OpXOR, insts.OpADDReg, insts.OpSUB, insts.OpSUBN:
		return fmt.Sprintf("V%X, V%X", inst.X, inst.Y)
	case insts.OpSHR, insts.OpSHL, insts.OpSKP, insts.OpSKNP:
		return fmt.Sprintf("V%X", inst.X)
	case insts.OpDRW:
		return fmt.Sprintf("V%X, V%X, $%X", inst.X, inst.Y, inst.N)
	case insts.OpLDVxDT:
		return fmt.Sprintf("V%X, DT", inst.X)
	case insts.OpLDVxK:
		return fmt.Sprintf("V%X, K", inst.X)
	case insts.OpLDDTVx:
		return fmt.Sprintf("DT, V%X", inst.X)
	case insts.OpLDSTVx:
		return fmt.Sprintf("ST, V%X", inst.X)
	case insts.OpADDI:
		return fmt.Sprintf("I, V%X", inst.X)
	case insts.OpLDF:
		return fmt.Sprintf("F, V%X", inst.X)
	case insts.OpLDB:
		return fmt.Sprintf("B, V%X", inst.X)
	case insts.OpLDIVx:
		return fmt.Sprintf("[I], V%X", inst.X)
	case insts.OpLDVxI:
		return fmt.Sprintf("V%X, [I]", inst.X)
	}
	return ""
}
