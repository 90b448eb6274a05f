// Package insts provides CHIP-8 instruction definitions and decoding.
package insts

// Op represents a CHIP-8 opcode.
type Op uint8

// CHIP-8 opcodes.
const (
	OpUnknown Op = iota
	OpSYS        // 0nnn
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1nnn
	OpCALL       // 2nnn
	OpSEImm      // 3xkk
	OpSNEImm     // 4xkk
	OpSEReg      // 5xy0
	OpLDImm      // 6xkk
	OpADDImm     // 7xkk
	OpLDReg      // 8xy0
	OpOR         // 8xy1
	OpAND        // 8xy2
	OpXOR        // 8xy3
	OpADDReg     // 8xy4
	OpSUB        // 8xy5
	OpSHR        // 8xy6
	OpSUBN       // 8xy7
	OpSHL        // 8xyE
	OpSNEReg     // 9xy0
	OpLDI        // Annn
	OpJPV0       // Bnnn
	OpRND        // Cxkk
	OpDRW        // Dxyn
	OpSKP        // Ex9E
	OpSKNP       // ExA1
	OpLDVxDT     // Fx07
	OpLDVxK      // Fx0A
	OpLDDTVx     // Fx15
	OpLDSTVx     // Fx18
	OpADDI       // Fx1E
	OpLDF        // Fx29
	OpLDB        // Fx33
	OpLDIVx      // Fx55
	OpLDVxI      // Fx65
)

var opNames = [...]string{
	OpUnknown: "???",
	OpSYS:     "SYS",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEImm:   "SE",
	OpSNEImm:  "SNE",
	OpSEReg:   "SE",
	OpLDImm:   "LD",
	OpADDImm:  "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD",
	OpJPV0:    "JP",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD",
	OpLDVxK:   "LD",
	OpLDDTVx:  "LD",
	OpLDSTVx:  "LD",
	OpADDI:    "ADD",
	OpLDF:     "LD",
	OpLDB:     "LD",
	OpLDIVx:   "LD",
	OpLDVxI:   "LD",
}

// String returns the assembler mnemonic of the opcode. Several opcodes
// share a mnemonic and differ only in their operands.
func (op Op) String() string {
	if int(op) >= len(opNames) {
		return opNames[OpUnknown]
	}
	return opNames[op]
}

// Class groups opcodes by the way they move the program counter.
type Class uint8

// Instruction classes.
const (
	ClassSequential Class = iota // PC += 2
	ClassJump                    // PC set explicitly
	ClassSkip                    // PC += 2 or 4
	ClassWait                    // PC held until a key press
)

// Class reports how the opcode advances the program counter.
func (op Op) Class() Class {
	switch op {
	case OpSYS, OpRET, OpJP, OpCALL, OpJPV0:
		return ClassJump
	case OpSEImm, OpSNEImm, OpSEReg, OpSNEReg, OpSKP, OpSKNP:
		return ClassSkip
	case OpLDVxK:
		return ClassWait
	default:
		return ClassSequential
	}
}

// Operands holds the fields of a 16-bit instruction word.
type Operands struct {
	Nibbles [4]uint8 // Nibbles[0] is the most significant
	NNN     uint16   // 12-bit address, word & 0x0FFF
	X       uint8    // register index, Nibbles[1]
	Y       uint8    // register index, Nibbles[2]
	KK      uint8    // 8-bit immediate, word & 0x00FF
	N       uint8    // 4-bit immediate (sprite height), Nibbles[3]
}

// DecodeOperands splits a word into its nibbles and derived operands.
// Every word decodes; the operands may be meaningless for a given opcode.
func DecodeOperands(word uint16) Operands {
	nibbles := [4]uint8{
		uint8(word >> 12 & 0xF),
		uint8(word >> 8 & 0xF),
		uint8(word >> 4 & 0xF),
		uint8(word & 0xF),
	}

	return Operands{
		Nibbles: nibbles,
		NNN:     word & 0x0FFF,
		X:       nibbles[1],
		Y:       nibbles[2],
		KK:      uint8(word & 0x00FF),
		N:       nibbles[3],
	}
}

// Instruction represents a decoded CHIP-8 instruction.
type Instruction struct {
	Operands

	Op   Op     // Operation code
	Word uint16 // Raw instruction word
}

// Decoder decodes CHIP-8 instruction words.
type Decoder struct{}

// NewDecoder creates a new CHIP-8 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 16-bit CHIP-8 instruction word.
// Words that match no opcode pattern decode with Op == OpUnknown.
func (d *Decoder) Decode(word uint16) *Instruction {
	inst := &Instruction{
		Operands: DecodeOperands(word),
		Word:     word,
	}
	inst.Op = d.classify(&inst.Operands, word)
	return inst
}

// DecodeBytes decodes the big-endian word formed by hi and lo.
func (d *Decoder) DecodeBytes(hi, lo byte) *Instruction {
	return d.Decode(uint16(hi)<<8 | uint16(lo))
}

func (d *Decoder) classify(ops *Operands, word uint16) Op {
	switch ops.Nibbles[0] {
	case 0x0:
		switch word {
		case 0x00E0:
			return OpCLS
		case 0x00EE:
			return OpRET
		}
		return OpSYS
	case 0x1:
		return OpJP
	case 0x2:
		return OpCALL
	case 0x3:
		return OpSEImm
	case 0x4:
		return OpSNEImm
	case 0x5:
		if ops.N == 0 {
			return OpSEReg
		}
	case 0x6:
		return OpLDImm
	case 0x7:
		return OpADDImm
	case 0x8:
		return d.classifyALU(ops.N)
	case 0x9:
		if ops.N == 0 {
			return OpSNEReg
		}
	case 0xA:
		return OpLDI
	case 0xB:
		return OpJPV0
	case 0xC:
		return OpRND
	case 0xD:
		return OpDRW
	case 0xE:
		switch ops.KK {
		case 0x9E:
			return OpSKP
		case 0xA1:
			return OpSKNP
		}
	case 0xF:
		return d.classifyMisc(ops.KK)
	}

	return OpUnknown
}

// classifyALU resolves the 8xyN register arithmetic group.
func (d *Decoder) classifyALU(n uint8) Op {
	switch n {
	case 0x0:
		return OpLDReg
	case 0x1:
		return OpOR
	case 0x2:
		return OpAND
	case 0x3:
		return OpXOR
	case 0x4:
		return OpADDReg
	case 0x5:
		return OpSUB
	case 0x6:
		return OpSHR
	case 0x7:
		return OpSUBN
	case 0xE:
		return OpSHL
	}
	return OpUnknown
}

// classifyMisc resolves the FxKK timer, keypad and memory group.
func (d *Decoder) classifyMisc(kk uint8) Op {
	switch kk {
	case 0x07:
		return OpLDVxDT
	case 0x0A:
		return OpLDVxK
	case 0x15:
		return OpLDDTVx
	case 0x18:
		return OpLDSTVx
	case 0x1E:
		return OpADDI
	case 0x29:
		return OpLDF
	case 0x33:
		return OpLDB
	case 0x55:
		return OpLDIVx
	case 0x65:
		return OpLDVxI
	}
	return OpUnknown
}
