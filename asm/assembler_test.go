package asm_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/asm"
	"github.com/sarchlab/c8sim/disasm"
	"github.com/sarchlab/c8sim/emu"
)

func assemble(source string) []byte {
	prog, err := asm.Assemble("", source)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return prog.Code
}

var _ = Describe("Assembler", func() {
	DescribeTable("instruction encodings",
		func(source string, expected uint16) {
			code := assemble(source)

			Expect(code).To(Equal([]byte{byte(expected >> 8), byte(expected)}))
		},
		Entry("CLS", "CLS", uint16(0x00E0)),
		Entry("RET", "ret", uint16(0x00EE)),
		Entry("SYS", "SYS $123", uint16(0x0123)),
		Entry("JP", "JP 0x345", uint16(0x1345)),
		Entry("JP V0", "JP V0, $234", uint16(0xB234)),
		Entry("CALL", "CALL #456", uint16(0x2456)),
		Entry("SE imm", "SE V1, 34", uint16(0x3122)),
		Entry("SNE imm", "SNE V1, $22", uint16(0x4122)),
		Entry("SE reg", "SE V1, V2", uint16(0x5120)),
		Entry("SNE reg", "SNE V1, V2", uint16(0x9120)),
		Entry("LD imm", "LD VA, %10101010", uint16(0x6AAA)),
		Entry("LD reg", "LD V1, V2", uint16(0x8120)),
		Entry("LD I", "LD I, $234", uint16(0xA234)),
		Entry("LD Vx, DT", "LD V1, DT", uint16(0xF107)),
		Entry("LD Vx, K", "LD V1, K", uint16(0xF10A)),
		Entry("LD DT", "LD DT, V1", uint16(0xF115)),
		Entry("LD ST", "LD ST, V1", uint16(0xF118)),
		Entry("LD F", "LD F, V1", uint16(0xF129)),
		Entry("LD B", "LD B, V1", uint16(0xF133)),
		Entry("LD [I]", "LD [I], V1", uint16(0xF155)),
		Entry("LD from [I]", "LD V1, [I]", uint16(0xF165)),
		Entry("ADD imm", "ADD V1, $22", uint16(0x7122)),
		Entry("ADD reg", "ADD V1, V2", uint16(0x8124)),
		Entry("ADD I", "ADD I, V1", uint16(0xF11E)),
		Entry("OR", "OR V1, V2", uint16(0x8121)),
		Entry("AND", "AND V1, V2", uint16(0x8122)),
		Entry("XOR", "XOR V1, V2", uint16(0x8123)),
		Entry("SUB", "SUB V1, V2", uint16(0x8125)),
		Entry("SHR", "SHR V1", uint16(0x8106)),
		Entry("SHR with Vy", "SHR V1, V2", uint16(0x8126)),
		Entry("SUBN", "SUBN V1, V2", uint16(0x8127)),
		Entry("SHL", "shl v1", uint16(0x810E)),
		Entry("RND", "RND V1, $0F", uint16(0xC10F)),
		Entry("DRW", "DRW V1, V2, 5", uint16(0xD125)),
		Entry("SKP", "SKP V1", uint16(0xE19E)),
		Entry("SKNP", "SKNP V1", uint16(0xE1A1)),
	)

	It("should resolve forward and backward labels", func() {
		prog, err := asm.Assemble("", `
start:	LD V0, 0      ; counter
loop:	ADD V0, 1
	SE V0, 10
	JP loop
	CALL done
	JP start
done:	RET
`)
		Expect(err).NotTo(HaveOccurred())

		Expect(prog.Labels).To(Equal(map[string]uint16{
			"start": 0x200,
			"loop":  0x202,
			"done":  0x20C,
		}))
		Expect(prog.Code).To(Equal([]byte{
			0x60, 0x00,
			0x70, 0x01,
			0x30, 0x0A,
			0x12, 0x02,
			0x22, 0x0C,
			0x12, 0x00,
			0x00, 0xEE,
		}))
	})

	It("should emit data directives", func() {
		prog, err := asm.Assemble("", "LD I, sprite\nsprite: db $F0, $90\ndw $1234, sprite")

		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Code).To(Equal([]byte{0xA2, 0x02, 0xF0, 0x90, 0x12, 0x34, 0x02, 0x02}))
	})

	It("should accept blank and comment-only lines", func() {
		code := assemble("; header\n\n   \nCLS ; clear\n")

		Expect(code).To(Equal([]byte{0x00, 0xE0}))
	})

	It("should produce a program the emulator runs", func() {
		code := assemble(`
	LD V0, 3
	LD V1, 4
	ADD V0, V1
	LD I, $300
	LD B, V0
end:	JP end
`)
		e := emu.NewEmulator()
		Expect(e.LoadProgram(code)).To(Succeed())
		for i := 0; i < 6; i++ {
			Expect(e.Step().Err).NotTo(HaveOccurred())
		}

		Expect(e.Machine().V[0]).To(Equal(uint8(7)))
		Expect(e.Memory().Slice(0x300, 3)).To(Equal([]byte{0, 0, 7}))
		Expect(e.Machine().PC).To(Equal(uint16(0x20A)))
	})

	It("should reassemble disassembler output", func() {
		code := []byte{
			0x00, 0xE0, 0x6A, 0x02, 0xA2, 0x0A, 0xDA, 0xB5,
			0xF1, 0x65, 0x81, 0x24, 0x12, 0x00, 0x51, 0x21,
		}

		var sb strings.Builder
		for _, line := range disasm.New().Disassemble(code, 0x200) {
			sb.WriteString(line.Text())
			sb.WriteByte('\n')
		}

		Expect(assemble(sb.String())).To(Equal(code))
	})

	Context("with errors", func() {
		DescribeTable("rejected sources",
			func(source, message string) {
				_, err := asm.Assemble("", source)

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring(message))
			},
			Entry("unknown mnemonic", "CLS\nFOO V1", "line 2: FOO: unknown mnemonic"),
			Entry("bad operands", "LD DT, 5", "line 1: LD: invalid operands"),
			Entry("byte out of range", "LD V1, 256", "byte $100 out of range"),
			Entry("address out of range", "JP $1000", "address $1000 out of range"),
			Entry("nibble out of range", "DRW V0, V1, 16", "nibble $10 out of range"),
			Entry("undefined label", "JP nowhere", `undefined label "nowhere"`),
			Entry("duplicate label", "a: CLS\na: CLS", `duplicate label "a"`),
			Entry("register as label", "v1: CLS", "is a register name"),
			Entry("empty db", "db", "db needs at least one value"),
		)

		It("should report the file name", func() {
			_, err := asm.Assemble("game.s", "\n\nJP nowhere")

			var asmErr *asm.Error
			Expect(err).To(BeAssignableToTypeOf(asmErr))
			Expect(err.Error()).To(Equal(`game.s:3: undefined label "nowhere"`))
		})

		It("should fail on a syntax error", func() {
			_, err := asm.Assemble("", "LD V1,, V2")

			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("ParseNumber", func() {
	DescribeTable("notations",
		func(s string, expected int) {
			n, err := asm.ParseNumber(s)

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(expected))
		},
		Entry("decimal", "42", 42),
		Entry("dollar hex", "$2A", 42),
		Entry("hash hex", "#2a", 42),
		Entry("0x hex", "0x2A", 42),
		Entry("binary", "%101010", 42),
	)

	It("should reject values beyond 16 bits", func() {
		_, err := asm.ParseNumber("$10000")

		Expect(err).To(HaveOccurred())
	})
})
