package emu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/timing/cache"
)

var _ = Describe("Emulator", func() {
	var e *emu.Emulator

	BeforeEach(func() {
		e = emu.NewEmulator(emu.WithRandomSource(constSource(0x5A)))
	})

	load := func(words ...uint16) {
		ExpectWithOffset(1, e.LoadProgram(program(words...))).To(Succeed())
	}

	step := func(n int) {
		for i := 0; i < n; i++ {
			r := e.Step()
			ExpectWithOffset(1, r.Err).NotTo(HaveOccurred())
		}
	}

	Describe("Creation", func() {
		It("should start at the program origin with zeroed state", func() {
			m := e.Machine()

			Expect(m.PC).To(Equal(uint16(0x200)))
			Expect(m.SP).To(Equal(uint8(0)))
			Expect(m.I).To(Equal(uint16(0)))
			Expect(m.V).To(Equal([16]uint8{}))
			Expect(e.Framebuffer().Lit()).To(Equal(0))
			Expect(e.Memory().Bytes()[0]).To(Equal(uint8(0xF0)))
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
		})

		It("should drop the old program's tail when a shorter one is loaded", func() {
			// LD V0, 1; LD V1, 2; LD V2, 3
			load(0x6001, 0x6102, 0x6203)
			step(1)
			// CLS
			load(0x00E0)

			Expect(e.Machine().PC).To(Equal(uint16(0x200)))
			Expect(e.Memory().Bytes()[0x200:0x206]).To(Equal([]byte{0x00, 0xE0, 0, 0, 0, 0}))

			e.Reset()
			Expect(e.Memory().Bytes()[0x202:0x206]).To(Equal([]byte{0, 0, 0, 0}))
		})
	})

	Describe("Arithmetic programs", func() {
		It("should add immediates with wraparound", func() {
			// LD V1, 0x90; ADD V1, 0x90
			load(0x6190, 0x7190)
			step(2)

			Expect(e.Machine().V[1]).To(Equal(uint8(0x20)))
			Expect(e.Machine().PC).To(Equal(uint16(0x204)))
		})

		It("should set carry on register add", func() {
			// LD V1, 200; LD V2, 200; ADD V1, V2
			load(0x61C8, 0x62C8, 0x8124)
			step(3)

			Expect(e.Machine().V[1]).To(Equal(uint8(144)))
			Expect(e.Machine().V[0xF]).To(Equal(uint8(1)))
		})

		It("should wrap subtraction and clear VF on borrow", func() {
			// LD V1, 25; LD V2, 100; SUB V1, V2
			load(0x6119, 0x6264, 0x8125)
			step(3)

			Expect(e.Machine().V[1]).To(Equal(uint8(181)))
			Expect(e.Machine().V[0xF]).To(Equal(uint8(0)))
		})

		It("should store BCD", func() {
			// LD VB, 123; LD I, 100; LD B, VB
			load(0x6B7B, 0xA064, 0xFB33)
			step(3)

			Expect(e.Memory().Bytes()[100:103]).To(Equal([]byte{1, 2, 3}))
		})

		It("should mask RND with the configured source", func() {
			// RND V0, 0x0F
			load(0xC00F)
			step(1)

			Expect(e.Machine().V[0]).To(Equal(uint8(0x0A)))
		})
	})

	Describe("Control flow", func() {
		It("should skip when the comparison holds", func() {
			// LD V0, 5; SE V0, 5
			load(0x6005, 0x3005)
			step(2)

			Expect(e.Machine().PC).To(Equal(uint16(0x206)))
		})

		It("should not skip when the comparison fails", func() {
			// LD V0, 5; SE V0, 6
			load(0x6005, 0x3006)
			step(2)

			Expect(e.Machine().PC).To(Equal(uint16(0x204)))
		})

		It("should jump through SYS", func() {
			load(0x0300)
			step(1)

			Expect(e.Machine().PC).To(Equal(uint16(0x300)))
		})

		It("should jump offset by V0", func() {
			// LD V0, 4; JP V0, 0x300
			load(0x6004, 0xB300)
			step(2)

			Expect(e.Machine().PC).To(Equal(uint16(0x304)))
		})

		It("should return to the instruction after the call", func() {
			// CALL 0x204; (skipped word); RET
			load(0x2204, 0x0000, 0x00EE)
			step(1)
			Expect(e.Machine().SP).To(Equal(uint8(1)))
			Expect(e.Machine().PC).To(Equal(uint16(0x204)))

			step(1)
			Expect(e.Machine().SP).To(Equal(uint8(0)))
			Expect(e.Machine().PC).To(Equal(uint16(0x202)))
		})

		It("should overflow on the seventeenth nested call", func() {
			// CALL 0x200
			load(0x2200)
			step(16)

			r := e.Step()
			Expect(r.Err).To(MatchError(emu.ErrStackOverflow))
			Expect(e.Machine().SP).To(Equal(uint8(16)))
			Expect(e.Machine().PC).To(Equal(uint16(0x200)))
		})

		It("should underflow on return from an empty stack", func() {
			load(0x00EE)

			r := e.Step()
			Expect(r.Err).To(MatchError(emu.ErrStackUnderflow))
		})
	})

	Describe("Errors", func() {
		It("should report invalid opcodes with word and PC", func() {
			load(0x5121)

			r := e.Step()

			var invalid *emu.InvalidOpcodeError
			Expect(errors.As(r.Err, &invalid)).To(BeTrue())
			Expect(invalid.Word).To(Equal(uint16(0x5121)))
			Expect(invalid.PC).To(Equal(uint16(0x200)))
			Expect(e.Machine().PC).To(Equal(uint16(0x200)))
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
		})

		It("should leave timers untouched on a failed step", func() {
			load(0x5121)
			e.Machine().DT = 3
			e.Machine().ST = 3

			Expect(e.Step().Err).To(HaveOccurred())
			Expect(e.Machine().DT).To(Equal(uint8(3)))
			Expect(e.Machine().ST).To(Equal(uint8(3)))
		})

		It("should reject a fetch past the end of memory", func() {
			e.Machine().PC = 0xFFF

			r := e.Step()

			var oob *emu.OutOfBoundsError
			Expect(errors.As(r.Err, &oob)).To(BeTrue())
			Expect(oob.Address).To(Equal(0xFFF))
		})

		It("should reject oversized programs", func() {
			err := e.LoadProgram(make([]byte, emu.MaxProgramSize+1))

			var tooLarge *emu.RomTooLargeError
			Expect(errors.As(err, &tooLarge)).To(BeTrue())
		})

		It("should stop at the instruction limit", func() {
			e = emu.NewEmulator(emu.WithMaxInstructions(2))
			// JP 0x200
			load(0x1200)
			step(2)

			Expect(e.Step().Err).To(MatchError(emu.ErrMaxInstructions))
		})
	})

	Describe("Timers", func() {
		It("should tick once per step when coupled", func() {
			// LD V0, 5; LD DT, V0; LD ST, V0
			load(0x6005, 0xF015, 0xF018)
			step(3)

			Expect(e.Machine().DT).To(Equal(uint8(3)))
			Expect(e.Machine().ST).To(Equal(uint8(4)))
			Expect(e.IsSoundActive()).To(BeTrue())
		})

		It("should only tick on request when decoupled", func() {
			e = emu.NewEmulator(emu.WithDecoupledTimers())
			load(0x6005, 0xF015, 0xF018)
			step(3)

			Expect(e.Machine().DT).To(Equal(uint8(5)))
			e.TickTimers()
			Expect(e.Machine().DT).To(Equal(uint8(4)))
			Expect(e.Machine().ST).To(Equal(uint8(4)))
		})

		It("should clamp at zero", func() {
			e.TickTimers()

			Expect(e.Machine().DT).To(Equal(uint8(0)))
			Expect(e.IsSoundActive()).To(BeFalse())
		})

		It("should read the delay timer back", func() {
			e = emu.NewEmulator(emu.WithDecoupledTimers())
			// LD V0, 9; LD DT, V0; LD V1, DT
			load(0x6009, 0xF015, 0xF107)
			step(3)

			Expect(e.Machine().V[1]).To(Equal(uint8(9)))
		})
	})

	Describe("Drawing", func() {
		It("should draw a glyph and raise the draw flag", func() {
			// LD V0, 0; LD F, V0; DRW V0, V0, 5
			load(0x6000, 0xF029, 0xD005)
			step(2)

			r := e.Step()
			Expect(r.Err).NotTo(HaveOccurred())
			Expect(r.Drew).To(BeTrue())
			Expect(e.Framebuffer().Lit()).To(Equal(14))
			Expect(e.Machine().V[0xF]).To(Equal(uint8(0)))
			Expect(e.TakeDrawFlag()).To(BeTrue())
			Expect(e.TakeDrawFlag()).To(BeFalse())
		})

		It("should restore the screen on a repeated draw", func() {
			// LD F, V0; DRW V0, V0, 5; DRW V0, V0, 5
			load(0xF029, 0xD005, 0xD005)
			step(3)

			Expect(e.Framebuffer().Lit()).To(Equal(0))
			Expect(e.Machine().V[0xF]).To(Equal(uint8(1)))
		})

		It("should clear the screen", func() {
			// LD F, V0; DRW V0, V0, 5; CLS
			load(0xF029, 0xD005, 0x00E0)
			step(2)
			e.TakeDrawFlag()

			r := e.Step()
			Expect(r.Drew).To(BeTrue())
			Expect(e.Framebuffer().Lit()).To(Equal(0))
			Expect(e.TakeDrawFlag()).To(BeTrue())
		})
	})

	Describe("Keypad", func() {
		It("should skip when the key is held", func() {
			// LD V0, 0xA; SKP V0
			load(0x600A, 0xE09E)
			e.SetKey(0xA, true)
			step(2)

			Expect(e.Machine().PC).To(Equal(uint16(0x206)))
		})

		It("should skip when the key is not held", func() {
			// LD V0, 0xA; SKNP V0
			load(0x600A, 0xE0A1)
			step(2)

			Expect(e.Machine().PC).To(Equal(uint16(0x206)))
		})

		It("should ignore out-of-range keys", func() {
			e.SetKey(0x20, true)

			Expect(e.Machine().Keypad.Pressed(0x20)).To(BeFalse())
		})

		Context("when blocked on a key", func() {
			BeforeEach(func() {
				// LD V0, 3; LD DT, V0; LD V5, K
				load(0x6003, 0xF015, 0xF50A)
				step(3)
			})

			It("should not fetch while waiting but keep ticking timers", func() {
				Expect(e.Waiting()).To(BeTrue())
				Expect(e.Machine().PC).To(Equal(uint16(0x204)))
				dt := e.Machine().DT

				r := e.Step()
				Expect(r.Waiting).To(BeTrue())
				Expect(r.Err).NotTo(HaveOccurred())
				Expect(e.Machine().PC).To(Equal(uint16(0x204)))
				Expect(e.Machine().DT).To(Equal(dt - 1))
			})

			It("should resume on a key press", func() {
				e.SetKey(0xC, true)

				Expect(e.Waiting()).To(BeFalse())
				Expect(e.Machine().V[5]).To(Equal(uint8(0xC)))
				Expect(e.Machine().PC).To(Equal(uint16(0x206)))
			})

			It("should return from Run", func() {
				Expect(e.Run()).To(Succeed())
				Expect(e.Waiting()).To(BeTrue())
			})
		})
	})

	Describe("Run", func() {
		It("should halt with the failing step's error", func() {
			// LD V0, 1; invalid
			load(0x6001, 0xFFFF)

			Expect(e.Run()).To(HaveOccurred())
			Expect(e.Machine().V[0]).To(Equal(uint8(1)))
			Expect(e.InstructionCount()).To(Equal(uint64(1)))
		})
	})

	Describe("Reset", func() {
		It("should restore power-on state and reload the program", func() {
			// LD V0, 7; LD F, V0; DRW V0, V0, 5
			load(0x6007, 0xF029, 0xD005)
			step(3)
			e.SetKey(2, true)

			e.Reset()

			m := e.Machine()
			Expect(m.PC).To(Equal(uint16(0x200)))
			Expect(m.V).To(Equal([16]uint8{}))
			Expect(m.I).To(Equal(uint16(0)))
			Expect(e.Framebuffer().Lit()).To(Equal(0))
			Expect(m.Keypad.Pressed(2)).To(BeFalse())
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
			Expect(e.Memory().Bytes()[0x200:0x202]).To(Equal([]byte{0x60, 0x07}))
		})
	})
})

var _ = Describe("Emulator with a decode cache", func() {
	It("should execute loops through cached instructions", func() {
		dc := cache.New(cache.DefaultConfig())
		e := emu.NewEmulator(emu.WithInstructionDecoder(dc))
		// LD V0, 0; ADD V0, 1; SE V0, 10; JP 0x202
		Expect(e.LoadProgram(program(0x6000, 0x7001, 0x300A, 0x1202))).To(Succeed())

		for i := 0; i < 1+3*9+2; i++ {
			Expect(e.Step().Err).NotTo(HaveOccurred())
		}

		Expect(e.Machine().V[0]).To(Equal(uint8(10)))
		Expect(e.Machine().PC).To(Equal(uint16(0x208)))
		Expect(dc.Stats().Hits).To(BeNumerically(">", 0))
	})
})
