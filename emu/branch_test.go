package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/emu"
)

var _ = Describe("BranchUnit", func() {
	var (
		machine    *emu.Machine
		branchUnit *emu.BranchUnit
	)

	BeforeEach(func() {
		machine = emu.NewMachine()
		branchUnit = emu.NewBranchUnit(machine)
	})

	Describe("Jumps", func() {
		It("should jump to an absolute address", func() {
			branchUnit.JP(0x345)
			Expect(machine.PC).To(Equal(uint16(0x345)))
		})

		It("should offset by V0", func() {
			machine.V[0] = 0x10
			branchUnit.JPV0(0x300)
			Expect(machine.PC).To(Equal(uint16(0x310)))
		})
	})

	Describe("CALL and RET", func() {
		It("should push the call site and resume after it", func() {
			machine.PC = 0x204

			Expect(branchUnit.CALL(0x400)).To(Succeed())
			Expect(machine.SP).To(Equal(uint8(1)))
			Expect(machine.Stack[0]).To(Equal(uint16(0x204)))
			Expect(machine.PC).To(Equal(uint16(0x400)))

			Expect(branchUnit.RET()).To(Succeed())
			Expect(machine.SP).To(Equal(uint8(0)))
			Expect(machine.PC).To(Equal(uint16(0x206)))
		})

		It("should accept sixteen nested calls", func() {
			for i := 0; i < emu.StackDepth; i++ {
				Expect(branchUnit.CALL(0x300)).To(Succeed())
			}
			Expect(machine.SP).To(Equal(uint8(16)))
		})

		It("should overflow on the seventeenth call without changing state", func() {
			for i := 0; i < emu.StackDepth; i++ {
				Expect(branchUnit.CALL(0x300)).To(Succeed())
			}
			machine.PC = 0x222

			Expect(branchUnit.CALL(0x400)).To(MatchError(emu.ErrStackOverflow))
			Expect(machine.SP).To(Equal(uint8(16)))
			Expect(machine.PC).To(Equal(uint16(0x222)))
		})

		It("should underflow on return from an empty stack", func() {
			Expect(branchUnit.RET()).To(MatchError(emu.ErrStackUnderflow))
			Expect(machine.SP).To(Equal(uint8(0)))
			Expect(machine.PC).To(Equal(uint16(emu.ProgramStart)))
		})
	})

	Describe("Skips", func() {
		It("should add four when taken", func() {
			branchUnit.Skip(true)
			Expect(machine.PC).To(Equal(uint16(0x204)))
		})

		It("should add two when not taken", func() {
			branchUnit.Skip(false)
			Expect(machine.PC).To(Equal(uint16(0x202)))
		})

		It("should compare registers and immediates", func() {
			machine.V[1] = 0x22
			machine.V[2] = 0x22
			machine.V[3] = 0x23

			Expect(branchUnit.SEImm(1, 0x22)).To(BeTrue())
			Expect(branchUnit.SNEImm(1, 0x22)).To(BeFalse())
			Expect(branchUnit.SEReg(1, 2)).To(BeTrue())
			Expect(branchUnit.SNEReg(1, 3)).To(BeTrue())
			Expect(branchUnit.SEReg(1, 3)).To(BeFalse())
		})
	})
})
