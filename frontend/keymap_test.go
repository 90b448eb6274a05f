package frontend_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/frontend"
)

var _ = Describe("Keymap", func() {
	It("should map the QWERTY block onto the hex keypad", func() {
		layout := "1234qwerasdfzxcv"
		want := []uint8{
			0x1, 0x2, 0x3, 0xC,
			0x4, 0x5, 0x6, 0xD,
			0x7, 0x8, 0x9, 0xE,
			0xA, 0x0, 0xB, 0xF,
		}

		for i, r := range layout {
			key, ok := frontend.KeyFor(r)
			Expect(ok).To(BeTrue(), string(r))
			Expect(key).To(Equal(want[i]), string(r))
		}
	})

	It("should ignore case", func() {
		key, ok := frontend.KeyFor('V')
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal(uint8(0xF)))
	})

	It("should reject unmapped keys", func() {
		_, ok := frontend.KeyFor('p')
		Expect(ok).To(BeFalse())
	})
})
