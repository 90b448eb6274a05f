package sdlhost

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/sarchlab/c8sim/emu"
)

var _ = Describe("pixelRects", func() {
	It("should emit one scaled rectangle per lit pixel", func() {
		e := emu.NewEmulator()
		// LD V0, 62; LD I, 0x208; DRW V0, V0, 1; JP 0x206; DB 0xC0
		Expect(e.LoadProgram([]byte{
			0x60, 0x3E, 0xA2, 0x08, 0xD0, 0x01, 0x12, 0x06, 0xC0,
		})).To(Succeed())
		for i := 0; i < 3; i++ {
			Expect(e.Step().Err).NotTo(HaveOccurred())
		}

		rects := pixelRects(nil, e.Framebuffer(), 10)

		Expect(rects).To(Equal([]sdl.Rect{
			{X: 620, Y: 300, W: 10, H: 10},
			{X: 630, Y: 300, W: 10, H: 10},
		}))
	})

	It("should reuse the slice it is given", func() {
		rects := make([]sdl.Rect, 5, 16)

		rects = pixelRects(rects, &emu.Framebuffer{}, 4)

		Expect(rects).To(BeEmpty())
		Expect(cap(rects)).To(Equal(16))
	})
})
