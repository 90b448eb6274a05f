package loader_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/loader"
)

var _ = Describe("ROM Loader", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "rom-loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	writeROM := func(name string, data []byte) string {
		path := filepath.Join(tempDir, name)
		ExpectWithOffset(1, os.WriteFile(path, data, 0644)).To(Succeed())
		return path
	}

	Describe("Load", func() {
		Context("with a valid ROM", func() {
			var prog *loader.Program

			BeforeEach(func() {
				path := writeROM("maze.ch8", []byte{0x60, 0x05, 0x12, 0x00})

				var err error
				prog, err = loader.Load(path)
				Expect(err).NotTo(HaveOccurred())
			})

			It("should keep the bytes", func() {
				Expect(prog.Data).To(Equal([]byte{0x60, 0x05, 0x12, 0x00}))
				Expect(prog.Words()).To(Equal(2))
			})

			It("should derive a title from the file name", func() {
				Expect(prog.Title()).To(Equal("maze"))
			})

			It("should load into an emulator at 0x200", func() {
				e := emu.NewEmulator()
				Expect(prog.LoadInto(e)).To(Succeed())

				Expect(e.Memory().Bytes()[0x200:0x204]).To(Equal([]byte{0x60, 0x05, 0x12, 0x00}))
				Expect(e.Machine().PC).To(Equal(uint16(0x200)))
			})
		})

		Context("with an invalid file", func() {
			It("should return error for non-existent file", func() {
				_, err := loader.Load("/nonexistent/path/to/rom.ch8")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("failed to open"))
			})

			It("should return error for empty file", func() {
				path := writeROM("empty.ch8", []byte{})

				_, err := loader.Load(path)
				Expect(errors.Is(err, loader.ErrEmptyROM)).To(BeTrue())
			})

			It("should return error for an oversized file", func() {
				path := writeROM("huge.ch8", make([]byte, emu.MaxProgramSize+1))

				_, err := loader.Load(path)

				var tooLarge *emu.RomTooLargeError
				Expect(errors.As(err, &tooLarge)).To(BeTrue())
				Expect(tooLarge.Max).To(Equal(emu.MaxProgramSize))
			})
		})
	})

	It("should accept a ROM that fills memory", func() {
		prog, err := loader.FromBytes("full.ch8", make([]byte, emu.MaxProgramSize))

		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Title()).To(Equal("full"))
	})
})
