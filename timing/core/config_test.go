package core_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/timing/core"
)

var _ = Describe("Config", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "core-config-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	It("should have conventional defaults", func() {
		config := core.DefaultConfig()

		Expect(config.CPUHz).To(Equal(600))
		Expect(config.TimerHz).To(Equal(60))
		Expect(config.FrameHz).To(Equal(60))
		Expect(config.ToneHz).To(Equal(440))
		Expect(config.SampleRate).To(Equal(44100))
		Expect(config.Volume).To(Equal(0.25))
		Expect(config.Scale).To(Equal(10))
		Expect(config.Validate()).To(Succeed())
	})

	It("should keep defaults for fields missing from the file", func() {
		path := filepath.Join(tempDir, "config.json")
		Expect(os.WriteFile(path, []byte(`{"cpu_hz": 1000, "scale": 12}`), 0644)).To(Succeed())

		config, err := core.LoadConfig(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(config.CPUHz).To(Equal(1000))
		Expect(config.Scale).To(Equal(12))
		Expect(config.TimerHz).To(Equal(60))
	})

	It("should save a config that loads back", func() {
		path := filepath.Join(tempDir, "saved.json")
		config := core.DefaultConfig()
		config.ToneHz = 523

		Expect(config.SaveConfig(path)).To(Succeed())
		loaded, err := core.LoadConfig(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(config))
	})

	It("should report unreadable and malformed files", func() {
		_, err := core.LoadConfig(filepath.Join(tempDir, "missing.json"))
		Expect(err).To(MatchError(ContainSubstring("failed to read")))

		path := filepath.Join(tempDir, "bad.json")
		Expect(os.WriteFile(path, []byte(`{cpu_hz`), 0644)).To(Succeed())
		_, err = core.LoadConfig(path)
		Expect(err).To(MatchError(ContainSubstring("failed to parse")))
	})

	Describe("Validate", func() {
		var config *core.Config

		BeforeEach(func() {
			config = core.DefaultConfig()
		})

		It("should reject a zero instruction rate", func() {
			config.CPUHz = 0
			Expect(config.Validate()).To(MatchError(ContainSubstring("cpu_hz")))
		})

		It("should reject a zero frame rate", func() {
			config.FrameHz = 0
			Expect(config.Validate()).To(MatchError(ContainSubstring("frame_hz")))
		})

		It("should reject a sample rate below the tone's Nyquist rate", func() {
			config.SampleRate = 800
			Expect(config.Validate()).To(MatchError(ContainSubstring("sample_rate")))
		})

		It("should reject volume outside the unit range", func() {
			config.Volume = 1.5
			Expect(config.Validate()).To(MatchError(ContainSubstring("volume")))
		})

		It("should reject a decode cache size the cache cannot split", func() {
			config.DecodeCacheSize = 12
			Expect(config.Validate()).To(MatchError(ContainSubstring("decode_cache_size")))
		})
	})

	It("should clone independently", func() {
		config := core.DefaultConfig()
		clone := config.Clone()
		clone.CPUHz = 1

		Expect(config.CPUHz).To(Equal(600))
	})
})
