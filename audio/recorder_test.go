package audio_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/wav"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/audio"
	"github.com/sarchlab/c8sim/timing/core"
)

var _ = Describe("Recorder", func() {
	var (
		tempDir  string
		path     string
		config   *core.Config
		recorder *audio.Recorder
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "recorder-test")
		Expect(err).NotTo(HaveOccurred())

		path = filepath.Join(tempDir, "out.wav")
		config = core.DefaultConfig()
		config.ToneHz = 1000
		config.SampleRate = 8000
		recorder = audio.NewRecorder(path, config)
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	It("should record a frame's worth of samples per frame", func() {
		Expect(recorder.Frame(nil, false, true)).To(Succeed())
		Expect(recorder.Frame(nil, false, false)).To(Succeed())
		Expect(recorder.Frame(nil, false, false)).To(Succeed())

		// 8000 / 60 = 133.33 samples per frame
		Expect(recorder.SampleCount()).To(Equal(400))
		Expect(recorder.Duration()).To(Equal(50 * time.Millisecond))
	})

	It("should write a mono 16-bit WAV on close", func() {
		Expect(recorder.Frame(nil, false, true)).To(Succeed())
		Expect(recorder.Frame(nil, false, false)).To(Succeed())
		Expect(recorder.Close()).To(Succeed())

		f, err := os.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = f.Close() }()

		dec := wav.NewDecoder(f)
		Expect(dec.IsValidFile()).To(BeTrue())

		buf, err := dec.FullPCMBuffer()
		Expect(err).NotTo(HaveOccurred())
		Expect(dec.SampleRate).To(Equal(uint32(8000)))
		Expect(dec.NumChans).To(Equal(uint16(1)))
		Expect(dec.BitDepth).To(Equal(uint16(16)))
		Expect(buf.Data).To(HaveLen(266))
		Expect(buf.Data[0]).To(Equal(8192))
		Expect(buf.Data[4]).To(Equal(-8192))
		Expect(buf.Data[200]).To(Equal(0))
	})

	It("should refuse frames after close", func() {
		Expect(recorder.Close()).To(Succeed())

		Expect(recorder.Frame(nil, false, true)).To(HaveOccurred())
		Expect(recorder.Close()).To(Succeed())
	})

	It("should report an unwritable path", func() {
		recorder = audio.NewRecorder(filepath.Join(tempDir, "missing", "out.wav"), config)

		Expect(recorder.Close()).To(MatchError(ContainSubstring("wav recorder")))
	})
})
