package audio

import (
	"fmt"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/timing/core"
)

// wavFormatPCM is the WAVE format tag for integer PCM.
const wavFormatPCM = 1

// Recorder captures the buzzer frame by frame and writes it to disk as a
// mono 16-bit WAV file. Samples are held in memory until Close.
type Recorder struct {
	path    string
	tone    *Tone
	frameHz int
	carry   int
	buffer  []int
	closed  bool
}

// NewRecorder creates a recorder that writes to path on Close.
func NewRecorder(path string, config *core.Config) *Recorder {
	return &Recorder{
		path:    path,
		tone:    NewTone(config),
		frameHz: config.FrameHz,
	}
}

// Frame appends one frame of audio: the tone while sound is on, silence
// otherwise. It implements core.FrameSink.
func (r *Recorder) Frame(_ *emu.Framebuffer, _, sound bool) error {
	if r.closed {
		return fmt.Errorf("wav recorder: %s already closed", r.path)
	}

	total := r.carry + r.tone.SampleRate()
	n := total / r.frameHz
	r.carry = total % r.frameHz

	r.tone.SetGate(sound)
	for _, s := range r.tone.Samples(n) {
		r.buffer = append(r.buffer, int(s))
	}
	return nil
}

// SampleCount returns the number of samples recorded so far.
func (r *Recorder) SampleCount() int {
	return len(r.buffer)
}

// Duration returns the length of the recording.
func (r *Recorder) Duration() time.Duration {
	return time.Duration(len(r.buffer)) * time.Second / time.Duration(r.tone.SampleRate())
}

// Close writes the WAV file.
func (r *Recorder) Close() (rerr error) {
	if r.closed {
		return nil
	}
	r.closed = true

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("wav recorder: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wav recorder: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, r.tone.SampleRate(), 16, 1, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  r.tone.SampleRate(),
		},
		Data:           r.buffer,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav recorder: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav recorder: %w", err)
	}

	return nil
}
