package sdlhost

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/sarchlab/c8sim/audio"
	"github.com/sarchlab/c8sim/timing/core"
)

// queueFrames is how many frames of audio may sit in the device queue.
const queueFrames = 3

// Speaker plays the buzzer tone through a queued SDL audio device. One
// frame of samples is queued per frame; the queue is topped up only while
// it holds less than queueFrames frames so latency stays bounded.
type Speaker struct {
	id       sdl.AudioDeviceID
	tone     *audio.Tone
	perFrame int
	carry    int
	frameHz  int
}

// OpenSpeaker opens the default output device for signed 16-bit mono at the
// configured sample rate. sdl.Init must have been called with INIT_AUDIO.
func OpenSpeaker(config *core.Config) (*Speaker, error) {
	tone := audio.NewTone(config)

	spec := &sdl.AudioSpec{
		Freq:     int32(tone.SampleRate()),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  1024,
	}

	var actual sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, spec, &actual, 0)
	if err != nil {
		return nil, fmt.Errorf("sdl audio: %w", err)
	}
	sdl.PauseAudioDevice(id, false)

	return &Speaker{
		id:       id,
		tone:     tone,
		perFrame: tone.SampleRate() / config.FrameHz,
		frameHz:  config.FrameHz,
	}, nil
}

// samples returns the number of samples owed for the next frame.
func (s *Speaker) samples() int {
	total := s.carry + s.tone.SampleRate()
	s.carry = total % s.frameHz
	return total / s.frameHz
}

// Feed gates the tone and queues one frame of audio.
func (s *Speaker) Feed(sound bool) error {
	if sound != s.tone.Gate() {
		s.tone.SetGate(sound)
	}

	n := s.samples()
	if sdl.GetQueuedAudioSize(s.id) > uint32(queueFrames*s.perFrame*2) {
		return nil
	}
	if err := sdl.QueueAudio(s.id, s.tone.Bytes(n)); err != nil {
		return fmt.Errorf("sdl audio: %w", err)
	}
	return nil
}

// Close stops playback and closes the device.
func (s *Speaker) Close() {
	sdl.ClearQueuedAudio(s.id)
	sdl.CloseAudioDevice(s.id)
}
