// Package audio synthesizes the CHIP-8 buzzer and records it to WAV files.
package audio

import (
	"encoding/binary"
	"math"

	"github.com/sarchlab/c8sim/timing/core"
)

// Tone is a gated square wave generator.
type Tone struct {
	freq       int
	sampleRate int
	amplitude  int16

	// phase counts in units of 1/sampleRate of a period.
	phase int
	on    bool
}

// NewTone creates a tone from the buzzer settings in config.
func NewTone(config *core.Config) *Tone {
	return &Tone{
		freq:       config.ToneHz,
		sampleRate: config.SampleRate,
		amplitude:  int16(math.Round(config.Volume * math.MaxInt16)),
	}
}

// SampleRate returns the rate samples are produced at.
func (t *Tone) SampleRate() int {
	return t.sampleRate
}

// Amplitude returns the peak sample value.
func (t *Tone) Amplitude() int16 {
	return t.amplitude
}

// SetGate turns the tone on or off. The wave restarts at the beginning of
// a period each time it is turned on.
func (t *Tone) SetGate(on bool) {
	if on && !t.on {
		t.phase = 0
	}
	t.on = on
}

// Gate reports whether the tone is on.
func (t *Tone) Gate() bool {
	return t.on
}

// Samples returns the next n samples; silence while the gate is off.
func (t *Tone) Samples(n int) []int16 {
	out := make([]int16, n)
	if !t.on {
		return out
	}

	for i := range out {
		if t.phase < t.sampleRate/2 {
			out[i] = t.amplitude
		} else {
			out[i] = -t.amplitude
		}
		t.phase += t.freq
		if t.phase >= t.sampleRate {
			t.phase -= t.sampleRate
		}
	}
	return out
}

// Bytes returns the next n samples as little-endian signed 16-bit PCM.
func (t *Tone) Bytes(n int) []byte {
	samples := t.Samples(n)
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}
