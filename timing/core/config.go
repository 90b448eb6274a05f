package core

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the rates and host settings of a run.
type Config struct {
	// CPUHz is the instruction rate. Default: 600.
	CPUHz int `json:"cpu_hz"`

	// TimerHz is the delay and sound timer rate. Default: 60.
	TimerHz int `json:"timer_hz"`

	// FrameHz is the rate at which frames are delivered to the host.
	// Default: 60.
	FrameHz int `json:"frame_hz"`

	// ToneHz is the buzzer frequency. Default: 440.
	ToneHz int `json:"tone_hz"`

	// SampleRate is the audio sample rate. Default: 44100.
	SampleRate int `json:"sample_rate"`

	// Volume is the buzzer amplitude in [0, 1]. Default: 0.25.
	Volume float64 `json:"volume"`

	// Scale is the window pixel size for graphical hosts. Default: 10.
	Scale int `json:"scale"`

	// KeyHoldFrames is how long a terminal key press stays down.
	// Default: 6.
	KeyHoldFrames int `json:"key_hold_frames"`

	// DecodeCacheSize is the number of code bytes covered by the decode
	// cache; 0 disables it. Default: 512.
	DecodeCacheSize int `json:"decode_cache_size"`
}

// DefaultConfig returns a Config with the conventional CHIP-8 rates.
func DefaultConfig() *Config {
	return &Config{
		CPUHz:           600,
		TimerHz:         60,
		FrameHz:         60,
		ToneHz:          440,
		SampleRate:      44100,
		Volume:          0.25,
		Scale:           10,
		KeyHoldFrames:   6,
		DecodeCacheSize: 512,
	}
}

// LoadConfig loads a Config from a JSON file. Missing fields keep their
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that all rates are usable.
func (c *Config) Validate() error {
	if c.CPUHz <= 0 {
		return fmt.Errorf("cpu_hz must be > 0")
	}
	if c.TimerHz <= 0 {
		return fmt.Errorf("timer_hz must be > 0")
	}
	if c.FrameHz <= 0 {
		return fmt.Errorf("frame_hz must be > 0")
	}
	if c.ToneHz <= 0 {
		return fmt.Errorf("tone_hz must be > 0")
	}
	if c.SampleRate < 2*c.ToneHz {
		return fmt.Errorf("sample_rate must be at least twice tone_hz")
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("volume must be within [0, 1]")
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be > 0")
	}
	if c.KeyHoldFrames < 0 {
		return fmt.Errorf("key_hold_frames must be >= 0")
	}
	if c.DecodeCacheSize < 0 || c.DecodeCacheSize%8 != 0 {
		return fmt.Errorf("decode_cache_size must be a non-negative multiple of 8")
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
