package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds the cost of each instruction group in scheduler
// cycles. The defaults charge one cycle per instruction, which makes a
// cost-weighted core behave exactly like an instruction-counting one.
type TimingConfig struct {
	// ALULatency covers register loads and arithmetic (6xkk, 7xkk, 8xyN).
	// Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// BranchLatency covers JP, CALL, RET, SYS and JP V0. Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`

	// SkipLatency covers SE, SNE, SKP and SKNP. Default: 1 cycle.
	SkipLatency uint64 `json:"skip_latency"`

	// IndexLatency covers LD I, ADD I and LD F. Default: 1 cycle.
	IndexLatency uint64 `json:"index_latency"`

	// MemoryLatency is the base cost of LD B, LD [I], Vx and LD Vx, [I].
	// Default: 1 cycle.
	MemoryLatency uint64 `json:"memory_latency"`

	// MemoryPerByte is added for each byte LD [I]/LD Vx, [I] move.
	// Default: 0 cycles.
	MemoryPerByte uint64 `json:"memory_per_byte"`

	// DrawLatency is the base cost of DRW. Default: 1 cycle.
	DrawLatency uint64 `json:"draw_latency"`

	// DrawPerRow is added for each sprite row DRW draws. Default: 0 cycles.
	DrawPerRow uint64 `json:"draw_per_row"`

	// ClearLatency is the cost of CLS. Default: 1 cycle.
	ClearLatency uint64 `json:"clear_latency"`

	// TimerLatency covers reads and writes of DT and ST. Default: 1 cycle.
	TimerLatency uint64 `json:"timer_latency"`

	// RandomLatency is the cost of RND. Default: 1 cycle.
	RandomLatency uint64 `json:"random_latency"`
}

// DefaultTimingConfig returns a TimingConfig charging one cycle per
// instruction.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:    1,
		BranchLatency: 1,
		SkipLatency:   1,
		IndexLatency:  1,
		MemoryLatency: 1,
		MemoryPerByte: 0,
		DrawLatency:   1,
		DrawPerRow:    0,
		ClearLatency:  1,
		TimerLatency:  1,
		RandomLatency: 1,
	}
}

// LoadConfig loads a TimingConfig from a JSON file.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that every base latency is > 0. Per-byte and per-row
// costs may be zero.
func (c *TimingConfig) Validate() error {
	if c.ALULatency == 0 {
		return fmt.Errorf("alu_latency must be > 0")
	}
	if c.BranchLatency == 0 {
		return fmt.Errorf("branch_latency must be > 0")
	}
	if c.SkipLatency == 0 {
		return fmt.Errorf("skip_latency must be > 0")
	}
	if c.IndexLatency == 0 {
		return fmt.Errorf("index_latency must be > 0")
	}
	if c.MemoryLatency == 0 {
		return fmt.Errorf("memory_latency must be > 0")
	}
	if c.DrawLatency == 0 {
		return fmt.Errorf("draw_latency must be > 0")
	}
	if c.ClearLatency == 0 {
		return fmt.Errorf("clear_latency must be > 0")
	}
	if c.TimerLatency == 0 {
		return fmt.Errorf("timer_latency must be > 0")
	}
	if c.RandomLatency == 0 {
		return fmt.Errorf("random_latency must be > 0")
	}
	return nil
}

// Clone returns a copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
