// Package core provides the fixed-rate scheduler that drives an emulator.
// It runs instructions, timer ticks and frame delivery at independent rates
// expressed per frame.
package core

import (
	"errors"
	"fmt"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/insts"
	"github.com/sarchlab/c8sim/timing/cache"
)

// ErrHalted is returned by RunFrames after a previous step failed.
var ErrHalted = errors.New("core halted")

// FrameSink receives one call per frame.
type FrameSink interface {
	// Frame delivers the framebuffer. drew reports whether any draw
	// happened during the frame; sound whether the buzzer was on.
	Frame(fb *emu.Framebuffer, drew, sound bool) error
}

// FrameSinkFunc adapts a function to FrameSink.
type FrameSinkFunc func(fb *emu.Framebuffer, drew, sound bool) error

// Frame calls f.
func (f FrameSinkFunc) Frame(fb *emu.Framebuffer, drew, sound bool) error {
	return f(fb, drew, sound)
}

// MultiSink fans each frame out to several sinks in order. Nil sinks are
// skipped and the first error stops delivery.
func MultiSink(sinks ...FrameSink) FrameSink {
	return FrameSinkFunc(func(fb *emu.Framebuffer, drew, sound bool) error {
		for _, s := range sinks {
			if s == nil {
				continue
			}
			if err := s.Frame(fb, drew, sound); err != nil {
				return err
			}
		}
		return nil
	})
}

// Stats holds run statistics for the core.
type Stats struct {
	// Cycles is the number of instructions executed.
	Cycles uint64
	// WaitCycles is the number of cycles spent blocked on a key.
	WaitCycles uint64
	// TimerTicks is the number of 60 Hz timer ticks applied.
	TimerTicks uint64
	// Frames is the number of frames delivered.
	Frames uint64
	// Cost is the number of budget cycles charged. It equals
	// Cycles + WaitCycles unless a cost model is installed.
	Cost uint64
}

// CostModel prices an executed instruction in budget cycles.
// *latency.Table implements it.
type CostModel interface {
	GetLatency(inst *insts.Instruction) uint64
}

// CoreOption is a functional option for configuring a Core.
type CoreOption func(*Core)

// WithLatencyTable charges each instruction its cost from model instead of
// one cycle. A frame that overspends its budget carries the excess into
// the following frames.
func WithLatencyTable(model CostModel) CoreOption {
	return func(c *Core) {
		c.costs = model
	}
}

// Core drives an emulator at fixed rates.
type Core struct {
	emulator *emu.Emulator
	config   *Config
	sink     FrameSink
	costs    CostModel

	// Remainders carried between frames so that rates that do not divide
	// the frame rate stay exact over time.
	cpuCarry   int
	timerCarry int
	// Cycles overspent by the last frame.
	debt int

	stats Stats
	err   error
}

// NewEmulator creates an emulator suited to a Core: timers are decoupled
// and, when configured, instructions go through a decode cache.
func NewEmulator(config *Config, opts ...emu.EmulatorOption) *emu.Emulator {
	base := []emu.EmulatorOption{emu.WithDecoupledTimers()}
	if config.DecodeCacheSize > 0 {
		cc := cache.DefaultConfig()
		cc.Size = config.DecodeCacheSize
		base = append(base, emu.WithInstructionDecoder(cache.New(cc)))
	}
	return emu.NewEmulator(append(base, opts...)...)
}

// NewCore creates a Core. sink may be nil. If the emulator ticks its own
// timers the core does not tick them again.
func NewCore(emulator *emu.Emulator, config *Config, sink FrameSink, opts ...CoreOption) *Core {
	c := &Core{
		emulator: emulator,
		config:   config,
		sink:     sink,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Emulator returns the driven emulator.
func (c *Core) Emulator() *emu.Emulator {
	return c.emulator
}

// Stats returns run statistics.
func (c *Core) Stats() Stats {
	return c.stats
}

// Halted returns true if a step failed.
func (c *Core) Halted() bool {
	return c.err != nil
}

// Err returns the error that halted the core.
func (c *Core) Err() error {
	return c.err
}

// budget splits rate events per second into this frame's share.
func budget(rate, frameHz int, carry *int) int {
	total := *carry + rate
	*carry = total % frameHz
	return total / frameHz
}

// Tick runs one frame: its share of instructions with timer ticks spread
// evenly between them, then delivers the frame to the sink.
func (c *Core) Tick() error {
	if c.err != nil {
		return fmt.Errorf("%w: %w", ErrHalted, c.err)
	}

	cycles := budget(c.config.CPUHz, c.config.FrameHz, &c.cpuCarry)
	ticks := budget(c.config.TimerHz, c.config.FrameHz, &c.timerCarry)
	if c.emulator.TimersCoupled() {
		ticks = 0
	}

	sound := c.emulator.IsSoundActive()
	ticked := 0
	spent := c.debt
	for spent < cycles {
		waiting := c.emulator.Waiting()
		result := c.emulator.Step()
		if result.Err != nil {
			c.err = result.Err
			return fmt.Errorf("cycle %d: %w", c.stats.Cycles, result.Err)
		}
		if waiting {
			c.stats.WaitCycles++
		} else {
			c.stats.Cycles++
		}
		sound = sound || result.SoundActive

		cost := c.cost(result.Inst)
		spent += cost
		c.stats.Cost += uint64(cost)

		for due := min(spent, cycles) * ticks / cycles; ticked < due; ticked++ {
			c.tickTimers()
		}
	}
	c.debt = max(spent-cycles, 0)
	for ; ticked < ticks; ticked++ {
		c.tickTimers()
	}

	c.stats.Frames++
	drew := c.emulator.TakeDrawFlag()
	if c.sink == nil {
		return nil
	}
	if err := c.sink.Frame(c.emulator.Framebuffer(), drew, sound); err != nil {
		return fmt.Errorf("failed to deliver frame %d: %w", c.stats.Frames, err)
	}
	return nil
}

func (c *Core) cost(inst *insts.Instruction) int {
	if c.costs == nil || inst == nil {
		return 1
	}
	return int(max(c.costs.GetLatency(inst), 1))
}

func (c *Core) tickTimers() {
	c.emulator.TickTimers()
	c.stats.TimerTicks++
}

// RunFrames runs n frames, stopping at the first error.
func (c *Core) RunFrames(n int) error {
	for i := 0; i < n; i++ {
		if err := c.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Reset resets the emulator, reloading its program, and clears all
// scheduler state.
func (c *Core) Reset() {
	c.emulator.Reset()
	c.cpuCarry = 0
	c.timerCarry = 0
	c.debt = 0
	c.stats = Stats{}
	c.err = nil
}
