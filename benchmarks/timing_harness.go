// Package benchmarks provides a throughput harness for the emulator and
// its scheduler.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/c8sim/asm"
	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/core"
)

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Frames is the number of frames run
	Frames uint64 `json:"frames"`

	// Cycles is the number of instructions executed
	Cycles uint64 `json:"cycles"`

	// WaitCycles is the number of cycles spent blocked on a key
	WaitCycles uint64 `json:"wait_cycles"`

	// TimerTicks is the number of timer ticks applied
	TimerTicks uint64 `json:"timer_ticks"`

	// Decode cache stats (if enabled)
	DecodeHits      uint64 `json:"decode_hits,omitempty"`
	DecodeMisses    uint64 `json:"decode_misses,omitempty"`
	DecodeEvictions uint64 `json:"decode_evictions,omitempty"`

	// Error is the step error that halted the run, if any
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the frames
	WallTime time.Duration `json:"wall_time_ns"`
}

// HitRate returns the decode cache hit rate in percent.
func (r BenchmarkResult) HitRate() float64 {
	total := r.DecodeHits + r.DecodeMisses
	if total == 0 {
		return 0
	}
	return 100 * float64(r.DecodeHits) / float64(total)
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Source is the assembly source of the program
	Source string

	// Frames overrides the harness frame count when non-zero
	Frames int
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Core holds the scheduler rates; nil uses core.DefaultConfig
	Core *core.Config

	// Frames is the number of frames each benchmark runs
	Frames int

	// EnableDecodeCache routes decoding through the decode cache
	EnableDecodeCache bool

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Frames:            60,
		EnableDecodeCache: true,
		Output:            os.Stdout,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Core == nil {
		config.Core = core.DefaultConfig()
	}
	if config.Frames <= 0 {
		config.Frames = DefaultConfig().Frames
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results. A benchmark whose
// source does not assemble stops the run.
func (h *Harness) RunAll() ([]BenchmarkResult, error) {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result, err := h.runBenchmark(bench)
		if err != nil {
			return results, fmt.Errorf("benchmark %s: %w", bench.Name, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// runBenchmark executes a single benchmark.
func (h *Harness) runBenchmark(bench Benchmark) (BenchmarkResult, error) {
	prog, err := asm.Assemble(bench.Name+".s", bench.Source)
	if err != nil {
		return BenchmarkResult{}, err
	}

	// The harness owns the cache so it can read its statistics.
	config := h.config.Core.Clone()
	config.DecodeCacheSize = 0

	var decodeCache *cache.DecodeCache
	var opts []emu.EmulatorOption
	if h.config.EnableDecodeCache {
		decodeCache = cache.New(cache.DefaultConfig())
		opts = append(opts, emu.WithInstructionDecoder(decodeCache))
	}

	e := core.NewEmulator(config, opts...)
	if err := e.LoadProgram(prog.Code); err != nil {
		return BenchmarkResult{}, err
	}
	c := core.NewCore(e, config, nil)

	frames := bench.Frames
	if frames == 0 {
		frames = h.config.Frames
	}

	start := time.Now()
	runErr := c.RunFrames(frames)
	wallTime := time.Since(start)

	stats := c.Stats()
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
		Frames:      stats.Frames,
		Cycles:      stats.Cycles,
		WaitCycles:  stats.WaitCycles,
		TimerTicks:  stats.TimerTicks,
		WallTime:    wallTime,
	}
	if runErr != nil {
		result.Error = runErr.Error()
	}

	if decodeCache != nil {
		cs := decodeCache.Stats()
		result.DecodeHits = cs.Hits
		result.DecodeMisses = cs.Misses
		result.DecodeEvictions = cs.Evictions
	}

	if h.config.Verbose {
		_, _ = fmt.Fprintf(h.config.Output, "ran %s: %d frames in %v\n", bench.Name, stats.Frames, wallTime)
	}

	return result, nil
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== c8sim Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Frames:       %d\n", r.Frames)
		_, _ = fmt.Fprintf(h.config.Output, "  Cycles:       %d\n", r.Cycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Wait Cycles:  %d\n", r.WaitCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Timer Ticks:  %d\n", r.TimerTicks)

		if r.DecodeHits > 0 || r.DecodeMisses > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- Decode Cache ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Hits:      %d\n", r.DecodeHits)
			_, _ = fmt.Fprintf(h.config.Output, "  Misses:    %d\n", r.DecodeMisses)
			_, _ = fmt.Fprintf(h.config.Output, "  Evictions: %d\n", r.DecodeEvictions)
			_, _ = fmt.Fprintf(h.config.Output, "  Hit Rate:  %.1f%%\n", r.HitRate())
		}

		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,frames,cycles,wait_cycles,timer_ticks,decode_hits,decode_misses,decode_evictions,wall_time_ns")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%d,%d,%d,%d,%d\n",
			r.Name,
			r.Frames,
			r.Cycles,
			r.WaitCycles,
			r.TimerTicks,
			r.DecodeHits,
			r.DecodeMisses,
			r.DecodeEvictions,
			r.WallTime.Nanoseconds(),
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Config describes the benchmark configuration
	Config BenchmarkConfig `json:"config"`
}

// BenchmarkConfig describes the harness configuration used.
type BenchmarkConfig struct {
	CPUHz              int  `json:"cpu_hz"`
	FrameHz            int  `json:"frame_hz"`
	DecodeCacheEnabled bool `json:"decode_cache_enabled"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	// TotalBenchmarks is the number of benchmarks run
	TotalBenchmarks int `json:"total_benchmarks"`

	// TotalCycles is the sum of all executed instructions
	TotalCycles uint64 `json:"total_cycles"`

	// CyclesPerSecond is the host throughput across all benchmarks
	CyclesPerSecond float64 `json:"cycles_per_second"`

	// TotalWallTime is the total wall clock time for all benchmarks
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	var totalCycles uint64
	var totalWallTime time.Duration
	for _, r := range results {
		totalCycles += r.Cycles + r.WaitCycles
		totalWallTime += r.WallTime
	}

	perSecond := float64(0)
	if totalWallTime > 0 {
		perSecond = float64(totalCycles) / totalWallTime.Seconds()
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Config: BenchmarkConfig{
				CPUHz:              h.config.Core.CPUHz,
				FrameHz:            h.config.Core.FrameHz,
				DecodeCacheEnabled: h.config.EnableDecodeCache,
			},
		},
		Results: results,
		Summary: ReportSummary{
			TotalBenchmarks: len(results),
			TotalCycles:     totalCycles,
			CyclesPerSecond: perSecond,
			TotalWallTime:   totalWallTime,
		},
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
