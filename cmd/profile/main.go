// Package main provides a profiling wrapper for c8sim to identify performance bottlenecks.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/c8sim/internal/cli"
	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/loader"
	"github.com/sarchlab/c8sim/timing/core"
)

var (
	scheduled   = flag.Bool("scheduled", false, "Run through the frame scheduler instead of free-running")
	frames      = flag.Int("frames", 6000, "frames to run in scheduled mode")
	noCache     = flag.Bool("no-cache", false, "Disable the decode cache")
	costs       = flag.String("latency", "", "instruction cost JSON file for scheduled mode")
	cpuProfile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile  = flag.String("memprofile", "", "write memory profile to file")
	duration    = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	instruction = flag.Uint64("max-instr", 1000000, "max instructions to execute in free-running mode")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <rom.ch8>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	prog, err := loader.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ROM: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded: %s (%d bytes)\n", prog.Title(), len(prog.Data))

	config := core.DefaultConfig()
	if *noCache {
		config.DecodeCacheSize = 0
	}

	start := time.Now()

	// Set timeout
	go func() {
		time.Sleep(*duration)
		fmt.Printf("\nTimeout reached after %v - stopping execution\n", *duration)
		os.Exit(2)
	}()

	var instrCount uint64
	var runErr error
	if *scheduled {
		instrCount, runErr = runScheduled(prog, config)
	} else {
		instrCount, runErr = runFree(prog, config)
	}

	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	fmt.Printf("\nProfiling Results:\n")
	if runErr != nil {
		fmt.Printf("Stopped: %v\n", runErr)
	}
	fmt.Printf("Instructions executed: %d\n", instrCount)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}
}

// runFree executes the ROM without pacing until the instruction limit, a
// key wait or an error.
func runFree(prog *loader.Program, config *core.Config) (uint64, error) {
	opts := []emu.EmulatorOption{}
	if *instruction > 0 {
		opts = append(opts, emu.WithMaxInstructions(*instruction))
	}

	e := core.NewEmulator(config, opts...)
	if err := prog.LoadInto(e); err != nil {
		return 0, err
	}

	err := e.Run()
	if errors.Is(err, emu.ErrMaxInstructions) {
		err = nil
	}
	return e.InstructionCount(), err
}

// runScheduled runs the ROM through the frame scheduler without a sink.
func runScheduled(prog *loader.Program, config *core.Config) (uint64, error) {
	e := core.NewEmulator(config)
	if err := prog.LoadInto(e); err != nil {
		return 0, err
	}

	opts, err := cli.CoreOptions(*costs)
	if err != nil {
		return 0, err
	}

	c := core.NewCore(e, config, nil, opts...)
	err = c.RunFrames(*frames)
	return c.Stats().Cycles, err
}
