// Package main provides the entry point for c8sim, a CHIP-8 emulator for
// the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"github.com/sarchlab/c8sim/audio"
	"github.com/sarchlab/c8sim/internal/cli"
	"github.com/sarchlab/c8sim/disasm"
	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/frontend/term"
	"github.com/sarchlab/c8sim/loader"
	"github.com/sarchlab/c8sim/timing/core"
)

var (
	configPath = flag.String("config", "", "Path to configuration JSON file")
	headless   = flag.Bool("headless", false, "Run without a terminal and print the final screen")
	frames     = flag.Int("frames", 600, "Frames to run in headless mode")
	wavPath    = flag.String("wav", "", "Record the buzzer to a WAV file")
	listing    = flag.Bool("disasm", false, "Print a disassembly of the ROM and exit")
	hold       = flag.Int("hold", 0, "Frames a key stays down after a press (0 uses the config)")
	seed       = flag.Uint64("seed", 0, "Random seed for RND (0 picks one)")
	costsPath  = flag.String("latency", "", "Path to an instruction cost JSON file")
	verbose    = flag.Bool("v", false, "Verbose output")
	quiet      = flag.Bool("q", false, "Only print errors")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: c8sim [options] <rom.ch8>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := cli.NewLogger(*verbose, *quiet)
	if err := run(app.Context(), logger, flag.Arg(0)); err != nil {
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, romPath string) error {
	config, err := cli.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *hold > 0 {
		config.KeyHoldFrames = *hold
	}

	prog, err := loader.Load(romPath)
	if err != nil {
		return err
	}

	if *listing {
		fmt.Print(disasm.New().Listing(prog.Data, emu.ProgramStart))
		return nil
	}

	e := core.NewEmulator(config, emulatorOptions(logger, *headless, *seed)...)
	if err := prog.LoadInto(e); err != nil {
		return err
	}
	logger.Info("Loaded ROM",
		log.String("title", prog.Title()),
		log.Int("bytes", len(prog.Data)))

	coreOpts, err := cli.CoreOptions(*costsPath)
	if err != nil {
		return err
	}

	var sinks []core.FrameSink
	if *wavPath != "" {
		rec := audio.NewRecorder(*wavPath, config)
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Error("Writing WAV failed", log.Err(err))
				return
			}
			logger.Info("Wrote WAV",
				log.String("path", *wavPath),
				log.Stringer("duration", rec.Duration()))
		}()
		sinks = append(sinks, rec)
	}

	if *headless {
		return runHeadless(logger, e, config, sinks, coreOpts)
	}
	return runTerminal(ctx, logger, e, config, sinks, coreOpts)
}

// emulatorOptions traces steps only in headless mode; in the terminal the
// trace would print over the rendered frame.
func emulatorOptions(logger *log.Logger, headless bool, seed uint64) []emu.EmulatorOption {
	var opts []emu.EmulatorOption
	if headless {
		opts = append(opts, emu.WithLogger(logger))
	}
	if seed != 0 {
		opts = append(opts, emu.WithSeed(seed))
	}
	return opts
}

func runHeadless(logger *log.Logger, e *emu.Emulator, config *core.Config,
	sinks []core.FrameSink, coreOpts []core.CoreOption) error {
	c := core.NewCore(e, config, core.MultiSink(sinks...), coreOpts...)
	err := c.RunFrames(*frames)

	fmt.Print(e.Framebuffer().String())
	printStats(logger, c)
	return err
}

func runTerminal(ctx context.Context, logger *log.Logger, e *emu.Emulator,
	config *core.Config, sinks []core.FrameSink, coreOpts []core.CoreOption) error {
	t, err := term.Open(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	if !t.Fits() {
		logger.Warn("Terminal is smaller than one frame",
			log.Int("columns", emu.DisplayWidth),
			log.Int("rows", term.Rows))
	}

	host := term.NewHost(t.Output(), config.KeyHoldFrames, nil)
	c := core.NewCore(e, config, core.MultiSink(append([]core.FrameSink{host}, sinks...)...), coreOpts...)

	if err := t.RawMode(); err != nil {
		return err
	}
	err = host.Run(ctx, c, t.ReadKeys(), config.FrameHz)
	if rerr := t.Restore(); rerr != nil {
		err = errors.Join(err, rerr)
	}

	printStats(logger, c)
	return err
}

func printStats(logger *log.Logger, c *core.Core) {
	stats := c.Stats()
	logger.Info("Run finished",
		log.Int("frames", int(stats.Frames)),
		log.Int("cycles", int(stats.Cycles)),
		log.Int("wait_cycles", int(stats.WaitCycles)),
		log.Int("timer_ticks", int(stats.TimerTicks)),
		log.Int("cost", int(stats.Cost)))
}
