// Package main provides c8sdl, a CHIP-8 emulator with an SDL window.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/sarchlab/c8sim/internal/cli"
	"github.com/sarchlab/c8sim/frontend/sdlhost"
	"github.com/sarchlab/c8sim/loader"
	"github.com/sarchlab/c8sim/timing/core"
)

var (
	configPath = flag.String("config", "", "Path to configuration JSON file")
	scale      = flag.Int("scale", 0, "Window pixels per CHIP-8 pixel (0 uses the config)")
	mute       = flag.Bool("mute", false, "Disable audio")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func init() {
	// SDL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: c8sdl [options] <rom.ch8>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := cli.NewLogger(*verbose, false)
	if err := run(logger, flag.Arg(0)); err != nil {
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func run(logger *log.Logger, romPath string) error {
	config, err := cli.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *scale > 0 {
		config.Scale = *scale
	}

	prog, err := loader.Load(romPath)
	if err != nil {
		return err
	}
	e := core.NewEmulator(config)
	if err := prog.LoadInto(e); err != nil {
		return err
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	defer sdl.Quit()

	var speaker *sdlhost.Speaker
	if !*mute {
		speaker, err = sdlhost.OpenSpeaker(config)
		if err != nil {
			logger.Warn("Audio unavailable", log.Err(err))
			speaker = nil
		} else {
			defer speaker.Close()
		}
	}

	window, err := sdlhost.NewWindow("c8sim - "+prog.Title(), config.Scale, speaker)
	if err != nil {
		return err
	}
	defer func() { _ = window.Destroy() }()
	if err := window.Draw(e.Framebuffer()); err != nil {
		return err
	}

	c := core.NewCore(e, config, window)
	host := sdlhost.NewHost(logger)
	err = host.Run(app.Context(), c, config.FrameHz)

	stats := c.Stats()
	logger.Info("Run finished",
		log.Int("frames", int(stats.Frames)),
		log.Int("cycles", int(stats.Cycles)))
	return err
}
