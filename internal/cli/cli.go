// Package cli holds setup shared by the commands.
package cli

import (
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"github.com/sarchlab/c8sim/timing/core"
	"github.com/sarchlab/c8sim/timing/latency"
)

// Build information, set by the linker.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// NewLogger creates a logger at debug level when debug is set, error level
// when quiet is set, and the default level otherwise.
func NewLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// PrintBanner writes the program title and version to w.
func PrintBanner(w io.Writer, title string) {
	_, _ = fmt.Fprintf(w, "%s\nversion: %s\n\n", title, buildinfo.Version(Version, Commit, Date))
}

// LoadConfig returns the configuration at path, or the defaults when path
// is empty. The result is validated.
func LoadConfig(path string) (*core.Config, error) {
	config := core.DefaultConfig()
	if path != "" {
		var err error
		config, err = core.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// CoreOptions returns the scheduler options for an instruction cost file.
// An empty path means one cycle per instruction and no options.
func CoreOptions(latencyPath string) ([]core.CoreOption, error) {
	if latencyPath == "" {
		return nil, nil
	}
	timing, err := latency.LoadConfig(latencyPath)
	if err != nil {
		return nil, err
	}
	if err := timing.Validate(); err != nil {
		return nil, fmt.Errorf("invalid latency config: %w", err)
	}
	return []core.CoreOption{core.WithLatencyTable(latency.NewTableWithConfig(timing))}, nil
}
