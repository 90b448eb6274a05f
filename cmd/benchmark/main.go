// Command benchmark runs the c8sim throughput benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv       Output results in CSV format (default: human-readable)
//	-json      Output results as a JSON report
//	-no-cache  Disable the decode cache
//	-frames    Frames per benchmark
//	-config    Scheduler configuration JSON file
//
// Example:
//
//	# Compare decode cache on and off
//	go run ./cmd/benchmark -csv > cached.csv
//	go run ./cmd/benchmark -csv -no-cache > plain.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/c8sim/benchmarks"
	"github.com/sarchlab/c8sim/internal/cli"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as JSON")
	noCache := flag.Bool("no-cache", false, "Disable the decode cache")
	frames := flag.Int("frames", 600, "Frames per benchmark")
	configPath := flag.String("config", "", "Path to configuration JSON file")
	flag.Parse()

	coreConfig, err := cli.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	config := benchmarks.DefaultConfig()
	config.Core = coreConfig
	config.Frames = *frames
	config.EnableDecodeCache = !*noCache
	config.Output = os.Stdout

	harness := benchmarks.NewHarness(config)
	harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())

	human := !*csvOutput && !*jsonOutput
	if human {
		fmt.Println("c8sim Benchmark Harness")
		fmt.Println("=======================")
		fmt.Printf("CPU: %d Hz, frames: %d\n", coreConfig.CPUHz, config.Frames)
		fmt.Printf("Decode cache: %v\n", config.EnableDecodeCache)
		fmt.Println("")
	}

	results, err := harness.RunAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}
}
