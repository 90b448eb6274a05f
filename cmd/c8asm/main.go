// Package main provides c8asm, an assembler producing CHIP-8 ROM images.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sarchlab/c8sim/asm"
	"github.com/sarchlab/c8sim/internal/cli"
)

var (
	output  = flag.String("o", "", "Output ROM path (default: source name with .ch8)")
	symbols = flag.Bool("symbols", false, "Print label addresses")
	quiet   = flag.Bool("q", false, "Only print errors")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: c8asm [options] <source.s>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(sourcePath string) error {
	if !*quiet {
		cli.PrintBanner(os.Stdout, "c8asm - CHIP-8 assembler")
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	prog, err := asm.Assemble(filepath.Base(sourcePath), string(source))
	if err != nil {
		return err
	}

	out := *output
	if out == "" {
		out = strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ".ch8"
	}
	if err := os.WriteFile(out, prog.Code, 0644); err != nil {
		return fmt.Errorf("failed to write ROM: %w", err)
	}

	if *symbols {
		names := make([]string, 0, len(prog.Labels))
		for name := range prog.Labels {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%04X %s\n", prog.Labels[name], name)
		}
	}
	if !*quiet {
		fmt.Printf("Wrote %d bytes to %s\n", len(prog.Code), out)
	}
	return nil
}
