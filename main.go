// Package main provides the entry point for c8sim.
// c8sim is a CHIP-8 emulator with a terminal and an SDL front end, an
// assembler and a disassembler.
//
// For the emulator itself, use: go run ./cmd/c8sim
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/c8sim/internal/cli"
)

func main() {
	usage(os.Stdout, len(os.Args) > 1)
}

func usage(w io.Writer, hasArgs bool) {
	cli.PrintBanner(w, "c8sim - CHIP-8 emulator")
	_, _ = fmt.Fprintln(w, "Commands:")
	_, _ = fmt.Fprintln(w, "  cmd/c8sim      run a ROM in the terminal or headless")
	_, _ = fmt.Fprintln(w, "  cmd/c8sdl      run a ROM in an SDL window")
	_, _ = fmt.Fprintln(w, "  cmd/c8asm      assemble CHIP-8 source into a ROM")
	_, _ = fmt.Fprintln(w, "  cmd/benchmark  run the scheduler benchmarks")
	_, _ = fmt.Fprintln(w, "  cmd/profile    profile the interpreter on a ROM")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Run 'go run ./cmd/c8sim -h' for emulator options.")

	if hasArgs {
		_, _ = fmt.Fprintln(w, "\nNote: You provided arguments. Use 'go run ./cmd/c8sim' instead.")
	}
}
