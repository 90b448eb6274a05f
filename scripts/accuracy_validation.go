// Package main provides accuracy validation for the decode cache.
// Ensures that cached decoding preserves emulation correctness.
package main

import (
	"fmt"
	"os"

	"github.com/sarchlab/c8sim/asm"
	"github.com/sarchlab/c8sim/benchmarks"
	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/insts"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/core"
)

// testInstructionDecoding validates that the decode cache returns the same
// instruction as the plain decoder for every word.
func testInstructionDecoding() bool {
	decoder := insts.NewDecoder()
	decodeCache := cache.New(cache.DefaultConfig())

	fmt.Println("Testing decode cache accuracy over all 65536 words...")

	// Vary the address so sets are filled, evicted and revisited.
	for w := 0; w <= 0xFFFF; w++ {
		word := uint16(w)
		addr := uint16(emu.ProgramStart + (w*2)%0x400)

		want := decoder.Decode(word)
		got := decodeCache.Decode(addr, word)
		if *got != *want {
			fmt.Printf("  MISMATCH word %04X at %03X: %+v vs %+v\n", word, addr, got, want)
			return false
		}
	}

	stats := decodeCache.Stats()
	fmt.Printf("  OK (%d lookups, %d evictions)\n", stats.Lookups, stats.Evictions)
	return true
}

// runProgram runs code for frames and returns the final machine.
func runProgram(code []byte, frames int, withCache bool) (*emu.Emulator, error) {
	config := core.DefaultConfig()
	if !withCache {
		config.DecodeCacheSize = 0
	}

	e := core.NewEmulator(config, emu.WithSeed(1))
	if err := e.LoadProgram(code); err != nil {
		return nil, err
	}
	err := core.NewCore(e, config, nil).RunFrames(frames)
	return e, err
}

func sameState(a, b *emu.Emulator) bool {
	ma, mb := a.Machine(), b.Machine()
	return ma.V == mb.V && ma.I == mb.I && ma.PC == mb.PC &&
		ma.Stack == mb.Stack && ma.SP == mb.SP &&
		ma.DT == mb.DT && ma.ST == mb.ST &&
		string(a.Framebuffer().Cells()) == string(b.Framebuffer().Cells()) &&
		string(a.Memory().Bytes()) == string(b.Memory().Bytes())
}

// testProgramExecution validates that every benchmark ends in the same
// state with and without the decode cache.
func testProgramExecution() bool {
	fmt.Println("Testing program execution with and without the decode cache...")

	ok := true
	for _, bench := range benchmarks.GetMicrobenchmarks() {
		prog, err := asm.Assemble(bench.Name+".s", bench.Source)
		if err != nil {
			fmt.Printf("  %s: %v\n", bench.Name, err)
			ok = false
			continue
		}

		plain, errPlain := runProgram(prog.Code, 120, false)
		cached, errCached := runProgram(prog.Code, 120, true)
		switch {
		case errPlain != nil || errCached != nil:
			fmt.Printf("  %s: run failed: %v / %v\n", bench.Name, errPlain, errCached)
			ok = false
		case !sameState(plain, cached):
			fmt.Printf("  %s: state differs\n", bench.Name)
			ok = false
		default:
			fmt.Printf("  %s: OK\n", bench.Name)
		}
	}
	return ok
}

func main() {
	fmt.Println("=== c8sim Accuracy Validation ===")
	fmt.Println()

	passed := testInstructionDecoding()
	passed = testProgramExecution() && passed

	fmt.Println()
	if !passed {
		fmt.Println("FAILED")
		os.Exit(1)
	}
	fmt.Println("PASSED")
}
