// Validate decoder behaviour - measures decode allocations with and without
// the decode cache and cross-checks opcode coverage against the reference
// CHIP-8 opcode tables.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sarchlab/c8sim/disasm"
	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/insts"
	"github.com/sarchlab/c8sim/timing/cache"
)

// program is a small loop body: LD V0, 1; ADD V0, V1; SE V0, 10; JP 0x200.
var program = []struct {
	addr, word uint16
}{
	{0x200, 0x6001},
	{0x202, 0x8014},
	{0x204, 0x300A},
	{0x206, 0x1200},
}

type decodeFunc func(addr, word uint16) *insts.Instruction

func measure(name string, decode decodeFunc) {
	// Warm up
	for i := 0; i < 1000; i++ {
		for _, p := range program {
			decode(p.addr, p.word)
		}
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100000
	for i := 0; i < iterations; i++ {
		for _, p := range program {
			decode(p.addr, p.word)
		}
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	totalDecodes := iterations * len(program)
	allocations := m2.Mallocs - m1.Mallocs

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total decode operations: %d\n", totalDecodes)
	fmt.Printf("  Time elapsed: %v\n", elapsed)
	fmt.Printf("  Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("  Allocations per decode: %.3f\n", float64(allocations)/float64(totalDecodes))
}

// coverage reports words the two tables disagree on. SYS is not in the
// reference table, so 0nnn words other than CLS and RET are skipped.
func coverage() int {
	decoder := insts.NewDecoder()
	mismatches := 0

	for w := 0; w <= 0xFFFF; w++ {
		word := uint16(w)
		inst := decoder.Decode(word)
		if inst.Op == insts.OpSYS {
			continue
		}

		_, known := disasm.Mnemonic(word)
		if known != (inst.Op != insts.OpUnknown) {
			if mismatches < 10 {
				fmt.Printf("  word %04X: decoder %v, table known=%v\n", word, inst.Op, known)
			}
			mismatches++
		}
	}
	return mismatches
}

func main() {
	decoder := insts.NewDecoder()
	measure("Plain decoder", func(_, word uint16) *insts.Instruction {
		return decoder.Decode(word)
	})

	decodeCache := cache.New(cache.DefaultConfig())
	measure("Decode cache", decodeCache.Decode)
	stats := decodeCache.Stats()
	fmt.Printf("  Hits: %d, misses: %d\n", stats.Hits, stats.Misses)

	fmt.Printf("\nOpcode coverage against reference tables (program start %03X):\n", emu.ProgramStart)
	if n := coverage(); n > 0 {
		fmt.Printf("\n⚠️  WARNING: %d words classified differently\n", n)
		os.Exit(1)
	}
	fmt.Printf("\n✅ SUCCESS: decoder and reference tables agree\n")
}
