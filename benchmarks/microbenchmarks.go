package benchmarks

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each
// program settles into an idle loop so it can run any number of frames.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticLoop(),
		callReturn(),
		spriteDraw(),
		bcdMemory(),
		timerWait(),
		keyWait(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticLoop(),
		spriteDraw(),
	}
}

// 1. Arithmetic Loop - register ALU work and a backward branch
func arithmeticLoop() Benchmark {
	return Benchmark{
		Name:        "arithmetic_loop",
		Description: "200-iteration add loop - measures ALU and branch throughput",
		Source: `
	LD V0, 0
	LD V1, 0
loop:	ADD V0, 1
	ADD V1, V0
	SE V0, 200
	JP loop
idle:	JP idle
`,
	}
}

// 2. Call/Return - stack push and pop
func callReturn() Benchmark {
	return Benchmark{
		Name:        "call_return",
		Description: "100 subroutine calls - measures call/return overhead",
		Source: `
	LD V2, 0
loop:	CALL sub
	SE V2, 100
	JP loop
idle:	JP idle
sub:	ADD V2, 1
	RET
`,
	}
}

// 3. Sprite Draw - font glyphs across the screen
func spriteDraw() Benchmark {
	return Benchmark{
		Name:        "sprite_draw",
		Description: "five rows of the 16 font glyphs - measures DRW",
		Source: `
	LD V0, 0
	LD V1, 0
	LD V3, 0
loop:	LD F, V3
	DRW V0, V1, 5
	ADD V0, 5
	ADD V3, 1
	SE V3, 16
	JP loop
	LD V3, 0
	ADD V1, 6
	SE V1, 30
	JP loop
idle:	JP idle
`,
	}
}

// 4. BCD Memory - store and load through I
func bcdMemory() Benchmark {
	return Benchmark{
		Name:        "bcd_memory",
		Description: "BCD of every byte value with register dump/load - measures memory ops",
		Source: `
	LD V0, 0
	LD I, buf
loop:	LD B, V0
	LD V3, [I]
	LD [I], V3
	ADD V0, 1
	SE V0, 0
	JP loop
idle:	JP idle
buf:	db 0, 0, 0, 0
`,
	}
}

// 5. Timer Wait - polling the delay timer
func timerWait() Benchmark {
	return Benchmark{
		Name:        "timer_wait",
		Description: "busy-wait on the delay timer - measures timer scheduling",
		Source: `
	LD V0, 30
	LD DT, V0
wait:	LD V1, DT
	SE V1, 0
	JP wait
idle:	JP idle
`,
	}
}

// 6. Key Wait - blocked on Fx0A
func keyWait() Benchmark {
	return Benchmark{
		Name:        "key_wait",
		Description: "blocked on a key press - measures wait cycle accounting",
		Source: `
	LD V0, K
idle:	JP idle
`,
		Frames: 10,
	}
}
