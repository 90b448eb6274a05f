// Package insts provides CHIP-8 instruction definitions and decoding.
//
// This package splits 16-bit CHIP-8 instruction words into their nibble
// fields and derived operands, and classifies each word into one of the
// 35 standard opcodes:
//   - System and flow control: SYS, CLS, RET, JP, CALL, JP V0
//   - Conditional skips: SE, SNE, SKP, SKNP
//   - Register arithmetic: LD, ADD, OR, AND, XOR, SUB, SHR, SUBN, SHL, RND
//   - Memory and timers: LD I, ADD I, LD F, LD B, LD [I], LD DT/ST/K
//   - Graphics: DRW
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x8124) // ADD V1, V2
//	fmt.Printf("Op: %v, X: %d, Y: %d\n", inst.Op, inst.X, inst.Y)
package insts
