package emu

import (
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"

	"github.com/sarchlab/c8sim/insts"
)

// StepResult represents the result of a single Step.
type StepResult struct {
	// Drew is true if the step wrote the framebuffer.
	Drew bool

	// SoundActive is true while the sound timer is nonzero.
	SoundActive bool

	// Waiting is true while the machine is blocked on Fx0A.
	Waiting bool

	// Inst is the executed instruction, nil if none was executed.
	Inst *insts.Instruction

	// Err is set if the step failed. The machine is left unchanged.
	Err error
}

// InstructionDecoder turns the word fetched at addr into an instruction.
type InstructionDecoder interface {
	Decode(addr, word uint16) *insts.Instruction
}

type plainDecoder struct {
	decoder *insts.Decoder
}

func (d plainDecoder) Decode(_, word uint16) *insts.Instruction {
	return d.decoder.Decode(word)
}

// Emulator executes CHIP-8 instructions functionally.
type Emulator struct {
	machine *Machine
	decoder InstructionDecoder
	logger  *log.Logger
	rng     *rand.Rand

	// Execution units
	alu        *ALU
	branchUnit *BranchUnit
	lsu        *LoadStoreUnit
	display    *DisplayUnit
	input      *InputUnit

	program []byte

	// Execution state
	coupledTimers    bool
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithLogger sets a logger that receives a debug trace of every executed
// instruction and warnings for failed steps.
func WithLogger(logger *log.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithRandomSource sets the source used by RND.
func WithRandomSource(src rand.Source) EmulatorOption {
	return func(e *Emulator) {
		e.rng = rand.New(src)
	}
}

// WithSeed seeds RND deterministically.
func WithSeed(seed uint64) EmulatorOption {
	return WithRandomSource(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// WithInstructionDecoder replaces the default decoder, for example with a
// decode cache.
func WithInstructionDecoder(d InstructionDecoder) EmulatorOption {
	return func(e *Emulator) {
		e.decoder = d
	}
}

// WithDecoupledTimers stops Step from ticking the timers. The host must
// call TickTimers at 60 Hz instead.
func WithDecoupledTimers() EmulatorOption {
	return func(e *Emulator) {
		e.coupledTimers = false
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new CHIP-8 emulator in its power-on state.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		machine:       NewMachine(),
		decoder:       plainDecoder{decoder: insts.NewDecoder()},
		coupledTimers: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	e.alu = NewALU(e.machine, e.rng)
	e.branchUnit = NewBranchUnit(e.machine)
	e.lsu = NewLoadStoreUnit(e.machine)
	e.display = NewDisplayUnit(e.machine)
	e.input = NewInputUnit(e.machine)

	return e
}

// Machine returns the emulator's machine state.
func (e *Emulator) Machine() *Machine {
	return e.machine
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.machine.Memory
}

// Framebuffer returns the emulator's framebuffer.
func (e *Emulator) Framebuffer() *Framebuffer {
	return e.machine.Display
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Waiting reports whether the machine is blocked on Fx0A.
func (e *Emulator) Waiting() bool {
	return e.input.Waiting()
}

// TakeDrawFlag reports whether the framebuffer changed since the last call
// and clears the flag.
func (e *Emulator) TakeDrawFlag() bool {
	return e.machine.TakeDrawFlag()
}

// IsSoundActive reports whether the sound timer is nonzero.
func (e *Emulator) IsSoundActive() bool {
	return e.machine.SoundActive()
}

// TimersCoupled reports whether Step ticks the timers itself.
func (e *Emulator) TimersCoupled() bool {
	return e.coupledTimers
}

// TickTimers decrements the delay and sound timers once.
func (e *Emulator) TickTimers() {
	e.machine.TickTimers()
}

// SetKey records a key transition. A press while blocked on Fx0A
// completes the wait. Keys outside 0x0-0xF are ignored.
func (e *Emulator) SetKey(key uint8, pressed bool) {
	if e.input.KeyEvent(key, pressed) && e.logger != nil {
		e.logger.Debug("key wait satisfied", log.Uint8("key", key), log.Hex("pc", e.machine.PC))
	}
}

// LoadProgram copies program to ProgramStart and points PC at it. The
// program is kept so that Reset can reload it.
func (e *Emulator) LoadProgram(program []byte) error {
	if err := e.machine.Memory.LoadProgram(program); err != nil {
		return err
	}
	e.program = append(e.program[:0], program...)
	e.machine.PC = ProgramStart
	return nil
}

// Reset restores the power-on state and reloads the last loaded program.
func (e *Emulator) Reset() {
	e.machine.Reset()
	e.input.Reset()
	e.instructionCount = 0

	if e.program != nil {
		// The stored program already passed the size check.
		_ = e.machine.Memory.LoadProgram(e.program)
	}
}

// Step executes a single instruction. While blocked on Fx0A nothing is
// fetched but coupled timers still tick.
func (e *Emulator) Step() StepResult {
	if e.input.Waiting() {
		if e.coupledTimers {
			e.machine.TickTimers()
		}
		return StepResult{Waiting: true, SoundActive: e.machine.SoundActive()}
	}

	// Check instruction limit before executing
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: ErrMaxInstructions}
	}

	// 1. Fetch
	pc := e.machine.PC
	word, err := e.machine.Memory.Read16(pc)
	if err != nil {
		return e.fail(pc, 0, err)
	}

	// 2. Decode
	inst := e.decoder.Decode(pc, word)

	if e.logger != nil {
		e.logger.Debug("step",
			log.Hex("pc", pc),
			log.Hex("opcode", word),
			log.String("op", inst.Op.String()))
	}

	// 3. Execute
	if err := e.execute(inst); err != nil {
		return e.fail(pc, word, err)
	}

	e.instructionCount++

	if e.coupledTimers {
		e.machine.TickTimers()
	}

	return StepResult{
		Drew:        inst.Op == insts.OpCLS || inst.Op == insts.OpDRW,
		SoundActive: e.machine.SoundActive(),
		Waiting:     e.input.Waiting(),
		Inst:        inst,
	}
}

func (e *Emulator) fail(pc, word uint16, err error) StepResult {
	if e.logger != nil {
		e.logger.Warn("step failed", log.Hex("pc", pc), log.Hex("opcode", word), log.Err(err))
	}
	return StepResult{Err: err}
}

// Run executes instructions until a step fails or the machine blocks on
// a key press. It returns nil when blocked.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Err != nil {
			return result.Err
		}
		if result.Waiting {
			return nil
		}
	}
}

// execute dispatches a decoded instruction to its unit. Units that cannot
// complete return an error before mutating anything.
func (e *Emulator) execute(inst *insts.Instruction) error {
	m := e.machine

	switch inst.Op {
	// Control transfer sets PC itself.
	case insts.OpSYS, insts.OpJP:
		e.branchUnit.JP(inst.NNN)
		return nil
	case insts.OpJPV0:
		e.branchUnit.JPV0(inst.NNN)
		return nil
	case insts.OpCALL:
		return e.branchUnit.CALL(inst.NNN)
	case insts.OpRET:
		return e.branchUnit.RET()

	case insts.OpSEImm:
		e.branchUnit.Skip(e.branchUnit.SEImm(inst.X, inst.KK))
		return nil
	case insts.OpSNEImm:
		e.branchUnit.Skip(e.branchUnit.SNEImm(inst.X, inst.KK))
		return nil
	case insts.OpSEReg:
		e.branchUnit.Skip(e.branchUnit.SEReg(inst.X, inst.Y))
		return nil
	case insts.OpSNEReg:
		e.branchUnit.Skip(e.branchUnit.SNEReg(inst.X, inst.Y))
		return nil
	case insts.OpSKP:
		e.branchUnit.Skip(e.input.SKP(inst.X))
		return nil
	case insts.OpSKNP:
		e.branchUnit.Skip(e.input.SKNP(inst.X))
		return nil

	case insts.OpLDVxK:
		e.input.WaitKey(inst.X)
		if e.logger != nil {
			e.logger.Debug("waiting for key", log.Hex("pc", m.PC), log.Uint8("register", inst.X))
		}
		return nil
	}

	if err := e.executeSequential(inst); err != nil {
		return err
	}

	// Advance PC by 2 (for non-branch instructions)
	m.PC += 2
	return nil
}

func (e *Emulator) executeSequential(inst *insts.Instruction) error {
	switch inst.Op {
	case insts.OpCLS:
		e.display.CLS()
	case insts.OpDRW:
		return e.display.DRW(inst.X, inst.Y, inst.N)

	case insts.OpLDImm:
		e.alu.LDImm(inst.X, inst.KK)
	case insts.OpADDImm:
		e.alu.ADDImm(inst.X, inst.KK)
	case insts.OpLDReg:
		e.alu.LD(inst.X, inst.Y)
	case insts.OpOR:
		e.alu.OR(inst.X, inst.Y)
	case insts.OpAND:
		e.alu.AND(inst.X, inst.Y)
	case insts.OpXOR:
		e.alu.XOR(inst.X, inst.Y)
	case insts.OpADDReg:
		e.alu.ADD(inst.X, inst.Y)
	case insts.OpSUB:
		e.alu.SUB(inst.X, inst.Y)
	case insts.OpSHR:
		e.alu.SHR(inst.X)
	case insts.OpSUBN:
		e.alu.SUBN(inst.X, inst.Y)
	case insts.OpSHL:
		e.alu.SHL(inst.X)
	case insts.OpRND:
		e.alu.RND(inst.X, inst.KK)

	case insts.OpLDI:
		e.lsu.LDI(inst.NNN)
	case insts.OpADDI:
		e.lsu.ADDI(inst.X)
	case insts.OpLDF:
		e.lsu.LDF(inst.X)
	case insts.OpLDB:
		return e.lsu.LDB(inst.X)
	case insts.OpLDIVx:
		return e.lsu.STRegs(inst.X)
	case insts.OpLDVxI:
		return e.lsu.LDRegs(inst.X)
	case insts.OpLDVxDT:
		e.lsu.LDVxDT(inst.X)
	case insts.OpLDDTVx:
		e.lsu.LDDTVx(inst.X)
	case insts.OpLDSTVx:
		e.lsu.LDSTVx(inst.X)

	default:
		return &InvalidOpcodeError{Word: inst.Word, PC: e.machine.PC}
	}

	return nil
}
