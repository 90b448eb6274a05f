// Package latency provides per-instruction cost models for the scheduler.
//
// A Table charges each executed instruction a number of scheduler cycles
// from a TimingConfig, so programs heavy in slow operations such as large
// sprite draws run fewer instructions per frame.
package latency

import (
	"github.com/sarchlab/c8sim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the cost in cycles of the given instruction.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch inst.Op {
	case insts.OpLDImm, insts.OpADDImm, insts.OpLDReg, insts.OpOR, insts.OpAND,
		insts.OpXOR, insts.OpADDReg, insts.OpSUB, insts.OpSHR, insts.OpSUBN, insts.OpSHL:
		return t.config.ALULatency

	case insts.OpSYS, insts.OpJP, insts.OpCALL, insts.OpRET, insts.OpJPV0:
		return t.config.BranchLatency

	case insts.OpSEImm, insts.OpSNEImm, insts.OpSEReg, insts.OpSNEReg,
		insts.OpSKP, insts.OpSKNP:
		return t.config.SkipLatency

	case insts.OpLDI, insts.OpADDI, insts.OpLDF:
		return t.config.IndexLatency

	case insts.OpLDB:
		return t.config.MemoryLatency + 3*t.config.MemoryPerByte

	case insts.OpLDIVx, insts.OpLDVxI:
		return t.config.MemoryLatency + uint64(inst.X+1)*t.config.MemoryPerByte

	case insts.OpDRW:
		return t.config.DrawLatency + uint64(inst.N)*t.config.DrawPerRow

	case insts.OpCLS:
		return t.config.ClearLatency

	case insts.OpLDVxDT, insts.OpLDDTVx, insts.OpLDSTVx, insts.OpLDVxK:
		return t.config.TimerLatency

	case insts.OpRND:
		return t.config.RandomLatency

	default:
		return 1
	}
}

// IsMemoryOp returns true if the instruction reads or writes memory at I.
func (t *Table) IsMemoryOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpLDB, insts.OpLDIVx, insts.OpLDVxI, insts.OpDRW:
		return true
	default:
		return false
	}
}

// IsBranchOp returns true if the instruction may move PC other than by 2.
func (t *Table) IsBranchOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	class := inst.Op.Class()
	return class == insts.ClassJump || class == insts.ClassSkip
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
