package emu

import (
	"errors"
	"fmt"
)

// Stack errors.
var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
)

// InvalidOpcodeError is returned when a fetched word matches no opcode.
type InvalidOpcodeError struct {
	Word uint16
	PC   uint16
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode 0x%04X at PC=0x%03X", e.Word, e.PC)
}

// OutOfBoundsError is returned when an access reaches past the end of memory.
type OutOfBoundsError struct {
	Address int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("memory access out of bounds at 0x%X", e.Address)
}

// RomTooLargeError is returned when a program does not fit above ProgramStart.
type RomTooLargeError struct {
	Size int
	Max  int
}

func (e *RomTooLargeError) Error() string {
	return fmt.Sprintf("program is %d bytes, maximum is %d", e.Size, e.Max)
}

// ErrMaxInstructions is returned by Step once the configured instruction
// limit has been reached.
var ErrMaxInstructions = errors.New("max instructions reached")
