// Package ir supplies the in-memory instruction representation the
// dispatcher consumes: an opaque Variable handle, an Opcode enum, and the
// Instruction struct carrying inputs/outputs/inner outputs and flags. There
// is no parser and no wire encoding here — a fuzzer's IR lifter is assumed
// to already produce this shape; irtrace and tests build streams of it by
// hand.
package ir

// Variable is an opaque, integer-identified handle produced by the IR.
// Variables are immutable (SSA-like) from the analyzer's point of view:
// an instruction that "reassigns" a variable re-types its existing slot,
// it never mints a new handle for the same source-level binding.
type Variable int32

// InvalidVariable marks an absent operand slot (e.g. a plain return with
// no operand, or an unused inner output).
const InvalidVariable Variable = -1

// IsValid reports whether v identifies a real operand.
func (v Variable) IsValid() bool { return v != InvalidVariable }
