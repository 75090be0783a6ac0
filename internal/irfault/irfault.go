// Package irfault defines the single panic-carried error type shared by
// the conditional-execution stack, the object-group manager, the type-
// group resolver, and the instruction dispatcher for "this is an internal
// bug, never recoverable" conditions (a missing input type, a malformed
// Wasm type-definition reference, an output-count mismatch): a stable
// Code plus a human message, built with New and raised with Raise.
//
// dispatch.InvariantError aliases InvariantError so call sites read
// naturally as the dispatcher's own fault type; it lives here rather than
// in package dispatch because varstate/objectgroup/typegroup must be able
// to raise the same fault without importing dispatch.
package irfault

import "fmt"

type Code string

const (
	CodeMissingType         Code = "missing_type"
	CodeBadTypeGroupRef     Code = "bad_type_group_ref"
	CodeOutputCountMismatch Code = "output_count_mismatch"
	CodeStackInvariant      Code = "stack_invariant"
	CodeGroupInvariant      Code = "group_invariant"
	CodeUnknownOpcode       Code = "unknown_opcode"
)

// InvariantError is always raised with panic, never returned as an
// error. analyzer.Analyze recovers exactly this type at its single
// top-level boundary and re-panics anything else.
type InvariantError struct {
	Code Code
	Msg  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func New(code Code, format string, args ...any) *InvariantError {
	return &InvariantError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Raise panics with a freshly constructed InvariantError.
func Raise(code Code, format string, args ...any) {
	panic(New(code, format, args...))
}
