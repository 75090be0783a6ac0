// Package dispatch implements the instruction dispatcher (C5): the large
// per-opcode case analysis that drives one ir.Instruction through the
// variable-map state stack (internal/varstate), the object-group manager
// (internal/objectgroup), and the Wasm type-group resolver
// (internal/typegroup), consulting an Environment (internal/env) and a
// uniform-choice callback wherever the analyzer's own state runs out of
// answers. Modeled on a classic instruction-loop shape (one big switch
// over a byte opcode, delegating uniform sub-families like
// binaryOp/comparisonOp to helper methods), generalized from a stack
// machine's bytecode reader to a streaming dispatcher over
// already-decoded ir.Instruction values.
package dispatch

import (
	"github.com/jsfuzz/irtypes/internal/env"
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/irfault"
	"github.com/jsfuzz/irtypes/internal/lattice"
	"github.com/jsfuzz/irtypes/internal/objectgroup"
	"github.com/jsfuzz/irtypes/internal/typegroup"
	"github.com/jsfuzz/irtypes/internal/varstate"
)

// InvariantError aliases irfault's shared fault type so call sites within
// (and consumers of) this package can refer to it as their own, without
// varstate/objectgroup/typegroup importing package dispatch back.
type InvariantError = irfault.InvariantError

// UniformChoice selects an index in [0, n) when the dispatcher must break
// a tie between equally-plausible candidates, such as callMethod overload
// selection. Must be pure/referentially transparent: the dispatcher may
// call it zero or more times per instruction.
type UniformChoice func(n int) int

// Dispatcher holds the analyzer's owned collaborators plus the small
// amount of cross-instruction bookkeeping a single-pass streaming
// dispatch needs that doesn't belong to any one of C2-C4: the active
// subroutine stack (for updateReturnValueType targeting and signature
// propagation back to C3) and the active class stack (for
// currentSuperType/currentSuperConstructorType and constructor
// composition at endClass).
type Dispatcher struct {
	Vars   *varstate.Stack
	Groups *objectgroup.Manager
	Types  *typegroup.Manager
	Env    env.Environment
	Choose UniformChoice

	funcs         []*subroutineCtx
	classes       []*classCtx
	pendingParams map[int][]lattice.Param
}

// New constructs a Dispatcher over the given collaborators. choose may be
// nil, in which case ties are broken by always picking the first
// candidate (a deterministic, if degenerate, uniform-choice stand-in).
func New(vars *varstate.Stack, groups *objectgroup.Manager, types *typegroup.Manager, environment env.Environment, choose UniformChoice) *Dispatcher {
	return &Dispatcher{
		Vars:          vars,
		Groups:        groups,
		Types:         types,
		Env:           environment,
		Choose:        choose,
		pendingParams: make(map[int][]lattice.Param),
	}
}

func (d *Dispatcher) choose(n int) int {
	if n <= 1 {
		return 0
	}
	if d.Choose == nil {
		return 0
	}
	return d.Choose(n)
}

// SetParameters registers the parameter list a not-yet-processed
// beginSubroutine instruction at the given index will bind: it must be
// called before Dispatch reaches that instruction, and is idempotent per
// index (a later call for the same index simply replaces the pending
// list — Dispatch only ever reads it once, at the matching begin).
func (d *Dispatcher) SetParameters(index int, params []lattice.Param) {
	d.pendingParams[index] = params
}

// typeOf reads v's effective type and asserts it is not the internal
// ⊥ marker: an input variable with no type at all is a
// structural-precondition violation, never a value the dispatcher can
// compute with.
func (d *Dispatcher) typeOf(v ir.Variable) lattice.Type {
	t := d.Vars.TypeOf(v)
	if t.IsBottom() {
		irfault.Raise(irfault.CodeMissingType, "variable %d has no type", v)
	}
	return t
}

func assertOutputs(inst ir.Instruction, want int) {
	if inst.NumOutputs() != want {
		irfault.Raise(irfault.CodeOutputCountMismatch, "%s: want %d outputs, got %d", inst.Opcode, want, inst.NumOutputs())
	}
}

func assertInnerOutputs(inst ir.Instruction, want int) {
	if inst.NumInnerOutputs() != want {
		irfault.Raise(irfault.CodeOutputCountMismatch, "%s: want %d inner outputs, got %d", inst.Opcode, want, inst.NumInnerOutputs())
	}
}

// setOutput writes t to the instruction's single output variable, unless
// inst.IsGuarded, in which case every guarded instruction's outputs are
// forced to ⊤ regardless of the opcode's ordinary contract.
func (d *Dispatcher) setOutput(inst ir.Instruction, t lattice.Type) {
	assertOutputs(inst, 1)
	if inst.IsGuarded {
		t = lattice.Anything()
	}
	d.Vars.UpdateType(inst.Output(0), t, nil)
}

func (d *Dispatcher) setNoOutputs(inst ir.Instruction) {
	assertOutputs(inst, 0)
}

// Dispatch drives one instruction through the dispatcher. It is total
// over well-formed instruction streams; see the family-specific files in
// this package for each opcode group's contract.
func (d *Dispatcher) Dispatch(inst ir.Instruction) {
	switch inst.Opcode {
	case ir.OpLoadInteger, ir.OpLoadFloat, ir.OpLoadBigInt, ir.OpLoadString,
		ir.OpLoadBoolean, ir.OpLoadUndefined, ir.OpLoadNull, ir.OpLoadThis,
		ir.OpLoadArguments, ir.OpLoadRegExp, ir.OpLoadNewTarget:
		d.dispatchLoad(inst)

	case ir.OpGetProperty, ir.OpGetElement, ir.OpGetComputedProperty,
		ir.OpSetProperty, ir.OpSetElement, ir.OpSetComputedProperty,
		ir.OpUpdateProperty, ir.OpDeleteProperty, ir.OpDeleteComputedProperty:
		d.dispatchProperty(inst)

	case ir.OpCallFunction, ir.OpConstruct, ir.OpCallMethod, ir.OpCallComputedMethod:
		d.dispatchCall(inst)

	case ir.OpBinaryAdd, ir.OpBinaryArith, ir.OpBinaryBitwise,
		ir.OpBinaryLogicalAnd, ir.OpBinaryLogicalOr, ir.OpBinaryNullish,
		ir.OpCompare, ir.OpTypeOf, ir.OpInstanceOf, ir.OpIn, ir.OpVoid,
		ir.OpUnaryNot, ir.OpUnaryNegate, ir.OpTernary:
		d.dispatchArith(inst)

	case ir.OpDestructArray, ir.OpDestructObject:
		d.dispatchDestructure(inst)

	case ir.OpReturn:
		d.dispatchReturn(inst)

	case ir.OpBeginSubroutine:
		d.dispatchBeginSubroutine(inst)
	case ir.OpEndSubroutine:
		d.dispatchEndSubroutine(inst)

	case ir.OpBeginClass:
		d.dispatchBeginClass(inst)
	case ir.OpEndClass:
		d.dispatchEndClass(inst)

	case ir.OpBeginObjectLiteral:
		d.dispatchBeginObjectLiteral(inst)
	case ir.OpObjectLiteralAddProperty:
		d.dispatchObjectLiteralAddProperty(inst)
	case ir.OpObjectLiteralAddMethod:
		d.dispatchObjectLiteralAddMethod(inst)
	case ir.OpEndObjectLiteral:
		d.dispatchEndObjectLiteral(inst)
	case ir.OpClassAddProperty:
		d.dispatchClassAddProperty(inst)
	case ir.OpClassAddMethod:
		d.dispatchClassAddMethod(inst)

	case ir.OpBeginFor, ir.OpBeginForCondition, ir.OpBeginForAfterthought,
		ir.OpBeginForBody, ir.OpEndFor, ir.OpBeginWhile, ir.OpBeginRepeat, ir.OpEndLoop:
		d.dispatchLoop(inst)

	case ir.OpBeginIf, ir.OpBeginElse, ir.OpEndIf,
		ir.OpBeginSwitch, ir.OpBeginSwitchCase, ir.OpBeginSwitchDefaultCase, ir.OpEndSwitch:
		d.dispatchConditional(inst)

	case ir.OpBeginTry, ir.OpBeginCatch, ir.OpBeginFinally, ir.OpEndTryCatch:
		d.dispatchException(inst)

	case ir.OpBeginComputeWith, ir.OpEndComputeWith:
		d.dispatchComputeWith(inst)

	default:
		if inst.Opcode.IsWasm() {
			d.dispatchWasm(inst)
			return
		}
		irfault.Raise(irfault.CodeUnknownOpcode, "unhandled opcode %s", inst.Opcode)
	}
}
