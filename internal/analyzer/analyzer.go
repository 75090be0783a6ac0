// Package analyzer wires the lattice, the variable-map state stack, the
// object-group manager, the Wasm type-group resolver, and the
// instruction dispatcher behind the small external surface a fuzzer
// embeds: Analyze, Reset, and the handful of inference queries. It is
// the only package downstream consumers (cmd/irtrace, internal/inspect)
// import directly; everything beneath it is an implementation detail.
//
// One small package owns construction of every collaborator and exposes
// a narrow public surface, keeping the single-pass lattice propagation
// over an already-linear instruction stream out of reach of callers who
// only need to feed instructions in and read types back out.
package analyzer

import (
	"github.com/jsfuzz/irtypes/internal/dispatch"
	"github.com/jsfuzz/irtypes/internal/env"
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/irfault"
	"github.com/jsfuzz/irtypes/internal/lattice"
	"github.com/jsfuzz/irtypes/internal/objectgroup"
	"github.com/jsfuzz/irtypes/internal/typegroup"
	"github.com/jsfuzz/irtypes/internal/varstate"
)

// Analyzer is the external interface: construct one per fuzzer session,
// feed it instructions via Analyze, and call Reset between independent
// programs sharing the same process.
type Analyzer struct {
	vars   *varstate.Stack
	groups *objectgroup.Manager
	types  *typegroup.Manager
	env    env.Environment
	disp   *dispatch.Dispatcher
}

// New constructs an Analyzer over environment (the host's well-known
// builtins/properties table) and choose (the fuzzer's uniform-choice
// callback for breaking overload ties; may be nil).
func New(environment env.Environment, choose dispatch.UniformChoice) *Analyzer {
	a := &Analyzer{
		vars:   varstate.NewStack(),
		groups: objectgroup.New(),
		types:  typegroup.New(),
		env:    environment,
	}
	a.disp = dispatch.New(a.vars, a.groups, a.types, environment, choose)
	return a
}

// AddObserver registers obs to be called whenever any variable's
// effective type changes, in dispatch order.
func (a *Analyzer) AddObserver(obs varstate.TypeChangeObserver) {
	a.vars.AddObserver(obs)
}

// Analyze drives inst through the dispatcher. Any *irfault.InvariantError
// raised while processing it is recovered here and returned as an
// ordinary error; any other panic propagates, since it signals a bug
// outside this package's own fault model.
func (a *Analyzer) Analyze(inst ir.Instruction) (err error) {
	defer func() {
		if r := recover(); r == nil {
			return
		} else if fault, ok := r.(*irfault.InvariantError); ok {
			err = fault
		} else {
			panic(r)
		}
	}()
	a.disp.Dispatch(inst)
	return nil
}

// Reset asserts the analyzer has returned to a clean top-level state —
// no conditional/switch/subroutine level still open, no object/class/
// Wasm-module group still active, no Wasm type group still being
// defined, and no unresolved Wasm self-reference left pending — then
// rebuilds every collaborator fresh. It raises an *irfault.InvariantError
// if called mid-program, since a reset that silently discarded open
// state would hide a caller bug.
func (a *Analyzer) Reset() {
	switch {
	case !a.vars.IsAtRoot():
		irfault.Raise(irfault.CodeStackInvariant, "reset: a conditional/switch/subroutine level is still open")
	case a.groups.HasActiveGroups():
		irfault.Raise(irfault.CodeGroupInvariant, "reset: an object/class/Wasm-module group is still active")
	case a.types.IsActive():
		irfault.Raise(irfault.CodeGroupInvariant, "reset: a Wasm type group is still being defined")
	case a.types.HasPendingSelfReferences():
		irfault.Raise(irfault.CodeGroupInvariant, "reset: an unresolved Wasm self-reference is still pending")
	}

	choose := a.disp.Choose
	a.vars = varstate.NewStack()
	a.groups = objectgroup.New()
	a.types = typegroup.New()
	a.disp = dispatch.New(a.vars, a.groups, a.types, a.env, choose)
}

// TypeOf returns v's current best-known type (⊤ if v has never been
// assigned one).
func (a *Analyzer) TypeOf(v ir.Variable) lattice.Type {
	return a.vars.TypeOf(v)
}

// InferPropertyType answers the nominal-then-environment property
// lookup getProperty uses, over an already-known type.
func (a *Analyzer) InferPropertyType(name string, on lattice.Type) lattice.Type {
	return a.disp.InferPropertyType(name, on)
}

// InferPropertyTypeOf is InferPropertyType over a live variable's
// current type.
func (a *Analyzer) InferPropertyTypeOf(name string, v ir.Variable) lattice.Type {
	return a.disp.InferPropertyType(name, a.TypeOf(v))
}

// InferMethodSignatures answers the nominal-then-environment method
// overload lookup callMethod uses, over an already-known type.
func (a *Analyzer) InferMethodSignatures(name string, on lattice.Type) []lattice.Signature {
	return a.disp.InferMethodSignatures(name, on)
}

// InferMethodSignaturesOf is InferMethodSignatures over a live
// variable's current type.
func (a *Analyzer) InferMethodSignaturesOf(name string, v ir.Variable) []lattice.Signature {
	return a.disp.InferMethodSignatures(name, a.TypeOf(v))
}

// InferConstructedType answers what `new` on v's current type produces.
func (a *Analyzer) InferConstructedType(v ir.Variable) lattice.Type {
	return a.disp.InferConstructedType(a.TypeOf(v))
}

// CurrentSuperType returns the type `super` refers to inside the method
// body currently being dispatched (⊤ outside of one).
func (a *Analyzer) CurrentSuperType() lattice.Type {
	return a.disp.CurrentSuperType()
}

// CurrentSuperConstructorType returns the constructor type `super(...)`
// calls inside the constructor body currently being dispatched (⊤
// outside of one).
func (a *Analyzer) CurrentSuperConstructorType() lattice.Type {
	return a.disp.CurrentSuperConstructorType()
}

// SetParameters registers the parameter list a not-yet-reached
// beginSubroutine at index will bind; see dispatch.Dispatcher.SetParameters.
func (a *Analyzer) SetParameters(index int, params []lattice.Param) {
	a.disp.SetParameters(index, params)
}

// GetTypeGroupCount returns the number of finished Wasm type groups.
func (a *Analyzer) GetTypeGroupCount() int {
	return a.types.Count()
}

// GetTypeGroup returns the member variables of the i'th finished Wasm
// type group, in definition order.
func (a *Analyzer) GetTypeGroup(i int) []ir.Variable {
	return a.types.Variables(i)
}

// GetTypeGroupDependencies returns the indices of the other type groups
// the i'th finished group's members reference.
func (a *Analyzer) GetTypeGroupDependencies(i int) []int {
	return a.types.Dependencies(i)
}
