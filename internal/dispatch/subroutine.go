package dispatch

import (
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/irfault"
	"github.com/jsfuzz/irtypes/internal/lattice"
	"github.com/jsfuzz/irtypes/internal/objectgroup"
)

// Kind distinguishes the subroutine flavors beginSubroutine/endSubroutine
// must treat differently: forcing the return type (generator/async) and
// propagating the computed signature back into C3 (class/object-literal
// members).
type Kind int

const (
	KindPlain Kind = iota
	KindArrow
	KindGenerator
	KindAsyncFunction
	KindAsyncArrow
	KindAsyncGenerator
	KindConstructor
	KindClassMethod
	KindClassGetter
	KindClassSetter
	KindObjectLiteralMethod
	KindObjectLiteralGetter
	KindObjectLiteralSetter
)

// hasThisBinding reports whether this subroutine's first inner output is
// bound to an instance type rather than its first declared parameter.
func (k Kind) hasThisBinding() bool {
	switch k {
	case KindConstructor, KindClassMethod, KindClassGetter, KindClassSetter,
		KindObjectLiteralMethod, KindObjectLiteralGetter, KindObjectLiteralSetter:
		return true
	default:
		return false
	}
}

func (k Kind) forcesGeneratorReturn() bool {
	return k == KindGenerator || k == KindAsyncGenerator
}

func (k Kind) forcesPromiseReturn() bool {
	return k == KindAsyncFunction || k == KindAsyncArrow
}

// SubroutineAux carries beginSubroutine's declared shape: its flavor, its
// parameter list (absent if the analyzer instead calls SetParameters for
// this instruction's index before Dispatch reaches it), and — for class
// and object-literal members — the property/method name its computed
// signature propagates back into C3 under, and whether that member is
// static (targeting the constructor group instead of the instance group
// ClassAddMethod/ClassAddProperty already registered it under).
type SubroutineAux struct {
	Kind   Kind
	Params []lattice.Param
	Name   string
	Static bool
}

// subroutineCtx is the per-active-subroutine bookkeeping the dispatcher
// keeps on its own active-functions stack, distinct from the variable
// state stack's conditional-execution frames.
type subroutineCtx struct {
	outputVar ir.Variable
	kind      Kind
	name      string
	static    bool
	params    []lattice.Param
}

// memberGroup returns the group a class/object-literal member's computed
// signature propagates back into: the constructor group for a static
// member (ClassAddMethod/ClassAddProperty registered its membership
// there, not on the instance group that stays on top of the active
// stack throughout the class body), the active top group otherwise.
func (d *Dispatcher) memberGroup(static bool) *objectgroup.Group {
	if static {
		return d.Groups.ConstructorGroup()
	}
	return d.Groups.ActiveGroup()
}

// dispatchBeginSubroutine assigns the subroutine's tentative signature
// (parameters -> ⊤), binds each declared parameter (and `this`, for
// class/object-literal members) into its inner output, records the
// active-functions stack entry, and starts the C2 subroutine level.
func (d *Dispatcher) dispatchBeginSubroutine(inst ir.Instruction) {
	assertOutputs(inst, 1)
	outputVar := inst.Output(0)

	aux, _ := inst.Aux.(SubroutineAux)
	params := aux.Params
	if pending, ok := d.pendingParams[inst.Index]; ok {
		params = pending
		delete(d.pendingParams, inst.Index)
	}

	tentative := lattice.FunctionT().WithSignature(lattice.Signature{Params: params, Output: lattice.Anything()})
	d.Vars.UpdateType(outputVar, tentative, nil)

	innerIdx := 0
	if aux.Kind.hasThisBinding() {
		if v := inst.InnerOutput(innerIdx); v.IsValid() {
			d.Vars.UpdateType(v, d.Groups.ActiveInstanceType(), nil)
		}
		innerIdx++
	}
	for i, p := range params {
		if v := inst.InnerOutput(innerIdx + i); v.IsValid() {
			d.Vars.UpdateType(v, p.CalleeType(), nil)
		}
	}

	d.funcs = append(d.funcs, &subroutineCtx{outputVar: outputVar, kind: aux.Kind, name: aux.Name, static: aux.Static, params: params})
	d.Vars.StartSubroutine()
}

// dispatchEndSubroutine pops the active-functions stack, computes the
// subroutine's final return type (forcing the canonical generator/promise
// type where the flavor demands it), installs the final signature on the
// subroutine variable, and — for class/object-literal members —
// propagates that signature back into the in-progress C3 group.
func (d *Dispatcher) dispatchEndSubroutine(inst ir.Instruction) {
	d.setNoOutputs(inst)
	if len(d.funcs) == 0 {
		irfault.Raise(irfault.CodeStackInvariant, "endSubroutine with no active subroutine")
	}
	ctx := d.funcs[len(d.funcs)-1]
	d.funcs = d.funcs[:len(d.funcs)-1]

	defaultReturn := lattice.Undefined()
	if ctx.kind == KindConstructor {
		defaultReturn = d.Groups.ActiveInstanceType()
	}
	ret := d.Vars.EndSubroutine(defaultReturn)

	switch {
	case ctx.kind.forcesGeneratorReturn():
		ret = jsGeneratorType
	case ctx.kind.forcesPromiseReturn():
		ret = jsPromiseType
	}

	finalSig := lattice.Signature{Params: ctx.params, Output: ret}
	d.Vars.UpdateType(ctx.outputVar, lattice.FunctionT().WithSignature(finalSig), nil)

	switch ctx.kind {
	case KindClassMethod, KindObjectLiteralMethod:
		if ctx.name != "" {
			d.memberGroup(ctx.static).UpdateMethodSignature(ctx.name, finalSig)
		}
	case KindClassGetter, KindObjectLiteralGetter:
		if ctx.name != "" {
			d.memberGroup(ctx.static).UpdatePropertyType(ctx.name, ret)
		}
	case KindClassSetter, KindObjectLiteralSetter:
		if ctx.name != "" && len(ctx.params) > 0 {
			d.memberGroup(ctx.static).UpdatePropertyType(ctx.name, ctx.params[0].Type)
		}
	case KindConstructor:
		if len(d.classes) > 0 {
			d.classes[len(d.classes)-1].ctorParams = ctx.params
		}
	}
}
