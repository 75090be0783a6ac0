package dispatch

import (
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

// dispatchCall handles the call family. Convention: Inputs[0] is the
// callee/receiver, remaining inputs are call-site
// arguments; a named-method call carries its name in inst.Literal.
func (d *Dispatcher) dispatchCall(inst ir.Instruction) {
	switch inst.Opcode {
	case ir.OpCallFunction:
		callee := d.typeOf(inst.Input(0))
		if sig := callee.Signature(); sig != nil {
			d.setOutput(inst, sig.Output)
		} else {
			d.setOutput(inst, lattice.Anything())
		}

	case ir.OpConstruct:
		d.setOutput(inst, d.InferConstructedType(d.typeOf(inst.Input(0))))

	case ir.OpCallMethod:
		name, _ := inst.Literal.(string)
		argc := len(inst.Inputs) - 1
		candidates := d.resolveMethodOverloads(name, inst.Input(0))
		sig, ok := d.selectOverload(candidates, argc)
		if ok {
			d.setOutput(inst, sig.Output)
		} else {
			d.setOutput(inst, lattice.Anything())
		}

	case ir.OpCallComputedMethod:
		// The method name is only known at runtime; no overload set can
		// be narrowed to a single candidate.
		d.setOutput(inst, lattice.Anything())
	}
}

// resolveMethodOverloads fetches the candidate overload set for a named
// method call: a nominal C3 lookup when the receiver carries a group and
// that group declares the method, else the environment's well-known
// overload table.
func (d *Dispatcher) resolveMethodOverloads(name string, recv ir.Variable) []lattice.Signature {
	return d.InferMethodSignatures(name, d.typeOf(recv))
}

// InferMethodSignatures is the queryable `inferMethodSignatures`
// operation: the same nominal-then-environment lookup callMethod uses,
// exposed directly over a type so analyzer.Analyzer can answer it
// outside of
// Dispatch.
func (d *Dispatcher) InferMethodSignatures(name string, on lattice.Type) []lattice.Signature {
	if on.HasGroup() {
		if g, ok := d.Groups.GetGroup(on.GroupName()); ok && g.HasMethod(name) {
			return g.MethodOverloads(name)
		}
	}
	if d.Env == nil || name == "" {
		return nil
	}
	return d.Env.SignaturesOfMethod(name, on)
}

// InferConstructedType is the queryable `inferConstructedType`
// operation: a construct signature's return type, or a plain object
// when there is none (or its return type is unresolved).
func (d *Dispatcher) InferConstructedType(on lattice.Type) lattice.Type {
	if sig := on.ConstructSignature(); sig != nil && !sig.Output.IsTop() {
		return sig.Output
	}
	return lattice.Object()
}

// selectOverload picks the first candidate whose arity matches argc; if
// none match, it falls back to a uniform choice among all candidates.
// ok is false only when candidates is empty.
func (d *Dispatcher) selectOverload(candidates []lattice.Signature, argc int) (lattice.Signature, bool) {
	for _, s := range candidates {
		if s.MatchesArity(argc) {
			return s, true
		}
	}
	if len(candidates) == 0 {
		return lattice.Signature{}, false
	}
	return candidates[d.choose(len(candidates))], true
}
