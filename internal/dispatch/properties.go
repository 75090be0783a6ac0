package dispatch

import (
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

// dispatchProperty handles the property/element family. Conventions:
// Inputs[0] is always the receiver; a literal-keyed op
// carries its name in inst.Literal; a value-writing op's value is its
// last input.
func (d *Dispatcher) dispatchProperty(inst ir.Instruction) {
	switch inst.Opcode {
	case ir.OpGetProperty:
		name, _ := inst.Literal.(string)
		d.setOutput(inst, d.lookupProperty(name, inst.Input(0)))

	case ir.OpGetElement, ir.OpGetComputedProperty:
		// The runtime key is unknown (a numeric index or a computed
		// expression), so nothing narrower than ⊤ can be said.
		d.setOutput(inst, lattice.Anything())

	case ir.OpSetProperty, ir.OpUpdateProperty:
		name, _ := inst.Literal.(string)
		d.addStructuralProperty(inst.Input(0), name)
		d.setOutput(inst, d.typeOf(inst.Input(1)))

	case ir.OpSetElement:
		d.setOutput(inst, d.typeOf(inst.Input(2)))

	case ir.OpSetComputedProperty:
		d.setOutput(inst, d.typeOf(inst.Input(2)))

	case ir.OpDeleteProperty:
		name, _ := inst.Literal.(string)
		d.removeStructuralProperty(inst.Input(0), name)
		d.setOutput(inst, lattice.Boolean())

	case ir.OpDeleteComputedProperty:
		d.setOutput(inst, lattice.Boolean())
	}
}

// lookupProperty implements the getter contract: nominal lookup via C3
// when the receiver carries a group name (⊤ if the group exists but name
// doesn't), else the environment's well-known-property fallback.
func (d *Dispatcher) lookupProperty(name string, recv ir.Variable) lattice.Type {
	return d.InferPropertyType(name, d.typeOf(recv))
}

// InferPropertyType is the queryable `inferPropertyType` operation: the
// same nominal-then-environment lookup dispatchProperty's getters use,
// exposed directly over a type rather than a live variable so
// analyzer.Analyzer can answer it outside of Dispatch.
func (d *Dispatcher) InferPropertyType(name string, on lattice.Type) lattice.Type {
	if on.HasGroup() {
		g, ok := d.Groups.GetGroup(on.GroupName())
		if ok && g.HasProperty(name) {
			return g.PropertyType(name)
		}
		return lattice.Anything()
	}
	if d.Env == nil || name == "" {
		return lattice.Anything()
	}
	return d.Env.TypeOfProperty(name, on)
}

func (d *Dispatcher) addStructuralProperty(v ir.Variable, name string) {
	if name == "" {
		return
	}
	t := d.typeOf(v)
	d.Vars.UpdateType(v, t.AddProperty(name), nil)
}

func (d *Dispatcher) removeStructuralProperty(v ir.Variable, name string) {
	if name == "" {
		return
	}
	t := d.typeOf(v)
	d.Vars.UpdateType(v, t.RemoveProperty(name), nil)
}
