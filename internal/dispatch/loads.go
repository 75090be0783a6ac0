package dispatch

import (
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

// dispatchLoad handles the constant-load family: each opcode produces a
// fixed or near-fixed output type, independent of any input variable.
func (d *Dispatcher) dispatchLoad(inst ir.Instruction) {
	switch inst.Opcode {
	case ir.OpLoadInteger:
		d.setOutput(inst, lattice.Integer())
	case ir.OpLoadFloat:
		d.setOutput(inst, lattice.Float())
	case ir.OpLoadBigInt:
		d.setOutput(inst, lattice.BigInt())
	case ir.OpLoadString:
		d.setOutput(inst, d.loadStringType(inst))
	case ir.OpLoadBoolean:
		d.setOutput(inst, lattice.Boolean())
	case ir.OpLoadUndefined:
		d.setOutput(inst, lattice.Undefined())
	case ir.OpLoadNull:
		// Deliberate: the system conflates null and undefined downstream.
		d.setOutput(inst, lattice.Undefined())
	case ir.OpLoadThis:
		d.setOutput(inst, lattice.Object())
	case ir.OpLoadArguments:
		d.setOutput(inst, lattice.Object())
	case ir.OpLoadRegExp:
		d.setOutput(inst, lattice.RegExp())
	case ir.OpLoadNewTarget:
		d.setOutput(inst, lattice.Union(lattice.FunctionT(), lattice.Undefined()))
	}
}

// loadStringType resolves loadString's output: a plain string when no
// custom name is carried, a looked-up enum type when the name matches a
// registered enum, else a string literal tagged with the custom name.
func (d *Dispatcher) loadStringType(inst ir.Instruction) lattice.Type {
	name, ok := inst.Literal.(string)
	if !ok || name == "" {
		return lattice.StringT()
	}
	if d.Env != nil {
		if t, ok := d.Env.Enum(name); ok {
			return t
		}
	}
	return lattice.NamedString(name)
}
