package dispatch

import (
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

// DestructureAux carries destructObject's named-slot pattern: Names[i] is
// the property name bound to Outputs[i], or "" for a rest element (which
// always types as a generic object). inst.Input(0) is the source being
// destructured.
type DestructureAux struct {
	Names []string
}

// dispatchDestructure handles array/object destructuring. Array
// destructs yield ⊤ per element since positional access has no
// static name to look up; object destructs resolve each named slot the
// same way a getProperty would.
func (d *Dispatcher) dispatchDestructure(inst ir.Instruction) {
	switch inst.Opcode {
	case ir.OpDestructArray:
		for _, v := range inst.Outputs {
			d.writeDestructuredOutput(inst, v, lattice.Anything())
		}

	case ir.OpDestructObject:
		recv := inst.Input(0)
		aux, _ := inst.Aux.(DestructureAux)
		for i, v := range inst.Outputs {
			var name string
			if i < len(aux.Names) {
				name = aux.Names[i]
			}
			t := lattice.Object()
			if name != "" {
				t = d.lookupProperty(name, recv)
			}
			d.writeDestructuredOutput(inst, v, t)
		}
	}
}

func (d *Dispatcher) writeDestructuredOutput(inst ir.Instruction, v ir.Variable, t lattice.Type) {
	if inst.IsGuarded {
		t = lattice.Anything()
	}
	d.Vars.UpdateType(v, t, nil)
}
