package dispatch

import (
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

// dispatchReturn implements `return`: it carries no output of its own,
// and instead feeds the operand's type (or undefined, for a bare
// return) into the enclosing subroutine frame's running return type.
func (d *Dispatcher) dispatchReturn(inst ir.Instruction) {
	d.setNoOutputs(inst)
	operand := inst.Input(0)
	t := lattice.Undefined()
	if operand.IsValid() {
		t = d.typeOf(operand)
	}
	d.Vars.UpdateReturnValueType(t)
}
