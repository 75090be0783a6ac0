package dispatch

import (
	"github.com/jsfuzz/irtypes/internal/ir"
)

// dispatchLoop handles the loop family. A `for` loop's initializer and
// condition run unconditionally, in the enclosing frame, so their writes
// behave like ordinary sequential assignment. Its afterthought and body
// are conditional siblings of one C2 group that opens with an implicit
// empty sibling for the "zero iterations" path, so a variable they touch
// folds back with its pre-loop value through C2's ordinary "not every
// sibling touched it" merge rule. `while`/`repeat` open their group with
// the same empty sibling, followed by the body sibling.
func (d *Dispatcher) dispatchLoop(inst ir.Instruction) {
	d.setNoOutputs(inst)
	switch inst.Opcode {
	case ir.OpBeginFor, ir.OpBeginForCondition:
		// Unconditional: runs in the enclosing frame.

	case ir.OpBeginForAfterthought:
		d.Vars.StartGroupOfConditionalBlocks()
		d.Vars.EnterConditionalBlock(false) // implicit "zero iterations" sibling
		d.Vars.EnterConditionalBlock(false) // afterthought sibling, now active

	case ir.OpBeginForBody:
		d.Vars.EnterConditionalBlock(false)

	case ir.OpEndFor:
		d.Vars.EndGroupOfConditionalBlocks()

	case ir.OpBeginWhile, ir.OpBeginRepeat:
		d.Vars.StartGroupOfConditionalBlocks()
		d.Vars.EnterConditionalBlock(false) // implicit "zero iterations" sibling
		d.Vars.EnterConditionalBlock(false) // body sibling, now active

	case ir.OpEndLoop:
		d.Vars.EndGroupOfConditionalBlocks()
	}
}
