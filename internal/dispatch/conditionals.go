package dispatch

import "github.com/jsfuzz/irtypes/internal/ir"

// dispatchConditional handles if/else and switch: thin wrappers over the
// variable state stack's group/enter/end operations.
func (d *Dispatcher) dispatchConditional(inst ir.Instruction) {
	d.setNoOutputs(inst)
	switch inst.Opcode {
	case ir.OpBeginIf:
		d.Vars.StartGroupOfConditionalBlocks()
		d.Vars.EnterConditionalBlock(false)

	case ir.OpBeginElse:
		d.Vars.EnterElseBlock()

	case ir.OpEndIf:
		d.Vars.EndIf()

	case ir.OpBeginSwitch:
		d.Vars.StartSwitch()

	case ir.OpBeginSwitchCase:
		d.Vars.EnterSwitchCase()

	case ir.OpBeginSwitchDefaultCase:
		d.Vars.EnterSwitchDefaultCase()

	case ir.OpEndSwitch:
		d.Vars.EndSwitch()
	}
}
