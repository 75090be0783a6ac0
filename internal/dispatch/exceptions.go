package dispatch

import (
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

// dispatchException handles try/catch/finally: modeled as a
// conditional-execution group exactly like if/else. beginCatch's inner
// output (the caught value) is typed ⊤,
// per the open-question resolution against precise catch-value typing.
// beginFinally closes the try/catch group, so the finally body runs
// unconditionally after that merge, in a single-frame group of its own
// (not a sibling) that endTryCatch then closes.
func (d *Dispatcher) dispatchException(inst ir.Instruction) {
	switch inst.Opcode {
	case ir.OpBeginTry:
		d.setNoOutputs(inst)
		d.Vars.StartGroupOfConditionalBlocks()
		d.Vars.EnterConditionalBlock(false)

	case ir.OpBeginCatch:
		d.Vars.EnterConditionalBlock(false)
		if v := inst.InnerOutput(0); v.IsValid() {
			d.Vars.UpdateType(v, lattice.Anything(), nil)
		}

	case ir.OpEndTryCatch:
		d.setNoOutputs(inst)
		d.Vars.EndGroupOfConditionalBlocks()

	case ir.OpBeginFinally:
		d.setNoOutputs(inst)
		d.Vars.EndGroupOfConditionalBlocks()
		d.Vars.StartGroupOfConditionalBlocks()
		d.Vars.EnterConditionalBlock(false)
	}
}

// dispatchComputeWith handles `with` statements: entering the block types
// every inner output ⊤ because property membership is dynamic (the same
// rule as a computed-key property access), and closing it is a no-op.
func (d *Dispatcher) dispatchComputeWith(inst ir.Instruction) {
	switch inst.Opcode {
	case ir.OpBeginComputeWith:
		assertOutputs(inst, 0)
		for i := 0; i < inst.NumInnerOutputs(); i++ {
			d.Vars.UpdateType(inst.InnerOutput(i), lattice.Anything(), nil)
		}
	case ir.OpEndComputeWith:
		d.setNoOutputs(inst)
	}
}
