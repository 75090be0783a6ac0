package dispatch

import (
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

var bigintAtoms = lattice.BigInt().Atoms()

// bigintClosure implements the "polymorphic in bigint" widening rule
// shared by +, -/*//%/**, and bitwise ops: exactly bigint if every
// operand is definitely bigint, widened to base∨bigint if any operand
// may be bigint, else base.
func bigintClosure(base lattice.Type, operands ...lattice.Type) lattice.Type {
	allBigint := true
	anyMayBigint := false
	for _, t := range operands {
		if !t.Is(bigintAtoms) {
			allBigint = false
		}
		if t.MayBe(bigintAtoms) {
			anyMayBigint = true
		}
	}
	if allBigint {
		return lattice.BigInt()
	}
	if anyMayBigint {
		return lattice.Union(base, lattice.BigInt())
	}
	return base
}

// dispatchArith handles binary/unary/ternary operators.
func (d *Dispatcher) dispatchArith(inst ir.Instruction) {
	switch inst.Opcode {
	case ir.OpBinaryAdd:
		a, b := d.typeOf(inst.Input(0)), d.typeOf(inst.Input(1))
		d.setOutput(inst, bigintClosure(lattice.PrimitiveT(), a, b))

	case ir.OpBinaryArith:
		a, b := d.typeOf(inst.Input(0)), d.typeOf(inst.Input(1))
		d.setOutput(inst, bigintClosure(lattice.NumberT(), a, b))

	case ir.OpBinaryBitwise:
		a, b := d.typeOf(inst.Input(0)), d.typeOf(inst.Input(1))
		d.setOutput(inst, bigintClosure(lattice.Integer(), a, b))

	case ir.OpBinaryLogicalAnd, ir.OpBinaryLogicalOr, ir.OpBinaryNullish:
		a, b := d.typeOf(inst.Input(0)), d.typeOf(inst.Input(1))
		d.setOutput(inst, lattice.Union(a, b))

	case ir.OpCompare, ir.OpInstanceOf, ir.OpIn:
		d.setOutput(inst, lattice.Boolean())

	case ir.OpTypeOf:
		d.setOutput(inst, lattice.StringT())

	case ir.OpVoid:
		d.setOutput(inst, lattice.Undefined())

	case ir.OpUnaryNot:
		d.setOutput(inst, lattice.Boolean())

	case ir.OpUnaryNegate:
		a := d.typeOf(inst.Input(0))
		d.setOutput(inst, bigintClosure(lattice.NumberT(), a))

	case ir.OpTernary:
		a, b := d.typeOf(inst.Input(1)), d.typeOf(inst.Input(2))
		d.setOutput(inst, lattice.Union(a, b))
	}
}
