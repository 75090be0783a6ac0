package dispatch

import (
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/irfault"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

// classCtx is the dispatcher's own active-class-stack entry, tracking
// what the object-group manager's paired instance/constructor groups
// can't: the super types, and the
// constructor's own parameter list once its endSubroutine has run.
type classCtx struct {
	outputVar            ir.Variable
	superInstanceType     lattice.Type
	superConstructorType  lattice.Type
	ctorParams            []lattice.Param
}

// dispatchBeginClass determines the super type from Input(0) (the super
// constructor variable, InvalidVariable if there is no extends clause),
// copies its inherited properties/methods into the new class's instance
// group, and marks the class variable ⊤ for the duration of the body.
func (d *Dispatcher) dispatchBeginClass(inst ir.Instruction) {
	assertOutputs(inst, 1)
	classVar := inst.Output(0)

	superCtorType := lattice.Anything()
	superInstanceType := lattice.Object()
	if superVar := inst.Input(0); superVar.IsValid() {
		superCtorType = d.typeOf(superVar)
		if sig := superCtorType.ConstructSignature(); sig != nil {
			superInstanceType = sig.Output
		}
	}

	d.Groups.CreateNewClass()
	if superInstanceType.HasGroup() {
		if superGroup, ok := d.Groups.GetGroup(superInstanceType.GroupName()); ok {
			for _, name := range superInstanceType.Properties() {
				t := superGroup.PropertyType(name)
				d.Groups.AddProperty(name, &t)
			}
			for _, name := range superInstanceType.Methods() {
				d.Groups.AddMethod(name)
				for _, sig := range superGroup.MethodOverloads(name) {
					d.Groups.UpdateMethodSignature(name, sig)
				}
			}
		}
	}

	d.Vars.UpdateType(classVar, lattice.Anything(), nil)
	d.classes = append(d.classes, &classCtx{
		outputVar:            classVar,
		superInstanceType:    superInstanceType,
		superConstructorType: superCtorType,
	})
}

// dispatchEndClass finalizes both paired groups and composes the class
// variable's final type: the constructor group's own (static) instance
// type, additionally carrying a construct signature whose parameters are
// the constructor's and whose output is the finalized instance type.
// This is realized as WithConstructSignature directly on the
// constructor group's type rather than a literal lattice Intersect, which
// would drop the constructor group's own name since the synthetic
// constructor(...) operand carries none.
func (d *Dispatcher) dispatchEndClass(inst ir.Instruction) {
	d.setNoOutputs(inst)
	if len(d.classes) == 0 {
		irfault.Raise(irfault.CodeStackInvariant, "endClass with no active class")
	}
	ctx := d.classes[len(d.classes)-1]
	d.classes = d.classes[:len(d.classes)-1]

	instanceType := d.Groups.Finalize()
	ctorType := d.Groups.Finalize()

	ctorSig := lattice.Signature{Params: ctx.ctorParams, Output: instanceType}
	classType := ctorType.WithConstructSignature(ctorSig)
	d.Vars.UpdateType(ctx.outputVar, classType, nil)
}

// CurrentSuperType returns the top of the active-class stack's super
// instance type, or ⊤ if no class is currently being defined.
func (d *Dispatcher) CurrentSuperType() lattice.Type {
	if len(d.classes) == 0 {
		return lattice.Anything()
	}
	return d.classes[len(d.classes)-1].superInstanceType
}

// CurrentSuperConstructorType returns the top of the active-class stack's
// super constructor type, or ⊤ if no class is currently being defined.
func (d *Dispatcher) CurrentSuperConstructorType() lattice.Type {
	if len(d.classes) == 0 {
		return lattice.Anything()
	}
	return d.classes[len(d.classes)-1].superConstructorType
}
