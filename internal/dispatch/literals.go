package dispatch

import (
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

// ClassMemberAux carries a class member declaration's placement: static
// members target the auxiliary constructor group directly rather than
// the instance group that CreateNewClass leaves active.
type ClassMemberAux struct {
	Static bool
}

// dispatchBeginObjectLiteral pushes a fresh object-literal group (C3) and
// binds the output to its initial (empty, group-named) instance type, so
// a method body declared before the literal closes can already refer to
// the literal itself via getGroup's mid-definition lookup.
func (d *Dispatcher) dispatchBeginObjectLiteral(inst ir.Instruction) {
	d.setOutput(inst, d.Groups.CreateNewObjectLiteral())
}

// dispatchObjectLiteralAddProperty adds inst.Literal's name to the active
// object literal, recording Input(0)'s type when present.
func (d *Dispatcher) dispatchObjectLiteralAddProperty(inst ir.Instruction) {
	d.setNoOutputs(inst)
	name, _ := inst.Literal.(string)
	if name == "" {
		return
	}
	if v := inst.Input(0); v.IsValid() {
		t := d.typeOf(v)
		d.Groups.AddProperty(name, &t)
	} else {
		d.Groups.AddProperty(name, nil)
	}
}

// dispatchObjectLiteralAddMethod registers method/getter/setter
// membership ahead of the matching beginSubroutine/endSubroutine pair,
// which supplies the actual signature once the body is processed
// (subroutine.go's KindObjectLiteral* cases call UpdateMethodSignature /
// UpdatePropertyType — both assert membership, hence this call first).
func (d *Dispatcher) dispatchObjectLiteralAddMethod(inst ir.Instruction) {
	d.setNoOutputs(inst)
	name, _ := inst.Literal.(string)
	if name == "" {
		return
	}
	d.Groups.AddMethod(name)
}

// dispatchEndObjectLiteral finalizes the active literal group.
func (d *Dispatcher) dispatchEndObjectLiteral(inst ir.Instruction) {
	d.setOutput(inst, d.Groups.Finalize())
}

// dispatchClassAddProperty declares an instance or static property on the
// class currently being defined. Static members target the constructor
// group explicitly (ConstructorGroup), since the instance group is the
// one CreateNewClass leaves active.
func (d *Dispatcher) dispatchClassAddProperty(inst ir.Instruction) {
	d.setNoOutputs(inst)
	name, _ := inst.Literal.(string)
	if name == "" {
		return
	}
	aux, _ := inst.Aux.(ClassMemberAux)
	var t *lattice.Type
	if v := inst.Input(0); v.IsValid() {
		tt := d.typeOf(v)
		t = &tt
	}
	if aux.Static {
		d.Groups.ConstructorGroup().AddProperty(name, t)
	} else {
		d.Groups.AddProperty(name, t)
	}
}

// dispatchClassAddMethod registers instance or static method/getter/
// setter membership ahead of the matching beginSubroutine/endSubroutine
// pair (see dispatchObjectLiteralAddMethod). Non-static members target
// the instance group (CreateNewClass's active top); static members
// target the constructor group explicitly.
func (d *Dispatcher) dispatchClassAddMethod(inst ir.Instruction) {
	d.setNoOutputs(inst)
	name, _ := inst.Literal.(string)
	if name == "" {
		return
	}
	aux, _ := inst.Aux.(ClassMemberAux)
	if aux.Static {
		d.Groups.ConstructorGroup().AddMethod(name)
	} else {
		d.Groups.AddMethod(name)
	}
}
