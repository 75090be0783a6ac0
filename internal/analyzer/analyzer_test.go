package analyzer

import (
	"testing"

	"github.com/jsfuzz/irtypes/internal/dispatch"
	"github.com/jsfuzz/irtypes/internal/env"
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/irfault"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

func load(op ir.Opcode, index int, out ir.Variable) ir.Instruction {
	inst := ir.New(op, index)
	inst.Outputs = []ir.Variable{out}
	return inst
}

// TestConditionalUnionJoinsExplicitArms covers an if/else with both arms
// present: a variable assigned an integer in one arm and a string in the
// other must come out of the join as their union, not either branch
// alone.
func TestConditionalUnionJoinsExplicitArms(t *testing.T) {
	a := New(env.NewStatic(), nil)
	v := ir.Variable(1)

	must(t, a.Analyze(load(ir.OpLoadInteger, 0, v)))

	ifInst := ir.New(ir.OpBeginIf, 1)
	must(t, a.Analyze(ifInst))

	strInst := ir.New(ir.OpLoadString, 2)
	strInst.Outputs = []ir.Variable{v}
	must(t, a.Analyze(strInst))

	must(t, a.Analyze(ir.New(ir.OpBeginElse, 3)))

	intInst := ir.New(ir.OpLoadInteger, 4)
	intInst.Outputs = []ir.Variable{v}
	must(t, a.Analyze(intInst))

	must(t, a.Analyze(ir.New(ir.OpEndIf, 5)))

	got := a.TypeOf(v)
	if !got.MayBe(lattice.StringT().Atoms()) || !got.MayBe(lattice.Integer().Atoms()) {
		t.Errorf("expected join of string and integer, got %s", got)
	}
}

// TestConditionalUnionJoinsBareIfWithParent exercises S1 verbatim: V0 ←
// loadInt 1; V1 ← loadBool true; beginIf V1; V0 ← loadString "x"; endIf,
// with no beginElse at all. A plain if with no else must merge the
// if-branch's types with the unchanged parent state rather than discard
// the parent value outright, so the result must be integer ∨ string, not
// string alone.
func TestConditionalUnionJoinsBareIfWithParent(t *testing.T) {
	a := New(env.NewStatic(), nil)
	v0 := ir.Variable(0)
	v1 := ir.Variable(1)

	must(t, a.Analyze(load(ir.OpLoadInteger, 0, v0)))
	must(t, a.Analyze(load(ir.OpLoadBoolean, 1, v1)))

	must(t, a.Analyze(ir.New(ir.OpBeginIf, 2)))

	strInst := ir.New(ir.OpLoadString, 3)
	strInst.Outputs = []ir.Variable{v0}
	must(t, a.Analyze(strInst))

	must(t, a.Analyze(ir.New(ir.OpEndIf, 4)))

	got := a.TypeOf(v0)
	if !got.MayBe(lattice.StringT().Atoms()) || !got.MayBe(lattice.Integer().Atoms()) {
		t.Errorf("expected join of integer and string for a bare if with no else, got %s", got)
	}
}

// TestObjectLiteralAccumulatesPropertiesThroughDispatch exercises S2 via
// the opcode family added for object literals: a literal declaring two
// properties must finalize carrying both, with the type recorded for the
// one given an explicit value.
func TestObjectLiteralAccumulatesPropertiesThroughDispatch(t *testing.T) {
	a := New(env.NewStatic(), nil)
	lit := ir.Variable(1)
	xVal := ir.Variable(2)

	must(t, a.Analyze(load(ir.OpBeginObjectLiteral, 0, lit)))

	must(t, a.Analyze(load(ir.OpLoadInteger, 1, xVal)))

	addX := ir.New(ir.OpObjectLiteralAddProperty, 2)
	addX.Inputs = []ir.Variable{xVal}
	addX.Literal = "x"
	must(t, a.Analyze(addX))

	addY := ir.New(ir.OpObjectLiteralAddProperty, 3)
	addY.Literal = "y"
	must(t, a.Analyze(addY))

	endInst := load(ir.OpEndObjectLiteral, 4, lit)
	must(t, a.Analyze(endInst))

	final := a.TypeOf(lit)
	if !final.HasProperty("x") || !final.HasProperty("y") {
		t.Fatalf("finalized literal missing properties, got %s", final)
	}
	if got := a.InferPropertyType("x", final); !got.Equal(lattice.Integer()) {
		t.Errorf("property x should carry the initializer's type, got %s", got)
	}
}

// TestClassStaticMemberSignaturePropagatesToConstructorGroup exercises
// the fix made to dispatchEndSubroutine: a static method declared on a
// class must have its final signature recorded on the constructor
// group, not the instance group its membership was never registered on.
func TestClassStaticMemberSignaturePropagatesToConstructorGroup(t *testing.T) {
	a := New(env.NewStatic(), nil)
	classVar := ir.Variable(1)
	methodVar := ir.Variable(2)

	must(t, a.Analyze(load(ir.OpBeginClass, 0, classVar)))

	addMethod := ir.New(ir.OpClassAddMethod, 1)
	addMethod.Literal = "make"
	addMethod.Aux = dispatch.ClassMemberAux{Static: true}
	must(t, a.Analyze(addMethod))

	beginSub := load(ir.OpBeginSubroutine, 2, methodVar)
	beginSub.Aux = dispatch.SubroutineAux{Kind: dispatch.KindClassMethod, Name: "make", Static: true}
	must(t, a.Analyze(beginSub))

	must(t, a.Analyze(ir.New(ir.OpEndSubroutine, 3)))

	must(t, a.Analyze(ir.New(ir.OpEndClass, 4)))

	classType := a.TypeOf(classVar)
	sigs := a.InferMethodSignatures("make", classType)
	if len(sigs) != 1 {
		t.Fatalf("expected the static method's signature on the class's own (constructor) group, got %d overloads", len(sigs))
	}
}

// TestResetRejectsOpenState exercises the Reset lifecycle assertion: a
// caller that resets mid-conditional must get an InvariantError rather
// than have the open frame silently discarded.
func TestResetRejectsOpenState(t *testing.T) {
	a := New(env.NewStatic(), nil)
	must(t, a.Analyze(ir.New(ir.OpBeginIf, 0)))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("Reset during an open conditional block should raise")
		}
		if _, ok := r.(*irfault.InvariantError); !ok {
			t.Fatalf("expected *irfault.InvariantError, got %T", r)
		}
	}()
	a.Reset()
}

// TestResetRebuildsCleanAnalyzer confirms a reset from root state leaves
// the analyzer usable again with fresh collaborators.
func TestResetRebuildsCleanAnalyzer(t *testing.T) {
	a := New(env.NewStatic(), nil)
	v := ir.Variable(1)
	must(t, a.Analyze(load(ir.OpLoadInteger, 0, v)))

	a.Reset()

	if got := a.TypeOf(v); !got.IsTop() {
		t.Errorf("expected a fresh variable map after Reset, got %s for a never-assigned variable", got)
	}

	must(t, a.Analyze(load(ir.OpLoadString, 0, v)))
	if !a.TypeOf(v).Equal(lattice.StringT()) {
		t.Errorf("analyzer should remain usable after Reset")
	}
}

// TestAnalyzeRecoversInvariantFaultsAsErrors confirms a dispatch-raised
// fault surfaces as a returned error rather than a panic escaping Analyze.
func TestAnalyzeRecoversInvariantFaultsAsErrors(t *testing.T) {
	a := New(env.NewStatic(), nil)
	err := a.Analyze(ir.New(ir.OpEndSubroutine, 0))
	if err == nil {
		t.Fatalf("endSubroutine with no active subroutine should error, not silently succeed")
	}
	if _, ok := err.(*irfault.InvariantError); !ok {
		t.Fatalf("expected *irfault.InvariantError, got %T", err)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
