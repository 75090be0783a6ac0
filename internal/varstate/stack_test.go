package varstate

import (
	"testing"

	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

func TestIfElseMerge(t *testing.T) {
	s := NewStack()
	v := ir.Variable(1)
	s.UpdateType(v, lattice.Integer(), nil)

	s.StartGroupOfConditionalBlocks()
	s.EnterConditionalBlock(false)
	s.UpdateType(v, lattice.StringT(), nil)
	s.EnterConditionalBlock(false)
	s.UpdateType(v, lattice.Boolean(), nil)
	s.EndGroupOfConditionalBlocks()

	got := s.TypeOf(v)
	want := lattice.Union(lattice.StringT(), lattice.Boolean())
	if !got.Equal(want) {
		t.Errorf("TypeOf(v) = %s, want %s", got, want)
	}
}

func TestSingleFrameGroupIsTreatedAsNoBranch(t *testing.T) {
	s := NewStack()
	v := ir.Variable(1)
	s.UpdateType(v, lattice.Integer(), nil)

	s.StartGroupOfConditionalBlocks()
	s.EnterConditionalBlock(false)
	s.UpdateType(v, lattice.StringT(), nil)
	s.EndGroupOfConditionalBlocks()

	got := s.TypeOf(v)
	if !got.Equal(lattice.StringT()) {
		t.Errorf("a single-frame group is unconditional execution; TypeOf(v) = %s, want %s", got, lattice.StringT())
	}
}

func TestTwoSiblingsWhereOnlyOneTouchesVarFoldsInParent(t *testing.T) {
	s := NewStack()
	v := ir.Variable(1)
	other := ir.Variable(2)
	s.UpdateType(v, lattice.Integer(), nil)

	s.StartGroupOfConditionalBlocks()
	s.EnterConditionalBlock(false)
	s.UpdateType(v, lattice.StringT(), nil)
	s.EnterConditionalBlock(false)
	s.UpdateType(other, lattice.Boolean(), nil)
	s.EndGroupOfConditionalBlocks()

	got := s.TypeOf(v)
	want := lattice.Union(lattice.Integer(), lattice.StringT())
	if !got.Equal(want) {
		t.Errorf("TypeOf(v) = %s, want %s (only one of two siblings touched v, so parent value must be folded in)", got, want)
	}
}

func TestVariableUntouchedByConditionalIsUnaffected(t *testing.T) {
	s := NewStack()
	v := ir.Variable(1)
	other := ir.Variable(2)
	s.UpdateType(v, lattice.Integer(), nil)

	s.StartGroupOfConditionalBlocks()
	s.EnterConditionalBlock(false)
	s.UpdateType(other, lattice.Boolean(), nil)
	s.EnterConditionalBlock(false)
	s.UpdateType(other, lattice.StringT(), nil)
	s.EndGroupOfConditionalBlocks()

	if !s.TypeOf(v).Equal(lattice.Integer()) {
		t.Errorf("v should be untouched by a conditional that never wrote it, got %s", s.TypeOf(v))
	}
}

func TestSwitchWithoutDefaultAddsImplicitEmptySibling(t *testing.T) {
	s := NewStack()
	v := ir.Variable(1)
	s.UpdateType(v, lattice.Integer(), nil)

	s.StartSwitch()
	s.EnterSwitchCase()
	s.UpdateType(v, lattice.StringT(), nil)
	s.EndSwitch()

	want := lattice.Union(lattice.Integer(), lattice.StringT())
	if !s.TypeOf(v).Equal(want) {
		t.Errorf("switch with no default must fold in the no-case-matched path, got %s want %s", s.TypeOf(v), want)
	}
}

func TestSwitchWithDefaultDoesNotAddImplicitSibling(t *testing.T) {
	s := NewStack()
	v := ir.Variable(1)
	s.UpdateType(v, lattice.Integer(), nil)

	s.StartSwitch()
	s.EnterSwitchCase()
	s.UpdateType(v, lattice.StringT(), nil)
	s.EnterSwitchDefaultCase()
	s.UpdateType(v, lattice.Boolean(), nil)
	s.EndSwitch()

	want := lattice.Union(lattice.StringT(), lattice.Boolean())
	if !s.TypeOf(v).Equal(want) {
		t.Errorf("switch with a default case covers every path, got %s want %s", s.TypeOf(v), want)
	}
}

func TestIfWithNoElseAddsImplicitEmptySibling(t *testing.T) {
	s := NewStack()
	v := ir.Variable(1)
	s.UpdateType(v, lattice.Integer(), nil)

	s.StartGroupOfConditionalBlocks()
	s.EnterConditionalBlock(false)
	s.UpdateType(v, lattice.StringT(), nil)
	s.EndIf()

	want := lattice.Union(lattice.Integer(), lattice.StringT())
	if !s.TypeOf(v).Equal(want) {
		t.Errorf("if with no else must fold in the condition-false path, got %s want %s", s.TypeOf(v), want)
	}
}

func TestIfWithElseDoesNotAddImplicitSibling(t *testing.T) {
	s := NewStack()
	v := ir.Variable(1)
	s.UpdateType(v, lattice.Integer(), nil)

	s.StartGroupOfConditionalBlocks()
	s.EnterConditionalBlock(false)
	s.UpdateType(v, lattice.StringT(), nil)
	s.EnterElseBlock()
	s.UpdateType(v, lattice.Boolean(), nil)
	s.EndIf()

	want := lattice.Union(lattice.StringT(), lattice.Boolean())
	if !s.TypeOf(v).Equal(want) {
		t.Errorf("if/else covers every path, got %s want %s", s.TypeOf(v), want)
	}
}

func TestSubroutineNeverCalledPath(t *testing.T) {
	s := NewStack()
	s.StartSubroutine()
	ret := s.EndSubroutine(lattice.Undefined())
	if !ret.Equal(lattice.Undefined()) {
		t.Errorf("subroutine that never returns should fall back to defaultT, got %s", ret)
	}
}

func TestSubroutineReturnUnion(t *testing.T) {
	s := NewStack()
	s.StartSubroutine()
	s.UpdateReturnValueType(lattice.Integer())

	s.StartGroupOfConditionalBlocks()
	s.EnterConditionalBlock(false)
	s.UpdateReturnValueType(lattice.StringT())
	s.EnterConditionalBlock(false)
	// this branch does not return
	s.EndGroupOfConditionalBlocks()

	ret := s.EndSubroutine(lattice.Undefined())
	want := lattice.Union(lattice.Integer(), lattice.StringT())
	if !ret.Equal(want) {
		t.Errorf("EndSubroutine = %s, want %s", ret, want)
	}
}

func TestUpdateReturnValueTypeIgnoredAfterReturn(t *testing.T) {
	s := NewStack()
	s.StartSubroutine()
	s.UpdateReturnValueType(lattice.Integer())
	s.UpdateReturnValueType(lattice.StringT()) // dead code, must be ignored

	ret := s.EndSubroutine(lattice.Undefined())
	if !ret.Equal(lattice.Integer()) {
		t.Errorf("second updateReturnValueType after a return is dead code, got %s", ret)
	}
}

func TestTypeChangeObserverFires(t *testing.T) {
	s := NewStack()
	v := ir.Variable(1)
	var events []string
	s.AddObserver(func(v ir.Variable, old, newT lattice.Type) {
		events = append(events, old.String()+"->"+newT.String())
	})
	s.UpdateType(v, lattice.Integer(), nil)
	s.UpdateType(v, lattice.StringT(), nil)

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %v", len(events), events)
	}
}

func TestUnknownVariableReadsAsTop(t *testing.T) {
	s := NewStack()
	if !s.TypeOf(ir.Variable(99)).IsTop() {
		t.Errorf("an unwritten variable must read as Top, never Bottom")
	}
}
