package env

import (
	"testing"

	"github.com/jsfuzz/irtypes/internal/lattice"
)

func TestUnknownBuiltinIsTop(t *testing.T) {
	s := NewStatic()
	if s.HasBuiltin("Math") {
		t.Fatalf("fresh Static should not know any builtins")
	}
	got := s.TypeOfBuiltin("Math")
	if !got.IsTop() {
		t.Errorf("TypeOfBuiltin(unknown) = %s, want Top", got)
	}
}

func TestRegisteredBuiltinIsFound(t *testing.T) {
	s := NewStatic().WithBuiltin("Math", lattice.Object())
	if !s.HasBuiltin("Math") {
		t.Fatalf("HasBuiltin should report true after WithBuiltin")
	}
	if got := s.TypeOfBuiltin("Math"); !got.Equal(lattice.Object()) {
		t.Errorf("TypeOfBuiltin(Math) = %s, want object", got)
	}
}

func TestStructuralPropertyKeyedByAtomSet(t *testing.T) {
	s := NewStatic().WithProperty("length", lattice.StringT(), lattice.Integer())
	got := s.TypeOfProperty("length", lattice.StringT())
	if !got.Equal(lattice.Integer()) {
		t.Errorf("TypeOfProperty(length, string) = %s, want integer", got)
	}
	if got := s.TypeOfProperty("length", lattice.Boolean()); !got.IsTop() {
		t.Errorf("TypeOfProperty on an unregistered type should be Top, got %s", got)
	}
}

func TestNominalPropertyKeyedByGroupDoesNotLeakToOtherGroups(t *testing.T) {
	one := lattice.Object().WithGroup("shapeA", []string{"x"}, nil)
	other := lattice.Object().WithGroup("shapeB", nil, nil)
	s := NewStatic().WithProperty("tag", one, lattice.StringT())

	if got := s.TypeOfProperty("tag", one); !got.Equal(lattice.StringT()) {
		t.Errorf("TypeOfProperty(tag, shapeA) = %s, want string", got)
	}
	if got := s.TypeOfProperty("tag", other); !got.IsTop() {
		t.Errorf("a property registered against one nominal group must not answer for another, got %s", got)
	}
}

func TestMethodOverloadsAccumulateInOrder(t *testing.T) {
	recv := lattice.StringT()
	s := NewStatic().
		WithMethod("slice", recv, lattice.NewSignature(lattice.StringT())).
		WithMethod("slice", recv, lattice.NewSignature(lattice.StringT(), lattice.Integer()))

	got := s.SignaturesOfMethod("slice", recv)
	if len(got) != 2 {
		t.Fatalf("SignaturesOfMethod(slice) returned %d overloads, want 2", len(got))
	}
	if len(got[1].Params) != 1 {
		t.Errorf("second overload should carry one parameter, got %d", len(got[1].Params))
	}
}

func TestUnknownMethodReturnsNil(t *testing.T) {
	s := NewStatic()
	if got := s.SignaturesOfMethod("nope", lattice.StringT()); got != nil {
		t.Errorf("SignaturesOfMethod(unknown) = %v, want nil", got)
	}
}

func TestEnumLookup(t *testing.T) {
	s := NewStatic().WithEnum("Color", lattice.EnumType("Color"))
	got, ok := s.Enum("Color")
	if !ok {
		t.Fatalf("Enum(Color) should be found after WithEnum")
	}
	if !got.Equal(lattice.EnumType("Color")) {
		t.Errorf("Enum(Color) = %s, want EnumType(Color)", got)
	}

	if _, ok := s.Enum("Missing"); ok {
		t.Errorf("Enum(Missing) should report not-found")
	}
}
