package lattice

import "testing"

func TestUnionBottomAndTopAbsorb(t *testing.T) {
	if !Union(Bottom(), Integer()).Equal(Integer()) {
		t.Errorf("Bottom ∨ X should be X")
	}
	if !Union(Anything(), Integer()).Equal(Anything()) {
		t.Errorf("Top ∨ X should be Top")
	}
	if !Union(Integer(), Integer()).Equal(Integer()) {
		t.Errorf("Union should be idempotent")
	}
}

func TestUnionCommutativeAndAssociative(t *testing.T) {
	a, b, c := Integer(), StringT(), Boolean()
	if !Union(a, b).Equal(Union(b, a)) {
		t.Errorf("union not commutative")
	}
	left := Union(Union(a, b), c)
	right := Union(a, Union(b, c))
	if !left.Equal(right) {
		t.Errorf("union not associative: %s vs %s", left, right)
	}
}

func TestUnionObjectStructural(t *testing.T) {
	a := Object().AddProperty("x").AddProperty("y")
	b := Object().AddProperty("x").AddProperty("z")
	u := Union(a, b)
	if !u.HasProperty("x") {
		t.Errorf("union should keep shared property x")
	}
	if u.HasProperty("y") || u.HasProperty("z") {
		t.Errorf("union should drop non-shared properties, got %v", u.Properties())
	}
}

func TestUnionDropsGroupUnlessEqual(t *testing.T) {
	a := Object().WithGroup("Foo", []string{"x"}, nil)
	b := Object().WithGroup("Bar", []string{"x"}, nil)
	u := Union(a, b)
	if u.HasGroup() {
		t.Errorf("union of differently-named groups must drop the group, got %q", u.GroupName())
	}

	c := Object().WithGroup("Foo", []string{"x"}, nil)
	u2 := Union(a, c)
	if u2.GroupName() != "Foo" {
		t.Errorf("union of identically-named groups should keep the group, got %q", u2.GroupName())
	}
}

func TestAddPropertyDropsGroupWhenNewName(t *testing.T) {
	foo := Object().WithGroup("Foo", []string{"x"}, nil)
	widened := foo.AddProperty("y")
	if widened.HasGroup() {
		t.Errorf("adding a non-member property must drop the group")
	}
	if !widened.HasProperty("x") || !widened.HasProperty("y") {
		t.Errorf("widened type should keep x and gain y, got %v", widened.Properties())
	}

	same := foo.AddProperty("x")
	if same.GroupName() != "Foo" {
		t.Errorf("re-adding an existing member must keep the group")
	}
}

func TestSubtype(t *testing.T) {
	wide := Object().AddProperty("x")
	narrow := Object().AddProperty("x").AddProperty("y")

	if !IsSubtype(narrow, wide) {
		t.Errorf("narrow (more properties) should be a subtype of wide")
	}
	if IsSubtype(wide, narrow) {
		t.Errorf("wide should not be a subtype of narrow")
	}
	if !IsSubtype(Integer(), Anything()) {
		t.Errorf("everything is a subtype of Top")
	}
	if !IsSubtype(Bottom(), Integer()) {
		t.Errorf("Bottom is a subtype of everything")
	}
}

func TestSignatureArityMatching(t *testing.T) {
	sig := Signature{Params: []Param{
		{Kind: ParamPlain, Type: Integer()},
		{Kind: ParamOptional, Type: StringT()},
	}, Output: Boolean()}

	cases := []struct {
		argc int
		want bool
	}{
		{0, false},
		{1, true},
		{2, true},
		{3, false},
	}
	for _, c := range cases {
		if got := sig.MatchesArity(c.argc); got != c.want {
			t.Errorf("MatchesArity(%d) = %v, want %v", c.argc, got, c.want)
		}
	}

	rest := Signature{Params: []Param{
		{Kind: ParamPlain, Type: Integer()},
		{Kind: ParamRest, Type: Integer()},
	}, Output: Integer()}
	if !rest.MatchesArity(10) {
		t.Errorf("rest parameter should accept any argc above the required count")
	}
	if rest.MatchesArity(0) {
		t.Errorf("rest signature still requires its plain parameters")
	}
}

func TestOptionalParamWidensWithUndefined(t *testing.T) {
	p := Param{Kind: ParamOptional, Type: Integer()}
	callee := p.CalleeType()
	if !callee.Equal(Union(Integer(), Undefined())) {
		t.Errorf("optional param should widen to T|undefined, got %s", callee)
	}
}

func TestRestParamWidensToArray(t *testing.T) {
	p := Param{Kind: ParamRest, Type: Integer()}
	if !p.CalleeType().Equal(Array()) {
		t.Errorf("rest param should widen to array, got %s", p.CalleeType())
	}
}

func TestBottomNeverEqualsTopOrAnythingElse(t *testing.T) {
	if Bottom().Equal(Anything()) {
		t.Errorf("Bottom must not equal Top")
	}
	if !Bottom().IsBottom() {
		t.Errorf("zero value must be Bottom")
	}
}
