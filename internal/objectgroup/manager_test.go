package objectgroup

import (
	"strings"
	"testing"

	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

func TestObjectLiteralAccumulatesProperties(t *testing.T) {
	m := New()
	inst := m.CreateNewObjectLiteral()
	if !inst.HasGroup() {
		t.Fatalf("fresh literal instance type must carry a group name")
	}
	m.AddProperty("x", nil)
	strT := lattice.StringT()
	m.AddProperty("y", &strT)
	final := m.Finalize()

	if !final.HasProperty("x") || !final.HasProperty("y") {
		t.Errorf("finalized type missing properties, got %s", final)
	}
	if final.GroupName() != inst.GroupName() {
		t.Errorf("finalized group name changed: %q vs %q", final.GroupName(), inst.GroupName())
	}
}

func TestFreshNamesAreCollisionFree(t *testing.T) {
	m := New()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		inst := m.CreateNewObjectLiteral()
		name := inst.GroupName()
		if seen[name] {
			t.Fatalf("duplicate group name generated: %q", name)
		}
		seen[name] = true
		if !strings.HasPrefix(name, "obj_") {
			t.Errorf("object literal group name should have obj_ prefix, got %q", name)
		}
		m.Finalize()
	}
}

func TestUpdatePropertyTypeRequiresMembership(t *testing.T) {
	m := New()
	m.CreateNewObjectLiteral()
	defer func() {
		if recover() == nil {
			t.Errorf("updating a non-member property should panic")
		}
	}()
	m.UpdatePropertyType("missing", lattice.Integer())
}

func TestMethodOverloadsAccumulate(t *testing.T) {
	m := New()
	m.CreateNewObjectLiteral()
	m.AddMethod("run")
	m.UpdateMethodSignature("run", lattice.Signature{Output: lattice.Integer()})
	m.UpdateMethodSignature("run", lattice.Signature{
		Params: []lattice.Param{{Kind: lattice.ParamPlain, Type: lattice.StringT()}},
		Output: lattice.Boolean(),
	})

	g, _ := m.GetGroup(m.top().Name)
	overloads := g.MethodOverloads("run")
	if len(overloads) != 2 {
		t.Fatalf("expected 2 accumulated overloads, got %d", len(overloads))
	}
}

func TestClassPushesInstanceAndConstructorGroups(t *testing.T) {
	m := New()
	instanceType := m.CreateNewClass()
	m.AddProperty("field", nil) // targets instance (active top)

	ctor := m.ConstructorGroup()
	ctor.addProperty("staticField", nil)

	if !instanceType.HasGroup() {
		t.Fatalf("class instance type should carry a group name")
	}
	inst, ok := m.GetGroup(instanceType.GroupName())
	if !ok {
		t.Fatalf("instance group should be discoverable via GetGroup (self-reference support)")
	}
	if !inst.HasProperty("field") {
		t.Errorf("instance group missing field")
	}
	if inst.HasProperty("staticField") {
		t.Errorf("static field leaked into instance group")
	}
	if !ctor.HasProperty("staticField") {
		t.Errorf("constructor group missing staticField")
	}
}

func TestWasmModuleExportsAttachedOnFinalize(t *testing.T) {
	m := New()
	m.CreateNewWasmModule()
	name, isNew := m.TouchWasmGlobal(ir.Variable(1), false, lattice.WasmI32())
	if !isNew || name != "wg0" {
		t.Fatalf("first global touch should be new and named wg0, got %q isNew=%v", name, isNew)
	}
	name2, isNew2 := m.TouchWasmGlobal(ir.Variable(1), false, lattice.WasmI32())
	if isNew2 || name2 != name {
		t.Errorf("repeat touch of same variable should reuse wg0, got %q isNew=%v", name2, isNew2)
	}

	moduleType := m.FinalizeWasmModule()
	if !moduleType.HasProperty("exports") {
		t.Fatalf("finalized module must carry an exports property")
	}
}

func TestImportedGlobalGetsDistinctPrefix(t *testing.T) {
	m := New()
	m.CreateNewWasmModule()
	name, _ := m.TouchWasmGlobal(ir.Variable(1), true, lattice.WasmI32())
	if name != "iwg0" {
		t.Errorf("imported global should be named iwg0, got %q", name)
	}
}

func TestFunctionImportDedupedByVariableAndSignature(t *testing.T) {
	m := New()
	m.CreateNewWasmModule()
	sigA := lattice.Signature{Output: lattice.WasmI32()}
	sigB := lattice.Signature{Output: lattice.WasmI64()}

	n1, new1 := m.TouchWasmFunctionImport(ir.Variable(5), sigA)
	n2, new2 := m.TouchWasmFunctionImport(ir.Variable(5), sigA) // same pair again
	n3, new3 := m.TouchWasmFunctionImport(ir.Variable(5), sigB) // same var, different signature

	if !new1 {
		t.Errorf("first import of a (var,sig) pair must be new")
	}
	if new2 || n2 != n1 {
		t.Errorf("re-importing the same (var,sig) pair must reuse the name, got %q isNew=%v", n2, new2)
	}
	if !new3 || n3 == n1 {
		t.Errorf("importing the same variable under a different signature must be a distinct entry, got %q isNew=%v", n3, new3)
	}
}

func TestGetGroupFindsActiveBeforeFinalized(t *testing.T) {
	m := New()
	m.CreateNewObjectLiteral()
	activeName := m.top().Name
	if _, ok := m.GetGroup(activeName); !ok {
		t.Fatalf("active group should be discoverable before finalization")
	}
	m.Finalize()
	if _, ok := m.GetGroup(activeName); !ok {
		t.Fatalf("group should remain discoverable after finalization")
	}
}
