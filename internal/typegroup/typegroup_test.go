package typegroup

import (
	"testing"

	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/wasmtype"
)

func TestSelfReferenceClosedOnFinish(t *testing.T) {
	m := New()
	m.BeginTypeGroup()

	selfRef := ir.Variable(1)
	structVar := ir.Variable(2)
	var patched *ir.Variable
	resolved := false

	m.Resolve(selfRef, nil, -1, func(replacement *ir.Variable) {
		resolved = true
		patched = replacement
	})
	m.Define(selfRef)
	m.Define(structVar)

	if resolved {
		t.Fatalf("resolver must not fire before finishTypeGroup when the reference is still a sentinel")
	}

	idx := m.FinishTypeGroup()

	if !resolved {
		t.Fatalf("finishTypeGroup must fire every pending self-reference resolver")
	}
	if patched != nil {
		t.Errorf("an unresolved cycle closes to the enclosing definition (nil replacement), got %v", *patched)
	}
	if m.HasPendingSelfReferences() {
		t.Errorf("no self-reference resolver should remain pending after finishTypeGroup")
	}
	if got, ok := m.GroupOf(structVar); !ok || got != idx {
		t.Errorf("GroupOf(structVar) = (%d, %v), want (%d, true)", got, ok, idx)
	}
}

func TestForwardReferenceResolvesImmediately(t *testing.T) {
	m := New()
	m.BeginTypeGroup()

	sentinel := ir.Variable(1)
	target := ir.Variable(99)
	var seen *ir.Variable

	m.Resolve(sentinel, nil, -1, func(replacement *ir.Variable) {
		seen = replacement
	})
	m.ResolveForward(sentinel, target)

	if seen == nil || *seen != target {
		t.Fatalf("forward resolution should fire immediately with the named target")
	}
	if m.HasPendingSelfReferences() {
		t.Errorf("resolved forward reference must be removed from the pending registry")
	}

	m.FinishTypeGroup() // should not re-fire anything
}

func TestDependencyTrackingAcrossGroups(t *testing.T) {
	m := New()

	m.BeginTypeGroup()
	base := ir.Variable(1)
	m.Define(base)
	baseIdx := m.FinishTypeGroup()

	m.BeginTypeGroup()
	derived := ir.Variable(2)
	fired := false
	m.Resolve(base, &wasmtype.Def{Kind: wasmtype.DefStruct}, baseIdx, func(*ir.Variable) { fired = true })
	m.Define(derived)
	derivedIdx := m.FinishTypeGroup()

	if !fired {
		t.Fatalf("a concrete reference must resolve immediately")
	}
	deps := m.Dependencies(derivedIdx)
	if len(deps) != 1 || deps[0] != baseIdx {
		t.Errorf("Dependencies(derived) = %v, want [%d]", deps, baseIdx)
	}
}

func TestTransitiveDependenciesUnion(t *testing.T) {
	m := New()

	m.BeginTypeGroup()
	a := ir.Variable(1)
	m.Define(a)
	aIdx := m.FinishTypeGroup()

	m.BeginTypeGroup()
	b := ir.Variable(2)
	m.Resolve(a, &wasmtype.Def{Kind: wasmtype.DefStruct}, aIdx, func(*ir.Variable) {})
	m.Define(b)
	bIdx := m.FinishTypeGroup()

	m.BeginTypeGroup()
	c := ir.Variable(3)
	m.Resolve(b, &wasmtype.Def{Kind: wasmtype.DefStruct}, bIdx, func(*ir.Variable) {})
	m.Define(c)
	cIdx := m.FinishTypeGroup()

	deps := m.Dependencies(cIdx)
	want := map[int]bool{aIdx: true, bIdx: true}
	if len(deps) != 2 {
		t.Fatalf("Dependencies(c) = %v, want both %d and %d (transitive closure)", deps, aIdx, bIdx)
	}
	for _, d := range deps {
		if !want[d] {
			t.Errorf("unexpected dependency %d", d)
		}
	}
}

func TestOnlyOneActiveGroupAtATime(t *testing.T) {
	m := New()
	m.BeginTypeGroup()
	defer func() {
		if recover() == nil {
			t.Errorf("beginning a second type group while one is active should panic")
		}
	}()
	m.BeginTypeGroup()
}
