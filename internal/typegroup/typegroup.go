// Package typegroup implements the recursive Wasm type-group resolver
// (C4): dependency tracking between type groups, and a self-reference
// registry of resolver closures that patch cyclic struct/array/signature
// descriptors closed by wasmEndTypeGroup or an explicit forward-reference
// resolution. Grounded on wasm-tools-go's wit-resolve.go pattern of
// closing forward/self references over a recursive type graph by walking
// a registry of pending patches rather than a single recursive-descent
// pass (Wasm type groups can be mutually and self recursive, which rules
// out a plain recursive resolver).
package typegroup

import (
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/irfault"
	"github.com/jsfuzz/irtypes/internal/wasmtype"
)

// Resolver is a closure registered against a self-reference sentinel
// variable. Invoked with a non-nil replacement, it substitutes the
// resolved forward reference; invoked with nil, it substitutes the
// enclosing definition itself, closing an immediate recursive cycle.
type Resolver func(replacement *ir.Variable)

// group is one appended Wasm type group: the set of variables it
// defines and the index-set of other groups it transitively depends on.
type group struct {
	variables    []ir.Variable
	dependencies map[int]struct{}
}

// Manager tracks the append-only list of finished type groups, the
// currently-active group under construction, and pending self-reference
// resolvers. The zero value is not usable; construct with New.
type Manager struct {
	groups   []*group
	active   *group
	varGroup map[ir.Variable]int // variable -> group index, for finished groups
	selfRefs map[ir.Variable][]Resolver
}

func New() *Manager {
	return &Manager{varGroup: make(map[ir.Variable]int), selfRefs: make(map[ir.Variable][]Resolver)}
}

// BeginTypeGroup opens a new active group. At most one group is active
// at a time.
func (m *Manager) BeginTypeGroup() {
	if m.active != nil {
		irfault.Raise(irfault.CodeGroupInvariant, "a Wasm type group is already active")
	}
	m.active = &group{dependencies: make(map[int]struct{})}
}

// activeIndex is the index the active group will occupy once appended.
func (m *Manager) activeIndex() int { return len(m.groups) }

// Define records v as belonging to the active group.
func (m *Manager) Define(v ir.Variable) {
	if m.active == nil {
		irfault.Raise(irfault.CodeGroupInvariant, "wasmDefine* used with no active type group")
	}
	m.active.variables = append(m.active.variables, v)
}

// Resolve inspects the current type of a referenced variable (as a
// *wasmtype.Def for a concrete wasmTypeDef, or nil for the self-
// reference sentinel) and either installs the reference immediately
// (recording a dependency edge and unioning transitive dependencies) or
// registers a resolver closure to fire later.
//
// def is the referenced variable's installed descriptor (nil when it is
// still the unresolved self-reference sentinel). refGroup is the group
// index owning ref, needed to record the dependency edge and fold in its
// transitive dependencies; -1 when ref is still a pending self-reference
// with no group of its own yet.
func (m *Manager) Resolve(ref ir.Variable, def *wasmtype.Def, refGroup int, onResolved Resolver) {
	if m.active == nil {
		irfault.Raise(irfault.CodeGroupInvariant, "wasm type reference resolved with no active type group")
	}
	if def != nil {
		idx := m.activeIndex()
		if refGroup < 0 || refGroup >= len(m.groups) || refGroup >= idx {
			irfault.Raise(irfault.CodeBadTypeGroupRef, "reference to variable %d claims group %d, not an earlier finished group (active group is %d)", ref, refGroup, idx)
		}
		m.active.dependencies[refGroup] = struct{}{}
		for dep := range m.groups[refGroup].dependencies {
			m.active.dependencies[dep] = struct{}{}
		}
		onResolved(nil)
		return
	}
	m.selfRefs[ref] = append(m.selfRefs[ref], onResolved)
}

// ResolveForward fires every resolver pending for sentinel immediately
// with the given replacement target, and removes them.
func (m *Manager) ResolveForward(sentinel ir.Variable, target ir.Variable) {
	pending, ok := m.selfRefs[sentinel]
	if !ok {
		return
	}
	delete(m.selfRefs, sentinel)
	t := target
	for _, r := range pending {
		r(&t)
	}
}

// FinishTypeGroup fires every still-pending resolver with a nil
// replacement (closing remaining cycles to their enclosing definition),
// clears the registry for variables defined in this group, appends the
// group, and returns its index.
func (m *Manager) FinishTypeGroup() int {
	if m.active == nil {
		irfault.Raise(irfault.CodeGroupInvariant, "finishTypeGroup called with no active type group")
	}
	for _, v := range m.active.variables {
		if pending, ok := m.selfRefs[v]; ok {
			delete(m.selfRefs, v)
			for _, r := range pending {
				r(nil)
			}
		}
	}
	idx := len(m.groups)
	for _, v := range m.active.variables {
		m.varGroup[v] = idx
	}
	m.groups = append(m.groups, m.active)
	m.active = nil
	return idx
}

// GroupOf returns the finished group index that defined v.
func (m *Manager) GroupOf(v ir.Variable) (int, bool) {
	idx, ok := m.varGroup[v]
	return idx, ok
}

// Count returns the number of finished type groups.
func (m *Manager) Count() int { return len(m.groups) }

// Dependencies returns the index set of groups that group i transitively
// depends on, in no particular order.
func (m *Manager) Dependencies(i int) []int {
	if i < 0 || i >= len(m.groups) {
		irfault.Raise(irfault.CodeBadTypeGroupRef, "getTypeGroupDependencies: index %d out of range", i)
	}
	out := make([]int, 0, len(m.groups[i].dependencies))
	for dep := range m.groups[i].dependencies {
		out = append(out, dep)
	}
	return out
}

// Variables returns the variables defined in group i.
func (m *Manager) Variables(i int) []ir.Variable {
	if i < 0 || i >= len(m.groups) {
		irfault.Raise(irfault.CodeBadTypeGroupRef, "getTypeGroup: index %d out of range", i)
	}
	return append([]ir.Variable(nil), m.groups[i].variables...)
}

// HasPendingSelfReferences reports whether any self-reference resolver
// is still registered (used by reset()'s "no Wasm type group still open"
// assertion, and by tests of invariant 5 in §8).
func (m *Manager) HasPendingSelfReferences() bool {
	return len(m.selfRefs) > 0
}

// IsActive reports whether a type group is currently open.
func (m *Manager) IsActive() bool { return m.active != nil }

// ActiveVariableCount returns the number of variables Define has recorded
// against the currently-active group (0 if none is active). Callers
// resolving a self-reference to "the enclosing definition" use this, just
// before calling Define for the variable under construction, to learn
// that variable's eventual member index within the group.
func (m *Manager) ActiveVariableCount() int {
	if m.active == nil {
		return 0
	}
	return len(m.active.variables)
}
