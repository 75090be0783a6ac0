package objectgroup

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jsfuzz/irtypes/internal/irfault"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

// Manager holds the stack of active groups and the append-only list of
// finalized ones. The zero value is not usable; construct with New.
type Manager struct {
	active    []*Group
	finalized map[string]*Group
	order     []string // finalized insertion order, for deterministic iteration

	wasmStack []*wasmTracker // one entry per currently-nested active Wasm module
}

func New() *Manager {
	return &Manager{finalized: make(map[string]*Group)}
}

func (m *Manager) nameTaken(name string) bool {
	if _, ok := m.finalized[name]; ok {
		return true
	}
	for _, g := range m.active {
		if g.Name == name {
			return true
		}
	}
	return false
}

// freshName synthesizes a collision-free name prefix_uuidv4first8hex,
// regenerating on the astronomically unlikely collision rather than
// trusting the uuid blindly.
func (m *Manager) freshName(cat Category) string {
	prefix := cat.namePrefix()
	for {
		raw := strings.ReplaceAll(uuid.New().String(), "-", "")
		name := prefix + "_" + raw[:8]
		if !m.nameTaken(name) {
			return name
		}
	}
}

func (m *Manager) push(cat Category) *Group {
	g := newGroup(m.freshName(cat), cat)
	m.active = append(m.active, g)
	return g
}

func (m *Manager) top() *Group {
	if len(m.active) == 0 {
		irfault.Raise(irfault.CodeGroupInvariant, "no active object group")
	}
	return m.active[len(m.active)-1]
}

// --- creation ------------------------------------------------------------

// CreateNewObjectLiteral pushes one fresh group and returns its initial
// (empty) instance type.
func (m *Manager) CreateNewObjectLiteral() lattice.Type {
	return m.push(CategoryObjectLiteral).InstanceType()
}

// CreateNewClass pushes the instance group (becomes the new active top,
// so addProperty/addMethod target instance members by default) and its
// constructor group beneath it, returning the instance type. Use
// ConstructorGroup to target static members explicitly without
// disturbing stack order.
func (m *Manager) CreateNewClass() (instanceType lattice.Type) {
	m.push(CategoryJSClassConstructor)
	instance := m.push(CategoryJSClass)
	return instance.InstanceType()
}

// ConstructorGroup returns the constructor group paired with the
// currently active class instance group (the one directly beneath it on
// the active stack), for static-member mutations.
func (m *Manager) ConstructorGroup() *Group {
	return m.sibling(CategoryJSClass, CategoryJSClassConstructor)
}

// ExportsGroup returns the exports group paired with the currently
// active Wasm module group.
func (m *Manager) ExportsGroup() *Group {
	return m.activeOfCategory(CategoryWasmExports)
}

// ModuleGroup returns the currently active Wasm module group (the one
// beneath the active exports group).
func (m *Manager) ModuleGroup() *Group {
	return m.sibling(CategoryWasmExports, CategoryWasmModule)
}

func (m *Manager) activeOfCategory(cat Category) *Group {
	for i := len(m.active) - 1; i >= 0; i-- {
		if m.active[i].Category == cat {
			return m.active[i]
		}
	}
	irfault.Raise(irfault.CodeGroupInvariant, "no active group of the requested category")
	return nil
}

// sibling finds the top-most group of topCat, then returns the group
// immediately beneath it (asserted to be of belowCat).
func (m *Manager) sibling(topCat, belowCat Category) *Group {
	for i := len(m.active) - 1; i >= 0; i-- {
		if m.active[i].Category == topCat {
			if i == 0 || m.active[i-1].Category != belowCat {
				irfault.Raise(irfault.CodeGroupInvariant, "malformed class/module group pairing")
			}
			return m.active[i-1]
		}
	}
	irfault.Raise(irfault.CodeGroupInvariant, "no active group of the requested category")
	return nil
}

// --- mutation --------------------------------------------------------------

// AddProperty adds name to the active top group's property set,
// optionally recording its type (idempotent on the membership set).
func (m *Manager) AddProperty(name string, t *lattice.Type) {
	m.top().addProperty(name, t)
}

// UpdatePropertyType is a last-writer-wins update; it asserts the
// property is already a member.
func (m *Manager) UpdatePropertyType(name string, t lattice.Type) {
	g := m.top()
	if !g.HasProperty(name) {
		irfault.Raise(irfault.CodeGroupInvariant, "updatePropertyType on non-member property %q of group %q", name, g.Name)
	}
	g.properties[name] = t
}

// AddMethod adds name to the active top group's method set.
func (m *Manager) AddMethod(name string) {
	m.top().addMethod(name)
}

// UpdateMethodSignature appends sig as a new overload of name; it
// asserts the method is already a member.
func (m *Manager) UpdateMethodSignature(name string, sig lattice.Signature) {
	g := m.top()
	if !g.HasMethod(name) {
		irfault.Raise(irfault.CodeGroupInvariant, "updateMethodSignature on non-member method %q of group %q", name, g.Name)
	}
	g.methods[name] = append(g.methods[name], sig)
}

// --- finalization ----------------------------------------------------------

// Finalize pops the active top group, asserts its name doesn't collide
// with an already-finalized one, appends it, and returns its instance
// type.
func (m *Manager) Finalize() lattice.Type {
	n := len(m.active)
	if n == 0 {
		irfault.Raise(irfault.CodeGroupInvariant, "finalize called with no active group")
	}
	g := m.active[n-1]
	m.active = m.active[:n-1]
	if _, ok := m.finalized[g.Name]; ok {
		irfault.Raise(irfault.CodeGroupInvariant, "finalized group name collision: %q", g.Name)
	}
	m.finalized[g.Name] = g
	m.order = append(m.order, g.Name)
	return g.InstanceType()
}

// ActiveGroup returns whichever group is currently on top of the active
// stack, for callers that need to target it directly rather than through
// the Manager's top()-targeting mutators (e.g. propagating a just-computed
// method signature back onto the exact group its membership was
// registered on).
func (m *Manager) ActiveGroup() *Group { return m.top() }

// ActiveInstanceType returns the instance type of whichever group is
// currently on top of the active stack (e.g. an object literal whose
// method body is being dispatched), or Top if no group is active. Used
// to bind `this` inside a subroutine body that isn't a class member.
func (m *Manager) ActiveInstanceType() lattice.Type {
	if len(m.active) == 0 {
		return lattice.Anything()
	}
	return m.active[len(m.active)-1].InstanceType()
}

// HasActiveGroups reports whether any object/class/Wasm-module group is
// still on the active stack (used by the analyzer's reset() lifecycle
// assertion).
func (m *Manager) HasActiveGroups() bool { return len(m.active) > 0 }

// GetGroup searches active groups top-first, then finalized groups,
// enabling mid-definition self-reference (a method may already refer to
// its own class).
func (m *Manager) GetGroup(name string) (*Group, bool) {
	for i := len(m.active) - 1; i >= 0; i-- {
		if m.active[i].Name == name {
			return m.active[i], true
		}
	}
	g, ok := m.finalized[name]
	return g, ok
}
