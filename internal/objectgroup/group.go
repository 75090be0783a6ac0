// Package objectgroup implements the dynamic object-group manager (C3):
// a stack of active, mutable nominal records for object literals,
// classes, and Wasm modules, plus an append-only list of finalized
// (immutable, name-addressable) groups. Modeled on classic symbol-table
// scope layering (a stack of scopes, later ones shadowing earlier,
// looked up top-first), generalized from variable bindings to
// structural object shapes.
package objectgroup

import (
	"github.com/jsfuzz/irtypes/internal/irfault"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

// Category distinguishes the four group kinds the analyzer tracks, plus
// the auxiliary constructor group every class carries alongside its
// instance group.
type Category int

const (
	CategoryObjectLiteral Category = iota
	CategoryJSClass
	CategoryJSClassConstructor
	CategoryWasmModule
	CategoryWasmExports
)

func (c Category) namePrefix() string {
	switch c {
	case CategoryObjectLiteral:
		return "obj"
	case CategoryJSClass:
		return "class"
	case CategoryJSClassConstructor:
		return "classctor"
	case CategoryWasmModule:
		return "wasm"
	case CategoryWasmExports:
		return "wasmexports"
	default:
		return "group"
	}
}

// Group is a nominal record: {name, instanceType, properties, methods}.
// instanceType is kept in sync with properties/methods on every mutation
// so it always carries an object atom whose group name and structural
// sets mirror the maps below.
type Group struct {
	Name     string
	Category Category

	propOrder []string
	properties map[string]lattice.Type

	methodOrder []string
	methods     map[string][]lattice.Signature
}

func newGroup(name string, cat Category) *Group {
	return &Group{
		Name:       name,
		Category:   cat,
		properties: make(map[string]lattice.Type),
		methods:    make(map[string][]lattice.Signature),
	}
}

// InstanceType returns the group's current instance type: an object atom
// carrying the group name and its present property/method sets.
func (g *Group) InstanceType() lattice.Type {
	return lattice.Object().WithGroup(g.Name, g.propOrder, g.methodOrder)
}

// HasProperty/HasMethod report set membership: adding the same property
// or method twice is idempotent.
func (g *Group) HasProperty(name string) bool { _, ok := g.properties[name]; return ok }
func (g *Group) HasMethod(name string) bool   { _, ok := g.methods[name]; return ok }

// PropertyType returns the last-written type for name, or Top if the
// property exists but no type was ever recorded (addProperty(name) with
// no T), or Bottom if name is not a member at all.
func (g *Group) PropertyType(name string) lattice.Type {
	t, ok := g.properties[name]
	if !ok {
		return lattice.Bottom()
	}
	return t
}

// MethodOverloads returns the accumulated overload list for name (nil if
// not a member).
func (g *Group) MethodOverloads(name string) []lattice.Signature {
	return g.methods[name]
}

// AddProperty adds name to g's property set (optionally recording its
// type), regardless of whether g is the manager's current active top —
// used to target a class's constructor group for static members while
// the instance group remains active for instance members.
func (g *Group) AddProperty(name string, t *lattice.Type) { g.addProperty(name, t) }

// AddMethod adds name to g's method set; see AddProperty.
func (g *Group) AddMethod(name string) { g.addMethod(name) }

// UpdatePropertyType is a last-writer-wins update on g directly; asserts
// name is already a member.
func (g *Group) UpdatePropertyType(name string, t lattice.Type) {
	if !g.HasProperty(name) {
		irfault.Raise(irfault.CodeGroupInvariant, "updatePropertyType on non-member property %q of group %q", name, g.Name)
	}
	g.properties[name] = t
}

// UpdateMethodSignature appends sig as a new overload of name on g
// directly; asserts name is already a member.
func (g *Group) UpdateMethodSignature(name string, sig lattice.Signature) {
	if !g.HasMethod(name) {
		irfault.Raise(irfault.CodeGroupInvariant, "updateMethodSignature on non-member method %q of group %q", name, g.Name)
	}
	g.methods[name] = append(g.methods[name], sig)
}

func (g *Group) addProperty(name string, t *lattice.Type) {
	if !g.HasProperty(name) {
		g.propOrder = append(g.propOrder, name)
		g.properties[name] = lattice.Anything()
	}
	if t != nil {
		g.properties[name] = *t
	}
}

func (g *Group) addMethod(name string) {
	if !g.HasMethod(name) {
		g.methodOrder = append(g.methodOrder, name)
		g.methods[name] = nil
	}
}
