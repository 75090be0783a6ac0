package env

import "github.com/jsfuzz/irtypes/internal/lattice"

// propertyKey and methodKey are composite keys: groupKey(on) + "." + name.
// groupKey prefers the nominal group name (matching how the analyzer's
// own C3 lookup is keyed) and falls back to the type's atom-set string
// for structural built-ins (e.g. "string".length, "array".push).
type propertyKey struct {
	on   string
	name string
}

type methodKey struct {
	on   string
	name string
}

func groupKey(on lattice.Type) string {
	if on.HasGroup() {
		return "group:" + on.GroupName()
	}
	return on.Atoms().String()
}

// Static is a simple in-memory Environment: maps for builtins,
// well-known properties/methods keyed by (type, name), and named enums,
// modeled as a package-level name-to-descriptor map populated at
// construction time, generalized to the four lookup kinds the
// Environment contract needs. It is a reference collaborator for
// running end-to-end scenarios and as cmd/irtrace's default, not part
// of the analyzer itself.
type Static struct {
	builtins   map[string]lattice.Type
	properties map[propertyKey]lattice.Type
	methods    map[methodKey][]lattice.Signature
	enums      map[string]lattice.Type
}

// NewStatic returns an empty Static environment; use the With* methods
// to seed it.
func NewStatic() *Static {
	return &Static{
		builtins:   make(map[string]lattice.Type),
		properties: make(map[propertyKey]lattice.Type),
		methods:    make(map[methodKey][]lattice.Signature),
		enums:      make(map[string]lattice.Type),
	}
}

// WithBuiltin registers a global builtin's type and returns s for chaining.
func (s *Static) WithBuiltin(name string, t lattice.Type) *Static {
	s.builtins[name] = t
	return s
}

// WithProperty registers a well-known property's type on values shaped
// like on (identified by on's nominal group, or its atom set when on
// carries no group).
func (s *Static) WithProperty(name string, on lattice.Type, t lattice.Type) *Static {
	s.properties[propertyKey{groupKey(on), name}] = t
	return s
}

// WithMethod appends a well-known method overload on values shaped like on.
func (s *Static) WithMethod(name string, on lattice.Type, sig lattice.Signature) *Static {
	k := methodKey{groupKey(on), name}
	s.methods[k] = append(s.methods[k], sig)
	return s
}

// WithEnum registers a named enum type.
func (s *Static) WithEnum(name string, t lattice.Type) *Static {
	s.enums[name] = t
	return s
}

func (s *Static) TypeOfBuiltin(name string) lattice.Type {
	if t, ok := s.builtins[name]; ok {
		return t
	}
	return lattice.Anything()
}

func (s *Static) HasBuiltin(name string) bool {
	_, ok := s.builtins[name]
	return ok
}

func (s *Static) TypeOfProperty(name string, on lattice.Type) lattice.Type {
	if t, ok := s.properties[propertyKey{groupKey(on), name}]; ok {
		return t
	}
	return lattice.Anything()
}

func (s *Static) SignaturesOfMethod(name string, on lattice.Type) []lattice.Signature {
	return s.methods[methodKey{groupKey(on), name}]
}

func (s *Static) Enum(name string) (lattice.Type, bool) {
	t, ok := s.enums[name]
	return t, ok
}

var _ Environment = (*Static)(nil)
