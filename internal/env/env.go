// Package env defines the Environment collaborator contract and a static
// in-memory reference implementation of it. The analyzer consults an
// Environment for anything it cannot resolve nominally from its own
// object-group/type-group state: global builtins, well-known property
// and method tables on structural (non-nominal) objects, and named
// enums. The contract is intentionally the analyzer's only required
// external dependency besides a uniform-choice callback — everything
// else (wire format, lifter, mutators, file I/O, CLI) lives outside it.
package env

import "github.com/jsfuzz/irtypes/internal/lattice"

// Environment is the read-only collaborator the analyzer falls back to
// once its own nominal group lookups (internal/objectgroup) come up
// empty. Implementations must be pure and referentially transparent:
// the analyzer may call any method zero or more times per dispatch and
// expects the same answer every time for the same arguments.
type Environment interface {
	// TypeOfBuiltin returns the type of a global builtin identifier
	// (e.g. "Math", "Array"), or Top if name is unknown.
	TypeOfBuiltin(name string) lattice.Type

	// HasBuiltin reports whether name is a known global builtin.
	HasBuiltin(name string) bool

	// TypeOfProperty returns the well-known type of property name on
	// values of type on (consulted only after a nominal group lookup
	// misses), or Top if unknown.
	TypeOfProperty(name string, on lattice.Type) lattice.Type

	// SignaturesOfMethod returns the well-known overload set for method
	// name on values of type on, or nil if unknown.
	SignaturesOfMethod(name string, on lattice.Type) []lattice.Signature

	// Enum looks up a named enum and reports whether it exists.
	Enum(name string) (lattice.Type, bool)
}
