package lattice

import "strings"

// ParamKind distinguishes how a parameter widens on the callee side.
type ParamKind int

const (
	// ParamPlain requires exactly the given type.
	ParamPlain ParamKind = iota
	// ParamOptional widens to T ∨ undefined inside the callee.
	ParamOptional
	// ParamRest widens to an array inside the callee.
	ParamRest
)

// Param is one formal parameter of a Signature.
type Param struct {
	Kind ParamKind
	Type Type
}

// CalleeType returns the type a parameter is bound to inside the
// subroutine body, applying the widening rule for its Kind.
func (p Param) CalleeType() Type {
	switch p.Kind {
	case ParamOptional:
		return Union(p.Type, Undefined())
	case ParamRest:
		return Array()
	default:
		return p.Type
	}
}

// Signature is `parameters -> outputType`.
type Signature struct {
	Params []Param
	Output Type
}

// NewSignature builds a signature from plain-typed parameters.
func NewSignature(output Type, params ...Type) Signature {
	ps := make([]Param, len(params))
	for i, t := range params {
		ps[i] = Param{Kind: ParamPlain, Type: t}
	}
	return Signature{Params: ps, Output: output}
}

// MatchesArity reports whether a call site with argc arguments can select
// this signature: every plain/optional parameter up to argc must be
// satisfiable, a trailing rest parameter accepts any argc at or above the
// count of required parameters preceding it.
func (s Signature) MatchesArity(argc int) bool {
	required := 0
	hasRest := false
	for _, p := range s.Params {
		switch p.Kind {
		case ParamPlain:
			required++
		case ParamRest:
			hasRest = true
		}
	}
	if hasRest {
		return argc >= required
	}
	return argc >= required && argc <= len(s.Params)
}

func (s Signature) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		switch p.Kind {
		case ParamOptional:
			parts[i] = p.Type.String() + "?"
		case ParamRest:
			parts[i] = "..." + p.Type.String()
		default:
			parts[i] = p.Type.String()
		}
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + s.Output.String()
}

// Equal performs the structural comparison used by the union rule "keep
// signature iff equal on both sides".
func (s Signature) Equal(o Signature) bool {
	if len(s.Params) != len(o.Params) {
		return false
	}
	for i := range s.Params {
		if s.Params[i].Kind != o.Params[i].Kind {
			return false
		}
		if !s.Params[i].Type.Equal(o.Params[i].Type) {
			return false
		}
	}
	return s.Output.Equal(o.Output)
}
