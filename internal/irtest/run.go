package irtest

import (
	"fmt"

	"github.com/jsfuzz/irtypes/internal/analyzer"
	"github.com/jsfuzz/irtypes/internal/env"
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

// evalPredicate evaluates one of Type's boolean accessors by name, for
// scenarios where the exact String() rendering is incidental (a Wasm
// type-group member's def embeds resolver-internal group indices) and
// only the coarse shape matters. The second return is false for an
// unrecognized predicate name, distinct from the predicate itself
// evaluating false.
func evalPredicate(t lattice.Type, name string) (result, known bool) {
	switch name {
	case "isObject":
		return t.IsObject(), true
	case "isFunction":
		return t.IsFunction(), true
	case "isConstructor":
		return t.IsConstructor(), true
	case "isWasmTypeDef":
		return t.IsWasmTypeDef(), true
	case "isWasmRef":
		return t.IsWasmRef(), true
	case "isBottom":
		return t.IsBottom(), true
	case "isTop":
		return t.IsTop(), true
	case "hasGroup":
		return t.HasGroup(), true
	default:
		return false, false
	}
}

// Run builds every instruction in the scenario and dispatches it in
// order through a fresh analyzer.Analyzer over env.NewStatic() (no
// scenario in testdata/scenarios relies on a well-known builtin/property/
// method/enum, so the empty environment is always enough), returning the
// analyzer for Check to inspect. A build or dispatch failure aborts
// immediately — a malformed scenario is a fixture bug, not something to
// partially tolerate.
func Run(s *Scenario) (*analyzer.Analyzer, error) {
	a := analyzer.New(env.NewStatic(), nil)
	for i, spec := range s.Instructions {
		inst, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("scenario %q, instruction %d: %w", s.Name, i, err)
		}
		if err := a.Analyze(inst); err != nil {
			return nil, fmt.Errorf("scenario %q, instruction %d (%s): %w", s.Name, i, inst.Opcode, err)
		}
	}
	return a, nil
}

// Check evaluates every assertion against a's final state and returns one
// message per failure (nil if all pass).
func Check(a *analyzer.Analyzer, assertions []Assertion) []string {
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Sprintf(format, args...))
	}

	for _, asrt := range assertions {
		switch {
		case asrt.Variable != nil:
			v := ir.Variable(*asrt.Variable)
			t := a.TypeOf(v)

			switch {
			case asrt.Equals != "":
				if got := t.String(); got != asrt.Equals {
					fail("variable %d: want %q, got %q", v, asrt.Equals, got)
				}
			case asrt.HasProperty != "":
				if !t.HasProperty(asrt.HasProperty) {
					fail("variable %d: expected property %q, type is %s", v, asrt.HasProperty, t)
				}
			case asrt.NotHasProperty != "":
				if t.HasProperty(asrt.NotHasProperty) {
					fail("variable %d: expected no property %q, type is %s", v, asrt.NotHasProperty, t)
				}
			case asrt.HasMethod != "":
				if !t.HasMethod(asrt.HasMethod) {
					fail("variable %d: expected method %q, type is %s", v, asrt.HasMethod, t)
				}
			case asrt.PropertyEquals != nil:
				got := a.InferPropertyTypeOf(asrt.PropertyEquals.Name, v).String()
				if got != asrt.PropertyEquals.Equals {
					fail("variable %d property %q: want %q, got %q", v, asrt.PropertyEquals.Name, asrt.PropertyEquals.Equals, got)
				}
			case asrt.MethodOverloadCount != nil:
				got := len(a.InferMethodSignaturesOf(asrt.MethodOverloadCount.Name, v))
				if got != asrt.MethodOverloadCount.Count {
					fail("variable %d method %q: want %d overloads, got %d", v, asrt.MethodOverloadCount.Name, asrt.MethodOverloadCount.Count, got)
				}
			case asrt.Predicate != "":
				if ok, known := evalPredicate(t, asrt.Predicate); !known {
					fail("variable %d: unknown predicate %q", v, asrt.Predicate)
				} else if !ok {
					fail("variable %d: predicate %q false, type is %s", v, asrt.Predicate, t)
				}
			default:
				fail("variable %d: assertion has no recognized check", v)
			}

		case asrt.TypeGroupCount != nil:
			if got := a.GetTypeGroupCount(); got != *asrt.TypeGroupCount {
				fail("type group count: want %d, got %d", *asrt.TypeGroupCount, got)
			}

		default:
			fail("assertion targets neither a variable nor the type-group count")
		}
	}
	return failures
}
