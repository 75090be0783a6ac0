package irtest

import (
	"testing"

	"github.com/jsfuzz/irtypes/internal/lattice"

	"gopkg.in/yaml.v3"
)

const conditionalUnionYAML = `
name: conditional union join
instructions:
  - {op: loadInteger, index: 0, outputs: [1]}
  - {op: beginIf, index: 1}
  - {op: loadString, index: 2, outputs: [1]}
  - {op: beginElse, index: 3}
  - {op: loadInteger, index: 4, outputs: [1]}
  - {op: endIf, index: 5}
assertions:
  - variable: 1
    equals: "integer|string"
`

func TestRunAndCheckConditionalUnion(t *testing.T) {
	var s Scenario
	if err := yaml.Unmarshal([]byte(conditionalUnionYAML), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	a, err := Run(&s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if failures := Check(a, s.Assertions); len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
}

const unknownOpcodeYAML = `
name: bogus opcode
instructions:
  - {op: notARealOpcode, index: 0}
`

func TestRunReportsUnknownOpcode(t *testing.T) {
	var s Scenario
	if err := yaml.Unmarshal([]byte(unknownOpcodeYAML), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := Run(&s); err == nil {
		t.Fatalf("expected Run to fail on an unknown opcode name")
	}
}

func TestCheckReportsMismatch(t *testing.T) {
	var s Scenario
	if err := yaml.Unmarshal([]byte(conditionalUnionYAML), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s.Assertions[0].Equals = "boolean"
	a, err := Run(&s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	failures := Check(a, s.Assertions)
	if len(failures) != 1 {
		t.Fatalf("expected exactly one failure, got %v", failures)
	}
}

func TestEvalPredicateUnknownNameIsReportedAsUnknown(t *testing.T) {
	if _, known := evalPredicate(mustAtomType(t, "object"), "notARealPredicate"); known {
		t.Fatalf("expected an unrecognized predicate name to come back unknown")
	}
}

func TestEvalPredicateKnownNames(t *testing.T) {
	obj := mustAtomType(t, "object")
	if ok, known := evalPredicate(obj, "isObject"); !known || !ok {
		t.Fatalf("isObject on an object atom should be true, got ok=%v known=%v", ok, known)
	}
	fn := mustAtomType(t, "function")
	if ok, known := evalPredicate(fn, "isObject"); !known || ok {
		t.Fatalf("isObject on a bare function atom should be false (function and object are distinct atoms), got ok=%v known=%v", ok, known)
	}
	if ok, known := evalPredicate(fn, "isFunction"); !known || !ok {
		t.Fatalf("isFunction on a function atom should be true, got ok=%v known=%v", ok, known)
	}
}

func mustAtomType(t *testing.T, name string) lattice.Type {
	t.Helper()
	typ, ok := AtomType(name)
	if !ok {
		t.Fatalf("unknown atom type %q in test fixture", name)
	}
	return typ
}
