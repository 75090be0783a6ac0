// Package irtest is a YAML golden-scenario harness for internal/dispatch
// and internal/analyzer: it decodes a short instruction stream plus a
// list of expected-type assertions, drives the stream through a fresh
// analyzer.Analyzer, and reports every assertion that doesn't hold.
// Modeled on a classic table-driven *_test.go style (one expectation per
// case, compared with a plain if/t.Errorf rather than a third-party
// assertion library) generalized from Go struct literals to YAML
// fixtures, since a scenario here is data a non-Go reader (or a future
// fuzzer integration test) should be able to author without touching
// source.
package irtest

import (
	"fmt"
	"os"

	"github.com/jsfuzz/irtypes/internal/dispatch"
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
	"github.com/jsfuzz/irtypes/internal/wasmtype"

	"gopkg.in/yaml.v3"
)

// Scenario is one fixture: a named instruction stream plus the
// assertions it must satisfy once fully dispatched.
type Scenario struct {
	Name         string            `yaml:"name"`
	Instructions []InstructionSpec `yaml:"instructions"`
	Assertions   []Assertion       `yaml:"assertions"`
}

// InstructionSpec is the YAML shape of one ir.Instruction.
type InstructionSpec struct {
	Op           string           `yaml:"op"`
	Index        int              `yaml:"index"`
	Inputs       []int            `yaml:"inputs"`
	Outputs      []int            `yaml:"outputs"`
	InnerOutputs []int            `yaml:"innerOutputs"`
	Guarded      bool             `yaml:"guarded"`
	Literal      any              `yaml:"literal"`
	Subroutine   *SubroutineSpec  `yaml:"subroutine"`
	ClassMember  *ClassMemberSpec `yaml:"classMember"`
	WasmStruct   *WasmStructSpec  `yaml:"wasmStruct"`
}

// WasmStructSpec decodes into a WasmTypeDefAux{Def: wasmtype.Def{Kind:
// DefStruct}} for a wasmDefineStructType instruction. Each SelfRef field
// consumes the next Inputs entry, in field order, per
// resolveTypeDefRefs's fixed params/results/fields/elem consumption
// order (struct defs only ever populate Fields).
type WasmStructSpec struct {
	Fields []WasmFieldSpec `yaml:"fields"`
}

// WasmFieldSpec is one struct field: either a plain numeric Wasm value
// kind, or a reference back into the enclosing recursive type group
// (self-reference or forward reference — both consume one Input).
type WasmFieldSpec struct {
	Kind    string `yaml:"kind"` // "i32"/"i64"/"f32"/"f64", ignored if SelfRef
	SelfRef bool   `yaml:"selfRef"`
	Mutable bool   `yaml:"mutable"`
}

// SubroutineSpec decodes into a dispatch.SubroutineAux for
// beginSubroutine instructions.
type SubroutineSpec struct {
	Kind   string      `yaml:"kind"`
	Name   string      `yaml:"name"`
	Static bool        `yaml:"static"`
	Params []ParamSpec `yaml:"params"`
}

// ParamSpec decodes into one lattice.Param.
type ParamSpec struct {
	Kind string `yaml:"kind"` // "plain" (default), "optional", "rest"
	Type string `yaml:"type"` // an atom name resolved by AtomType
}

// ClassMemberSpec decodes into a dispatch.ClassMemberAux for
// classAddProperty/classAddMethod instructions.
type ClassMemberSpec struct {
	Static bool `yaml:"static"`
}

// Assertion is one expected fact about the analyzer's final state.
// Exactly one of the check fields should be set per entry; Variable (or
// TypeGroup, for the type-group-count/dependency checks) selects what it
// applies to.
type Assertion struct {
	Variable *int `yaml:"variable"`

	// Equals compares TypeOf(Variable).String() literally — the
	// simplest and most common check, since Type.String() is a
	// deterministic, sorted rendering (internal/lattice/atoms.go).
	Equals string `yaml:"equals"`

	HasProperty    string `yaml:"hasProperty"`
	NotHasProperty string `yaml:"notHasProperty"`
	HasMethod      string `yaml:"hasMethod"`

	// PropertyEquals/MethodOverloadCount check a nominal or
	// environment-resolved member, via the analyzer's InferProperty/
	// InferMethodSignatures queries rather than a raw TypeOf.
	PropertyEquals     *NamedEquals `yaml:"propertyEquals"`
	MethodOverloadCount *NamedCount `yaml:"methodOverloadCount"`

	// Predicate names one of Type's boolean accessors (isObject,
	// isFunction, isConstructor, isWasmTypeDef, isWasmRef, isBottom,
	// isTop, hasGroup) for scenarios where the exact String() rendering
	// is incidental (e.g. a Wasm type-group member's def, whose String()
	// embeds resolver-internal indices) and only the coarse shape
	// matters.
	Predicate string `yaml:"predicate"`

	TypeGroupCount *int `yaml:"typeGroupCount"`
}

// NamedEquals checks InferPropertyTypeOf(Name, *Variable).String().
type NamedEquals struct {
	Name   string `yaml:"name"`
	Equals string `yaml:"equals"`
}

// NamedCount checks len(InferMethodSignaturesOf(Name, *Variable)).
type NamedCount struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// Load decodes a Scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("irtest: reading %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("irtest: parsing %s: %w", path, err)
	}
	return &s, nil
}

// kindNames maps a scenario's textual subroutine kind to dispatch.Kind.
var kindNames = map[string]dispatch.Kind{
	"plain":               dispatch.KindPlain,
	"arrow":               dispatch.KindArrow,
	"generator":           dispatch.KindGenerator,
	"asyncFunction":       dispatch.KindAsyncFunction,
	"asyncArrow":          dispatch.KindAsyncArrow,
	"asyncGenerator":      dispatch.KindAsyncGenerator,
	"constructor":         dispatch.KindConstructor,
	"classMethod":         dispatch.KindClassMethod,
	"classGetter":         dispatch.KindClassGetter,
	"classSetter":         dispatch.KindClassSetter,
	"objectLiteralMethod": dispatch.KindObjectLiteralMethod,
	"objectLiteralGetter": dispatch.KindObjectLiteralGetter,
	"objectLiteralSetter": dispatch.KindObjectLiteralSetter,
}

// AtomType resolves a scenario's textual type name to the lattice
// constructor it names (the same small vocabulary loadInteger/
// loadString/etc. already produce), for subroutine parameter types.
func AtomType(name string) (lattice.Type, bool) {
	switch name {
	case "integer":
		return lattice.Integer(), true
	case "float":
		return lattice.Float(), true
	case "bigint":
		return lattice.BigInt(), true
	case "string":
		return lattice.StringT(), true
	case "boolean":
		return lattice.Boolean(), true
	case "undefined":
		return lattice.Undefined(), true
	case "null":
		return lattice.Null(), true
	case "object", "array":
		return lattice.Object(), true
	case "function":
		return lattice.FunctionT(), true
	case "constructor":
		return lattice.Constructor(), true
	case "regexp":
		return lattice.RegExp(), true
	case "anything", "top", "":
		return lattice.Anything(), true
	default:
		return lattice.Type{}, false
	}
}

func paramKind(name string) lattice.ParamKind {
	switch name {
	case "optional":
		return lattice.ParamOptional
	case "rest":
		return lattice.ParamRest
	default:
		return lattice.ParamPlain
	}
}

// Build converts InstructionSpec to an ir.Instruction, resolving its
// opcode by name and its Subroutine/ClassMember payload to the matching
// Aux type dispatch expects.
func (spec InstructionSpec) Build() (ir.Instruction, error) {
	op, ok := ir.ParseOpcode(spec.Op)
	if !ok {
		return ir.Instruction{}, fmt.Errorf("irtest: unknown opcode %q", spec.Op)
	}
	inst := ir.New(op, spec.Index)
	inst.Inputs = toVars(spec.Inputs)
	inst.Outputs = toVars(spec.Outputs)
	inst.InnerOutputs = toVars(spec.InnerOutputs)
	inst.IsGuarded = spec.Guarded
	inst.Literal = spec.Literal

	if spec.Subroutine != nil {
		kind, ok := kindNames[spec.Subroutine.Kind]
		if !ok {
			return ir.Instruction{}, fmt.Errorf("irtest: unknown subroutine kind %q", spec.Subroutine.Kind)
		}
		params := make([]lattice.Param, len(spec.Subroutine.Params))
		for i, p := range spec.Subroutine.Params {
			t, ok := AtomType(p.Type)
			if !ok {
				return ir.Instruction{}, fmt.Errorf("irtest: unknown param type %q", p.Type)
			}
			params[i] = lattice.Param{Kind: paramKind(p.Kind), Type: t}
		}
		inst.Aux = dispatch.SubroutineAux{Kind: kind, Name: spec.Subroutine.Name, Static: spec.Subroutine.Static, Params: params}
	}
	if spec.ClassMember != nil {
		inst.Aux = dispatch.ClassMemberAux{Static: spec.ClassMember.Static}
	}
	if spec.WasmStruct != nil {
		def := wasmtype.Def{Kind: wasmtype.DefStruct}
		for _, f := range spec.WasmStruct.Fields {
			field := wasmtype.Field{Mutable: f.Mutable}
			if f.SelfRef {
				field.Type = wasmtype.ValueOrRef{Ref: &wasmtype.RefType{Heap: wasmtype.HeapIndexed, TargetGroup: -1}}
			} else {
				k, ok := wasmValueKind(f.Kind)
				if !ok {
					return ir.Instruction{}, fmt.Errorf("irtest: unknown wasm value kind %q", f.Kind)
				}
				field.Type = wasmtype.ValueOrRef{Kind: k}
			}
			def.Fields = append(def.Fields, field)
		}
		inst.Aux = dispatch.WasmTypeDefAux{Def: def}
	}
	return inst, nil
}

func wasmValueKind(name string) (wasmtype.ValueKind, bool) {
	switch name {
	case "i32":
		return wasmtype.I32, true
	case "i64":
		return wasmtype.I64, true
	case "f32":
		return wasmtype.F32, true
	case "f64":
		return wasmtype.F64, true
	case "simd128":
		return wasmtype.Simd128, true
	case "exnref":
		return wasmtype.ExnRef, true
	default:
		return 0, false
	}
}

func toVars(nums []int) []ir.Variable {
	if nums == nil {
		return nil
	}
	vars := make([]ir.Variable, len(nums))
	for i, n := range nums {
		vars[i] = ir.Variable(n)
	}
	return vars
}
