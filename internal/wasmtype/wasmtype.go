// Package wasmtype holds the WebAssembly-specific vocabulary shared by the
// type lattice (internal/lattice) and the recursive type-group resolver
// (internal/typegroup): value kinds, reference-type descriptors, and the
// structural descriptors ("type definitions") that a Wasm type section
// entry can hold (function signatures, struct/array layouts, globals,
// tables, memories, tags).
//
// Naming and the byte-sized value-kind vocabulary are grounded on
// tetratelabs/wazero's api.ValueType (ValueTypeI32/I64/F32/F64/Externref
// as distinct byte constants plus a ValueTypeName lookup).
package wasmtype

import "fmt"

// ValueKind enumerates WebAssembly value types, including the numeric
// types, vectors, and the abstract heap-type families used by reference
// types and the GC/function-references proposals that this spec's
// recursive type groups are modeled on.
type ValueKind byte

const (
	I32 ValueKind = iota
	I64
	F32
	F64
	Simd128
	// Label is the pseudo-type of a branch target (the operand stack shape
	// a `br` to that label must match); it never appears as a value stored
	// in a variable, only as the type of a block's inner output.
	Label
	ExnRef

	// Abstract heap types usable as the target of an unindexed ref.
	HeapFunc
	HeapExtern
	HeapAny
	HeapEq
	HeapI31
	HeapStruct
	HeapArray
	HeapNone
	HeapNoFunc
	HeapNoExtern

	// HeapIndexed marks a ref whose target is a user-defined type-group
	// entry, identified by RefType.TargetGroup rather than by one of the
	// abstract kinds above.
	HeapIndexed
)

func (k ValueKind) String() string {
	switch k {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case Simd128:
		return "v128"
	case Label:
		return "label"
	case ExnRef:
		return "exnref"
	case HeapFunc:
		return "funcref"
	case HeapExtern:
		return "externref"
	case HeapAny:
		return "anyref"
	case HeapEq:
		return "eqref"
	case HeapI31:
		return "i31ref"
	case HeapStruct:
		return "structref"
	case HeapArray:
		return "arrayref"
	case HeapNone:
		return "nullref"
	case HeapNoFunc:
		return "nullfuncref"
	case HeapNoExtern:
		return "nullexternref"
	case HeapIndexed:
		return "(indexed ref)"
	default:
		return "unknown"
	}
}

// IsHeap reports whether k denotes a reference/heap-type family (as
// opposed to a plain numeric or vector type).
func (k ValueKind) IsHeap() bool {
	return k >= HeapFunc
}

// RefType describes a single reference-typed value: nullable or not, and
// the heap type it targets. For HeapIndexed, TargetGroup/TargetIndex name
// the type-group entry (see internal/typegroup) the ref points at.
type RefType struct {
	Nullable     bool
	Heap         ValueKind
	TargetGroup  int // index into the resolver's group list; -1 if not HeapIndexed
	TargetMember int // index of the definition within TargetGroup
}

func (r RefType) String() string {
	null := ""
	if r.Nullable {
		null = "null "
	}
	if r.Heap == HeapIndexed {
		return fmt.Sprintf("(ref %s%d.%d)", null, r.TargetGroup, r.TargetMember)
	}
	return fmt.Sprintf("(ref %s%s)", null, r.Heap)
}

// ValueOrRef is a WebAssembly value type: either a plain ValueKind or a
// RefType. Struct fields, array elements, and signature params/results are
// all expressed in terms of this small union.
type ValueOrRef struct {
	Kind ValueKind // I32/I64/F32/F64/Simd128/Label/ExnRef when Ref == nil
	Ref  *RefType  // non-nil for reference-typed members
}

func (v ValueOrRef) String() string {
	if v.Ref != nil {
		return v.Ref.String()
	}
	return v.Kind.String()
}

// DefKind enumerates the kinds of entries that can occupy a slot in a Wasm
// type group, plus the four "module item" kinds (global/memory/table/tag)
// whose declared type also needs representing on a variable even though
// they aren't part of the recursive type-group graph.
type DefKind int

const (
	DefNone DefKind = iota
	DefFunc
	DefStruct
	DefArray
	DefGlobal
	DefMemory
	DefTable
	DefTag
)

// Field is one member of a struct definition.
type Field struct {
	Type    ValueOrRef
	Mutable bool
}

// Limits describes a memory or table's bounds.
type Limits struct {
	Min uint64
	Max uint64 // 0 with HasMax=false means unbounded
	HasMax bool
}

// Def is the descriptor attached to a variable whose type is
// "wasmTypeDef": a function signature, struct layout, array element type,
// or a module-level global/memory/table/tag declaration. Exactly one of
// the kind-specific fields is populated, selected by Kind.
type Def struct {
	Kind DefKind

	// DefFunc
	Params  []ValueOrRef
	Results []ValueOrRef

	// DefStruct
	Fields []Field

	// DefArray
	Elem    ValueOrRef
	ElemMut bool

	// DefGlobal
	GlobalType  ValueOrRef
	GlobalMut   bool

	// DefMemory / DefTable
	Limits    Limits
	TableElem ValueOrRef // only meaningful for DefTable

	// DefTag
	TagParams []ValueOrRef
}

func (d *Def) String() string {
	if d == nil {
		return "<nil wasm def>"
	}
	switch d.Kind {
	case DefFunc:
		return fmt.Sprintf("func%v->%v", d.Params, d.Results)
	case DefStruct:
		return fmt.Sprintf("struct%v", d.Fields)
	case DefArray:
		return fmt.Sprintf("array<%v>", d.Elem)
	case DefGlobal:
		return fmt.Sprintf("global<%v mut=%v>", d.GlobalType, d.GlobalMut)
	case DefMemory:
		return fmt.Sprintf("memory%v", d.Limits)
	case DefTable:
		return fmt.Sprintf("table<%v>%v", d.TableElem, d.Limits)
	case DefTag:
		return fmt.Sprintf("tag%v", d.TagParams)
	default:
		return "<none>"
	}
}

// Equal performs a shallow structural comparison, sufficient for the
// lattice's "keep signature iff equal on both sides" union rule.
func (d *Def) Equal(o *Def) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil {
		return false
	}
	if d.Kind != o.Kind {
		return false
	}
	return fmt.Sprintf("%#v", d) == fmt.Sprintf("%#v", o)
}
