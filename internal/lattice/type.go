package lattice

import (
	"sort"
	"strings"

	"github.com/jsfuzz/irtypes/internal/wasmtype"
)

// ext carries the structural attributes that attach to the object atom
// (and, for Wasm, to the ref/wasmTypeDef atoms): property/method name
// sets, an optional nominal group name, optional call/construct
// signatures, an optional custom string literal name, and an optional
// Wasm descriptor. A Type holding a nil ext has none of these; every
// mutation (AddProperty, WithSignature, ...) produces a fresh ext rather
// than mutating a shared one, so ext pointers can be freely aliased.
type ext struct {
	group      string
	properties map[string]struct{}
	methods    map[string]struct{}
	signature  *Signature
	ctorSig    *Signature
	stringName string // set for namedString(name) literal types
	enumName   string // set when this atom is a looked-up enum type
	wasmDef    *wasmtype.Def
	wasmRef    *wasmtype.RefType
}

func (e *ext) clone() *ext {
	if e == nil {
		return &ext{}
	}
	n := &ext{
		group:      e.group,
		signature:  e.signature,
		ctorSig:    e.ctorSig,
		stringName: e.stringName,
		enumName:   e.enumName,
		wasmDef:    e.wasmDef,
		wasmRef:    e.wasmRef,
	}
	if e.properties != nil {
		n.properties = make(map[string]struct{}, len(e.properties))
		for k := range e.properties {
			n.properties[k] = struct{}{}
		}
	}
	if e.methods != nil {
		n.methods = make(map[string]struct{}, len(e.methods))
		for k := range e.methods {
			n.methods[k] = struct{}{}
		}
	}
	return n
}

func (e *ext) isEmpty() bool {
	return e == nil || (len(e.properties) == 0 && len(e.methods) == 0 && e.group == "" &&
		e.signature == nil && e.ctorSig == nil && e.stringName == "" && e.enumName == "" &&
		e.wasmDef == nil && e.wasmRef == nil)
}

// Type is an element of the lattice: a set of possible primitive atoms
// plus the optional structural attributes attached to the object/ref
// atoms. The zero Type is Bottom.
type Type struct {
	atoms Set
	x     *ext
}

// --- Primitive constructors -------------------------------------------------

func fromAtom(s Set) Type { return Type{atoms: s} }

func Bottom() Type     { return Type{} }
func Anything() Type   { return Type{atoms: Top} }
func Undefined() Type  { return fromAtom(bitUndefined) }
func Null() Type       { return fromAtom(bitNull) }
func Boolean() Type    { return fromAtom(bitBoolean) }
func Integer() Type    { return fromAtom(bitInteger) }
func Float() Type      { return fromAtom(bitFloat) }
func NumberT() Type    { return fromAtom(Number) }
func BigInt() Type     { return fromAtom(bitBigInt) }
func StringT() Type    { return fromAtom(bitString) }
func PrimitiveT() Type { return fromAtom(Primitive) }
func RegExp() Type     { return fromAtom(bitRegExp) }
func IterableT() Type  { return fromAtom(bitIterable) }
func FunctionT() Type  { return fromAtom(bitFunction) }
func Constructor() Type { return fromAtom(bitConstructor) }
func Object() Type      { return fromAtom(bitObject) }

// Array returns the generic "array" object shape: an object atom carrying
// no nominal group (arrays are structural, not nominal, in this lattice).
func Array() Type { return Object() }

// NamedString returns a string literal type carrying a custom name, as
// produced by loadString when the IR supplies one.
func NamedString(name string) Type {
	return Type{atoms: bitString, x: &ext{stringName: name}}
}

// EnumType returns a looked-up enum type: a string atom tagged with the
// enum's name, distinguishing it from an arbitrary named string.
func EnumType(name string) Type {
	return Type{atoms: bitString, x: &ext{enumName: name}}
}

// Wasm value-type constructors.
func WasmI32() Type     { return fromAtom(bitWasmI32) }
func WasmI64() Type     { return fromAtom(bitWasmI64) }
func WasmF32() Type     { return fromAtom(bitWasmF32) }
func WasmF64() Type     { return fromAtom(bitWasmF64) }
func WasmSimd128() Type { return fromAtom(bitWasmSimd128) }
func WasmExnRef() Type  { return fromAtom(bitWasmExnRef) }

// WasmLabel returns the pseudo-type of a branch target carrying the
// given operand types: label(outputTypes).
func WasmLabel(operands []Type) Type {
	t := Type{atoms: bitWasmLabel, x: &ext{}}
	// Encode the operand list as positional "properties" is a poor fit;
	// labels are small and few, so we stash them on a dedicated slice via
	// the signature field (Params = operand types, Output = Bottom) to
	// avoid growing ext with a rarely-used field.
	sig := Signature{Output: Bottom()}
	for _, o := range operands {
		sig.Params = append(sig.Params, Param{Kind: ParamPlain, Type: o})
	}
	t.x.signature = &sig
	return t
}

// LabelOperands extracts the operand types of a WasmLabel type.
func (t Type) LabelOperands() []Type {
	if t.x == nil || t.x.signature == nil {
		return nil
	}
	out := make([]Type, len(t.x.signature.Params))
	for i, p := range t.x.signature.Params {
		out[i] = p.Type
	}
	return out
}

// WasmRef returns a reference-typed Wasm value.
func WasmRef(r wasmtype.RefType) Type {
	return Type{atoms: bitWasmRef, x: &ext{wasmRef: &r}}
}

// WasmTypeDef returns the type of a type-group-definition variable: the
// descriptor itself, inspected by the C4 resolver and by wasmDefineX
// instructions; never a runtime value type.
func WasmTypeDef(d wasmtype.Def) Type {
	return Type{atoms: bitWasmTypeDef, x: &ext{wasmDef: &d}}
}

// WasmSelfReferenceSentinel is the special marker type produced by
// wasmDefineForwardOrSelfReference: a wasmTypeDef atom with no
// descriptor attached yet.
func WasmSelfReferenceSentinel() Type {
	return Type{atoms: bitWasmTypeDef, x: &ext{}}
}

// --- Predicates --------------------------------------------------------

func (t Type) Atoms() Set { return t.atoms }

func (t Type) IsBottom() bool { return t.atoms == bottomSet && t.x.isEmpty() }
func (t Type) IsTop() bool    { return t.atoms == Top }

// MayBe reports whether the atom set intersects sub: "this value could be
// a sub".
func (t Type) MayBe(sub Set) bool { return t.atoms.Intersects(sub) }

// Is reports whether the atom set is exactly sub and nothing else.
func (t Type) Is(sub Set) bool { return t.atoms == sub }

func (t Type) IsObject() bool      { return t.atoms.Has(bitObject) }
func (t Type) IsFunction() bool    { return t.atoms.Has(bitFunction) }
func (t Type) IsConstructor() bool { return t.atoms.Has(bitConstructor) }
func (t Type) IsWasmRef() bool     { return t.atoms.Has(bitWasmRef) }
func (t Type) IsWasmTypeDef() bool { return t.atoms.Has(bitWasmTypeDef) }

// IsSelfReferenceSentinel reports whether t is the marker produced by
// wasmDefineForwardOrSelfReference and not yet resolved.
func (t Type) IsSelfReferenceSentinel() bool {
	return t.IsWasmTypeDef() && (t.x == nil || t.x.wasmDef == nil)
}

func (t Type) GroupName() string {
	if t.x == nil {
		return ""
	}
	return t.x.group
}

func (t Type) HasGroup() bool { return t.x != nil && t.x.group != "" }

func (t Type) Properties() []string { return sortedKeys(t.mapOr("properties")) }
func (t Type) Methods() []string    { return sortedKeys(t.mapOr("methods")) }

func (t Type) mapOr(which string) map[string]struct{} {
	if t.x == nil {
		return nil
	}
	if which == "properties" {
		return t.x.properties
	}
	return t.x.methods
}

func (t Type) HasProperty(name string) bool {
	_, ok := t.mapOr("properties")[name]
	return ok
}

func (t Type) HasMethod(name string) bool {
	_, ok := t.mapOr("methods")[name]
	return ok
}

func (t Type) Signature() *Signature {
	if t.x == nil {
		return nil
	}
	return t.x.signature
}

func (t Type) ConstructSignature() *Signature {
	if t.x == nil {
		return nil
	}
	return t.x.ctorSig
}

func (t Type) StringName() string {
	if t.x == nil {
		return ""
	}
	return t.x.stringName
}

func (t Type) WasmDef() *wasmtype.Def {
	if t.x == nil {
		return nil
	}
	return t.x.wasmDef
}

func (t Type) WasmRefInfo() *wasmtype.RefType {
	if t.x == nil {
		return nil
	}
	return t.x.wasmRef
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// --- Equality & printing -------------------------------------------------

func (t Type) Equal(o Type) bool {
	if t.atoms != o.atoms {
		return false
	}
	if t.x.isEmpty() && o.x.isEmpty() {
		return true
	}
	a, b := emptyExt(t.x), emptyExt(o.x)
	if a.group != b.group || a.stringName != b.stringName || a.enumName != b.enumName {
		return false
	}
	if !stringSetEqual(a.properties, b.properties) || !stringSetEqual(a.methods, b.methods) {
		return false
	}
	if (a.signature == nil) != (b.signature == nil) {
		return false
	}
	if a.signature != nil && !a.signature.Equal(*b.signature) {
		return false
	}
	if (a.ctorSig == nil) != (b.ctorSig == nil) {
		return false
	}
	if a.ctorSig != nil && !a.ctorSig.Equal(*b.ctorSig) {
		return false
	}
	if !a.wasmDef.Equal(b.wasmDef) {
		return false
	}
	if (a.wasmRef == nil) != (b.wasmRef == nil) {
		return false
	}
	if a.wasmRef != nil && *a.wasmRef != *b.wasmRef {
		return false
	}
	return true
}

// emptyExt returns e, or a shared empty ext if e is nil, so field access
// never needs a nil check at call sites.
func emptyExt(e *ext) *ext {
	if e == nil {
		return &ext{}
	}
	return e
}

func stringSetEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func (t Type) String() string {
	if t.x.isEmpty() {
		return t.atoms.String()
	}
	var sb strings.Builder
	if t.x.group != "" {
		sb.WriteString(t.x.group)
	} else {
		sb.WriteString(t.atoms.String())
	}
	if t.x.stringName != "" {
		sb.WriteString("(\"" + t.x.stringName + "\")")
	}
	if len(t.x.properties) > 0 || len(t.x.methods) > 0 {
		sb.WriteString("{")
		parts := append([]string{}, t.Properties()...)
		for _, m := range t.Methods() {
			parts = append(parts, m+"()")
		}
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("}")
	}
	if t.x.signature != nil {
		sb.WriteString(" sig:" + t.x.signature.String())
	}
	if t.x.ctorSig != nil {
		sb.WriteString(" new:" + t.x.ctorSig.String())
	}
	if t.x.wasmDef != nil {
		sb.WriteString(" " + t.x.wasmDef.String())
	}
	if t.x.wasmRef != nil {
		sb.WriteString(" " + t.x.wasmRef.String())
	}
	return sb.String()
}
