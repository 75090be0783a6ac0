// Package lattice implements C1, the carrier of all type values used by
// the analyzer: primitive JS/Wasm atoms, the structural attributes that
// attach to the object atom (properties, methods, nominal group name,
// signatures, Wasm type extension), and the total union/intersection/
// subtype/structural operations over them.
//
// The representation follows a classic bitset-of-atoms style (a small
// closed set of tagged values with total String()/Equal() methods) but
// collapses the atom set itself into a single bitmask, since JS type
// unions are exactly "the value could be any of these primitive shapes"
// and a bitmask makes union/subset tests O(1) instead of tree
// comparisons.
package lattice

import "strings"

// Set is a bitmask of primitive atoms. The zero Set is Bottom ("nothing");
// a Set with every bit set is not meaningful on its own (Wasm and JS atoms
// are never simultaneously true of one runtime value) so Top is defined
// explicitly below as the union of JS atoms only.
type Set uint32

const (
	bitUndefined Set = 1 << iota
	bitNull
	bitBoolean
	bitInteger
	bitFloat
	bitBigInt
	bitString
	bitRegExp
	bitIterable
	bitFunction
	bitConstructor
	bitObject

	bitWasmI32
	bitWasmI64
	bitWasmF32
	bitWasmF64
	bitWasmSimd128
	bitWasmLabel
	bitWasmExnRef
	bitWasmRef    // a reference-typed Wasm value; target lives in ext.wasmRef
	bitWasmTypeDef // the type of a type-group-definition variable itself
)

// Composite atom groups used by widening/narrowing rules throughout the
// package.
const (
	Number    = bitInteger | bitFloat
	Primitive = Number | bitBigInt | bitString | bitBoolean | bitUndefined | bitNull

	// Top is "anything", the unknown JS value: the union of every JS atom.
	// Wasm atoms are a disjoint sub-lattice and are deliberately excluded,
	// since a variable of unknown *JS* shape never denotes a raw i32.
	Top = Primitive | bitRegExp | bitIterable | bitFunction | bitConstructor | bitObject

	// bottomSet is "nothing": the internal-only marker for "not defined in
	// this scope". It must never escape to a caller of typeOf.
	bottomSet Set = 0
)

var atomNames = []struct {
	bit  Set
	name string
}{
	{bitUndefined, "undefined"},
	{bitNull, "null"},
	{bitBoolean, "boolean"},
	{bitInteger, "integer"},
	{bitFloat, "float"},
	{bitBigInt, "bigint"},
	{bitString, "string"},
	{bitRegExp, "regexp"},
	{bitIterable, "iterable"},
	{bitFunction, "function"},
	{bitConstructor, "constructor"},
	{bitObject, "object"},
	{bitWasmI32, "i32"},
	{bitWasmI64, "i64"},
	{bitWasmF32, "f32"},
	{bitWasmF64, "f64"},
	{bitWasmSimd128, "simd128"},
	{bitWasmLabel, "label"},
	{bitWasmExnRef, "exnref"},
	{bitWasmRef, "ref"},
	{bitWasmTypeDef, "wasmTypeDef"},
}

func (s Set) String() string {
	if s == bottomSet {
		return "⊥"
	}
	if s == Top {
		return "⊤"
	}
	var parts []string
	for _, a := range atomNames {
		if s&a.bit != 0 {
			parts = append(parts, a.name)
		}
	}
	if len(parts) == 0 {
		return "⊥"
	}
	return strings.Join(parts, "|")
}

// Has reports whether every bit of sub is present in s ("s may be sub").
func (s Set) Has(sub Set) bool { return s&sub == sub }

// Intersects reports whether s and o share at least one atom.
func (s Set) Intersects(o Set) bool { return s&o != 0 }
