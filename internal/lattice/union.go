package lattice

// Union implements the lattice's `∨`: commutative, associative, idempotent;
// Bottom∨X = X; Top∨X = Top. On object atoms the structural attributes
// are merged to the least common structure.
func Union(a, b Type) Type {
	if a.IsBottom() {
		return b
	}
	if b.IsBottom() {
		return a
	}
	if a.Equal(b) {
		return a
	}

	atoms := a.atoms | b.atoms
	if atoms == Top {
		return Type{atoms: Top}
	}

	ax, bx := emptyExt(a.x), emptyExt(b.x)
	if ax.isEmpty() && bx.isEmpty() {
		return Type{atoms: atoms}
	}

	out := &ext{}

	// Properties/methods: intersect (least common structure) — a value
	// that might be either a or b only definitely has the names both
	// share.
	out.properties = intersectSets(ax.properties, bx.properties)
	out.methods = intersectSets(ax.methods, bx.methods)

	// Group name: drop unless equal on both sides.
	if ax.group != "" && ax.group == bx.group {
		out.group = ax.group
	}

	// Signature: keep iff equal on both sides.
	if ax.signature != nil && bx.signature != nil && ax.signature.Equal(*bx.signature) {
		out.signature = ax.signature
	}
	if ax.ctorSig != nil && bx.ctorSig != nil && ax.ctorSig.Equal(*bx.ctorSig) {
		out.ctorSig = ax.ctorSig
	}

	if ax.stringName != "" && ax.stringName == bx.stringName {
		out.stringName = ax.stringName
	}
	if ax.enumName != "" && ax.enumName == bx.enumName {
		out.enumName = ax.enumName
	}
	if ax.wasmDef.Equal(bx.wasmDef) {
		out.wasmDef = ax.wasmDef
	}
	if ax.wasmRef != nil && bx.wasmRef != nil && *ax.wasmRef == *bx.wasmRef {
		out.wasmRef = ax.wasmRef
	}

	if out.isEmpty() {
		return Type{atoms: atoms}
	}
	return Type{atoms: atoms, x: out}
}

// UnionAll folds Union across ts, returning Bottom for an empty slice.
func UnionAll(ts ...Type) Type {
	out := Bottom()
	for _, t := range ts {
		out = Union(out, t)
	}
	return out
}

func intersectSets(a, b map[string]struct{}) map[string]struct{} {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make(map[string]struct{})
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func unionSets(a, b map[string]struct{}) map[string]struct{} {
	if len(a) == 0 {
		return cloneSet(b)
	}
	if len(b) == 0 {
		return cloneSet(a)
	}
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func cloneSet(a map[string]struct{}) map[string]struct{} {
	if len(a) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(a))
	for k := range a {
		out[k] = struct{}{}
	}
	return out
}

// Intersect implements C1's `∧`. It is the structural dual of Union: it
// keeps the union of property/method sets (the most specific structure a
// value satisfying both a and b could have), a group name only when both
// sides already agree. Neither the subtype check nor the dispatcher calls
// it, and it is not part of the analyzer's external query interface.
func Intersect(a, b Type) Type {
	if a.IsBottom() || b.IsBottom() {
		return Bottom()
	}
	if a.IsTop() {
		return b
	}
	if b.IsTop() {
		return a
	}

	atoms := a.atoms & b.atoms
	ax, bx := emptyExt(a.x), emptyExt(b.x)

	out := &ext{}
	out.properties = unionSets(ax.properties, bx.properties)
	out.methods = unionSets(ax.methods, bx.methods)
	if ax.group != "" && ax.group == bx.group {
		out.group = ax.group
	}
	if ax.signature != nil {
		out.signature = ax.signature
	} else {
		out.signature = bx.signature
	}
	if ax.ctorSig != nil {
		out.ctorSig = ax.ctorSig
	} else {
		out.ctorSig = bx.ctorSig
	}
	if out.isEmpty() {
		return Type{atoms: atoms}
	}
	return Type{atoms: atoms, x: out}
}
