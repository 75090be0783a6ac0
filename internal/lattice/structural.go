package lattice

// AddProperty returns a new type with name added to the property set. If
// t carried a nominal group and name is not already part of that group,
// the group name is dropped: the type has been widened away from the
// nominal shape.
func (t Type) AddProperty(name string) Type {
	wasAlreadyMember := t.HasProperty(name)
	n := t.withObjectAtom()
	x := t.x.clone()
	if x.properties == nil {
		x.properties = make(map[string]struct{})
	}
	x.properties[name] = struct{}{}
	if x.group != "" && !wasAlreadyMember {
		x.group = ""
	}
	n.x = x
	return n
}

// RemoveProperty narrows t by dropping name from the property set.
func (t Type) RemoveProperty(name string) Type {
	if t.x == nil || len(t.x.properties) == 0 {
		return t
	}
	x := t.x.clone()
	delete(x.properties, name)
	if x.group != "" {
		x.group = ""
	}
	n := t
	n.x = x
	return n
}

// AddMethod returns a new type with name added to the method set (a
// method may have several overloads; call UpdateMethodSignature/track
// overloads at the object-group layer, not here — this layer only tracks
// membership).
func (t Type) AddMethod(name string) Type {
	wasAlreadyMember := t.HasMethod(name)
	n := t.withObjectAtom()
	x := t.x.clone()
	if x.methods == nil {
		x.methods = make(map[string]struct{})
	}
	x.methods[name] = struct{}{}
	if x.group != "" && !wasAlreadyMember {
		x.group = ""
	}
	n.x = x
	return n
}

// RemoveMethod narrows t by dropping name from the method set.
func (t Type) RemoveMethod(name string) Type {
	if t.x == nil || len(t.x.methods) == 0 {
		return t
	}
	x := t.x.clone()
	delete(x.methods, name)
	if x.group != "" {
		x.group = ""
	}
	n := t
	n.x = x
	return n
}

// WithGroup returns a copy of t tagged with the given nominal group name
// and structural membership, as produced when internal/objectgroup
// creates or finalizes a group.
func (t Type) WithGroup(name string, properties, methods []string) Type {
	n := t.withObjectAtom()
	x := t.x.clone()
	x.group = name
	x.properties = toSet(properties)
	x.methods = toSet(methods)
	n.x = x
	return n
}

func toSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

// WithSignature attaches or replaces the call signature without altering
// structural sets.
func (t Type) WithSignature(sig Signature) Type {
	n := t
	n.atoms |= bitFunction
	x := t.x.clone()
	x.signature = &sig
	n.x = x
	return n
}

// WithConstructSignature attaches or replaces the construct signature.
func (t Type) WithConstructSignature(sig Signature) Type {
	n := t
	n.atoms |= bitConstructor
	x := t.x.clone()
	x.ctorSig = &sig
	n.x = x
	return n
}

func (t Type) withObjectAtom() Type {
	n := t
	n.atoms |= bitObject
	return n
}
