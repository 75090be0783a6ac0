package dispatch

import (
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
	"github.com/jsfuzz/irtypes/internal/typegroup"
	"github.com/jsfuzz/irtypes/internal/wasmtype"
)

// WasmRefNullAux carries wasmRefNull's target heap type: "ref.null" is
// always nullable by construction.
type WasmRefNullAux struct {
	Heap wasmtype.ValueKind
}

// WasmDeclAux carries a fully-resolved descriptor for a module-scoped
// declaration (global/table/memory/tag) or a function signature
// (define/import function): everything dispatch needs to compute the
// declaration's own type and register a correspondingly-typed export.
// Declarations never carry an unresolved self- or forward-reference —
// only the recursive type-group members below do.
type WasmDeclAux struct {
	Def wasmtype.Def
}

// WasmTypeDefAux carries a type-group member's descriptor
// (wasmDefineSignature/StructType/ArrayType). Any ValueOrRef within Def
// whose Ref targets wasmtype.HeapIndexed with TargetGroup < 0 is an
// unresolved reference; dispatch resolves it against the corresponding
// Input variable, consumed in the fixed order params, then results, then
// fields, then the array element — the same order callers must supply
// those Inputs in.
type WasmTypeDefAux struct {
	Def wasmtype.Def
}

// WasmBlockAux carries a block-structured Wasm operation's signature:
// its inner outputs are parameter copies from the block signature.
type WasmBlockAux struct {
	ParamTypes  []wasmtype.ValueOrRef
	ResultTypes []wasmtype.ValueOrRef
}

// valueOrRefType converts a Wasm value-or-ref descriptor into the lattice
// type a variable holding that kind of value carries.
func valueOrRefType(v wasmtype.ValueOrRef) lattice.Type {
	if v.Ref != nil {
		return lattice.WasmRef(*v.Ref)
	}
	switch v.Kind {
	case wasmtype.I32:
		return lattice.WasmI32()
	case wasmtype.I64:
		return lattice.WasmI64()
	case wasmtype.F32:
		return lattice.WasmF32()
	case wasmtype.F64:
		return lattice.WasmF64()
	case wasmtype.Simd128:
		return lattice.WasmSimd128()
	case wasmtype.ExnRef:
		return lattice.WasmExnRef()
	default:
		return lattice.Anything()
	}
}

// signatureFromDef builds a call signature from a DefFunc descriptor.
// Multiple results have no tuple representation in the lattice, so they
// are unioned into one output type.
func signatureFromDef(d wasmtype.Def) lattice.Signature {
	sig := lattice.Signature{Output: lattice.Undefined()}
	for _, p := range d.Params {
		sig.Params = append(sig.Params, lattice.Param{Kind: lattice.ParamPlain, Type: valueOrRefType(p)})
	}
	switch len(d.Results) {
	case 0:
	case 1:
		sig.Output = valueOrRefType(d.Results[0])
	default:
		out := lattice.Bottom()
		for _, r := range d.Results {
			out = lattice.Union(out, valueOrRefType(r))
		}
		sig.Output = out
	}
	return sig
}

// indexWithinGroup returns v's position among group's defined variables,
// or -1 if group is negative or v is not among them.
func indexWithinGroup(types *typegroup.Manager, group int, v ir.Variable) int {
	if group < 0 {
		return -1
	}
	for i, vv := range types.Variables(group) {
		if vv == v {
			return i
		}
	}
	return -1
}

// resolveTypeRef implements the type-group resolver's reference-
// resolution contract for one pointer-shaped slot within a
// being-defined type: if the referenced variable already carries a
// concrete wasmTypeDef, the target
// is known synchronously and is written in immediately (dispatch itself
// performs the "install resolved reference immediately" step the
// resolver's synchronous nil callback would otherwise ask for, since it
// already has everything needed without waiting); otherwise a resolver
// closure is registered, firing later with the variable the self-
// reference ultimately resolves to (nil meaning "the enclosing
// definition itself").
func (d *Dispatcher) resolveTypeRef(refVar ir.Variable, slot *wasmtype.RefType) {
	t := d.Vars.TypeOf(refVar)
	if !t.IsSelfReferenceSentinel() && t.IsWasmTypeDef() {
		refGroup, _ := d.Types.GroupOf(refVar)
		slot.TargetGroup = refGroup
		slot.TargetMember = indexWithinGroup(d.Types, refGroup, refVar)
		d.Types.Resolve(refVar, t.WasmDef(), refGroup, func(*ir.Variable) {})
		return
	}
	enclosingGroup := d.Types.Count()
	enclosingMember := d.Types.ActiveVariableCount()
	d.Types.Resolve(refVar, nil, -1, func(replacement *ir.Variable) {
		if replacement == nil {
			slot.TargetGroup = enclosingGroup
			slot.TargetMember = enclosingMember
			return
		}
		g, _ := d.Types.GroupOf(*replacement)
		slot.TargetGroup = g
		slot.TargetMember = indexWithinGroup(d.Types, g, *replacement)
	})
}

// resolveTypeDefRefs walks def's pointer-shaped slots in the fixed
// params/results/fields/elem order and resolves each unresolved one
// against the instruction's Inputs, consumed in that same order.
func (d *Dispatcher) resolveTypeDefRefs(inst ir.Instruction, def *wasmtype.Def) {
	next := 0
	resolve := func(ref *wasmtype.RefType) {
		if ref == nil || ref.Heap != wasmtype.HeapIndexed || ref.TargetGroup >= 0 {
			return
		}
		d.resolveTypeRef(inst.Input(next), ref)
		next++
	}
	for i := range def.Params {
		resolve(def.Params[i].Ref)
	}
	for i := range def.Results {
		resolve(def.Results[i].Ref)
	}
	for i := range def.Fields {
		resolve(def.Fields[i].Type.Ref)
	}
	resolve(def.Elem.Ref)
}

// dispatchWasm handles the entire Wasm opcode family: numeric/ref
// producers, module-scoped declarations, the recursive type-group
// definitions, block structure, and calls.
func (d *Dispatcher) dispatchWasm(inst ir.Instruction) {
	switch inst.Opcode {
	case ir.OpWasmBeginModule:
		d.setOutput(inst, d.Groups.CreateNewWasmModule())
	case ir.OpWasmEndModule:
		d.setOutput(inst, d.Groups.FinalizeWasmModule())

	case ir.OpWasmConstI32:
		d.setOutput(inst, lattice.WasmI32())
	case ir.OpWasmConstI64:
		d.setOutput(inst, lattice.WasmI64())
	case ir.OpWasmConstF32:
		d.setOutput(inst, lattice.WasmF32())
	case ir.OpWasmConstF64:
		d.setOutput(inst, lattice.WasmF64())

	case ir.OpWasmRefNull:
		aux, _ := inst.Aux.(WasmRefNullAux)
		d.setOutput(inst, lattice.WasmRef(wasmtype.RefType{Nullable: true, Heap: aux.Heap, TargetGroup: -1}))

	case ir.OpWasmRefFunc:
		d.setOutput(inst, lattice.WasmRef(wasmtype.RefType{Nullable: false, Heap: wasmtype.HeapFunc, TargetGroup: -1}))

	case ir.OpWasmDefineGlobal, ir.OpWasmImportGlobal:
		d.dispatchWasmGlobal(inst)
	case ir.OpWasmDefineTable, ir.OpWasmImportTable:
		d.dispatchWasmTable(inst)
	case ir.OpWasmDefineMemory, ir.OpWasmImportMemory:
		d.dispatchWasmMemory(inst)
	case ir.OpWasmDefineTag, ir.OpWasmImportTag:
		d.dispatchWasmTag(inst)
	case ir.OpWasmDefineFunction, ir.OpWasmImportFunction:
		d.dispatchWasmFunction(inst)

	case ir.OpWasmDefineTypeGroup:
		d.setNoOutputs(inst)
		d.Types.BeginTypeGroup()

	case ir.OpWasmDefineSignature:
		d.dispatchWasmTypeDef(inst, wasmtype.DefFunc)
	case ir.OpWasmDefineStructType:
		d.dispatchWasmTypeDef(inst, wasmtype.DefStruct)
	case ir.OpWasmDefineArrayType:
		d.dispatchWasmTypeDef(inst, wasmtype.DefArray)

	case ir.OpWasmDefineForwardOrSelfReference:
		assertOutputs(inst, 1)
		v := inst.Output(0)
		d.Types.Define(v)
		d.Vars.UpdateType(v, lattice.WasmSelfReferenceSentinel(), nil)

	case ir.OpWasmResolveForwardReference:
		d.setNoOutputs(inst)
		d.Types.ResolveForward(inst.Input(0), inst.Input(1))

	case ir.OpWasmEndTypeGroup:
		d.setNoOutputs(inst)
		d.Types.FinishTypeGroup()

	case ir.OpWasmBeginBlock, ir.OpWasmBeginIf, ir.OpWasmBeginLoop,
		ir.OpWasmBeginTry, ir.OpWasmBeginTryTable,
		ir.OpWasmBeginCatch, ir.OpWasmBeginCatchAll, ir.OpWasmBeginTryDelegate:
		d.dispatchWasmBlockBegin(inst)

	case ir.OpWasmEndBlock, ir.OpWasmEndIf, ir.OpWasmEndLoop,
		ir.OpWasmEndTry, ir.OpWasmEndTryTable:
		d.setNoOutputs(inst)

	case ir.OpWasmCallFunction, ir.OpWasmCallIndirect:
		d.dispatchWasmCall(inst)
	}
}

// dispatchWasmGlobal handles wasmDefineGlobal/wasmImportGlobal: the
// output variable's own type is the global's wasmTypeDef descriptor
// (consulted by struct/array fields that embed a global reference);
// the exported property's type is the global's plain value type.
func (d *Dispatcher) dispatchWasmGlobal(inst ir.Instruction) {
	assertOutputs(inst, 1)
	aux, _ := inst.Aux.(WasmDeclAux)
	imported := inst.Opcode == ir.OpWasmImportGlobal
	d.Groups.TouchWasmGlobal(inst.Output(0), imported, valueOrRefType(aux.Def.GlobalType))
	d.Vars.UpdateType(inst.Output(0), lattice.WasmTypeDef(aux.Def), nil)
}

// dispatchWasmTable exports the table's element type under its
// synthesized name; a table has no single "value" otherwise.
func (d *Dispatcher) dispatchWasmTable(inst ir.Instruction) {
	assertOutputs(inst, 1)
	aux, _ := inst.Aux.(WasmDeclAux)
	imported := inst.Opcode == ir.OpWasmImportTable
	d.Groups.TouchWasmTable(inst.Output(0), imported, valueOrRefType(aux.Def.TableElem))
	d.Vars.UpdateType(inst.Output(0), lattice.WasmTypeDef(aux.Def), nil)
}

// dispatchWasmMemory and dispatchWasmTag export the declaration's own
// wasmTypeDef descriptor, since memories and tags have no single plain
// value type to narrow to.
func (d *Dispatcher) dispatchWasmMemory(inst ir.Instruction) {
	assertOutputs(inst, 1)
	aux, _ := inst.Aux.(WasmDeclAux)
	imported := inst.Opcode == ir.OpWasmImportMemory
	t := lattice.WasmTypeDef(aux.Def)
	d.Groups.TouchWasmMemory(inst.Output(0), imported, t)
	d.Vars.UpdateType(inst.Output(0), t, nil)
}

func (d *Dispatcher) dispatchWasmTag(inst ir.Instruction) {
	assertOutputs(inst, 1)
	aux, _ := inst.Aux.(WasmDeclAux)
	imported := inst.Opcode == ir.OpWasmImportTag
	t := lattice.WasmTypeDef(aux.Def)
	d.Groups.TouchWasmTag(inst.Output(0), imported, t)
	d.Vars.UpdateType(inst.Output(0), t, nil)
}

// dispatchWasmFunction registers the function under the exports group
// (defined functions dedupe by variable alone; imports dedupe by the
// (variable, signature) pair, since one JS import may be imported under
// several signatures) and installs the function's own wasmTypeDef
// descriptor carrying its call signature too, so wasmCallFunction can
// read it back via Signature() and a struct field embedding a function
// reference can still read the raw descriptor via WasmDef().
func (d *Dispatcher) dispatchWasmFunction(inst ir.Instruction) {
	assertOutputs(inst, 1)
	aux, _ := inst.Aux.(WasmDeclAux)
	sig := signatureFromDef(aux.Def)
	if inst.Opcode == ir.OpWasmImportFunction {
		d.Groups.TouchWasmFunctionImport(inst.Output(0), sig)
	} else {
		d.Groups.TouchWasmFunction(inst.Output(0), false, sig)
	}
	d.Vars.UpdateType(inst.Output(0), lattice.WasmTypeDef(aux.Def).WithSignature(sig), nil)
}

// dispatchWasmTypeDef defines one recursive type-group member: resolves
// its internal references against C4 before installing its descriptor,
// so a forward/self reference still pending when Define runs resolves
// against this member's own now-fixed position.
func (d *Dispatcher) dispatchWasmTypeDef(inst ir.Instruction, kind wasmtype.DefKind) {
	assertOutputs(inst, 1)
	aux, _ := inst.Aux.(WasmTypeDefAux)
	def := aux.Def
	def.Kind = kind
	d.resolveTypeDefRefs(inst, &def)
	v := inst.Output(0)
	d.Types.Define(v)
	t := lattice.WasmTypeDef(def)
	if kind == wasmtype.DefFunc {
		t = t.WithSignature(signatureFromDef(def))
	}
	d.Vars.UpdateType(v, t, nil)
}

// dispatchWasmBlockBegin types a block-structured Wasm operation's inner
// outputs: each declared parameter copy, then the block's own label
// (bound to its result types, or its parameter types for a loop — a
// branch to a loop targets its start), then — for catch — an additional
// exceptionLabel bound to ⊤ (the caught exception's payload shape is not
// tracked precisely).
func (d *Dispatcher) dispatchWasmBlockBegin(inst ir.Instruction) {
	assertOutputs(inst, 0)
	aux, _ := inst.Aux.(WasmBlockAux)

	idx := 0
	for _, p := range aux.ParamTypes {
		if v := inst.InnerOutput(idx); v.IsValid() {
			d.Vars.UpdateType(v, valueOrRefType(p), nil)
		}
		idx++
	}

	labelSource := aux.ResultTypes
	if inst.Opcode == ir.OpWasmBeginLoop {
		labelSource = aux.ParamTypes
	}
	labelOperands := make([]lattice.Type, len(labelSource))
	for i, o := range labelSource {
		labelOperands[i] = valueOrRefType(o)
	}
	if v := inst.InnerOutput(idx); v.IsValid() {
		d.Vars.UpdateType(v, lattice.WasmLabel(labelOperands), nil)
	}
	idx++

	if inst.Opcode == ir.OpWasmBeginCatch {
		if v := inst.InnerOutput(idx); v.IsValid() {
			d.Vars.UpdateType(v, lattice.Anything(), nil)
		}
	}
}

// dispatchWasmCall handles wasmCallFunction/wasmCallIndirect uniformly:
// both provide the callee as Input(0), already typed as a function
// signature by the preceding declaration or table-element access.
func (d *Dispatcher) dispatchWasmCall(inst ir.Instruction) {
	t := d.typeOf(inst.Input(0))
	out := lattice.Anything()
	if sig := t.Signature(); sig != nil {
		out = sig.Output
	}
	d.setOutput(inst, out)
}
