package objectgroup

import (
	"fmt"

	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

// wasmTracker records, per active Wasm module, the variables observed so
// far of each kind, so that repeated references to the same variable
// reuse its previously synthesized export name instead of minting a new
// one.
type wasmTracker struct {
	globalNext   int
	funcNext     int
	seenGlobal   map[ir.Variable]string
	seenTable    map[ir.Variable]string
	seenMemory   map[ir.Variable]string
	seenTag      map[ir.Variable]string
	seenFunction map[ir.Variable]string
	funcImports  map[string]string // dedupe key "<var>|<sig>" -> assigned export name
}

func newWasmTracker() *wasmTracker {
	return &wasmTracker{
		seenGlobal:   make(map[ir.Variable]string),
		seenTable:    make(map[ir.Variable]string),
		seenMemory:   make(map[ir.Variable]string),
		seenTag:      make(map[ir.Variable]string),
		seenFunction: make(map[ir.Variable]string),
		funcImports:  make(map[string]string),
	}
}

// CreateNewWasmModule pushes the module group beneath its exports group
// (the new active top) and opens a fresh Wasm variable tracker for it,
// returning the module's initial instance type. Use ExportsGroup /
// ModuleGroup to target either group explicitly.
func (m *Manager) CreateNewWasmModule() lattice.Type {
	module := m.push(CategoryWasmModule)
	m.push(CategoryWasmExports)
	m.wasmStack = append(m.wasmStack, newWasmTracker())
	return module.InstanceType()
}

// FinalizeWasmModule finalizes the exports group, attaches it as the
// module group's "exports" property, then finalizes the module group
// itself, returning the module's finalized instance type: before
// finalizing the outer module group, it attaches an exports property
// whose type is the just-finalized exports instance type.
func (m *Manager) FinalizeWasmModule() lattice.Type {
	exportsType := m.Finalize()
	m.AddProperty("exports", &exportsType)
	moduleType := m.Finalize()
	m.wasmStack = m.wasmStack[:len(m.wasmStack)-1]
	return moduleType
}

func (m *Manager) currentWasmTracker() *wasmTracker {
	if len(m.wasmStack) == 0 {
		return nil
	}
	return m.wasmStack[len(m.wasmStack)-1]
}

func prefixName(kind string, n int, imported bool, indexed bool) string {
	p := kind
	if imported {
		p = "i" + p
	}
	if indexed {
		return fmt.Sprintf("%s%d", p, n)
	}
	return p
}

// touchIndexed registers a first-observed variable against the given
// seen-map, assigning it a stable synthesized export name and registering
// a correspondingly-typed property on the current exports group
// (touchSingleton does the same for the unindexed kinds). Subsequent
// touches of the same variable return the same name with isNew=false.
func (m *Manager) touchIndexed(seen map[ir.Variable]string, kind string, v ir.Variable, imported bool, next *int, t lattice.Type) (name string, isNew bool) {
	if n, ok := seen[v]; ok {
		return n, false
	}
	name = prefixName(kind, *next, imported, true)
	*next++
	seen[v] = name
	tc := t
	m.ExportsGroup().addProperty(name, &tc)
	return name, true
}

func (m *Manager) touchSingleton(seen map[ir.Variable]string, kind string, v ir.Variable, imported bool, t lattice.Type) (name string, isNew bool) {
	if n, ok := seen[v]; ok {
		return n, false
	}
	name = prefixName(kind, 0, imported, false)
	seen[v] = name
	tc := t
	m.ExportsGroup().addProperty(name, &tc)
	return name, true
}

// TouchWasmGlobal registers first observation of a global variable,
// returning its synthesized export name (wg<N>/iwg<N>).
func (m *Manager) TouchWasmGlobal(v ir.Variable, imported bool, t lattice.Type) (string, bool) {
	tr := m.currentWasmTracker()
	return m.touchIndexed(tr.seenGlobal, "wg", v, imported, &tr.globalNext, t)
}

// TouchWasmTable registers first observation of a table variable,
// returning its synthesized export name (wt/iwt).
func (m *Manager) TouchWasmTable(v ir.Variable, imported bool, t lattice.Type) (string, bool) {
	tr := m.currentWasmTracker()
	return m.touchSingleton(tr.seenTable, "wt", v, imported, t)
}

// TouchWasmMemory registers first observation of a memory variable,
// returning its synthesized export name (wm/iwm).
func (m *Manager) TouchWasmMemory(v ir.Variable, imported bool, t lattice.Type) (string, bool) {
	tr := m.currentWasmTracker()
	return m.touchSingleton(tr.seenMemory, "wm", v, imported, t)
}

// TouchWasmTag registers first observation of a tag (exception type)
// variable, returning its synthesized export name (wex/iwex).
func (m *Manager) TouchWasmTag(v ir.Variable, imported bool, t lattice.Type) (string, bool) {
	tr := m.currentWasmTracker()
	return m.touchSingleton(tr.seenTag, "wex", v, imported, t)
}

// TouchWasmFunction registers first observation of a defined function
// variable, returning its synthesized export name (w<N>/iw<N>) and
// registering it as an exports method.
func (m *Manager) TouchWasmFunction(v ir.Variable, imported bool, sig lattice.Signature) (string, bool) {
	tr := m.currentWasmTracker()
	if n, ok := tr.seenFunction[v]; ok {
		return n, false
	}
	name := prefixName("w", tr.funcNext, imported, true)
	tr.funcNext++
	tr.seenFunction[v] = name
	eg := m.ExportsGroup()
	eg.addMethod(name)
	eg.methods[name] = append(eg.methods[name], sig)
	return name, true
}

// TouchWasmFunctionImport registers a function import, deduplicated by
// the (variable, signature) pair rather than by variable alone: one JS
// function imported under two distinct signatures gets two distinct
// synthesized names, but importing the same pair twice reuses the name
// already assigned.
func (m *Manager) TouchWasmFunctionImport(v ir.Variable, sig lattice.Signature) (name string, isNew bool) {
	tr := m.currentWasmTracker()
	key := fmt.Sprintf("%d|%s", v, sig.String())
	if n, ok := tr.funcImports[key]; ok {
		return n, false
	}
	name = prefixName("w", tr.funcNext, true, true)
	tr.funcNext++
	tr.funcImports[key] = name
	eg := m.ExportsGroup()
	eg.addMethod(name)
	eg.methods[name] = append(eg.methods[name], sig)
	return name, true
}
