package dispatch

import "github.com/jsfuzz/irtypes/internal/lattice"

// Canonical nominal types forced onto generator/async subroutine return
// values. These are singleton builtin shapes shared by every
// generator/async function in a program, not an
// accumulating per-declaration record, so they're built directly rather
// than minted through internal/objectgroup's createNew*/finalize* (which
// is for the analyzer's own dynamically-discovered shapes).
var (
	jsGeneratorType = lattice.Object().WithGroup("@@Generator", nil, nil)
	jsPromiseType   = lattice.Object().WithGroup("@@Promise", nil, nil)
)
