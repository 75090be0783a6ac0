// Package varstate implements the conditional-execution state machine: a
// stack of levels, each a list of sibling state frames, with an overall
// cache giving the effective type of every variable visible at the
// current program point. Modeled on classic scoped-environment parent
// chaining, generalized from "one parent" to "a level of siblings
// merging into one parent".
package varstate

import (
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

// Frame is a state frame: the variables modified within one conditional
// branch, plus subroutine/return bookkeeping. Frames are reference cells
// (always handled through a pointer) because the active frame of a level
// is also reachable as the "parent" of levels pushed later.
type Frame struct {
	types               map[ir.Variable]lattice.Type
	isSubroutine        bool
	returnValueType     lattice.Type
	hasReturned         bool
	isDefaultSwitchCase bool

	// parent is the frame that was active in the enclosing level when
	// this frame's level was started. nil only for the root frame.
	parent *Frame
}

func newFrame(parent *Frame) *Frame {
	return &Frame{types: make(map[ir.Variable]lattice.Type), parent: parent}
}

// Type returns f's own binding for v, or the zero Type (Bottom) if f
// never recorded one.
func (f *Frame) Type(v ir.Variable) (lattice.Type, bool) {
	t, ok := f.types[v]
	return t, ok
}

// level groups the sibling frames of one conditional construct plus the
// frame they all branch from.
type level struct {
	frames     []*Frame
	parent     *Frame
	isSwitch   bool
	sawDefault bool
	sawElse    bool
}

func (l *level) active() *Frame { return l.frames[len(l.frames)-1] }
