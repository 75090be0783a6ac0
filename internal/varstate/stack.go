package varstate

import (
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/irfault"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

// TypeChangeObserver is notified whenever an overall-cache entry changes,
// in the order changes occur. Observers are informational only — the
// stack itself never re-consumes them.
type TypeChangeObserver func(v ir.Variable, old, new lattice.Type)

// Stack is the variable-map state stack (C2). The zero value is not
// usable; construct with NewStack.
type Stack struct {
	levels    []*level
	overall   map[ir.Variable]lattice.Type
	observers []TypeChangeObserver
}

// NewStack returns a stack containing a single root level with one
// unconditional frame, ready to receive top-level instructions.
func NewStack() *Stack {
	root := newFrame(nil)
	return &Stack{
		levels:  []*level{{frames: []*Frame{root}}},
		overall: make(map[ir.Variable]lattice.Type),
	}
}

// AddObserver registers obs to be called on every overall-cache change.
func (s *Stack) AddObserver(obs TypeChangeObserver) {
	s.observers = append(s.observers, obs)
}

func (s *Stack) notify(v ir.Variable, old, newT lattice.Type) {
	if old.Equal(newT) {
		return
	}
	for _, obs := range s.observers {
		obs(v, old, newT)
	}
}

func (s *Stack) top() *level { return s.levels[len(s.levels)-1] }

// ActiveFrame returns the innermost active frame.
func (s *Stack) ActiveFrame() *Frame { return s.top().active() }

// IsAtRoot reports whether every conditional/switch/subroutine level has
// been closed back down to the single root level (used by the analyzer's
// reset() lifecycle assertion).
func (s *Stack) IsAtRoot() bool { return len(s.levels) == 1 }

// TypeOf returns the effective type of v at the current program point.
// An unknown variable reads as ⊤, never ⊥.
func (s *Stack) TypeOf(v ir.Variable) lattice.Type {
	if t, ok := s.overall[v]; ok {
		return t
	}
	return lattice.Anything()
}

func (s *Stack) rawOverall(v ir.Variable) lattice.Type {
	return s.overall[v] // zero value is Bottom
}

// UpdateType writes newT into the active frame and the overall cache. If
// the parent frame has no entry for v, it is initialized to oldT (when
// non-nil), else the previous overall value, else ⊥.
func (s *Stack) UpdateType(v ir.Variable, newT lattice.Type, oldT *lattice.Type) {
	active := s.ActiveFrame()
	active.types[v] = newT

	if parent := active.parent; parent != nil {
		if _, ok := parent.types[v]; !ok {
			init := lattice.Bottom()
			if oldT != nil {
				init = *oldT
			} else if prev, ok := s.overall[v]; ok {
				init = prev
			}
			parent.types[v] = init
		}
	}

	old := s.rawOverall(v)
	s.overall[v] = newT
	s.notify(v, old, newT)
}

// StartGroupOfConditionalBlocks pushes a new, empty level whose parent is
// the current active frame.
func (s *Stack) StartGroupOfConditionalBlocks() {
	s.levels = append(s.levels, &level{parent: s.ActiveFrame()})
}

// EnterConditionalBlock replays the just-finished sibling's modified
// variables back to the parent value in the overall cache, then pushes a
// fresh frame. The level must not already contain a subroutine frame.
func (s *Stack) EnterConditionalBlock(isDefaultSwitchCase bool) {
	lvl := s.top()
	if len(lvl.frames) > 0 {
		s.replayToParent(lvl)
	}
	for _, f := range lvl.frames {
		if f.isSubroutine {
			irfault.Raise(irfault.CodeStackInvariant, "cannot open a sibling conditional block in a level that already holds a subroutine frame")
		}
	}
	f := newFrame(lvl.parent)
	f.isDefaultSwitchCase = isDefaultSwitchCase
	lvl.frames = append(lvl.frames, f)
}

// EnterElseBlock opens the else arm of an if/else, marking the group as
// having one seen so EndIf knows not to add its own implicit "condition
// false" sibling on top of it.
func (s *Stack) EnterElseBlock() {
	s.top().sawElse = true
	s.EnterConditionalBlock(false)
}

func (s *Stack) replayToParent(lvl *level) {
	prev := lvl.active()
	for v := range prev.types {
		parentVal := lattice.Bottom()
		if lvl.parent != nil {
			parentVal = lvl.parent.types[v]
		}
		old := s.rawOverall(v)
		s.overall[v] = parentVal
		s.notify(v, old, parentVal)
	}
}

// EndGroupOfConditionalBlocks pops the top level, merges each variable
// any popped frame touched (unioning siblings, and further unioning with
// the parent's value when not every sibling touched it), and writes the
// result into the re-activated parent frame and overall cache.
func (s *Stack) EndGroupOfConditionalBlocks() {
	s.endGroup()
}

// EndIf closes an if/else group. When no else arm was seen, an implicit
// empty sibling representing "condition false, nothing executed" is
// added before merging — a plain if with no else must fold back to the
// unchanged parent state for any variable its body touched, the same
// treatment EndSwitch gives a switch with no default case.
func (s *Stack) EndIf() {
	lvl := s.top()
	if !lvl.sawElse {
		if len(lvl.frames) > 0 {
			s.replayToParent(lvl)
		}
		lvl.frames = append(lvl.frames, newFrame(lvl.parent))
	}
	s.endGroup()
}

func (s *Stack) endGroup() {
	n := len(s.levels)
	if n < 2 {
		irfault.Raise(irfault.CodeStackInvariant, "cannot end a conditional group below the root level")
	}
	lvl := s.levels[n-1]
	s.levels = s.levels[:n-1]
	parent := lvl.parent

	touched := map[ir.Variable]struct{}{}
	for _, f := range lvl.frames {
		for v := range f.types {
			touched[v] = struct{}{}
		}
	}

	for v := range touched {
		parentT, hasParent := parent.types[v]
		if !hasParent || parentT.IsBottom() {
			continue
		}
		acc := lattice.Bottom()
		touchedCount := 0
		for _, f := range lvl.frames {
			if t, ok := f.types[v]; ok {
				acc = lattice.Union(acc, t)
				touchedCount++
			}
		}
		if touchedCount < len(lvl.frames) {
			acc = lattice.Union(acc, parentT)
		}
		old := s.rawOverall(v)
		parent.types[v] = acc
		s.overall[v] = acc
		s.notify(v, old, acc)
	}

	retUnion := lattice.Bottom()
	anyReturned := false
	allReturned := len(lvl.frames) > 0
	for _, f := range lvl.frames {
		retUnion = lattice.Union(retUnion, f.returnValueType)
		if f.hasReturned {
			anyReturned = true
		} else {
			allReturned = false
		}
	}
	if anyReturned {
		parent.returnValueType = lattice.Union(parent.returnValueType, retUnion)
	}
	if allReturned {
		parent.hasReturned = true
	}
}

// --- switch ------------------------------------------------------------

// StartSwitch begins a switch's group of sibling cases.
func (s *Stack) StartSwitch() {
	s.levels = append(s.levels, &level{parent: s.ActiveFrame(), isSwitch: true})
}

// EnterSwitchCase opens a new non-default case sibling.
func (s *Stack) EnterSwitchCase() {
	s.EnterConditionalBlock(false)
}

// EnterSwitchDefaultCase opens the default case sibling.
func (s *Stack) EnterSwitchDefaultCase() {
	s.top().sawDefault = true
	s.EnterConditionalBlock(true)
}

// EndSwitch closes the switch. When no default case was seen, an
// implicit empty sibling representing "no case matched" is added before
// merging.
func (s *Stack) EndSwitch() {
	lvl := s.top()
	if !lvl.sawDefault {
		if len(lvl.frames) > 0 {
			s.replayToParent(lvl)
		}
		lvl.frames = append(lvl.frames, newFrame(lvl.parent))
	}
	s.endGroup()
}

// --- subroutines ---------------------------------------------------------

// StartSubroutine pushes a new level with two frames: an empty frame
// ("function never called") and an active subroutine frame. This is how
// a function body appears as conditionally-executed code to its
// enclosing scope.
func (s *Stack) StartSubroutine() {
	parent := s.ActiveFrame()
	lvl := &level{parent: parent}
	lvl.frames = append(lvl.frames, newFrame(parent))
	active := newFrame(parent)
	active.isSubroutine = true
	lvl.frames = append(lvl.frames, active)
	s.levels = append(s.levels, lvl)
}

// UpdateReturnValueType unions T into the active frame's running return
// type, unless the active frame has already returned (in which case the
// update is dead code and ignored). The active frame need not itself be
// the subroutine frame — a return nested inside an if/else records
// against that branch's own sibling frame, and endGroup's generic
// hasReturned/returnValueType propagation carries it up to the
// enclosing subroutine frame when the conditional group closes.
func (s *Stack) UpdateReturnValueType(t lattice.Type) {
	active := s.ActiveFrame()
	if active.hasReturned {
		return
	}
	active.returnValueType = lattice.Union(active.returnValueType, t)
	active.hasReturned = true
}

// EndSubroutine merges the newest level and additionally computes the
// subroutine's return type: the union of every sibling frame's running
// return type, further unioned with defaultT if the subroutine frame
// itself never returned.
func (s *Stack) EndSubroutine(defaultT lattice.Type) lattice.Type {
	lvl := s.top()
	ret := lattice.Bottom()
	var sub *Frame
	for _, f := range lvl.frames {
		ret = lattice.Union(ret, f.returnValueType)
		if f.isSubroutine {
			sub = f
		}
	}
	if sub == nil {
		irfault.Raise(irfault.CodeStackInvariant, "endSubroutine called on a level with no subroutine frame")
	}
	if !sub.hasReturned {
		ret = lattice.Union(ret, defaultT)
	}
	s.endGroup()
	return ret
}
