// Package analyser turns a phrase.Phrase parse tree into a
// meaning.Operation tree: it resolves every identifier to a local
// slot, a captured nonlocal slot, or the ambient system namespace, and
// decides the fixed NSlots/Captures every meaning.Lambda needs.
//
// The scope-stack-of-maps shape is grounded on the teacher's
// pkg/visitors/semantic_analyzer.go (`scopes []map[string]*Symbol` with
// SemanticError accumulation); generalized here from a single flat
// scope stack into a two-level FrameScope chain (one entry per lambda/
// top-level Frame boundary, with ordinary block scopes nested inside
// via BlockScope) so that variable capture across closures can be
// resolved the way a small-language compiler's upvalue pass does it
// (name found in an enclosing Frame -> add one indexed capture slot,
// reusing it on repeat lookups) rather than by carrying whole parent
// Frame pointers at runtime.
package analyser

import "github.com/curv-lang/curv/internal/meaning"

// FrameScope tracks slot allocation for one meaning.Lambda body (or
// the top-level program, which is a Frame with no parent). NextSlot is
// shared by every BlockScope nested inside it, so a `for` variable
// inside a lambda still allocates from the same flat Frame slot array
// the spec's Frame model requires (§5). A `let` is different: it opens
// a FrameScope of its own in ModuleMode.
type FrameScope struct {
	Parent   *FrameScope
	NextSlot int

	// ModuleMode is set for a RecursiveLetOp scope (a `let` block or the
	// top-level program): there, captures must land in the *same* slot
	// array as the sibling defs, immediately after them, because
	// meaning.BuildModule lays a Module out as [defs...][captures...]
	// contiguously. An ordinary Lambda Frame keeps its own Captures
	// list separate from Slots, so it leaves this false and numbers
	// captures 0.. independently of NextSlot.
	ModuleMode bool

	// top always points at whichever BlockScope is currently innermost
	// in this Frame, so a child Frame's capture resolution can ask its
	// parent "resolve this name starting from your current block"
	// without holding a direct pointer itself.
	top *BlockScope

	// captureIndex maps a name already resolved as a capture to its
	// slot in this Frame's Nonlocals Module; captureList is the
	// parallel ordered list Lambda.Captures is built from.
	captureIndex map[string]int
	captureList  []meaning.CaptureSource
}

// NewFrameScope starts a fresh Frame scope, chained to parent (nil at
// the top level).
func NewFrameScope(parent *FrameScope) *FrameScope {
	return &FrameScope{Parent: parent, captureIndex: map[string]int{}}
}

// AllocSlot reserves the next free local slot in this Frame.
func (fs *FrameScope) AllocSlot() int {
	s := fs.NextSlot
	fs.NextSlot++
	return s
}

// Captures returns the ordered CaptureSource list to attach to a
// meaning.Lambda built over this Frame.
func (fs *FrameScope) Captures() []meaning.CaptureSource {
	return fs.captureList
}

// resolveKind distinguishes where a name bottomed out: a local slot of
// some FrameScope, or a capture slot already appended to the asking
// FrameScope's own captureList.
type resolveKind int

const (
	resLocal resolveKind = iota
	resNonlocal
)

// resolveIn looks up name starting at the innermost BlockScope bs,
// walking out through enclosing blocks, then (if not found locally)
// recursing into the enclosing Frame and wiring a new capture slot on
// demand — the classic "upvalue" resolution algorithm.
func (fs *FrameScope) resolveIn(bs *BlockScope, name string) (resolveKind, int, bool) {
	for b := bs; b != nil; b = b.Parent {
		if slot, ok := b.Names[name]; ok {
			if fs.ModuleMode && b.Parent == nil {
				// A def of a let/top-level module lives in the Module,
				// which is the body Frame's Nonlocals, not in its Slots.
				return resNonlocal, slot, true
			}
			return resLocal, slot, true
		}
	}
	if idx, ok := fs.captureIndex[name]; ok {
		return resNonlocal, idx, true
	}
	if fs.Parent == nil {
		return 0, 0, false
	}
	parentKind, parentIdx, ok := fs.Parent.resolveIn(fs.Parent.top, name)
	if !ok {
		return 0, 0, false
	}
	var idx int
	if fs.ModuleMode {
		// Defs were bound first (pass 1 of analyseDefsAndBody), so
		// NextSlot already sits at len(defs); continuing from it keeps
		// captures contiguous with the def slots BuildModule expects.
		idx = fs.AllocSlot()
	} else {
		idx = len(fs.captureList)
	}
	fs.captureIndex[name] = idx
	fs.captureList = append(fs.captureList, meaning.CaptureSource{
		FromNonlocals: parentKind == resNonlocal,
		Slot:          parentIdx,
	})
	return resNonlocal, idx, true
}

// BlockScope is one `let`/`for`/lambda-parameter lexical block nested
// within a FrameScope; pattern bindings live here so a name only
// shadows for the span of its enclosing block, even though the slot
// itself is allocated from the Frame-wide counter (§4.3).
type BlockScope struct {
	Parent *BlockScope
	Frame  *FrameScope
	Names  map[string]int
}

// PushBlock opens a new nested BlockScope under parent (nil starts the
// Frame's own outermost block) and records it as fs.top.
func (fs *FrameScope) PushBlock(parent *BlockScope) *BlockScope {
	b := &BlockScope{Parent: parent, Frame: fs, Names: map[string]int{}}
	fs.top = b
	return b
}

// SetTop restores fs.top after a nested block has been fully
// analysed, so subsequent sibling lookups (and cross-frame capture
// resolution from a lambda nested later in the same Frame) see the
// correct lexical scope rather than a leftover child block.
func (fs *FrameScope) SetTop(b *BlockScope) { fs.top = b }

// Bind allocates a new slot for name in this block and returns it.
func (b *BlockScope) Bind(name string) int {
	slot := b.Frame.AllocSlot()
	b.Names[name] = slot
	return slot
}

// Resolve looks up name starting at block b.
func (b *BlockScope) Resolve(name string) (resolveKind, int, bool) {
	return b.Frame.resolveIn(b, name)
}
