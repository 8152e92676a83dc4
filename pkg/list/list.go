// Package list implements the List/MList engine of spec.md §4.F: a tree
// over word.Word elements mirroring the rope engine's shape, plus void
// leaves, circular lists, and a mutable root with copy-on-write path
// surgery.
package list

import (
	"github.com/fredericbonnet/colibri-go/internal/colerr"
	"github.com/fredericbonnet/colibri-go/pkg/heap"
	"github.com/fredericbonnet/colibri-go/pkg/word"
)

// EmptyList is the immediate representation of the zero-length list,
// reusing the rope engine's empty singleton: both answer a length of 0
// and carry no storage, and a list containing no elements is exactly the
// same concept as the empty rope at the Word level (spec.md §3's "Type
// descriptor" table has no separate LIST flag distinguishing emptiness).
const EmptyList = word.EmptyRope

// shortMergeThreshold is the largest element count a Concat/Sublist result
// may have and still be copied into one fresh vector leaf; longer results
// become concat or sublist nodes, mirroring pkg/rope's merge threshold
// (spec.md §4.F: "merge into one vector leaf").
const shortMergeThreshold = 16

type voidLeaf struct{ length int }

func (v *voidLeaf) Kind() word.Kind          { return word.KindList }
func (v *voidLeaf) TypeFlags() word.TypeFlag { return word.FlagList }
func (v *voidLeaf) Children() []word.Word    { return nil }

type vecLeaf struct {
	elements []word.Word
	mutable  bool // makes Kind report KindMList; MList edits never write a leaf in place
}

func (l *vecLeaf) Kind() word.Kind {
	if l.mutable {
		return word.KindMList
	}
	return word.KindList
}
func (l *vecLeaf) TypeFlags() word.TypeFlag { return word.FlagList }
func (l *vecLeaf) Children() []word.Word    { return l.elements }
func (l *vecLeaf) Cells() int {
	n := (len(l.elements)*8 + 15) / 16
	if n < 1 {
		n = 1
	}
	return n
}

type concatNode struct {
	left, right word.Word
	length      int
	depth       int
}

func (n *concatNode) Kind() word.Kind          { return word.KindList }
func (n *concatNode) TypeFlags() word.TypeFlag { return word.FlagList }
func (n *concatNode) Children() []word.Word    { return []word.Word{n.left, n.right} }

type sublistNode struct {
	source      word.Word
	first, last int
}

func (n *sublistNode) Kind() word.Kind          { return word.KindList }
func (n *sublistNode) TypeFlags() word.TypeFlag { return word.FlagList }
func (n *sublistNode) Children() []word.Word    { return []word.Word{n.source} }

// loopNode represents a (possibly) circular list as a finite head subtree
// followed by an infinitely-repeating loop subtree, per Design Notes §9
// ("circular lists as (tailSubtree, loopLength) pairs, no back-pointers").
// loopLength caches Length(loop); total addressable length is
// Length(head)+loopLength.
type loopNode struct {
	head       word.Word
	loop       word.Word
	loopLength int
}

func (n *loopNode) Kind() word.Kind          { return word.KindList }
func (n *loopNode) TypeFlags() word.TypeFlag { return word.FlagList }
func (n *loopNode) Children() []word.Word    { return []word.Word{n.head, n.loop} }

// Engine binds list operations to a heap.Runtime.
type Engine struct {
	rt *heap.Runtime
}

// New returns a list Engine bound to rt.
func New(rt *heap.Runtime) *Engine { return &Engine{rt: rt} }

// NewVoidList returns a conceptual run of n nils with no per-element
// storage.
func (e *Engine) NewVoidList(n int) word.Word {
	if n <= 0 {
		return EmptyList
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	return e.rt.Alloc(0, &voidLeaf{length: n})
}

// NewList allocates an immutable list from a copy of elements.
func (e *Engine) NewList(elements []word.Word) word.Word {
	if len(elements) == 0 {
		return EmptyList
	}
	cp := make([]word.Word, len(elements))
	copy(cp, elements)
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	return e.rt.Alloc(0, &vecLeaf{elements: cp})
}

// NewMList allocates a fresh, solely-owned mutable list.
func (e *Engine) NewMList(elements []word.Word) word.Word {
	return e.NewMListFromElements(elements)
}

func depthOf(e *Engine, w word.Word) int {
	if word.IsImmediate(w) {
		return 0
	}
	switch n := e.rt.Object(w).(type) {
	case *concatNode:
		return n.depth
	case *sublistNode:
		return depthOf(e, n.source)
	default:
		return 0
	}
}

// Length returns a list's total addressable length (head + loop, for a
// circular list).
func (e *Engine) Length(w word.Word) int {
	if w == EmptyList {
		return 0
	}
	switch n := e.rt.Object(w).(type) {
	case *voidLeaf:
		return n.length
	case *vecLeaf:
		return len(n.elements)
	case *concatNode:
		return n.length
	case *sublistNode:
		return n.last - n.first + 1
	case *loopNode:
		return e.Length(n.head) + n.loopLength
	default:
		colerr.Typecheck(colerr.LIST, "not a list word")
		return 0
	}
}

// LoopLength returns the cached loop length of a circular list, or 0.
func (e *Engine) LoopLength(w word.Word) int {
	if n, ok := e.rt.Object(w).(*loopNode); ok {
		return n.loopLength
	}
	return 0
}

// HeadLength returns the length of the finite prefix before the loop
// starts (colList.h's Col_ListLoopLength/Col_ListLength split): the whole
// list for a non-circular one, or just the non-repeating head otherwise.
func (e *Engine) HeadLength(w word.Word) int {
	if n, ok := e.rt.Object(w).(*loopNode); ok {
		return e.Length(n.head)
	}
	return e.Length(w)
}

// IsCircular reports whether w has a non-zero loop length.
func (e *Engine) IsCircular(w word.Word) bool { return e.LoopLength(w) > 0 }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
