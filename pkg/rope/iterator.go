package rope

import (
	"github.com/fredericbonnet/colibri-go/internal/colerr"
	"github.com/fredericbonnet/colibri-go/pkg/word"
)

// Iterator is a fixed-size, stack-friendly cursor over a rope: a cached
// leaf plus a validity range, so advancing within one leaf is O(1) and
// crossing a boundary is O(log depth) (spec.md §4.D "Iteration").
type Iterator struct {
	e        *Engine
	rope     word.Word
	index    int
	length   int
	leaf     []rune
	leafBase int
	valid    bool
}

// IterAt positions a new iterator at index i of w.
func (e *Engine) IterAt(w word.Word, i int) *Iterator {
	it := &Iterator{e: e, rope: w, length: e.Length(w)}
	it.MoveTo(i)
	return it
}

func (it *Iterator) ensureLeaf() bool {
	if it.index < 0 || it.index >= it.length {
		return false
	}
	if it.valid && it.index >= it.leafBase && it.index < it.leafBase+len(it.leaf) {
		return true
	}
	runes, base, ok := leafContaining(it.e, it.rope, 0, it.index)
	if !ok {
		return false
	}
	it.leaf = runes
	it.leafBase = base
	it.valid = true
	return true
}

// leafContaining walks the tree to find the maximal flat chunk containing
// index i, returning it together with its absolute base offset.
func leafContaining(e *Engine, w word.Word, base, i int) ([]rune, int, bool) {
	if n, ok := e.rt.Object(w).(*concatNode); ok {
		leftLen := e.Length(n.left)
		if i-base < leftLen {
			return leafContaining(e, n.left, base, i)
		}
		return leafContaining(e, n.right, base+leftLen, i)
	}
	if n, ok := e.rt.Object(w).(*subropeNode); ok {
		return leafContaining(e, n.source, base-n.first, i)
	}
	runes, ok := runesOf(e, w)
	if !ok {
		return nil, 0, false
	}
	return runes, base, true
}

// IterNext advances by one codepoint, erroring ROPEITER_END at the end.
func (it *Iterator) Next() bool {
	if it.index >= it.length {
		colerr.Valuecheck(colerr.ROPEITER_END, "rope iterator already at end")
		return false
	}
	it.index++
	return it.index < it.length
}

// IterPrevious steps back by one codepoint.
func (it *Iterator) Previous() bool {
	if it.index <= 0 {
		colerr.Valuecheck(colerr.ROPEITER, "rope iterator at start")
		return false
	}
	it.index--
	return true
}

// Forward advances by n codepoints.
func (it *Iterator) Forward(n int) bool { return it.MoveTo(it.index + n) }

// Backward steps back by n codepoints.
func (it *Iterator) Backward(n int) bool { return it.MoveTo(it.index - n) }

// MoveTo repositions the iterator at absolute index i.
func (it *Iterator) MoveTo(i int) bool {
	if i < 0 || i > it.length {
		colerr.Valuecheck(colerr.ROPEITER, "rope iterator index %d out of range", i)
		return false
	}
	it.index = i
	it.valid = false
	return it.index < it.length
}

// AtEnd reports whether the iterator has reached the rope's length.
func (it *Iterator) AtEnd() bool { return it.index >= it.length }

// Char returns the codepoint at the iterator's current position.
func (it *Iterator) Char() (rune, bool) {
	if it.AtEnd() {
		colerr.Typecheck(colerr.ROPEITER_END, "rope iterator at end")
		return 0, false
	}
	if !it.ensureLeaf() {
		return 0, false
	}
	return it.leaf[it.index-it.leafBase], true
}

// Index returns the iterator's current absolute position.
func (it *Iterator) Index() int { return it.index }
