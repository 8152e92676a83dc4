package list

import (
	"github.com/fredericbonnet/colibri-go/internal/colerr"
	"github.com/fredericbonnet/colibri-go/pkg/word"
)

// elementsOf decodes any list word into a flat slice for small-merge and
// testing purposes. Circular lists decode their addressable span (head
// followed by one copy of the loop body), not an infinite expansion.
func (e *Engine) elementsOf(w word.Word) []word.Word {
	if w == EmptyList {
		return nil
	}
	switch n := e.rt.Object(w).(type) {
	case *voidLeaf:
		out := make([]word.Word, n.length)
		for i := range out {
			out[i] = word.Nil
		}
		return out
	case *vecLeaf:
		out := make([]word.Word, len(n.elements))
		copy(out, n.elements)
		return out
	case *concatNode:
		return append(e.elementsOf(n.left), e.elementsOf(n.right)...)
	case *sublistNode:
		return append([]word.Word{}, e.elementsOf(n.source)[n.first:n.last+1]...)
	case *loopNode:
		return append(e.elementsOf(n.head), e.elementsOf(n.loop)...)
	default:
		colerr.Typecheck(colerr.LIST, "not a list word")
		return nil
	}
}

// At returns the element at index i, wrapping into the loop body for
// circular lists once i passes the head length.
func (e *Engine) At(w word.Word, i int) word.Word {
	if i < 0 || (i >= e.Length(w) && !e.IsCircular(w)) {
		colerr.Valuecheck(colerr.LISTINDEX, "index %d out of range", i)
		return word.Nil
	}
	return e.at(w, i)
}

func (e *Engine) at(w word.Word, i int) word.Word {
	switch n := e.rt.Object(w).(type) {
	case *voidLeaf:
		return word.Nil
	case *vecLeaf:
		return n.elements[i]
	case *concatNode:
		leftLen := e.Length(n.left)
		if i < leftLen {
			return e.at(n.left, i)
		}
		return e.at(n.right, i-leftLen)
	case *sublistNode:
		return e.at(n.source, n.first+i)
	case *loopNode:
		headLen := e.Length(n.head)
		if i < headLen {
			return e.at(n.head, i)
		}
		rel := (i - headLen) % n.loopLength
		return e.at(n.loop, rel)
	default:
		colerr.Typecheck(colerr.LIST, "not a list word")
		return word.Nil
	}
}

// ToSlice decodes a list's entire addressable span (see elementsOf).
func (e *Engine) ToSlice(w word.Word) []word.Word { return e.elementsOf(w) }

// CircularList wraps core as an infinitely-repeating loop with no finite
// head (spec.md §4.F).
func (e *Engine) CircularList(core word.Word) word.Word {
	n := e.Length(core)
	if n == 0 {
		return EmptyList
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	return e.rt.Alloc(0, &loopNode{head: EmptyList, loop: core, loopLength: n})
}

// Repeat concatenates count copies of w.
func (e *Engine) Repeat(w word.Word, count int) word.Word {
	if count <= 0 || e.Length(w) == 0 {
		return EmptyList
	}
	result := EmptyList
	base := w
	for count > 0 {
		if count&1 != 0 {
			result = e.Concat(result, base)
		}
		count >>= 1
		if count > 0 {
			base = e.Concat(base, base)
		}
	}
	return result
}
