package list

import (
	"github.com/fredericbonnet/colibri-go/internal/colerr"
	"github.com/fredericbonnet/colibri-go/pkg/word"
)

// mlistRoot is the mutable handle of an MList: a stable Word whose `tree`
// field is swapped for a new (always-immutable) tree after each mutation.
// Because the tree itself is never mutated in place — only referenced by
// the root — CopyMList's two roots naturally diverge on the next write
// without any shared/copy-on-write bookkeeping: each root's splice only
// ever replaces the path from its own tree to the touched span, reusing
// every untouched subtree exactly as pkg/rope's Concat/Subrope already do.
type mlistRoot struct {
	tree word.Word
}

func (r *mlistRoot) Kind() word.Kind          { return word.KindMList }
func (r *mlistRoot) TypeFlags() word.TypeFlag { return word.FlagList }
func (r *mlistRoot) Children() []word.Word    { return []word.Word{r.tree} }

func (e *Engine) root(w word.Word) (*mlistRoot, bool) {
	r, ok := e.rt.Object(w).(*mlistRoot)
	return r, ok
}

// NewMListFromElements allocates a fresh MList root over a copy of
// elements.
func (e *Engine) NewMListFromElements(elements []word.Word) word.Word {
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	return e.rt.Alloc(0, &mlistRoot{tree: e.NewList(elements)})
}

// CopyMList returns a new, independently-mutable MList sharing the source's
// current tree until either one is next mutated (spec.md §4.F).
func (e *Engine) CopyMList(w word.Word) word.Word {
	r, ok := e.root(w)
	if !ok {
		colerr.Typecheck(colerr.MLIST, "not an mlist word")
		return word.Nil
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	return e.rt.Alloc(0, &mlistRoot{tree: r.tree})
}

// splice rebuilds tree as [0,first) ++ replacement ++ (last, length), an
// immutable-style reconstruction that shares every untouched subtree.
func (e *Engine) splice(tree word.Word, first, last int, replacement []word.Word) word.Word {
	length := e.Length(tree)
	if first < 0 {
		first = 0
	}
	if last >= length {
		last = length - 1
	}
	var before, after word.Word = EmptyList, EmptyList
	if first > 0 {
		before = e.sublistPlain(tree, 0, first-1)
	}
	if last+1 < length {
		after = e.sublistPlain(tree, last+1, length-1)
	}
	mid := EmptyList
	if len(replacement) > 0 {
		mid = e.NewList(replacement)
	}
	return e.concatPlain(e.concatPlain(before, mid), after)
}

// MListLength returns the current length of an MList's tree.
func (e *Engine) MListLength(w word.Word) int {
	r, ok := e.root(w)
	if !ok {
		colerr.Typecheck(colerr.MLIST, "not an mlist word")
		return 0
	}
	return e.Length(r.tree)
}

// MListAt reads element i of an MList.
func (e *Engine) MListAt(w word.Word, i int) word.Word {
	r, ok := e.root(w)
	if !ok {
		colerr.Typecheck(colerr.MLIST, "not an mlist word")
		return word.Nil
	}
	return e.At(r.tree, i)
}

// MListSetAt overwrites element i in place.
func (e *Engine) MListSetAt(w word.Word, i int, value word.Word) {
	r, ok := e.root(w)
	if !ok {
		colerr.Typecheck(colerr.MLIST, "not an mlist word")
		return
	}
	if i < 0 || i >= e.Length(r.tree) {
		colerr.Valuecheck(colerr.LISTINDEX, "index %d out of range", i)
		return
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	r.tree = e.splice(r.tree, i, i, []word.Word{value})
}

// MListInsert inserts elements before index i.
func (e *Engine) MListInsert(w word.Word, i int, elements []word.Word) {
	r, ok := e.root(w)
	if !ok {
		colerr.Typecheck(colerr.MLIST, "not an mlist word")
		return
	}
	if i < 0 || i > e.Length(r.tree) {
		colerr.Valuecheck(colerr.LISTINDEX, "index %d out of range", i)
		return
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	r.tree = e.splice(r.tree, i, i-1, elements)
}

// MListRemove deletes the inclusive span [first,last].
func (e *Engine) MListRemove(w word.Word, first, last int) {
	r, ok := e.root(w)
	if !ok {
		colerr.Typecheck(colerr.MLIST, "not an mlist word")
		return
	}
	if first > last {
		return
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	r.tree = e.splice(r.tree, first, last, nil)
}

// MListReplace overwrites the inclusive span [first,last] with elements.
func (e *Engine) MListReplace(w word.Word, first, last int, elements []word.Word) {
	r, ok := e.root(w)
	if !ok {
		colerr.Typecheck(colerr.MLIST, "not an mlist word")
		return
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	r.tree = e.splice(r.tree, first, last, elements)
}

// MListSetLength grows (void-padded) or truncates an MList in place.
func (e *Engine) MListSetLength(w word.Word, length int) {
	r, ok := e.root(w)
	if !ok {
		colerr.Typecheck(colerr.MLIST, "not an mlist word")
		return
	}
	if length < 0 {
		colerr.Valuecheck(colerr.LISTLENGTH_CONCAT, "negative length %d", length)
		return
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	cur := e.Length(r.tree)
	switch {
	case length == cur:
		return
	case length < cur:
		r.tree = e.sublistPlain(r.tree, 0, length-1)
	default:
		r.tree = e.concatPlain(r.tree, e.NewVoidList(length-cur))
	}
}

// MListLoop makes the MList's current content circular: the whole tree
// becomes the loop body, with no finite head (spec.md §4.F).
func (e *Engine) MListLoop(w word.Word) {
	r, ok := e.root(w)
	if !ok {
		colerr.Typecheck(colerr.MLIST, "not an mlist word")
		return
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	r.tree = e.CircularList(r.tree)
}
