package triemap

import (
	"github.com/fredericbonnet/colibri-go/internal/colerr"
	"github.com/fredericbonnet/colibri-go/pkg/word"
)

// Iterator walks a trie map in sorted key order, bidirectionally
// (spec.md §4.H). It recomputes its position's ancestor path from the
// tree root on each navigation rather than storing parent pointers,
// exploiting the crit-bit invariant that testing a leaf's own key bits
// against any ancestor reproduces the exact path used to reach it.
type Iterator struct {
	e    *Engine
	t    *trieObj
	leaf *cbNode // nil means past-the-end
}

func leftmost(n *cbNode) *cbNode {
	for n != nil && n.internal {
		n = n.child[0]
	}
	return n
}

func rightmost(n *cbNode) *cbNode {
	for n != nil && n.internal {
		n = n.child[1]
	}
	return n
}

func pathTo(root, leaf *cbNode) []*cbNode {
	var path []*cbNode
	n := root
	for n != nil && n.internal {
		path = append(path, n)
		n = n.child[direction(leaf.keyBytes, n.byte_, n.otherbits)]
	}
	return path
}

// IterFirst seeks to the leftmost (smallest) key.
func (e *Engine) IterFirst(w word.Word, kind KeyKind) *Iterator {
	t, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.TRIEMAP, "not a trie map word of the expected key kind")
		return &Iterator{e: e}
	}
	return &Iterator{e: e, t: t, leaf: leftmost(t.root)}
}

// IterLast seeks to the rightmost (largest) key.
func (e *Engine) IterLast(w word.Word, kind KeyKind) *Iterator {
	t, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.TRIEMAP, "not a trie map word of the expected key kind")
		return &Iterator{e: e}
	}
	return &Iterator{e: e, t: t, leaf: rightmost(t.root)}
}

// IterFind navigates to the leaf that would contain key; if absent and
// create is true, splices a new leaf and reports created=true.
func (e *Engine) IterFind(w, key word.Word, kind KeyKind, create bool) (it *Iterator, created bool) {
	t, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.TRIEMAP, "not a trie map word of the expected key kind")
		return &Iterator{e: e}, false
	}
	kb := e.keyBytes(kind, key)
	if n := cbFind(t.root, kb); n != nil && bytesEqual(n.keyBytes, kb) {
		return &Iterator{e: e, t: t, leaf: n}, false
	}
	if !create {
		return &Iterator{e: e, t: t, leaf: nil}, false
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	e.ensureOwned(t)
	newRoot, _, inserted := cbInsert(t.root, kb, kv{key: key, value: word.Nil})
	t.root = newRoot
	if inserted {
		t.size++
	}
	n := cbFind(t.root, kb)
	return &Iterator{e: e, t: t, leaf: n}, inserted
}

// Next advances to the next key in sorted order.
func (it *Iterator) Next() {
	if it.leaf == nil {
		colerr.Valuecheck(colerr.MAPITER_END, "iterator already at end")
		return
	}
	path := pathTo(it.t.root, it.leaf)
	for i := len(path) - 1; i >= 0; i-- {
		anc := path[i]
		if direction(it.leaf.keyBytes, anc.byte_, anc.otherbits) == 0 {
			it.leaf = leftmost(anc.child[1])
			return
		}
	}
	it.leaf = nil
}

// Previous moves to the previous key in sorted order.
func (it *Iterator) Previous() {
	if it.leaf == nil {
		colerr.Valuecheck(colerr.MAPITER_END, "iterator already at end")
		return
	}
	path := pathTo(it.t.root, it.leaf)
	for i := len(path) - 1; i >= 0; i-- {
		anc := path[i]
		if direction(it.leaf.keyBytes, anc.byte_, anc.otherbits) == 1 {
			it.leaf = rightmost(anc.child[0])
			return
		}
	}
	it.leaf = nil
}

// Done reports whether the iterator has run off either end.
func (it *Iterator) Done() bool { return it.leaf == nil }

// Key returns the current entry's key.
func (it *Iterator) Key() word.Word {
	if it.leaf == nil {
		colerr.Valuecheck(colerr.MAPITER_END, "iterator at end has no key")
		return word.Nil
	}
	return it.leaf.payload.(kv).key
}

// Value returns the current entry's value.
func (it *Iterator) Value() word.Word {
	if it.leaf == nil {
		colerr.Valuecheck(colerr.MAPITER_END, "iterator at end has no value")
		return word.Nil
	}
	return it.leaf.payload.(kv).value
}

// SetValue overwrites the current entry's value in place, first taking a
// private copy of a tree still shared with a CopyTrieMap snapshot.
func (it *Iterator) SetValue(value word.Word) {
	if it.leaf == nil {
		colerr.Valuecheck(colerr.MAPITER_END, "iterator at end cannot be written")
		return
	}
	if it.t.shared {
		it.e.ensureOwned(it.t)
		it.leaf = cbFind(it.t.root, it.leaf.keyBytes)
	}
	p := it.leaf.payload.(kv)
	p.value = value
	it.leaf.payload = p
}
