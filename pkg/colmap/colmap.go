// Package colmap implements the uniform map-iterator dispatch of spec.md
// §4.I over the hash map and trie map backings.
package colmap

import (
	"github.com/fredericbonnet/colibri-go/internal/colerr"
	"github.com/fredericbonnet/colibri-go/pkg/hashmap"
	"github.com/fredericbonnet/colibri-go/pkg/heap"
	"github.com/fredericbonnet/colibri-go/pkg/rope"
	"github.com/fredericbonnet/colibri-go/pkg/triemap"
	"github.com/fredericbonnet/colibri-go/pkg/word"
)

// Backing identifies which engine a map word is dispatched to.
type Backing int

const (
	BackingHash Backing = iota
	BackingTrie
)

// KeyKind mirrors hashmap.KeyKind/triemap.KeyKind at the dispatch layer.
type KeyKind int

const (
	StringKeys KeyKind = iota
	IntKeys
)

// Engine binds map construction and generic iteration to concrete
// hashmap/triemap engines — the Go-native stand-in for spec.md §4.I's
// three-way `traversalState` union, which here is just "which concrete
// iterator am I holding."
type Engine struct {
	rt    *heap.Runtime
	hash  *hashmap.Engine
	trie  *triemap.Engine
	ropes *rope.Engine
}

// New returns a colmap Engine bound to rt, wiring fresh hashmap/triemap
// engines off the same rope.Engine. hashOpts is forwarded to
// hashmap.New (e.g. a tuned WithLoadFactorLimit).
func New(rt *heap.Runtime, ropes *rope.Engine, hashOpts ...hashmap.Option) *Engine {
	return &Engine{
		rt:    rt,
		hash:  hashmap.New(rt, ropes, hashOpts...),
		trie:  triemap.New(rt, ropes),
		ropes: ropes,
	}
}

// NewMap allocates an empty map with the requested backing and key kind.
func (e *Engine) NewMap(backing Backing, kind KeyKind) word.Word {
	switch backing {
	case BackingHash:
		if kind == IntKeys {
			return e.hash.NewIntHashMap()
		}
		return e.hash.NewStringHashMap()
	default:
		if kind == IntKeys {
			return e.trie.NewIntTrieMap()
		}
		return e.trie.NewStringTrieMap()
	}
}

func hmKind(k KeyKind) hashmap.KeyKind {
	if k == IntKeys {
		return hashmap.IntKeys
	}
	return hashmap.StringKeys
}

func tmKind(k KeyKind) triemap.KeyKind {
	if k == IntKeys {
		return triemap.IntKeys
	}
	return triemap.StringKeys
}

// detect reports which backing w uses and the KeyKind it was typed with,
// or ok=false if w is neither.
func (e *Engine) detect(w word.Word) (backing Backing, kind KeyKind, ok bool) {
	switch obj := e.rt.Object(w).(type) {
	case nil:
		return 0, 0, false
	default:
		flags := obj.TypeFlags()
		switch {
		case flags&word.FlagHashMap != 0:
			k := StringKeys
			if flags&word.FlagIntMap != 0 {
				k = IntKeys
			}
			return BackingHash, k, true
		case flags&word.FlagTrieMap != 0:
			k := StringKeys
			if flags&word.FlagIntMap != 0 {
				k = IntKeys
			}
			return BackingTrie, k, true
		default:
			return 0, 0, false
		}
	}
}

// Get dispatches to the matching backing, typechecking key-kind mismatch
// per spec.md §4.I.
func (e *Engine) Get(w, key word.Word, kind KeyKind) (word.Word, bool) {
	backing, actual, ok := e.detect(w)
	if !ok || actual != kind {
		colerr.Typecheck(colerr.MAP, "map word kind mismatch")
		return word.Nil, false
	}
	if backing == BackingHash {
		return e.hash.Get(w, key, hmKind(kind))
	}
	return e.trie.Get(w, key, tmKind(kind))
}

// Set dispatches to the matching backing.
func (e *Engine) Set(w, key, value word.Word, kind KeyKind) bool {
	backing, actual, ok := e.detect(w)
	if !ok || actual != kind {
		colerr.Typecheck(colerr.MAP, "map word kind mismatch")
		return false
	}
	if backing == BackingHash {
		return e.hash.Set(w, key, value, hmKind(kind))
	}
	return e.trie.Set(w, key, value, tmKind(kind))
}

// Unset dispatches to the matching backing.
func (e *Engine) Unset(w, key word.Word, kind KeyKind) bool {
	backing, actual, ok := e.detect(w)
	if !ok || actual != kind {
		colerr.Typecheck(colerr.MAP, "map word kind mismatch")
		return false
	}
	if backing == BackingHash {
		return e.hash.Unset(w, key, hmKind(kind))
	}
	return e.trie.Unset(w, key, tmKind(kind))
}

// Size dispatches to the matching backing.
func (e *Engine) Size(w word.Word, kind KeyKind) int {
	backing, actual, ok := e.detect(w)
	if !ok || actual != kind {
		colerr.Typecheck(colerr.MAP, "map word kind mismatch")
		return 0
	}
	if backing == BackingHash {
		return e.hash.Size(w, hmKind(kind))
	}
	return e.trie.Size(w, tmKind(kind))
}

// Copy dispatches to CopyHashMap/CopyTrieMap.
func (e *Engine) Copy(w word.Word, kind KeyKind) word.Word {
	backing, actual, ok := e.detect(w)
	if !ok || actual != kind {
		colerr.Typecheck(colerr.MAP, "map word kind mismatch")
		return word.Nil
	}
	if backing == BackingHash {
		return e.hash.CopyHashMap(w, hmKind(kind))
	}
	return e.trie.CopyTrieMap(w, tmKind(kind))
}

// Iterator unifies a hashmap.Iterator and a triemap.Iterator behind one
// Next/Done/Key/Value/SetValue surface (spec.md §4.I's MapIterator).
type Iterator struct {
	backing Backing
	hashIt  *hashmap.Iterator
	trieIt  *triemap.Iterator
}

// IterBegin starts an iterator at the map's first entry (bucket order for
// hash maps, sorted key order for trie maps).
func (e *Engine) IterBegin(w word.Word, kind KeyKind) *Iterator {
	backing, actual, ok := e.detect(w)
	if !ok || actual != kind {
		colerr.Typecheck(colerr.MAP, "map word kind mismatch")
		return &Iterator{backing: BackingHash, hashIt: &hashmap.Iterator{}}
	}
	if backing == BackingHash {
		return &Iterator{backing: BackingHash, hashIt: e.hash.IterBegin(w, hmKind(kind))}
	}
	return &Iterator{backing: BackingTrie, trieIt: e.trie.IterFirst(w, tmKind(kind))}
}

// IterFind seeks to key, optionally creating a zero-value entry.
func (e *Engine) IterFind(w, key word.Word, kind KeyKind, create bool) (*Iterator, bool) {
	backing, actual, ok := e.detect(w)
	if !ok || actual != kind {
		colerr.Typecheck(colerr.MAP, "map word kind mismatch")
		return &Iterator{backing: BackingHash, hashIt: &hashmap.Iterator{}}, false
	}
	if backing == BackingHash {
		it, created := e.hash.IterFind(w, key, hmKind(kind), create)
		return &Iterator{backing: BackingHash, hashIt: it}, created
	}
	it, created := e.trie.IterFind(w, key, tmKind(kind), create)
	return &Iterator{backing: BackingTrie, trieIt: it}, created
}

// Next advances the iterator.
func (it *Iterator) Next() {
	if it.backing == BackingHash {
		it.hashIt.Next()
		return
	}
	it.trieIt.Next()
}

// Done reports whether the iterator has run off the end.
func (it *Iterator) Done() bool {
	if it.backing == BackingHash {
		return it.hashIt.Done()
	}
	return it.trieIt.Done()
}

// Key returns the current entry's key.
func (it *Iterator) Key() word.Word {
	if it.backing == BackingHash {
		return it.hashIt.Key()
	}
	return it.trieIt.Key()
}

// Value returns the current entry's value.
func (it *Iterator) Value() word.Word {
	if it.backing == BackingHash {
		return it.hashIt.Value()
	}
	return it.trieIt.Value()
}

// SetValue overwrites the current entry's value in place.
func (it *Iterator) SetValue(value word.Word) {
	if it.backing == BackingHash {
		it.hashIt.SetValue(value)
		return
	}
	it.trieIt.SetValue(value)
}
