package triemap

import (
	"encoding/binary"

	"github.com/fredericbonnet/colibri-go/internal/colerr"
	"github.com/fredericbonnet/colibri-go/pkg/heap"
	"github.com/fredericbonnet/colibri-go/pkg/rope"
	"github.com/fredericbonnet/colibri-go/pkg/word"
)

// KeyKind discriminates string-keyed (MAP) from integer-keyed (INTMAP)
// trie maps, matching pkg/hashmap's KeyKind.
type KeyKind int

const (
	StringKeys KeyKind = iota
	IntKeys
)

type kv struct {
	key, value word.Word
}

type trieObj struct {
	keyKind KeyKind
	root    *cbNode
	size    int
	shared  bool
}

func (t *trieObj) Kind() word.Kind { return word.KindTrieMap }
func (t *trieObj) TypeFlags() word.TypeFlag {
	if t.keyKind == IntKeys {
		return word.FlagIntMap | word.FlagTrieMap
	}
	return word.FlagMap | word.FlagTrieMap
}

func (t *trieObj) Children() []word.Word {
	out := make([]word.Word, 0, t.size*2)
	cbWalk(t.root, func(n *cbNode) {
		p := n.payload.(kv)
		out = append(out, p.key, p.value)
	})
	return out
}

// Engine binds trie map operations to a heap.Runtime and the rope.Engine
// needed to turn string keys into comparable byte sequences.
type Engine struct {
	rt    *heap.Runtime
	ropes *rope.Engine
}

// New returns a triemap Engine bound to rt.
func New(rt *heap.Runtime, ropes *rope.Engine) *Engine { return &Engine{rt: rt, ropes: ropes} }

// NewStringTrieMap allocates an empty string-keyed trie map.
func (e *Engine) NewStringTrieMap() word.Word { return e.newTrie(StringKeys) }

// NewIntTrieMap allocates an empty integer-keyed trie map.
func (e *Engine) NewIntTrieMap() word.Word { return e.newTrie(IntKeys) }

func (e *Engine) newTrie(kind KeyKind) word.Word {
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	return e.rt.Alloc(0, &trieObj{keyKind: kind})
}

func (e *Engine) obj(w word.Word, kind KeyKind) (*trieObj, bool) {
	t, ok := e.rt.Object(w).(*trieObj)
	if !ok || t.keyKind != kind {
		return nil, false
	}
	return t, true
}

// keyBytes turns a key Word into the byte sequence crit-bit compares,
// such that byte-lexicographic order matches the key domain's natural
// order: codepoint order for ropes, two's-complement order for integers
// (sign bit flipped so unsigned byte comparison sorts negatives first).
func (e *Engine) keyBytes(kind KeyKind, key word.Word) []byte {
	if kind == IntKeys {
		v, _ := e.rt.IntWordValue(key)
		u := uint64(v) ^ (uint64(1) << 63)
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, u)
		return buf
	}
	var out []byte
	length := e.ropes.Length(key)
	e.ropes.TraverseRopeChunks(key, 0, length, false, func(_ int, chunk []rune) int {
		for _, r := range chunk {
			out = append(out, string(r)...)
		}
		return 0
	})
	return out
}

func (e *Engine) ensureOwned(t *trieObj) {
	if !t.shared {
		return
	}
	t.root = cloneTree(t.root)
	t.shared = false
}

func cloneTree(n *cbNode) *cbNode {
	if n == nil {
		return nil
	}
	c := &cbNode{internal: n.internal, byte_: n.byte_, otherbits: n.otherbits}
	if n.internal {
		c.child[0] = cloneTree(n.child[0])
		c.child[1] = cloneTree(n.child[1])
	} else {
		c.keyBytes = append([]byte{}, n.keyBytes...)
		c.payload = n.payload
	}
	return c
}

// Size returns the trie's entry count.
func (e *Engine) Size(w word.Word, kind KeyKind) int {
	t, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.TRIEMAP, "not a trie map word of the expected key kind")
		return 0
	}
	return t.size
}

// Get returns the value for key and whether it was present.
func (e *Engine) Get(w, key word.Word, kind KeyKind) (word.Word, bool) {
	t, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.TRIEMAP, "not a trie map word of the expected key kind")
		return word.Nil, false
	}
	kb := e.keyBytes(kind, key)
	n := cbFind(t.root, kb)
	if n == nil || !bytesEqual(n.keyBytes, kb) {
		return word.Nil, false
	}
	return n.payload.(kv).value, true
}

// Set inserts or overwrites key/value, reporting true on insert (miss).
func (e *Engine) Set(w, key, value word.Word, kind KeyKind) bool {
	t, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.TRIEMAP, "not a trie map word of the expected key kind")
		return false
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	e.ensureOwned(t)

	kb := e.keyBytes(kind, key)
	if t.root != nil {
		if existing := cbFind(t.root, kb); existing != nil && bytesEqual(existing.keyBytes, kb) {
			existing.payload = kv{key: key, value: value}
			return false
		}
	}
	newRoot, _, inserted := cbInsert(t.root, kb, kv{key: key, value: value})
	t.root = newRoot
	if inserted {
		t.size++
	}
	return inserted
}

// Unset removes key, returning true if it was present.
func (e *Engine) Unset(w, key word.Word, kind KeyKind) bool {
	t, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.TRIEMAP, "not a trie map word of the expected key kind")
		return false
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	e.ensureOwned(t)

	kb := e.keyBytes(kind, key)
	newRoot, removed := cbRemove(t.root, kb)
	t.root = newRoot
	if removed {
		t.size--
	}
	return removed
}

// CopyTrieMap returns an O(1) snapshot sharing the source's tree until
// either map is next written to.
func (e *Engine) CopyTrieMap(w word.Word, kind KeyKind) word.Word {
	t, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.TRIEMAP, "not a trie map word of the expected key kind")
		return word.Nil
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	t.shared = true
	return e.rt.Alloc(0, &trieObj{keyKind: t.keyKind, root: t.root, size: t.size, shared: true})
}
