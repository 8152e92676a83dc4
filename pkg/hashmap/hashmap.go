// Package hashmap implements the hash map engine of spec.md §4.G: a
// power-of-two bucket array of chained entries, with copy-on-write
// sharing across CopyHashMap.
package hashmap

import (
	"github.com/fredericbonnet/colibri-go/internal/colerr"
	"github.com/fredericbonnet/colibri-go/pkg/heap"
	"github.com/fredericbonnet/colibri-go/pkg/rope"
	"github.com/fredericbonnet/colibri-go/pkg/word"
)

// KeyKind discriminates the two key domains a hash map may hold. Spec.md
// §4.I requires MapIterGetKey etc. to typecheck-error on a kind mismatch,
// so the map object records which one it was created with.
type KeyKind int

const (
	StringKeys KeyKind = iota
	IntKeys
)

const (
	initialBuckets         = 8
	defaultLoadFactorLimit = 2 // entries per bucket, average, before rehash
)

type entry struct {
	key, value word.Word
	next       *entry
}

type mapObj struct {
	keyKind KeyKind
	buckets []*entry
	size    int
	shared  bool
}

func (m *mapObj) Kind() word.Kind { return word.KindHashMap }
func (m *mapObj) TypeFlags() word.TypeFlag {
	if m.keyKind == IntKeys {
		return word.FlagIntMap | word.FlagHashMap
	}
	return word.FlagMap | word.FlagHashMap
}

func (m *mapObj) Children() []word.Word {
	out := make([]word.Word, 0, m.size*2)
	for _, head := range m.buckets {
		for e := head; e != nil; e = e.next {
			out = append(out, e.key, e.value)
		}
	}
	return out
}

func (m *mapObj) Cells() int {
	n := (len(m.buckets)*8 + 15) / 16
	if n < 1 {
		n = 1
	}
	return n
}

// Engine binds hash map operations to a heap.Runtime and the rope.Engine
// needed to hash and compare string keys.
type Engine struct {
	rt              *heap.Runtime
	ropes           *rope.Engine
	loadFactorLimit int
}

// Option configures an Engine at New.
type Option func(*Engine)

// WithLoadFactorLimit overrides the average entries-per-bucket threshold
// that triggers a rehash (runtimeconfig's tuning JSON), default 2.
func WithLoadFactorLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.loadFactorLimit = n
		}
	}
}

// New returns a hashmap Engine bound to rt, hashing string keys via ropes.
func New(rt *heap.Runtime, ropes *rope.Engine, opts ...Option) *Engine {
	e := &Engine{rt: rt, ropes: ropes, loadFactorLimit: defaultLoadFactorLimit}
	for _, o := range opts {
		o(e)
	}
	return e
}

// NewStringHashMap allocates an empty string-keyed hash map.
func (e *Engine) NewStringHashMap() word.Word { return e.newMap(StringKeys) }

// NewIntHashMap allocates an empty integer-keyed hash map.
func (e *Engine) NewIntHashMap() word.Word { return e.newMap(IntKeys) }

func (e *Engine) newMap(kind KeyKind) word.Word {
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	return e.rt.Alloc(0, &mapObj{
		keyKind: kind,
		buckets: make([]*entry, initialBuckets),
	})
}

func (e *Engine) obj(w word.Word, wantKind KeyKind) (*mapObj, bool) {
	m, ok := e.rt.Object(w).(*mapObj)
	if !ok || m.keyKind != wantKind {
		return nil, false
	}
	return m, true
}

// hash mixes a rope key codepoint-by-codepoint with a rolling multiplier
// (spec.md §4.G), starting from djb2's 5381 xored with the runtime's hash
// seed; integer keys are mixed directly (one shift-multiply-shift round of
// the Murmur3 fmix64 finalizer, matching the teacher's `util.Checksum`-style single-pass mix
// idiom rather than a cryptographic hash, since §4.G calls this "a rolling
// multiplier", not a specific function).
func (e *Engine) hashKey(m *mapObj, key word.Word) uint64 {
	if m.keyKind == IntKeys {
		v, _ := e.rt.IntWordValue(key)
		u := uint64(v)
		u ^= u >> 33
		u *= 0xff51afd7ed558ccd
		u ^= u >> 33
		return u
	}
	var h uint64 = 5381 ^ e.rt.HashSeed()
	length := e.ropes.Length(key)
	e.ropes.TraverseRopeChunks(key, 0, length, false, func(_ int, chunk []rune) int {
		for _, r := range chunk {
			h = h*33 + uint64(r)
		}
		return 0
	})
	return h
}

func (e *Engine) keysEqual(m *mapObj, a, b word.Word) bool {
	if m.keyKind == IntKeys {
		va, _ := e.rt.IntWordValue(a)
		vb, _ := e.rt.IntWordValue(b)
		return va == vb
	}
	cmp, _, _, _ := e.ropes.CompareRopes(a, b)
	return cmp == 0
}

// ensureOwned performs whole-table copy-on-write: the first mutation
// reaching a shared table (one that CopyHashMap marked) clones every
// bucket chain before writing, so the original stays untouched.
func (e *Engine) ensureOwned(m *mapObj) {
	if !m.shared {
		return
	}
	cloned := make([]*entry, len(m.buckets))
	for i, head := range m.buckets {
		var first, prevClone *entry
		for e := head; e != nil; e = e.next {
			c := &entry{key: e.key, value: e.value}
			if prevClone == nil {
				first = c
			} else {
				prevClone.next = c
			}
			prevClone = c
		}
		cloned[i] = first
	}
	m.buckets = cloned
	m.shared = false
}

// Size returns the map's entry count.
func (e *Engine) Size(w word.Word, kind KeyKind) int {
	m, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.MAP, "not a hash map word of the expected key kind")
		return 0
	}
	return m.size
}

// Get returns the value for key and whether it was present.
func (e *Engine) Get(w, key word.Word, kind KeyKind) (word.Word, bool) {
	m, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.MAP, "not a hash map word of the expected key kind")
		return word.Nil, false
	}
	idx := e.hashKey(m, key) & uint64(len(m.buckets)-1)
	for en := m.buckets[idx]; en != nil; en = en.next {
		if e.keysEqual(m, en.key, key) {
			return en.value, true
		}
	}
	return word.Nil, false
}

// Set inserts or overwrites key/value, returning true if it was an insert
// (miss) rather than an overwrite (match), per spec.md §4.G's 1/0 return.
func (e *Engine) Set(w, key, value word.Word, kind KeyKind) bool {
	m, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.MAP, "not a hash map word of the expected key kind")
		return false
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	e.ensureOwned(m)

	idx := e.hashKey(m, key) & uint64(len(m.buckets)-1)
	for en := m.buckets[idx]; en != nil; en = en.next {
		if e.keysEqual(m, en.key, key) {
			en.value = value
			return false
		}
	}
	m.buckets[idx] = &entry{key: key, value: value, next: m.buckets[idx]}
	m.size++
	if m.size > len(m.buckets)*e.loadFactorLimit {
		e.rehash(m)
	}
	return true
}

// Unset removes key, returning true if it was present.
func (e *Engine) Unset(w, key word.Word, kind KeyKind) bool {
	m, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.MAP, "not a hash map word of the expected key kind")
		return false
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	e.ensureOwned(m)

	idx := e.hashKey(m, key) & uint64(len(m.buckets)-1)
	var prev *entry
	for en := m.buckets[idx]; en != nil; en = en.next {
		if e.keysEqual(m, en.key, key) {
			if prev == nil {
				m.buckets[idx] = en.next
			} else {
				prev.next = en.next
			}
			m.size--
			return true
		}
		prev = en
	}
	return false
}

func (e *Engine) rehash(m *mapObj) {
	bigger := make([]*entry, len(m.buckets)*2)
	for _, head := range m.buckets {
		for en := head; en != nil; {
			next := en.next
			idx := e.hashKey(m, en.key) & uint64(len(bigger)-1)
			en.next = bigger[idx]
			bigger[idx] = en
			en = next
		}
	}
	m.buckets = bigger
}

// CopyHashMap returns an O(1) snapshot sharing the source's bucket chains
// until either map is next written to (spec.md §4.G, scenario 5).
func (e *Engine) CopyHashMap(w word.Word, kind KeyKind) word.Word {
	m, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.MAP, "not a hash map word of the expected key kind")
		return word.Nil
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	m.shared = true
	return e.rt.Alloc(0, &mapObj{
		keyKind: m.keyKind, buckets: m.buckets, size: m.size, shared: true,
	})
}
