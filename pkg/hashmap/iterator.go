package hashmap

import (
	"github.com/fredericbonnet/colibri-go/internal/colerr"
	"github.com/fredericbonnet/colibri-go/pkg/word"
)

// Iterator walks a hash map's buckets in chain-then-bucket order, per
// spec.md §4.G/§4.I's public iterator contract.
type Iterator struct {
	e      *Engine
	m      *mapObj
	bucket int
	entry  *entry
}

// IterBegin seeks to the first non-empty bucket and its head entry.
func (e *Engine) IterBegin(w word.Word, kind KeyKind) *Iterator {
	m, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.MAP, "not a hash map word of the expected key kind")
		return &Iterator{e: e}
	}
	it := &Iterator{e: e, m: m, bucket: -1}
	it.advanceBucket()
	return it
}

// IterFind seeks to key's bucket; if absent and create is true, inserts a
// zero-value entry and points the iterator at it, reporting created=true.
func (e *Engine) IterFind(w, key word.Word, kind KeyKind, create bool) (it *Iterator, created bool) {
	m, ok := e.obj(w, kind)
	if !ok {
		colerr.Typecheck(colerr.MAP, "not a hash map word of the expected key kind")
		return &Iterator{e: e}, false
	}
	idx := int(e.hashKey(m, key) & uint64(len(m.buckets)-1))
	for en := m.buckets[idx]; en != nil; en = en.next {
		if e.keysEqual(m, en.key, key) {
			return &Iterator{e: e, m: m, bucket: idx, entry: en}, false
		}
	}
	if !create {
		return &Iterator{e: e, m: m, bucket: -1}, false
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	e.ensureOwned(m)
	idx = int(e.hashKey(m, key) & uint64(len(m.buckets)-1))
	en := &entry{key: key, value: word.Nil, next: m.buckets[idx]}
	m.buckets[idx] = en
	m.size++
	return &Iterator{e: e, m: m, bucket: idx, entry: en}, true
}

func (it *Iterator) advanceBucket() {
	if it.m == nil {
		it.entry = nil
		return
	}
	for it.bucket++; it.bucket < len(it.m.buckets); it.bucket++ {
		if it.m.buckets[it.bucket] != nil {
			it.entry = it.m.buckets[it.bucket]
			return
		}
	}
	it.entry = nil
}

// Next advances along the chain, then to the next non-empty bucket.
func (it *Iterator) Next() {
	if it.entry == nil {
		colerr.Valuecheck(colerr.MAPITER_END, "iterator already at end")
		return
	}
	if it.entry.next != nil {
		it.entry = it.entry.next
		return
	}
	it.advanceBucket()
}

// Done reports whether the iterator has run off the end of the map.
func (it *Iterator) Done() bool { return it.entry == nil }

// Key returns the current entry's key.
func (it *Iterator) Key() word.Word {
	if it.entry == nil {
		colerr.Valuecheck(colerr.MAPITER_END, "iterator at end has no key")
		return word.Nil
	}
	return it.entry.key
}

// Value returns the current entry's value.
func (it *Iterator) Value() word.Word {
	if it.entry == nil {
		colerr.Valuecheck(colerr.MAPITER_END, "iterator at end has no value")
		return word.Nil
	}
	return it.entry.value
}

// SetValue overwrites the current entry's value in place, first taking a
// private copy of a table still shared with a CopyHashMap snapshot.
func (it *Iterator) SetValue(value word.Word) {
	if it.entry == nil {
		colerr.Valuecheck(colerr.MAPITER_END, "iterator at end cannot be written")
		return
	}
	if it.m.shared {
		key := it.entry.key
		it.e.ensureOwned(it.m)
		for en := it.m.buckets[it.bucket]; en != nil; en = en.next {
			if it.e.keysEqual(it.m, en.key, key) {
				it.entry = en
				break
			}
		}
	}
	it.entry.value = value
}
