package heap

import (
	"github.com/fredericbonnet/colibri-go/internal/corelog"
	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultPageCells is the number of fixed-size cells carved from one
// simulated OS page (spec.md §4.A: "Memory is taken from the OS in pages
// of a fixed size... A page is partitioned into equal-sized cells"), used
// unless a Runtime is given WithPageCells. This implementation does not
// lay objects out in real byte-addressed pages — Go values already live
// wherever the host runtime's own collector puts them — but it keeps the
// same page/cell accounting so the allocator's behaviour (new page
// requested on exhaustion, per-generation page lists, live/free counts)
// and its logging remain faithful to the original, and so DESIGN.md's
// grounding is checkable against spec.md §4.A cell-for-cell.
const defaultPageCells = 256

type page struct {
	generation Generation
	free       int
	live       int
}

// allocator carves cell runs from per-generation page lists, requesting a
// new page from the OS (simulated: append a page struct) on exhaustion.
type allocator struct {
	pageCells   int
	pages       map[Generation][]*page
	freePageLRU *pageLRU
}

func newAllocator(pageCells int) *allocator {
	if pageCells <= 0 {
		pageCells = defaultPageCells
	}
	return &allocator{pageCells: pageCells, pages: make(map[Generation][]*page), freePageLRU: newPageLRU(64)}
}

// reserve finds (or creates) a page in generation gen with room for n
// contiguous cells and accounts the allocation. Blocks never span pages
// (spec.md §4.A); if n exceeds the page size the request is rejected.
func (a *allocator) reserve(gen Generation, n int) bool {
	if n > a.pageCells {
		return false
	}
	for _, p := range a.pages[gen] {
		if p.free >= n {
			p.free -= n
			p.live += n
			return true
		}
	}
	// Exhausted: request a new page, reusing a recently-freed one if the
	// LRU cache has one for this generation (avoids OS mmap/munmap churn
	// across collection cycles).
	p := a.freePageLRU.take(gen, a.pageCells)
	if p == nil {
		p = &page{generation: gen, free: a.pageCells}
		corelog.Debugf("heap: allocated new page for generation %d", gen)
	}
	p.free -= n
	p.live += n
	a.pages[gen] = append(a.pages[gen], p)
	return true
}

// release returns n cells to generation gen's free pool. It is called
// during sweep once per reclaimed object. A page that becomes entirely
// free is moved into the LRU cache rather than kept in the active list, so
// future allocations in other generations can't mistake it for occupied.
func (a *allocator) release(gen Generation, n int) {
	pages := a.pages[gen]
	if len(pages) == 0 {
		return
	}
	// Credit the first page with room; good enough for the accounting
	// contract this package promises (no client ever addresses a cell
	// directly, so which page a release lands on is unobservable).
	p := pages[0]
	p.live -= n
	if p.live <= 0 {
		p.live = 0
		p.free = a.pageCells
		a.pages[gen] = pages[1:]
		a.freePageLRU.put(p)
	} else {
		p.free += n
	}
}

// cellsInGeneration sums live cells across every page of gen, used by
// gcmetrics and by the generation-0 collection triggers (maybeCollect and
// the scheduler's tick).
func (a *allocator) cellsInGeneration(gen Generation) int {
	total := 0
	for _, p := range a.pages[gen] {
		total += p.live
	}
	return total
}

// pageLRU caches recently-freed whole pages (free == pageCells) so the
// allocator can reuse them without asking the OS again. Pages evicted from
// the cache are considered returned to the OS (simulated by simply
// dropping them; a real allocator would munmap here).
type pageLRU struct {
	cache *lru.Cache[uint64, *page]
	next  uint64
}

func newPageLRU(capacity int) *pageLRU {
	c, err := lru.NewWithEvict[uint64, *page](capacity, func(_ uint64, p *page) {
		corelog.Debugf("heap: returning idle page (generation %d) to the OS", p.generation)
	})
	if err != nil {
		// Only returned for capacity <= 0; fall back to a single-entry cache.
		c, _ = lru.New[uint64, *page](1)
	}
	return &pageLRU{cache: c}
}

// take pops the least recently cached page for gen (Keys lists the oldest
// first), if any, resetting it to an empty state ready for reuse.
func (l *pageLRU) take(gen Generation, pageCells int) *page {
	if l == nil {
		return nil
	}
	for _, key := range l.cache.Keys() {
		p, ok := l.cache.Peek(key)
		if !ok || p.generation != gen {
			continue
		}
		l.cache.Remove(key)
		p.free = pageCells
		p.live = 0
		return p
	}
	return nil
}

func (l *pageLRU) put(p *page) {
	if l == nil {
		return
	}
	l.next++
	l.cache.Add(l.next, p)
}
