package heap

import (
	"sync"

	"github.com/fredericbonnet/colibri-go/internal/colerr"
	"github.com/fredericbonnet/colibri-go/internal/corelog"
	"github.com/fredericbonnet/colibri-go/internal/gcmetrics"
	"github.com/fredericbonnet/colibri-go/pkg/word"
)

// Mode selects the scheduling model of spec.md §5.
type Mode int

const (
	// ModeSingleSync is single appartment, stop-the-world: collection runs
	// synchronously, driven from ResumeGC.
	ModeSingleSync Mode = iota
	// ModeSingleAsync is single appartment, async GC: a dedicated goroutine
	// collects; the client blocks on it while paused.
	ModeSingleAsync
	// ModeShared is multi-appartment: several client goroutines share
	// words, collected by a dedicated goroutine once no member holds a
	// GC pause.
	ModeShared
)

type slot struct {
	gen    Generation
	obj    Object
	cells  int
	marked bool
	custom *CustomDescriptor
}

// Runtime is the process-wide (single-appartment modes) or per-group
// (shared mode) handle encapsulating the allocator, collector, preserved
// words and error procedure, per Design Notes §9 "Global state": "A
// rewrite should encapsulate them in a Runtime handle ... there can be
// exactly one per process in the single-appartment models, one per group
// in the shared model."
type Runtime struct {
	mu sync.Mutex

	mode  Mode
	alloc *allocator

	slots       []slot
	freeHandles []uint64

	preserved  map[word.Word]int32
	synonyms   map[word.Word]word.Word
	remembered map[Generation]map[word.Word]struct{}

	pauseDepth  int
	appartments int // number of group members that must pause together (ModeShared)
	paused      int // number currently paused (ModeShared)

	hashSeed  uint64
	pageCells int
	metrics   *gcmetrics.Collector

	sched *scheduler // nil unless ModeSingleAsync/ModeShared
}

// Option configures a Runtime at Init.
type Option func(*Runtime)

// WithMetrics registers Prometheus instrumentation.
func WithMetrics(c *gcmetrics.Collector) Option {
	return func(rt *Runtime) { rt.metrics = c }
}

// WithHashSeed pins the string/rope hash seed (colHash.h's randomized seed,
// ported as an option per SPEC_FULL.md §4) for reproducible tests.
func WithHashSeed(seed uint64) Option {
	return func(rt *Runtime) { rt.hashSeed = seed }
}

// WithPageCells overrides the number of cells per simulated page
// (spec.md §4.A), the "page size" knob runtimeconfig's tuning JSON names.
func WithPageCells(n int) Option {
	return func(rt *Runtime) { rt.pageCells = n }
}

// Init creates a Runtime in the given scheduling mode (spec.md §6 "Init").
func Init(mode Mode, opts ...Option) *Runtime {
	rt := &Runtime{
		mode:       mode,
		preserved:  make(map[word.Word]int32),
		synonyms:   make(map[word.Word]word.Word),
		remembered: make(map[Generation]map[word.Word]struct{}),
		hashSeed:   0x9e3779b97f4a7c15,
	}
	for _, o := range opts {
		o(rt)
	}
	rt.alloc = newAllocator(rt.pageCells)
	if mode != ModeSingleSync {
		rt.sched = newScheduler(rt)
	}
	corelog.Infof("heap: runtime initialized in mode %d", mode)
	return rt
}

// Cleanup stops any background collector goroutine. After Cleanup the
// Runtime must not be used.
func (rt *Runtime) Cleanup() {
	if rt.sched != nil {
		rt.sched.stop()
	}
	corelog.Infof("heap: runtime cleaned up")
}

// HashSeed returns the seed used by pkg/hashmap's string/rope key hash.
func (rt *Runtime) HashSeed() uint64 { return rt.hashSeed }

// Join registers a new group member in ModeShared by counting it in
// appartments; the background collector's quiescence check reads only the
// pause depth, not this count. It is a no-op outside ModeShared.
func (rt *Runtime) Join() {
	if rt.mode != ModeShared {
		return
	}
	rt.mu.Lock()
	rt.appartments++
	rt.mu.Unlock()
}

// Leave unregisters a group member that will no longer call PauseGC.
func (rt *Runtime) Leave() {
	if rt.mode != ModeShared {
		return
	}
	rt.mu.Lock()
	if rt.appartments > 0 {
		rt.appartments--
	}
	rt.mu.Unlock()
}

// --- Pause / resume (spec.md §4.B, §5) ---

// PauseGC brackets an allocation-bearing section. Idempotent in the
// single-appartment models; in the shared model it additionally joins the
// group's pause barrier once per call depth of 0->1.
func (rt *Runtime) PauseGC() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.pauseDepth++
	if rt.mode == ModeShared && rt.pauseDepth == 1 {
		rt.paused++
	}
}

// TryPauseGC attempts to pause without blocking on an in-progress
// collection; it always succeeds in this implementation (the collector
// never holds the lock across a whole cycle, only its mark/sweep
// sub-steps), matching the "Pause is idempotent" contract, so it always
// returns true.
func (rt *Runtime) TryPauseGC() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	fresh := rt.pauseDepth == 0
	rt.pauseDepth++
	if rt.mode == ModeShared && fresh {
		rt.paused++
	}
	return true
}

// ResumeGC ends one pause/resume bracket. At depth 0 in ModeSingleSync it
// synchronously runs any collection the allocator's thresholds requested;
// in the async/shared modes it signals the background scheduler that this
// appartment is no longer blocking a group collection.
func (rt *Runtime) ResumeGC() {
	rt.mu.Lock()
	if rt.pauseDepth == 0 {
		rt.mu.Unlock()
		colerr.Report(colerr.Error, colerr.GENERIC, "ResumeGC called without a matching PauseGC")
		return
	}
	rt.pauseDepth--
	depth := rt.pauseDepth
	if rt.mode == ModeShared && depth == 0 {
		rt.paused--
	}
	rt.mu.Unlock()
	if depth == 0 && rt.mode == ModeSingleSync {
		rt.maybeCollect()
	}
	if rt.sched != nil {
		rt.sched.notifyResume()
	}
}

func (rt *Runtime) requirePaused(op string) bool {
	rt.mu.Lock()
	paused := rt.pauseDepth > 0
	rt.mu.Unlock()
	if !paused {
		colerr.Report(colerr.Fatal, colerr.GCPROTECT, "%s: allocation attempted outside a GC pause", op)
		return false
	}
	return true
}

// --- Allocation (spec.md §4.A) ---

// Alloc carves a handle for obj in generation gen, requiring the caller be
// paused. Returns the heap word handle for obj.
func (rt *Runtime) Alloc(gen Generation, obj Object) word.Word {
	if !rt.requirePaused("Alloc") {
		return word.Nil
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()

	n := cellsOf(obj)
	if !rt.alloc.reserve(gen, n) {
		colerr.Report(colerr.Fatal, colerr.MEMORY, "allocator: object requires %d cells, exceeds page capacity", n)
		return word.Nil
	}

	var h uint64
	if len(rt.freeHandles) > 0 {
		h = rt.freeHandles[len(rt.freeHandles)-1]
		rt.freeHandles = rt.freeHandles[:len(rt.freeHandles)-1]
		rt.slots[h] = slot{gen: gen, obj: obj, cells: n}
	} else {
		h = uint64(len(rt.slots))
		rt.slots = append(rt.slots, slot{gen: gen, obj: obj, cells: n})
	}
	rt.reportGenerationCells(gen)
	return word.NewHeapWord(h)
}

// AllocCustom is Alloc specialised for custom words, recording the
// descriptor so WordType/CustomWordInfo can answer the combined
// CUSTOM|BaseKind flags and hand back the descriptor pointer.
func (rt *Runtime) AllocCustom(gen Generation, obj Object, desc *CustomDescriptor) word.Word {
	w := rt.Alloc(gen, obj)
	if h, ok := word.HeapHandle(w); ok {
		rt.mu.Lock()
		rt.slots[h].custom = desc
		rt.mu.Unlock()
	}
	return w
}

func (rt *Runtime) reportGenerationCells(gen Generation) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.SetGenerationCells(int(gen), rt.alloc.cellsInGeneration(gen))
}

// Object returns the Object stored at a heap word's handle, or nil if w is
// not a heap word or its handle is stale (already swept).
func (rt *Runtime) Object(w word.Word) Object {
	h, ok := word.HeapHandle(w)
	if !ok {
		return nil
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if h >= uint64(len(rt.slots)) {
		return nil
	}
	return rt.slots[h].obj
}

// generationOf returns the current generation of a heap word's handle.
func (rt *Runtime) generationOf(w word.Word) (Generation, bool) {
	h, ok := word.HeapHandle(w)
	if !ok {
		return 0, false
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if h >= uint64(len(rt.slots)) {
		return 0, false
	}
	return rt.slots[h].gen, true
}

// --- Write barrier (spec.md §4.B) ---

// Link registers, if needed, that parent (already heap-allocated, possibly
// in an older generation) now holds a reference to child. A collection at
// a level covering child's generation but not parent's must treat child as
// a root even though parent itself will not be scanned.
func (rt *Runtime) Link(parent, child word.Word) {
	pg, pok := rt.generationOf(parent)
	cg, cok := rt.generationOf(child)
	if !pok || !cok || pg <= cg {
		return
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	set := rt.remembered[cg]
	if set == nil {
		set = make(map[word.Word]struct{})
		rt.remembered[cg] = set
	}
	set[child] = struct{}{}
}

// --- Preserve / release (spec.md §4.B) ---

// WordPreserve inserts w into the process-wide root multiset, incrementing
// its refcount.
func (rt *Runtime) WordPreserve(w word.Word) {
	if word.IsNil(w) || !word.IsHeap(w) {
		return
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.preserved[w]++
}

// WordRelease decrements w's refcount; at zero the word becomes
// reclaimable at the next collection.
func (rt *Runtime) WordRelease(w word.Word) {
	if word.IsNil(w) || !word.IsHeap(w) {
		return
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	n, ok := rt.preserved[w]
	if !ok {
		return
	}
	if n <= 1 {
		delete(rt.preserved, w)
		return
	}
	rt.preserved[w] = n - 1
}

// --- Synonyms (spec.md §4.C, Design Notes §9) ---

// WordSynonym returns the next word in w's synonym chain, or Nil if w has
// none.
func (rt *Runtime) WordSynonym(w word.Word) word.Word {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.synonyms[w]
}

// WordAddSynonym splices syn into w's synonym chain.
func (rt *Runtime) WordAddSynonym(w, syn word.Word) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if existing, ok := rt.synonyms[w]; ok {
		rt.synonyms[syn] = existing
	}
	rt.synonyms[w] = syn
}

// WordClearSynonym removes w's synonym link.
func (rt *Runtime) WordClearSynonym(w word.Word) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	delete(rt.synonyms, w)
}

// --- Custom word inspection (spec.md §4.C) ---

// CustomWordInfo returns the descriptor and payload object for a custom
// word, or (nil, nil) if w is not a custom word.
func (rt *Runtime) CustomWordInfo(w word.Word) (*CustomDescriptor, Object) {
	h, ok := word.HeapHandle(w)
	if !ok {
		return nil, nil
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if h >= uint64(len(rt.slots)) {
		return nil, nil
	}
	s := rt.slots[h]
	return s.custom, s.obj
}
