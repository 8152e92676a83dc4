// Package colibri is the top-level façade: colibri.Init returns one
// Runtime handle per process (single-appartment modes) or per group
// (shared mode) binding the allocator/GC to every engine — rope, vector,
// list, hash map, trie map, the map-iterator dispatcher, and the string
// buffer — so callers obtain a single value instead of importing each
// engine package and wiring a heap.Runtime into it by hand. Design Notes
// §9 "Global state" calls this out as the rewrite's one encapsulating
// handle in place of the original's package-level globals.
package colibri

import (
	"github.com/fredericbonnet/colibri-go/internal/gcmetrics"
	"github.com/fredericbonnet/colibri-go/internal/runtimeconfig"
	"github.com/fredericbonnet/colibri-go/pkg/colmap"
	"github.com/fredericbonnet/colibri-go/pkg/hashmap"
	"github.com/fredericbonnet/colibri-go/pkg/heap"
	"github.com/fredericbonnet/colibri-go/pkg/list"
	"github.com/fredericbonnet/colibri-go/pkg/rope"
	"github.com/fredericbonnet/colibri-go/pkg/strbuf"
	"github.com/fredericbonnet/colibri-go/pkg/triemap"
	"github.com/fredericbonnet/colibri-go/pkg/vector"
)

// WithMetrics registers Prometheus instrumentation on the Runtime's heap,
// re-exported so callers need not import pkg/heap directly.
func WithMetrics(c *gcmetrics.Collector) HeapOption { return heap.WithMetrics(c) }

// Re-exported so callers of this package never need their own import of
// pkg/heap just to name a Mode or pass a heap.Option/hashmap.Option.
type (
	Mode          = heap.Mode
	HeapOption    = heap.Option
	HashMapOption = hashmap.Option
)

const (
	ModeSingleSync  = heap.ModeSingleSync
	ModeSingleAsync = heap.ModeSingleAsync
	ModeShared      = heap.ModeShared
)

// Runtime bundles the heap.Runtime handle with every engine built on top
// of it. All engines share the one heap.Runtime, so a pause/resume
// bracket or a collection started through any engine's operations is
// visible to the others.
type Runtime struct {
	Heap *heap.Runtime

	Rope    *rope.Engine
	Vector  *vector.Engine
	List    *list.Engine
	HashMap *hashmap.Engine
	TrieMap *triemap.Engine
	Map     *colmap.Engine
	StrBuf  *strbuf.Engine
}

// Init creates a Runtime in the given scheduling mode, wiring every
// engine package off one heap.Runtime (spec.md §6 "Init").
func Init(mode Mode, opts ...HeapOption) *Runtime {
	h := heap.Init(mode, opts...)
	ropes := rope.New(h)
	return &Runtime{
		Heap:    h,
		Rope:    ropes,
		Vector:  vector.New(h),
		List:    list.New(h),
		HashMap: hashmap.New(h, ropes),
		TrieMap: triemap.New(h, ropes),
		Map:     colmap.New(h, ropes),
		StrBuf:  strbuf.New(h, ropes),
	}
}

// InitFromTuning creates a Runtime from a runtimeconfig.Tuning document,
// the way the demo CLI and tests bootstrap from an optional tuning file
// instead of hand-assembling heap.Options (SPEC_FULL.md §3.K). extra is
// appended after the options the tuning document implies, so a caller
// can still add e.g. WithMetrics.
func InitFromTuning(tu runtimeconfig.Tuning, extra ...HeapOption) *Runtime {
	h := heap.Init(tu.Mode(), append(tu.HeapOptions(), extra...)...)
	ropes := rope.New(h)
	return &Runtime{
		Heap:    h,
		Rope:    ropes,
		Vector:  vector.New(h),
		List:    list.New(h),
		HashMap: hashmap.New(h, ropes, tu.HashMapOptions()...),
		TrieMap: triemap.New(h, ropes),
		Map:     colmap.New(h, ropes, tu.HashMapOptions()...),
		StrBuf:  strbuf.New(h, ropes),
	}
}

// Cleanup stops any background collector goroutine the Runtime started.
// After Cleanup the Runtime must not be used.
func (rt *Runtime) Cleanup() { rt.Heap.Cleanup() }
