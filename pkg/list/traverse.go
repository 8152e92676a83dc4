package list

import "github.com/fredericbonnet/colibri-go/pkg/word"

// ChunkProc visits one maximal leaf run during TraverseListChunks. A
// non-zero return stops the traversal early and that value becomes
// TraverseListChunks' own result. elements is nil for a void run; length
// gives its size either way.
type ChunkProc func(index int, elements []word.Word, length int) int

// TraverseListChunks visits each maximal leaf chunk (vector or void run)
// overlapping [start, start+max), unrolling one copy of a circular
// list's loop body per wraparound, per colList.h's Col_TraverseListChunks.
func (e *Engine) TraverseListChunks(w word.Word, start, max int, proc ChunkProc) (result int, lenOut int) {
	length := e.Length(w)
	if start < 0 {
		start = 0
	}
	end := start + max
	if end > length || max < 0 {
		end = length
	}
	if start >= end {
		return 0, 0
	}

	chunks := e.collectListChunks(w, start, end)
	traversed := 0
	for _, c := range chunks {
		if r := proc(c.index, c.elements, c.length); r != 0 {
			return r, 0
		}
		traversed += c.length
	}
	return 0, traversed
}

type listChunk struct {
	index    int
	elements []word.Word // nil for a void run
	length   int
}

func (e *Engine) collectListChunks(w word.Word, start, end int) []listChunk {
	var out []listChunk
	e.walkListChunks(w, 0, start, end, &out)
	return out
}

func (e *Engine) walkListChunks(w word.Word, base, start, end int, out *[]listChunk) {
	length := e.Length(w)
	lo, hi := base, base+length
	if hi <= start || lo >= end {
		return
	}
	switch n := e.rt.Object(w).(type) {
	case *concatNode:
		e.walkListChunks(n.left, base, start, end, out)
		e.walkListChunks(n.right, base+e.Length(n.left), start, end, out)
		return
	case *sublistNode:
		e.walkListChunks(n.source, base-n.first, start, end, out)
		return
	case *loopNode:
		headLen := e.Length(n.head)
		e.walkListChunks(n.head, base, start, end, out)
		for off := headLen; off < length && base+off < end; off += n.loopLength {
			e.walkListChunks(n.loop, base+off, start, end, out)
		}
		return
	case *voidLeaf:
		clipLo := maxInt(lo, start) - lo
		clipHi := n.length - (hi - minInt(hi, end))
		if clipLo >= clipHi {
			return
		}
		*out = append(*out, listChunk{index: maxInt(lo, start), length: clipHi - clipLo})
		return
	case *vecLeaf:
		clipLo := maxInt(lo, start) - lo
		clipHi := len(n.elements) - (hi - minInt(hi, end))
		if clipLo >= clipHi {
			return
		}
		*out = append(*out, listChunk{index: maxInt(lo, start), elements: n.elements[clipLo:clipHi], length: clipHi - clipLo})
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
