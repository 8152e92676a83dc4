package rope

import "github.com/fredericbonnet/colibri-go/pkg/word"

// ChunkProc is called once per maximal leaf chunk during a traversal. index
// is the chunk's starting position in the traversed range, chunk holds the
// codepoints covered. Returning a non-zero value stops traversal early;
// that value becomes TraverseRopeChunks' own result.
type ChunkProc func(index int, chunk []rune) int

// TraverseRopeChunks visits each maximal leaf chunk overlapping
// [start, start+max) in forward or reverse order, per spec.md §4.D. lenOut
// receives the total length traversed when proc never stops early.
func (e *Engine) TraverseRopeChunks(w word.Word, start, max int, reverse bool, proc ChunkProc) (result int, lenOut int) {
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

	chunks := e.collectChunks(w, start, end)
	if reverse {
		for i, j := 0, len(chunks)-1; i < j; i, j = i+1, j-1 {
			chunks[i], chunks[j] = chunks[j], chunks[i]
		}
	}
	traversed := 0
	for _, c := range chunks {
		if r := proc(c.index, c.runes); r != 0 {
			return r, 0
		}
		traversed += len(c.runes)
	}
	return 0, traversed
}

type chunk struct {
	index int
	runes []rune
}

// collectChunks walks the tree, splitting at leaf boundaries, and returns
// the maximal chunks overlapping [start, end).
func (e *Engine) collectChunks(w word.Word, start, end int) []chunk {
	var out []chunk
	e.walkChunks(w, 0, start, end, &out)
	return out
}

func (e *Engine) walkChunks(w word.Word, base, start, end int, out *[]chunk) {
	length := e.Length(w)
	lo, hi := base, base+length
	if hi <= start || lo >= end {
		return
	}
	if n, ok := e.rt.Object(w).(*concatNode); ok {
		e.walkChunks(n.left, base, start, end, out)
		e.walkChunks(n.right, base+e.Length(n.left), start, end, out)
		return
	}
	if n, ok := e.rt.Object(w).(*subropeNode); ok {
		e.walkChunks(n.source, base-n.first, start, end, out)
		return
	}
	runes, ok := runesOf(e, w)
	if !ok {
		return
	}
	clipLo := maxInt(lo, start) - lo
	clipHi := length - (hi - minInt(hi, end))
	if clipLo >= clipHi {
		return
	}
	*out = append(*out, chunk{index: maxInt(lo, start), runes: runes[clipLo:clipHi]})
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// TraverseRopeChunksN walks up to N ropes in lockstep, stepping by the
// shortest intersecting leaf boundary, and invokes proc once per aligned
// window with one chunk slice per rope. The walk stops at the end of the
// shortest rope (or after max runes), so no rope is visited past the range
// all of them share.
func TraverseRopeChunksN(e *Engine, ropes []word.Word, start, max int, proc func(index int, chunks [][]rune) int) int {
	if len(ropes) == 0 {
		return 0
	}
	length := max
	for _, r := range ropes {
		if l := e.Length(r) - start; l < length {
			length = l
		}
	}
	if length < 0 {
		length = 0
	}
	perRope := make([][]chunk, len(ropes))
	for i, r := range ropes {
		perRope[i] = e.collectChunks(r, start, start+length)
	}
	idx := make([]int, len(ropes))
	pos := start
	for pos < start+length {
		step := length
		slices := make([][]rune, len(ropes))
		for i := range ropes {
			if idx[i] >= len(perRope[i]) {
				continue
			}
			c := perRope[i][idx[i]]
			remaining := len(c.runes) - (pos - c.index)
			if remaining < step {
				step = remaining
			}
			slices[i] = c.runes[pos-c.index : pos-c.index+step]
		}
		if step <= 0 {
			break
		}
		if r := proc(pos, slices); r != 0 {
			return r
		}
		pos += step
		for i := range ropes {
			if idx[i] < len(perRope[i]) {
				c := perRope[i][idx[i]]
				if pos >= c.index+len(c.runes) {
					idx[i]++
				}
			}
		}
	}
	return 0
}
