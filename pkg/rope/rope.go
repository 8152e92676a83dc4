package rope

import (
	"github.com/fredericbonnet/colibri-go/internal/colerr"
	"github.com/fredericbonnet/colibri-go/pkg/heap"
	"github.com/fredericbonnet/colibri-go/pkg/word"
)

// shortMergeThreshold is the largest rune count a Concat/Subrope result may
// have and still be copied into one fresh leaf (a char word, an immediate
// short string or a flat leaf); longer results become concat or subrope
// nodes (spec.md §4.D cases 2/4: "both ropes small and of compatible
// format").
const shortMergeThreshold = 32

// Engine binds the rope operations to a heap.Runtime, the way every other
// engine package in this module needs a Runtime to allocate heap-resident
// node types.
type Engine struct {
	rt *heap.Runtime
}

// New returns a rope Engine bound to rt.
func New(rt *heap.Runtime) *Engine { return &Engine{rt: rt} }

// EmptyRope returns the immediate empty-rope singleton.
func (e *Engine) EmptyRope() word.Word { return word.EmptyRope }

// NewCharWord returns the immediate char-word representation of c.
func (e *Engine) NewCharWord(c rune) word.Word { return word.NewCharWord(c) }

// NewRopeFromRunes builds a rope from a slice of codepoints, using the
// narrowest format that fits, and allocating a flat leaf only once the
// short-string/char immediates don't apply.
func (e *Engine) NewRopeFromRunes(runes []rune) word.Word {
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	return e.newSmallOrFlat(runes)
}

// NewRopeFromString is the Latin-1/UTF-8 convenience constructor mirroring
// Col_NewRopeFromString: a Go string is always valid UTF-8, decoded to
// runes and handed to NewRopeFromRunes.
func (e *Engine) NewRopeFromString(s string) word.Word {
	return e.NewRopeFromRunes([]rune(s))
}

func (e *Engine) newCharOrFlat(r rune) word.Word {
	return word.NewCharWord(r)
}

func (e *Engine) newSmallOrFlat(runes []rune) word.Word {
	if len(runes) == 0 {
		return word.EmptyRope
	}
	if len(runes) == 1 {
		return word.NewCharWord(runes[0])
	}
	if w, ok := tryShortString(runes); ok {
		return w
	}
	format := FormatUCS1
	for _, r := range runes {
		format = maxFormat(format, widthFor(r))
	}
	return e.newFlatLeaf(0, format, runes)
}

func tryShortString(runes []rune) (word.Word, bool) {
	b := make([]byte, len(runes))
	for i, r := range runes {
		if r < 0 || r > 0xFF {
			return word.Nil, false
		}
		b[i] = byte(r)
	}
	return word.TryNewShortStringWord(b)
}

// Length returns a rope's codepoint count.
func (e *Engine) Length(w word.Word) int {
	switch {
	case word.IsNil(w):
		return 0
	case w == word.EmptyRope:
		return 0
	case word.IsChar(w):
		return 1
	case word.IsShortString(w):
		b, _ := word.ShortStringWordValue(w)
		return len(b)
	}
	switch n := e.rt.Object(w).(type) {
	case *ucsLeaf:
		return len(n.runes)
	case *utfLeaf:
		return n.length
	case *concatNode:
		return n.length
	case *subropeNode:
		return n.last - n.first + 1
	default:
		colerr.Typecheck(colerr.ROPE, "not a rope word")
		return 0
	}
}

// Depth returns a rope's tree depth, 0 for any leaf or immediate.
func (e *Engine) Depth(w word.Word) int { return depthOf(e, w) }

// At returns the codepoint at index i, per spec.md §4.D.
func (e *Engine) At(w word.Word, i int) (rune, bool) {
	if i < 0 || i >= e.Length(w) {
		colerr.Valuecheck(colerr.ROPEINDEX, "rope index %d out of range", i)
		return 0, false
	}
	switch {
	case word.IsChar(w):
		return word.CharWordValue(w)
	case word.IsShortString(w):
		b, _ := word.ShortStringWordValue(w)
		return rune(b[i]), true
	}
	switch n := e.rt.Object(w).(type) {
	case *ucsLeaf:
		return n.runes[i], true
	case *utfLeaf:
		return decodeUTF(n)[i], true
	case *concatNode:
		leftLen := e.Length(n.left)
		if i < leftLen {
			return e.At(n.left, i)
		}
		return e.At(n.right, i-leftLen)
	case *subropeNode:
		return e.At(n.source, n.first+i)
	default:
		colerr.Typecheck(colerr.ROPE, "not a rope word")
		return 0, false
	}
}

// Repeat concatenates w to itself count times via binary exponentiation,
// per spec.md §4.D.
func (e *Engine) Repeat(w word.Word, count int) word.Word {
	if count <= 0 || e.Length(w) == 0 {
		return word.EmptyRope
	}
	result := word.EmptyRope
	base := w
	for count > 0 {
		if count&1 == 1 {
			result = e.Concat(result, base)
		}
		base = e.Concat(base, base)
		count >>= 1
	}
	return result
}

// FindChar returns the index of the first occurrence of c in w, or -1.
func (e *Engine) FindChar(w word.Word, c rune) int {
	n := e.Length(w)
	for i := 0; i < n; i++ {
		if r, ok := e.At(w, i); ok && r == c {
			return i
		}
	}
	return -1
}

// SearchRope finds the first occurrence of needle within haystack, or -1.
// A naive scan over codepoints, matching spec.md §4.D's "adequate for the
// expected use pattern, not the hot path" guidance.
func (e *Engine) SearchRope(haystack, needle word.Word) int {
	hn, nn := e.Length(haystack), e.Length(needle)
	if nn == 0 {
		return 0
	}
	for i := 0; i+nn <= hn; i++ {
		match := true
		for j := 0; j < nn; j++ {
			a, _ := e.At(haystack, i+j)
			b, _ := e.At(needle, j)
			if a != b {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// CompareRopes returns -1/0/1 in lexicographic codepoint order, plus the
// first differing index (or -1 if none) and the two differing codepoints.
func (e *Engine) CompareRopes(a, b word.Word) (cmp int, diffAt int, ca, cb rune) {
	la, lb := e.Length(a), e.Length(b)
	n := la
	if lb < n {
		n = lb
	}
	for i := 0; i < n; i++ {
		ra, _ := e.At(a, i)
		rb, _ := e.At(b, i)
		if ra != rb {
			if ra < rb {
				return -1, i, ra, rb
			}
			return 1, i, ra, rb
		}
	}
	switch {
	case la < lb:
		return -1, -1, 0, 0
	case la > lb:
		return 1, -1, 0, 0
	default:
		return 0, -1, 0, 0
	}
}

// NormalizeRope produces a copy in the requested format, substituting
// replace for codepoints that don't fit, optionally flattening into one
// contiguous leaf.
func (e *Engine) NormalizeRope(w word.Word, format Format, replace rune, flatten bool) word.Word {
	runes, ok := runesOf(e, w)
	if !ok {
		return word.Nil
	}
	out := make([]rune, len(runes))
	for i, r := range runes {
		if widthExceeds(r, format) {
			out[i] = replace
		} else {
			out[i] = r
		}
	}
	if !flatten {
		return e.NewRopeFromRunes(out)
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	if w, ok := tryShortString(out); ok && format == FormatUCS1 {
		return w
	}
	return e.newFlatLeaf(0, format, out)
}

func widthExceeds(r rune, format Format) bool {
	switch format {
	case FormatUCS1:
		return r > 0xFF
	case FormatUCS2:
		return r > 0xFFFF
	default:
		return false
	}
}

// CharWidth returns 1, 2, or 4 depending on a codepoint's UCS width.
func CharWidth(r rune) int {
	switch widthFor(r) {
	case FormatUCS1:
		return 1
	case FormatUCS2:
		return 2
	default:
		return 4
	}
}
