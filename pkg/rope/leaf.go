// Package rope implements the rope engine of spec.md §4.D: an immutable
// Unicode codepoint sequence represented as a self-balancing binary tree
// over fixed- and variable-width leaves, plus subrope and concat nodes.
package rope

import (
	"github.com/fredericbonnet/colibri-go/internal/colerr"
	"github.com/fredericbonnet/colibri-go/pkg/heap"
	"github.com/fredericbonnet/colibri-go/pkg/word"
)

// Format selects a leaf's encoding, mirroring Col_StringFormat.
type Format int

const (
	// FormatUCS1 is a fixed-width array of Latin-1 codepoints.
	FormatUCS1 Format = iota
	// FormatUCS2 is a fixed-width array of BMP codepoints.
	FormatUCS2
	// FormatUCS4 is a fixed-width array of full-range codepoints.
	FormatUCS4
	// FormatUTF8 is a variable-width UTF-8 byte run with a cached rune count.
	FormatUTF8
	// FormatUTF16 is a variable-width UTF-16 byte run with a cached rune count.
	FormatUTF16
)

// ucsLeaf is a fixed-width flat leaf: runes stored one per slot regardless
// of format, the format only bounding which codepoints are legal and what
// Normalize narrows to.
type ucsLeaf struct {
	format Format
	runes  []rune
}

func (l *ucsLeaf) Kind() word.Kind          { return word.KindRope }
func (l *ucsLeaf) TypeFlags() word.TypeFlag { return word.FlagString | word.FlagRope }
func (l *ucsLeaf) Children() []word.Word    { return nil }
func (l *ucsLeaf) Cells() int {
	width := 1
	switch l.format {
	case FormatUCS2:
		width = 2
	case FormatUCS4:
		width = 4
	}
	n := (len(l.runes)*width + 15) / 16
	if n < 1 {
		n = 1
	}
	return n
}

// utfLeaf is a variable-width leaf (UTF-8 or UTF-16 bytes) with a cached
// rune count so Length() stays O(1).
type utfLeaf struct {
	format Format
	data   []byte
	length int // cached rune count
}

func (l *utfLeaf) Kind() word.Kind          { return word.KindRope }
func (l *utfLeaf) TypeFlags() word.TypeFlag { return word.FlagString | word.FlagRope }
func (l *utfLeaf) Children() []word.Word    { return nil }
func (l *utfLeaf) Cells() int {
	n := (len(l.data) + 15) / 16
	if n < 1 {
		n = 1
	}
	return n
}

func widthFor(r rune) Format {
	switch {
	case r >= 0 && r <= 0xFF:
		return FormatUCS1
	case r <= 0xFFFF:
		return FormatUCS2
	default:
		return FormatUCS4
	}
}

func maxFormat(a, b Format) Format {
	rank := func(f Format) int {
		switch f {
		case FormatUCS1:
			return 0
		case FormatUCS2:
			return 1
		default:
			return 2
		}
	}
	if rank(a) >= rank(b) {
		return a
	}
	return b
}

// newFlatLeaf allocates a ucsLeaf for runes, unless they all fit in the
// immediate short-string/char representations, which callers check first.
func (e *Engine) newFlatLeaf(gen heap.Generation, format Format, runes []rune) word.Word {
	cp := make([]rune, len(runes))
	copy(cp, runes)
	return e.rt.Alloc(gen, &ucsLeaf{format: format, runes: cp})
}

func runesOf(e *Engine, w word.Word) ([]rune, bool) {
	if word.IsNil(w) {
		return nil, false
	}
	if w == word.EmptyRope {
		return nil, true
	}
	if word.IsChar(w) {
		c, _ := word.CharWordValue(w)
		return []rune{c}, true
	}
	if word.IsShortString(w) {
		b, _ := word.ShortStringWordValue(w)
		rs := make([]rune, len(b))
		for i, c := range b {
			rs[i] = rune(c)
		}
		return rs, true
	}
	obj := e.rt.Object(w)
	switch n := obj.(type) {
	case *ucsLeaf:
		return n.runes, true
	case *utfLeaf:
		return decodeUTF(n), true
	case *concatNode:
		left, lok := runesOf(e, n.left)
		right, rok := runesOf(e, n.right)
		if !lok || !rok {
			return nil, false
		}
		return append(append([]rune{}, left...), right...), true
	case *subropeNode:
		all, ok := runesOf(e, n.source)
		if !ok {
			return nil, false
		}
		return all[n.first : n.last+1], true
	default:
		colerr.Typecheck(colerr.ROPE, "not a rope word")
		return nil, false
	}
}
