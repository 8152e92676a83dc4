// Package strbuf implements the string buffer of spec.md §4.J: a
// temporary character accumulator that amortizes rope construction by
// batching codepoints into a mutable leaf before folding it into an
// immutable accumulator rope.
package strbuf

import (
	"github.com/fredericbonnet/colibri-go/internal/colerr"
	"github.com/fredericbonnet/colibri-go/pkg/heap"
	"github.com/fredericbonnet/colibri-go/pkg/rope"
	"github.com/fredericbonnet/colibri-go/pkg/word"
)

type bufObj struct {
	format      rope.Format // the format requested at creation
	accumulator word.Word   // folded-in content so far, always a rope word
	leaf        []rune      // uncommitted codepoints not yet folded in
	leafFormat  rope.Format // format of leaf: the requested one, widened when a rune needs it
}

func (b *bufObj) Kind() word.Kind          { return word.KindStrBuf }
func (b *bufObj) TypeFlags() word.TypeFlag { return word.FlagStrBuf }
func (b *bufObj) Children() []word.Word    { return []word.Word{b.accumulator} }

// Engine binds string-buffer operations to a heap.Runtime and the
// rope.Engine used to fold committed content and freeze the result.
type Engine struct {
	rt    *heap.Runtime
	ropes *rope.Engine
}

// New returns a strbuf Engine bound to rt.
func New(rt *heap.Runtime, ropes *rope.Engine) *Engine { return &Engine{rt: rt, ropes: ropes} }

// NewStringBuffer allocates an empty buffer targeting format. UTF-8/UTF-16
// are rejected (STRBUF_FORMAT): both are variable-width, unsuited as a
// target for the random-access writes Reserve/SetReservedChar perform.
func (e *Engine) NewStringBuffer(format rope.Format) word.Word {
	if format == rope.FormatUTF8 || format == rope.FormatUTF16 {
		colerr.Valuecheck(colerr.STRBUF_FORMAT, "format %v unsuited as a string buffer target", format)
		return word.Nil
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	return e.rt.Alloc(0, &bufObj{format: format, accumulator: word.EmptyRope, leafFormat: format})
}

func (e *Engine) obj(w word.Word) (*bufObj, bool) {
	b, ok := e.rt.Object(w).(*bufObj)
	return b, ok
}

func formatForWidth(width int) rope.Format {
	switch {
	case width <= 1:
		return rope.FormatUCS1
	case width <= 2:
		return rope.FormatUCS2
	default:
		return rope.FormatUCS4
	}
}

func (e *Engine) flushLeaf(b *bufObj) {
	if len(b.leaf) == 0 {
		return
	}
	leafRope := e.ropes.NewRopeFromRunes(b.leaf)
	b.accumulator = e.ropes.Concat(b.accumulator, leafRope)
	b.leaf = b.leaf[:0]
	b.leafFormat = b.format
}

// AppendChar writes c into the current leaf if its format already covers
// c's width; otherwise the leaf is folded into the accumulator and a new
// one started, widened to fit c.
func (e *Engine) AppendChar(w word.Word, c rune) {
	b, ok := e.obj(w)
	if !ok {
		colerr.Typecheck(colerr.STRBUF, "not a string buffer word")
		return
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	needed := formatForWidth(rope.CharWidth(c))
	if needed > b.leafFormat && len(b.leaf) > 0 {
		e.flushLeaf(b)
	}
	if needed > b.leafFormat {
		b.leafFormat = needed
	}
	b.leaf = append(b.leaf, c)
}

// AppendRope folds the current leaf and r onto the accumulator without
// re-copying r's content, then starts a fresh leaf.
func (e *Engine) AppendRope(w, r word.Word) {
	b, ok := e.obj(w)
	if !ok {
		colerr.Typecheck(colerr.STRBUF, "not a string buffer word")
		return
	}
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	e.flushLeaf(b)
	b.accumulator = e.ropes.Concat(b.accumulator, r)
}

// Reserve grows the current leaf by n placeholder codepoints (NUL) and
// returns the starting index for the caller to overwrite via
// SetReservedChar.
func (e *Engine) Reserve(w word.Word, n int) int {
	b, ok := e.obj(w)
	if !ok {
		colerr.Typecheck(colerr.STRBUF, "not a string buffer word")
		return 0
	}
	start := len(b.leaf)
	for i := 0; i < n; i++ {
		b.leaf = append(b.leaf, 0)
	}
	return start
}

// SetReservedChar overwrites codepoint i of the current leaf (as returned
// by Reserve), widening leafFormat if c needs it.
func (e *Engine) SetReservedChar(w word.Word, i int, c rune) {
	b, ok := e.obj(w)
	if !ok || i < 0 || i >= len(b.leaf) {
		colerr.Valuecheck(colerr.STRBUF, "index %d out of range for reserved run", i)
		return
	}
	b.leaf[i] = c
	if needed := formatForWidth(rope.CharWidth(c)); needed > b.leafFormat {
		b.leafFormat = needed
	}
}

// Release unwinds the last n codepoints of the current (uncommitted)
// leaf.
func (e *Engine) Release(w word.Word, n int) {
	b, ok := e.obj(w)
	if !ok {
		colerr.Typecheck(colerr.STRBUF, "not a string buffer word")
		return
	}
	if n > len(b.leaf) {
		n = len(b.leaf)
	}
	b.leaf = b.leaf[:len(b.leaf)-n]
}

// Freeze finalizes the buffer into an immutable rope: the leaf verbatim,
// the accumulator verbatim, their concatenation, or the empty-rope
// singleton, whichever applies with no unnecessary copy.
func (e *Engine) Freeze(w word.Word) word.Word {
	b, ok := e.obj(w)
	if !ok {
		colerr.Typecheck(colerr.STRBUF, "not a string buffer word")
		return word.Nil
	}
	switch {
	case b.accumulator == word.EmptyRope && len(b.leaf) == 0:
		return word.EmptyRope
	case b.accumulator == word.EmptyRope:
		return e.ropes.NewRopeFromRunes(b.leaf)
	case len(b.leaf) == 0:
		return b.accumulator
	default:
		return e.ropes.Concat(b.accumulator, e.ropes.NewRopeFromRunes(b.leaf))
	}
}

// Reset drops all content and returns to the initial empty state without
// reallocating the leaf's backing array.
func (e *Engine) Reset(w word.Word) {
	b, ok := e.obj(w)
	if !ok {
		colerr.Typecheck(colerr.STRBUF, "not a string buffer word")
		return
	}
	b.accumulator = word.EmptyRope
	b.leaf = b.leaf[:0]
	b.leafFormat = b.format
}
