package strbuf

import (
	"testing"

	"github.com/fredericbonnet/colibri-go/pkg/heap"
	"github.com/fredericbonnet/colibri-go/pkg/rope"
	"github.com/fredericbonnet/colibri-go/pkg/word"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (*Engine, *rope.Engine) {
	rt := heap.Init(heap.ModeSingleSync)
	t.Cleanup(rt.Cleanup)
	ropes := rope.New(rt)
	return New(rt, ropes), ropes
}

func runesOf(t *testing.T, ropes *rope.Engine, w word.Word) []rune {
	t.Helper()
	var out []rune
	n := ropes.Length(w)
	for i := 0; i < n; i++ {
		r, ok := ropes.At(w, i)
		require.True(t, ok)
		out = append(out, r)
	}
	return out
}

func TestUTF8AndUTF16FormatsAreRejected(t *testing.T) {
	e, _ := newEngine(t)
	assert.Equal(t, word.Nil, e.NewStringBuffer(rope.FormatUTF8))
	assert.Equal(t, word.Nil, e.NewStringBuffer(rope.FormatUTF16))
}

func TestAppendCharAccumulatesAndFreezes(t *testing.T) {
	e, ropes := newEngine(t)
	b := e.NewStringBuffer(rope.FormatUCS1)
	for _, c := range "hello" {
		e.AppendChar(b, c)
	}
	r := e.Freeze(b)
	assert.Equal(t, []rune("hello"), runesOf(t, ropes, r))
}

func TestAppendCharWideningFlushesLeaf(t *testing.T) {
	e, ropes := newEngine(t)
	b := e.NewStringBuffer(rope.FormatUCS1)
	e.AppendChar(b, 'a')
	e.AppendChar(b, 'b')
	e.AppendChar(b, 0x1F600) // forces a UCS4 leaf, flushing "ab" first
	e.AppendChar(b, 'c')
	r := e.Freeze(b)
	assert.Equal(t, []rune{'a', 'b', 0x1F600, 'c'}, runesOf(t, ropes, r))
}

func TestAppendRopeAvoidsRecopyingAndStartsFreshLeaf(t *testing.T) {
	e, ropes := newEngine(t)
	b := e.NewStringBuffer(rope.FormatUCS1)
	e.AppendChar(b, 'x')
	e.AppendRope(b, ropes.NewRopeFromString("yz"))
	e.AppendChar(b, 'w')
	r := e.Freeze(b)
	assert.Equal(t, []rune("xyzw"), runesOf(t, ropes, r))
}

func TestReserveSetReservedCharRelease(t *testing.T) {
	e, ropes := newEngine(t)
	b := e.NewStringBuffer(rope.FormatUCS1)
	start := e.Reserve(b, 3)
	e.SetReservedChar(b, start, 'a')
	e.SetReservedChar(b, start+1, 'b')
	e.SetReservedChar(b, start+2, 'c')
	r := e.Freeze(b)
	assert.Equal(t, []rune("abc"), runesOf(t, ropes, r))

	e.Reset(b)
	start = e.Reserve(b, 2)
	e.SetReservedChar(b, start, 'z')
	e.SetReservedChar(b, start+1, 'z')
	e.Release(b, 1)
	r = e.Freeze(b)
	assert.Equal(t, []rune("z"), runesOf(t, ropes, r))
}

func TestFreezeOnEmptyBufferIsEmptyRope(t *testing.T) {
	e, _ := newEngine(t)
	b := e.NewStringBuffer(rope.FormatUCS1)
	assert.Equal(t, word.EmptyRope, e.Freeze(b))
}

func TestResetDropsContentWithoutReallocatingBackingArray(t *testing.T) {
	e, ropes := newEngine(t)
	b := e.NewStringBuffer(rope.FormatUCS1)
	e.AppendChar(b, 'a')
	e.AppendChar(b, 'b')
	e.Reset(b)
	assert.Equal(t, word.EmptyRope, e.Freeze(b))
	e.AppendChar(b, 'c')
	assert.Equal(t, []rune("c"), runesOf(t, ropes, e.Freeze(b)))
}
