package list

import (
	"testing"

	"github.com/fredericbonnet/colibri-go/pkg/heap"
	"github.com/fredericbonnet/colibri-go/pkg/word"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *Engine {
	rt := heap.Init(heap.ModeSingleSync)
	t.Cleanup(rt.Cleanup)
	return New(rt)
}

func TestEmptyListIsSharedWithEmptyRope(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, word.EmptyRope, EmptyList)
	assert.Equal(t, 0, e.Length(EmptyList))
}

func TestVoidListMergeStaysOneVoidLeaf(t *testing.T) {
	// spec.md §8 scenario 4.
	e := newEngine(t)
	a := e.NewVoidList(3)
	b := e.NewVoidList(3)
	c := e.Concat(a, b)
	require.Equal(t, 6, e.Length(c))
	_, ok := e.rt.Object(c).(*voidLeaf)
	assert.True(t, ok, "merging two void lists must stay a single void leaf, no concat node")
	for i := 0; i < 6; i++ {
		assert.Equal(t, word.Nil, e.At(c, i))
	}
}

func TestNewListRoundTrip(t *testing.T) {
	e := newEngine(t)
	elems := []word.Word{word.True, word.False, word.NewCharWord('z')}
	l := e.NewList(elems)
	require.Equal(t, 3, e.Length(l))
	assert.Equal(t, elems, e.ToSlice(l))
}

func TestConcatRebalanceAndSublistRoundTrip(t *testing.T) {
	e := newEngine(t)
	const leafLen = 20
	leaves := make([]word.Word, 8)
	all := make([][]word.Word, 8)
	for k := range leaves {
		es := make([]word.Word, leafLen)
		for i := range es {
			es[i] = word.NewCharWord(rune('A'+k) + rune(i%5))
		}
		all[k] = es
		leaves[k] = e.NewList(es)
	}
	level1 := make([]word.Word, 4)
	for i := 0; i < 4; i++ {
		level1[i] = e.Concat(leaves[2*i], leaves[2*i+1])
	}
	level2a := e.Concat(level1[0], level1[1])
	level2b := e.Concat(level1[2], level1[3])
	root := e.Concat(level2a, level2b)

	require.Equal(t, leafLen*8, e.Length(root))
	for k := 0; k < 8; k++ {
		sub := e.Sublist(root, k*leafLen, (k+1)*leafLen-1)
		assert.Equal(t, all[k], e.ToSlice(sub))
	}
}

func TestCircularListWrapsIndices(t *testing.T) {
	e := newEngine(t)
	core := e.NewList([]word.Word{word.True, word.False, word.NewCharWord('x')})
	loop := e.CircularList(core)
	assert.True(t, e.IsCircular(loop))
	assert.Equal(t, 3, e.LoopLength(loop))
	assert.Equal(t, word.True, e.At(loop, 0))
	assert.Equal(t, word.True, e.At(loop, 3))
	assert.Equal(t, word.False, e.At(loop, 7))
}

func TestConcatOntoCircularKeepsLoop(t *testing.T) {
	e := newEngine(t)
	head := e.NewList([]word.Word{word.NewCharWord('h')})
	core := e.NewList([]word.Word{word.True, word.False})
	loop := e.CircularList(core)
	combined := e.Concat(head, loop)
	require.True(t, e.IsCircular(combined))
	assert.Equal(t, 1+2, e.Length(combined))
	assert.Equal(t, word.NewCharWord('h'), e.At(combined, 0))
	assert.Equal(t, word.True, e.At(combined, 1))
	assert.Equal(t, word.True, e.At(combined, 3))
}

func TestRepeatConcatenatesNTimes(t *testing.T) {
	e := newEngine(t)
	l := e.NewList([]word.Word{word.True, word.False})
	rep := e.Repeat(l, 3)
	assert.Equal(t, 6, e.Length(rep))
	assert.Equal(t, []word.Word{word.True, word.False, word.True, word.False, word.True, word.False}, e.ToSlice(rep))
}

func TestMListSetAtMutatesInPlace(t *testing.T) {
	e := newEngine(t)
	ml := e.NewMListFromElements([]word.Word{word.True, word.True, word.True})
	e.MListSetAt(ml, 1, word.False)
	assert.Equal(t, word.False, e.MListAt(ml, 1))
}

func TestMListInsertAndRemove(t *testing.T) {
	e := newEngine(t)
	ml := e.NewMListFromElements([]word.Word{word.True, word.True})
	e.MListInsert(ml, 1, []word.Word{word.NewCharWord('x'), word.NewCharWord('y')})
	require.Equal(t, 4, e.MListLength(ml))
	assert.Equal(t, word.NewCharWord('x'), e.MListAt(ml, 1))

	e.MListRemove(ml, 1, 2)
	require.Equal(t, 2, e.MListLength(ml))
	assert.Equal(t, word.True, e.MListAt(ml, 0))
	assert.Equal(t, word.True, e.MListAt(ml, 1))
}

func TestCopyMListDivergesOnWrite(t *testing.T) {
	e := newEngine(t)
	original := e.NewMListFromElements([]word.Word{word.True, word.True, word.True})
	clone := e.CopyMList(original)

	e.MListSetAt(clone, 0, word.False)

	assert.Equal(t, word.True, e.MListAt(original, 0), "mutating the copy must not affect the source")
	assert.Equal(t, word.False, e.MListAt(clone, 0))
}

func TestMListSetLengthPadsWithVoid(t *testing.T) {
	e := newEngine(t)
	ml := e.NewMListFromElements([]word.Word{word.True})
	e.MListSetLength(ml, 4)
	require.Equal(t, 4, e.MListLength(ml))
	assert.Equal(t, word.True, e.MListAt(ml, 0))
	assert.Equal(t, word.Nil, e.MListAt(ml, 3))

	e.MListSetLength(ml, 2)
	assert.Equal(t, 2, e.MListLength(ml))
}

func TestMListLoopMakesContentCircular(t *testing.T) {
	e := newEngine(t)
	ml := e.NewMListFromElements([]word.Word{word.True, word.False})
	e.MListLoop(ml)
	assert.Equal(t, 2, e.MListLength(ml))
	assert.Equal(t, word.True, e.MListAt(ml, 0))
	r, ok := e.root(ml)
	require.True(t, ok)
	assert.True(t, e.IsCircular(r.tree))
}

func TestHeadLengthSplitsFiniteAndLoopPortions(t *testing.T) {
	e := newEngine(t)
	plain := e.NewList([]word.Word{word.True, word.False})
	assert.Equal(t, 2, e.HeadLength(plain))

	core := e.NewList([]word.Word{word.True, word.False, word.True})
	circular := e.CircularList(core)
	assert.Equal(t, 0, e.HeadLength(circular))
	assert.Equal(t, 3, e.LoopLength(circular))

	combined := e.Concat(e.NewList([]word.Word{word.False}), circular)
	assert.Equal(t, 1, e.HeadLength(combined))
}

func TestTraverseListChunksVisitsVoidAndVectorRuns(t *testing.T) {
	e := newEngine(t)
	l := e.Concat(e.NewVoidList(2), e.NewList([]word.Word{word.True, word.False}))

	var kinds []bool // true = vector chunk, false = void chunk
	var total int
	result, lenOut := e.TraverseListChunks(l, 0, -1, func(index int, elements []word.Word, length int) int {
		kinds = append(kinds, elements != nil)
		total += length
		return 0
	})
	assert.Equal(t, 0, result)
	assert.Equal(t, 4, lenOut)
	assert.Equal(t, 4, total)
	assert.Equal(t, []bool{false, true}, kinds)
}
