package rope

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

func TestEmptyRopeIsImmediateAndDistinctFromNil(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, 0, e.Length(e.EmptyRope()))
	assert.NotEqual(t, word.Nil, e.EmptyRope())
}

func TestConcatElidesEmptySide(t *testing.T) {
	e := newEngine(t)
	r := e.NewRopeFromString("hello")
	assert.Equal(t, r, e.Concat(r, e.EmptyRope()))
	assert.Equal(t, r, e.Concat(e.EmptyRope(), r))
}

func TestConcatRebalanceDepthInvariant(t *testing.T) {
	// spec.md §8 scenario 3: eight flat leaves, paired into four concats,
	// two, then one: the result has depth 3 and each Lk is recoverable via
	// Subrope at its original offset.
	e := newEngine(t)
	const leafLen = 64
	leaves := make([]word.Word, 8)
	runes := make([][]rune, 8)
	for k := range leaves {
		rs := make([]rune, leafLen)
		for i := range rs {
			rs[i] = rune('A'+k) + rune(i%26)
		}
		runes[k] = rs
		leaves[k] = e.NewRopeFromRunes(rs)
	}

	level1 := make([]word.Word, 4)
	for i := 0; i < 4; i++ {
		level1[i] = e.Concat(leaves[2*i], leaves[2*i+1])
	}
	level2 := make([]word.Word, 2)
	level2[0] = e.Concat(level1[0], level1[1])
	level2[1] = e.Concat(level1[2], level1[3])
	root := e.Concat(level2[0], level2[1])

	require.Equal(t, leafLen*8, e.Length(root))
	assert.Equal(t, 3, e.Depth(root), "balanced concat of 8 leaves must have depth 3")

	for k := 0; k < 8; k++ {
		sub := e.Subrope(root, k*leafLen, (k+1)*leafLen-1)
		got, ok := runesOf(e, sub)
		require.True(t, ok)
		assert.Equal(t, runes[k], got, "Lk must be recoverable from the balanced tree")
	}
}

func TestSubropeWholeRangeReturnsSourceVerbatim(t *testing.T) {
	e := newEngine(t)
	r := e.NewRopeFromString("this is a longer rope string for subrope testing")
	assert.Equal(t, r, e.Subrope(r, 0, e.Length(r)-1))
}

func TestSubropeSingleCharReturnsCharWord(t *testing.T) {
	e := newEngine(t)
	r := e.NewRopeFromString("hello world, this is long enough to flatten")
	sub := e.Subrope(r, 1, 1)
	assert.True(t, word.IsChar(sub))
	c, ok := word.CharWordValue(sub)
	require.True(t, ok)
	assert.Equal(t, 'e', c)
}

func TestAdjacentSubropesOfSameSourceFuseBackToSource(t *testing.T) {
	e := newEngine(t)
	// Both halves must exceed shortMergeThreshold so they stay subropeNode
	// values instead of being copied into fresh leaves, or the
	// fusion rule below has nothing to match against.
	base := "0123456789abcdefghijklmnopqrstuvwxyz"
	r := e.NewRopeFromString(base + base + base)
	split := e.Length(r) / 2
	left := e.Subrope(r, 0, split-1)
	right := e.Subrope(r, split, e.Length(r)-1)
	assert.Equal(t, r, e.Concat(left, right))
}

func TestRepeatOfEmptyIsEmpty(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, word.EmptyRope, e.Repeat(e.EmptyRope(), 5))
	r := e.NewRopeFromString("ab")
	assert.Equal(t, word.EmptyRope, e.Repeat(r, 0))
}

func TestRepeatConcatenatesNTimes(t *testing.T) {
	e := newEngine(t)
	r := e.NewRopeFromString("ab")
	rep := e.Repeat(r, 3)
	assert.Equal(t, 6, e.Length(rep))
	got, _ := runesOf(e, rep)
	assert.Equal(t, []rune("ababab"), got)
}

func TestCompareRopesOrdersLexicographically(t *testing.T) {
	e := newEngine(t)
	a := e.NewRopeFromString("apple")
	b := e.NewRopeFromString("apricot")
	cmp, diffAt, ca, cb := e.CompareRopes(a, b)
	assert.Equal(t, -1, cmp)
	assert.Equal(t, 2, diffAt)
	assert.Equal(t, 'p', ca)
	assert.Equal(t, 'r', cb)
}

func TestFindCharReturnsFirstOccurrence(t *testing.T) {
	e := newEngine(t)
	r := e.NewRopeFromString("hello world")
	assert.Equal(t, 4, e.FindChar(r, 'o'))
	assert.Equal(t, -1, e.FindChar(r, 'z'))
}

func TestSearchRopeFindsSubropeOffset(t *testing.T) {
	e := newEngine(t)
	haystack := e.NewRopeFromString("the quick brown fox")
	needle := e.NewRopeFromString("brown")
	assert.Equal(t, 10, e.SearchRope(haystack, needle))
}

func TestIteratorForwardBackwardMoveTo(t *testing.T) {
	e := newEngine(t)
	r := e.NewRopeFromString("iterate across this rope")
	it := e.IterAt(r, 0)
	for i := 0; i < e.Length(r); i++ {
		c, ok := it.Char()
		require.True(t, ok)
		want, _ := e.At(r, i)
		assert.Equal(t, want, c)
		if i < e.Length(r)-1 {
			require.True(t, it.Next())
		}
	}
	it.MoveTo(0)
	it.Forward(5)
	c, _ := it.Char()
	want, _ := e.At(r, 5)
	assert.Equal(t, want, c)
}

func TestTraverseRopeChunksReportsTotalLength(t *testing.T) {
	e := newEngine(t)
	a := e.NewRopeFromString("0123456789012345678901234567890123456789")
	b := e.NewRopeFromString("abcdefghijklmnopqrstuvwxyzabcdefghijklmnop")
	r := e.Concat(a, b)
	total := 0
	result, lenOut := e.TraverseRopeChunks(r, 0, e.Length(r), false, func(index int, chunk []rune) int {
		total += len(chunk)
		return 0
	})
	assert.Equal(t, 0, result)
	assert.Equal(t, e.Length(r), lenOut)
	assert.Equal(t, e.Length(r), total)
}

func TestNormalizeRopeSubstitutesOutOfRangeCodepoints(t *testing.T) {
	e := newEngine(t)
	r := e.NewRopeFromRunes([]rune{'a', 'b', 0x1F600, 'c'})
	norm := e.NormalizeRope(r, FormatUCS1, '?', true)
	got, ok := runesOf(e, norm)
	require.True(t, ok)
	assert.Equal(t, []rune{'a', 'b', '?', 'c'}, got)
}
