package triemap

import (
	"sort"
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

func TestIntTrieMapSetGetUnset(t *testing.T) {
	e, _ := newEngine(t)
	m := e.NewIntTrieMap()
	k, _ := word.TryNewIntWord(5)
	require.True(t, e.Set(m, k, word.True, IntKeys))
	v, ok := e.Get(m, k, IntKeys)
	require.True(t, ok)
	assert.Equal(t, word.True, v)

	assert.False(t, e.Set(m, k, word.False, IntKeys), "overwrite reports false")
	v, _ = e.Get(m, k, IntKeys)
	assert.Equal(t, word.False, v)

	assert.True(t, e.Unset(m, k, IntKeys))
	_, ok = e.Get(m, k, IntKeys)
	assert.False(t, ok)
}

func TestIntTrieMapOrderedIterationHandlesNegatives(t *testing.T) {
	e, _ := newEngine(t)
	m := e.NewIntTrieMap()
	values := []int64{5, -3, 0, 42, -100, 7, -1}
	for _, v := range values {
		k, _ := word.TryNewIntWord(v)
		e.Set(m, k, k, IntKeys)
	}
	want := append([]int64{}, values...)
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

	var got []int64
	for it := e.IterFirst(m, IntKeys); !it.Done(); it.Next() {
		v, _ := word.SmallIntValue(it.Key())
		got = append(got, v)
	}
	assert.Equal(t, want, got)
}

func TestIntTrieMapIterLastAndPrevious(t *testing.T) {
	e, _ := newEngine(t)
	m := e.NewIntTrieMap()
	for _, v := range []int64{1, 2, 3, 4, 5} {
		k, _ := word.TryNewIntWord(v)
		e.Set(m, k, k, IntKeys)
	}
	var got []int64
	for it := e.IterLast(m, IntKeys); !it.Done(); it.Previous() {
		v, _ := word.SmallIntValue(it.Key())
		got = append(got, v)
	}
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, got)
}

func TestStringTrieMapLexicographicOrder(t *testing.T) {
	e, ropes := newEngine(t)
	m := e.NewStringTrieMap()
	words := []string{"banana", "apple", "cherry", "apricot"}
	for _, s := range words {
		k := ropes.NewRopeFromString(s)
		e.Set(m, k, k, StringKeys)
	}
	var got []string
	for it := e.IterFirst(m, StringKeys); !it.Done(); it.Next() {
		runes, _ := ropeRunes(ropes, it.Key())
		got = append(got, string(runes))
	}
	want := append([]string{}, words...)
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func ropeRunes(ropes *rope.Engine, w word.Word) ([]rune, bool) {
	var out []rune
	length := ropes.Length(w)
	ropes.TraverseRopeChunks(w, 0, length, false, func(_ int, chunk []rune) int {
		out = append(out, chunk...)
		return 0
	})
	return out, true
}

func TestCopyTrieMapDivergesOnWrite(t *testing.T) {
	e, _ := newEngine(t)
	m := e.NewIntTrieMap()
	k, _ := word.TryNewIntWord(1)
	e.Set(m, k, word.True, IntKeys)

	c := e.CopyTrieMap(m, IntKeys)
	e.Set(m, k, word.False, IntKeys)

	got, ok := e.Get(c, k, IntKeys)
	require.True(t, ok)
	assert.Equal(t, word.True, got, "copy must not observe the source's later write")
}

func TestTrieMapIterFindCreates(t *testing.T) {
	e, _ := newEngine(t)
	m := e.NewIntTrieMap()
	k, _ := word.TryNewIntWord(9)
	it, created := e.IterFind(m, k, IntKeys, true)
	assert.True(t, created)
	require.False(t, it.Done())
	it.SetValue(word.True)
	v, ok := e.Get(m, k, IntKeys)
	require.True(t, ok)
	assert.Equal(t, word.True, v)
}
