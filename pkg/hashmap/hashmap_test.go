package hashmap

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

func TestStringHashMapSetGetOverwrite(t *testing.T) {
	e, ropes := newEngine(t)
	m := e.NewStringHashMap()
	k1 := ropes.NewRopeFromString("alpha")
	v1 := word.True

	inserted := e.Set(m, k1, v1, StringKeys)
	assert.True(t, inserted)
	got, ok := e.Get(m, k1, StringKeys)
	require.True(t, ok)
	assert.Equal(t, v1, got)

	overwritten := e.Set(m, k1, word.False, StringKeys)
	assert.False(t, overwritten, "setting an existing key reports a miss==false overwrite")
	got, _ = e.Get(m, k1, StringKeys)
	assert.Equal(t, word.False, got)
	assert.Equal(t, 1, e.Size(m, StringKeys))
}

func TestIntHashMapUnset(t *testing.T) {
	e, _ := newEngine(t)
	m := e.NewIntHashMap()
	k, _ := word.TryNewIntWord(42)
	e.Set(m, k, word.True, IntKeys)
	assert.True(t, e.Unset(m, k, IntKeys))
	_, ok := e.Get(m, k, IntKeys)
	assert.False(t, ok)
	assert.False(t, e.Unset(m, k, IntKeys))
}

func TestHashMapCollisionAndCopy(t *testing.T) {
	// spec.md §8 scenario 5.
	e, _ := newEngine(t)
	m := e.NewIntHashMap()
	keys := make([]word.Word, 100)
	for i := 0; i < 100; i++ {
		k, _ := word.TryNewIntWord(int64(i))
		keys[i] = k
		v, _ := word.TryNewIntWord(int64(i) * 10)
		e.Set(m, k, v, IntKeys)
	}
	require.Equal(t, 100, e.Size(m, IntKeys))
	for i := 0; i < 100; i++ {
		v, ok := e.Get(m, keys[i], IntKeys)
		require.True(t, ok)
		want, _ := word.TryNewIntWord(int64(i) * 10)
		assert.Equal(t, want, v)
	}

	c := e.CopyHashMap(m, IntKeys)
	v0Orig, _ := word.TryNewIntWord(0)
	newVal, _ := word.TryNewIntWord(999)
	e.Set(m, keys[0], newVal, IntKeys)

	got, ok := e.Get(c, keys[0], IntKeys)
	require.True(t, ok)
	assert.Equal(t, v0Orig, got, "copy must still see the pre-write value")
}

func TestHashMapRehashPreservesAllEntries(t *testing.T) {
	e, _ := newEngine(t)
	m := e.NewIntHashMap()
	for i := 0; i < 50; i++ {
		k, _ := word.TryNewIntWord(int64(i))
		e.Set(m, k, k, IntKeys)
	}
	for i := 0; i < 50; i++ {
		k, _ := word.TryNewIntWord(int64(i))
		v, ok := e.Get(m, k, IntKeys)
		require.True(t, ok)
		assert.Equal(t, k, v)
	}
}

func TestHashMapIteratorVisitsEveryEntry(t *testing.T) {
	e, _ := newEngine(t)
	m := e.NewIntHashMap()
	want := map[int64]bool{}
	for i := 0; i < 20; i++ {
		k, _ := word.TryNewIntWord(int64(i))
		e.Set(m, k, word.True, IntKeys)
		want[int64(i)] = true
	}
	seen := map[int64]bool{}
	for it := e.IterBegin(m, IntKeys); !it.Done(); it.Next() {
		v, _ := word.SmallIntValue(it.Key())
		seen[v] = true
	}
	assert.Equal(t, want, seen)
}

func TestHashMapIterFindCreates(t *testing.T) {
	e, _ := newEngine(t)
	m := e.NewIntHashMap()
	k, _ := word.TryNewIntWord(7)
	it, created := e.IterFind(m, k, IntKeys, true)
	assert.True(t, created)
	require.False(t, it.Done())
	it.SetValue(word.True)
	got, ok := e.Get(m, k, IntKeys)
	require.True(t, ok)
	assert.Equal(t, word.True, got)
}

func TestWithLoadFactorLimitTriggersEarlierRehash(t *testing.T) {
	rt := heap.Init(heap.ModeSingleSync)
	t.Cleanup(rt.Cleanup)
	ropes := rope.New(rt)
	e := New(rt, ropes, WithLoadFactorLimit(1))

	m := e.NewIntHashMap()
	for i := 0; i < 9; i++ {
		k, _ := word.TryNewIntWord(int64(i))
		e.Set(m, k, k, IntKeys)
	}
	assert.Equal(t, 9, e.Size(m, IntKeys))
	for i := 0; i < 9; i++ {
		k, _ := word.TryNewIntWord(int64(i))
		v, ok := e.Get(m, k, IntKeys)
		require.True(t, ok)
		assert.Equal(t, k, v)
	}
}
