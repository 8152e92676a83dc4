package colmap

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

func TestColmapDispatchesToHashBacking(t *testing.T) {
	e, _ := newEngine(t)
	m := e.NewMap(BackingHash, IntKeys)
	k, _ := word.TryNewIntWord(3)
	require.True(t, e.Set(m, k, word.True, IntKeys))
	v, ok := e.Get(m, k, IntKeys)
	require.True(t, ok)
	assert.Equal(t, word.True, v)
	assert.Equal(t, 1, e.Size(m, IntKeys))
}

func TestColmapDispatchesToTrieBacking(t *testing.T) {
	e, ropes := newEngine(t)
	m := e.NewMap(BackingTrie, StringKeys)
	k := ropes.NewRopeFromString("hello")
	require.True(t, e.Set(m, k, word.True, StringKeys))
	v, ok := e.Get(m, k, StringKeys)
	require.True(t, ok)
	assert.Equal(t, word.True, v)
}

func TestColmapKeyKindMismatchIsTypecheckNoOp(t *testing.T) {
	e, _ := newEngine(t)
	m := e.NewMap(BackingHash, IntKeys)
	k, _ := word.TryNewIntWord(1)
	_, ok := e.Get(m, k, StringKeys)
	assert.False(t, ok)
}

func TestColmapIteratorOverHashAndTrie(t *testing.T) {
	e, _ := newEngine(t)
	for _, backing := range []Backing{BackingHash, BackingTrie} {
		m := e.NewMap(backing, IntKeys)
		for i := 0; i < 5; i++ {
			k, _ := word.TryNewIntWord(int64(i))
			e.Set(m, k, k, IntKeys)
		}
		count := 0
		for it := e.IterBegin(m, IntKeys); !it.Done(); it.Next() {
			count++
		}
		assert.Equal(t, 5, count)
	}
}

func TestColmapCopyPreservesSnapshot(t *testing.T) {
	e, _ := newEngine(t)
	m := e.NewMap(BackingHash, IntKeys)
	k, _ := word.TryNewIntWord(1)
	e.Set(m, k, word.True, IntKeys)
	c := e.Copy(m, IntKeys)
	e.Set(m, k, word.False, IntKeys)
	v, _ := e.Get(c, k, IntKeys)
	assert.Equal(t, word.True, v)
}
