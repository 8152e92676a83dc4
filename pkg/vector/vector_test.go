package vector

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

func TestNewVectorRoundTrip(t *testing.T) {
	e := newEngine(t)
	elems := []word.Word{word.True, word.False, word.NewCharWord('x')}
	v := e.NewVector(elems)
	require.Equal(t, 3, e.Length(v))
	assert.Equal(t, elems, e.Elements(v))
}

func TestMVectorSetLengthGrowsNilFilled(t *testing.T) {
	e := newEngine(t)
	v := e.NewMVector(2, 8)
	e.MVectorSet(v, 0, word.True)
	e.MVectorSetLength(v, 5)
	require.Equal(t, 5, e.Length(v))
	assert.Equal(t, word.True, e.At(v, 0))
	assert.Equal(t, word.Nil, e.At(v, 4))
}

func TestMVectorSetLengthExceedingCapacityIsValueError(t *testing.T) {
	e := newEngine(t)
	v := e.NewMVector(0, 4)
	e.MVectorSetLength(v, 10)
	assert.Equal(t, 0, e.Length(v), "an out-of-capacity grow must be rejected, leaving length unchanged")
}

func TestMVectorFreezeSharesStorage(t *testing.T) {
	e := newEngine(t)
	v := e.NewMVector(3, 3)
	e.MVectorSet(v, 1, word.True)
	assert.True(t, e.IsMutable(v))
	e.MVectorFreeze(v)
	assert.False(t, e.IsMutable(v))
	assert.Equal(t, word.True, e.At(v, 1), "frozen vector must still see the values written while mutable")
}
