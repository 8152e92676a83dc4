package colibri

import (
	"testing"

	"github.com/fredericbonnet/colibri-go/internal/runtimeconfig"
	"github.com/fredericbonnet/colibri-go/pkg/colmap"
	"github.com/fredericbonnet/colibri-go/pkg/rope"
	"github.com/fredericbonnet/colibri-go/pkg/word"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWiresEveryEngineOffOneHeap(t *testing.T) {
	rt := Init(ModeSingleSync)
	defer rt.Cleanup()

	r := rt.Rope.NewRopeFromString("hello")
	assert.Equal(t, 5, rt.Rope.Length(r))

	v := rt.Vector.NewVector([]word.Word{word.True, word.False})
	assert.Equal(t, 2, rt.Vector.Length(v))

	l := rt.List.NewList([]word.Word{word.True})
	assert.Equal(t, 1, rt.List.Length(l))

	m := rt.Map.NewMap(colmap.BackingHash, colmap.IntKeys)
	k, _ := word.TryNewIntWord(1)
	require.True(t, rt.Map.Set(m, k, word.True, colmap.IntKeys))
	got, ok := rt.Map.Get(m, k, colmap.IntKeys)
	require.True(t, ok)
	assert.Equal(t, word.True, got)

	b := rt.StrBuf.NewStringBuffer(rope.FormatUCS1)
	rt.StrBuf.AppendChar(b, 'x')
	frozen := rt.StrBuf.Freeze(b)
	assert.Equal(t, 1, rt.Rope.Length(frozen))
}

func TestInitFromTuningBuildsWorkingRuntime(t *testing.T) {
	tu := runtimeconfig.Tuning{SchedulingMode: "single-sync", PageCells: 32}
	rt := InitFromTuning(tu)
	defer rt.Cleanup()

	r := rt.Rope.NewRopeFromString("abc")
	assert.Equal(t, 3, rt.Rope.Length(r))
}
