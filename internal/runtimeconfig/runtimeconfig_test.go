package runtimeconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fredericbonnet/colibri-go/pkg/heap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	tu, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	assert.Equal(t, Tuning{}, tu)
	assert.Equal(t, heap.ModeSingleSync, tu.Mode())
	assert.Empty(t, tu.HeapOptions())
}

func TestLoadValidDocumentPopulatesTuning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"scheduling-mode": "shared",
		"page-cells": 128,
		"load-factor-limit": 3,
		"hash-seed": 42
	}`), 0o644))

	tu, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shared", tu.SchedulingMode)
	assert.Equal(t, 128, tu.PageCells)
	assert.Equal(t, 3, tu.LoadFactorLimit)
	assert.Equal(t, uint64(42), tu.HashSeed)
	assert.Equal(t, heap.ModeShared, tu.Mode())

	rt := heap.Init(tu.Mode(), tu.HeapOptions()...)
	defer rt.Cleanup()
	assert.Equal(t, uint64(42), rt.HashSeed())
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not-a-real-field": 1}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsOutOfRangeValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"page-cells": 0}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvMissingFileIsNotAnError(t *testing.T) {
	err := LoadEnv(filepath.Join(t.TempDir(), "does-not-exist.env"))
	assert.NoError(t, err)
}
