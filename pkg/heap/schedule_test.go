package heap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncRuntimeEventuallyCollects(t *testing.T) {
	rt := Init(ModeSingleAsync)
	defer rt.Cleanup()
	require.NotNil(t, rt.sched)

	rt.PauseGC()
	for i := 0; i < defaultPageCells; i++ {
		rt.Alloc(0, &testNode{label: "filler"})
	}
	rt.ResumeGC()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, rt.sched.awaitQuiescence(ctx))

	assert.Eventually(t, func() bool {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		return rt.alloc.cellsInGeneration(0) < defaultPageCells
	}, time.Second, 10*time.Millisecond, "background collector should reclaim the filler generation")
}

func TestSharedModeCollectsOnlyWhenAllQuiescent(t *testing.T) {
	rt := Init(ModeShared)
	defer rt.Cleanup()
	rt.Join()
	rt.Join()

	rt.PauseGC() // appartment 1 enters a critical section and stays there
	for i := 0; i < defaultPageCells; i++ {
		rt.Alloc(0, &testNode{label: "filler"})
	}

	time.Sleep(50 * time.Millisecond)
	rt.mu.Lock()
	cells := rt.alloc.cellsInGeneration(0)
	rt.mu.Unlock()
	assert.Equal(t, defaultPageCells, cells, "collection must not run while any appartment holds a pause")

	rt.ResumeGC()
}
