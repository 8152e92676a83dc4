package heap

import (
	"context"
	"time"

	"github.com/fredericbonnet/colibri-go/internal/corelog"
	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// scheduler drives background collection for ModeSingleAsync and ModeShared
// runtimes, the way taskManager.Start wires periodic gocron jobs in the
// teacher repository. A gocron job polls allocator pressure on a fixed
// tick; collection itself runs on a dedicated goroutine supervised by an
// errgroup.Group so Cleanup can wait for it to actually stop instead of
// just asking it to. sem holds a single permit: a collection run takes it
// after polling until no appartment has GC paused, so runs are serialised
// and awaitQuiescence can wait for one in flight. PauseGC and ResumeGC do
// not touch it.
type scheduler struct {
	rt  *Runtime
	gc  gocron.Scheduler
	sem *semaphore.Weighted // single permit serialising collection runs and quiescence waits

	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc

	collectReq chan struct{}
}

func newScheduler(rt *Runtime) *scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	gs, err := gocron.NewScheduler()
	if err != nil {
		corelog.Errorf("heap: scheduler: could not create gocron scheduler: %v", err)
		cancel()
		return nil
	}

	sc := &scheduler{
		rt:         rt,
		gc:         gs,
		sem:        semaphore.NewWeighted(1),
		group:      group,
		ctx:        ctx,
		cancel:     cancel,
		collectReq: make(chan struct{}, 1),
	}

	group.Go(sc.collectorLoop)

	_, err = gs.NewJob(
		gocron.DurationJob(20*time.Millisecond),
		gocron.NewTask(sc.tick),
	)
	if err != nil {
		corelog.Errorf("heap: scheduler: could not register collection job: %v", err)
		cancel()
		return nil
	}
	gs.Start()
	return sc
}

// tick is the periodic gocron task: it requests a collection attempt
// whenever generation 0 looks full, deferring the actual work to
// collectorLoop so a slow collection never reenters gocron's own
// goroutine.
func (sc *scheduler) tick() {
	sc.rt.mu.Lock()
	due := sc.rt.alloc.cellsInGeneration(0) >= sc.rt.alloc.pageCells
	sc.rt.mu.Unlock()
	if !due {
		return
	}
	select {
	case sc.collectReq <- struct{}{}:
	default:
	}
}

// collectorLoop is the errgroup-supervised background worker. It blocks on
// collectReq, then polls the pause depth until no appartment currently has
// GC paused and takes sem before actually collecting, so async/shared mode
// never starts a collection while a pause is held.
func (sc *scheduler) collectorLoop() error {
	for {
		select {
		case <-sc.ctx.Done():
			return nil
		case <-sc.collectReq:
			sc.runWhenQuiescent()
		}
	}
}

func (sc *scheduler) runWhenQuiescent() {
	for {
		sc.rt.mu.Lock()
		ready := sc.rt.pauseDepth == 0
		sc.rt.mu.Unlock()
		if ready {
			break
		}
		select {
		case <-sc.ctx.Done():
			return
		case <-time.After(time.Millisecond):
		}
	}
	if err := sc.sem.Acquire(sc.ctx, 1); err != nil {
		return
	}
	defer sc.sem.Release(1)
	sc.rt.Collect(0)
}

// notifyResume is a no-op hook kept for symmetry with PauseGC: the
// collector learns of a resume via its own quiescence poll rather than a
// push, since a shared-mode collection must wait for every appartment, not
// just the one that just resumed.
func (sc *scheduler) notifyResume() {}

// awaitQuiescence blocks until no collection is in flight, for callers
// (tests, Cleanup) that need a deterministic post-collection state.
func (sc *scheduler) awaitQuiescence(ctx context.Context) error {
	if err := sc.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	sc.sem.Release(1)
	return nil
}

func (sc *scheduler) stop() {
	sc.cancel()
	if err := sc.gc.Shutdown(); err != nil {
		corelog.Errorf("heap: scheduler: shutdown error: %v", err)
	}
	if err := sc.group.Wait(); err != nil {
		corelog.Errorf("heap: scheduler: collector loop error: %v", err)
	}
}
