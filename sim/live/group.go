package live

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Actor is the body of one simulated process, producer or consumer.
// It returns when its script ends or ctx is cancelled.
type Actor func(ctx context.Context, run uuid.UUID) error

// Group runs batches of actors. Each Launch is a run with a fresh UUID;
// runs launched after a Halt share the group context with earlier runs
// still finishing, so Cancel and Wait always cover every live actor.
// The running flag drops on its own once the last live actor returns.
type Group struct {
	running atomic.Bool

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	runs   []*batch
	live   int     // actors launched and not yet returned, across runs
	errs   []error // failures collected from pruned runs
	run    uuid.UUID
}

// batch is one Launch: its errgroup and the number of actors still live.
type batch struct {
	eg      *errgroup.Group
	pending int
}

// Running reports whether the latest run has live actors and has not been
// halted or cancelled.
func (g *Group) Running() bool {
	return g.running.Load()
}

// Run returns the identifier of the latest run, or uuid.Nil before the first.
func (g *Group) Run() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.run
}

// Launch starts actors as a new run and sets the running flag.
// It is a no-op returning false while the group is running or when no
// actors are given. Runs whose actors have all returned are joined and
// dropped first.
func (g *Group) Launch(actors ...Actor) (uuid.UUID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running.Load() || len(actors) == 0 {
		return g.run, false
	}
	g.prune()
	if g.ctx == nil || g.ctx.Err() != nil {
		g.ctx, g.cancel = context.WithCancel(context.Background())
	}
	eg, ctx := errgroup.WithContext(g.ctx)
	b := &batch{eg: eg, pending: len(actors)}
	run := uuid.New()
	g.run = run
	g.live += len(actors)
	g.running.Store(true)
	for _, a := range actors {
		a := a
		eg.Go(func() error {
			defer g.done(b)
			return a(ctx, run)
		})
	}
	g.runs = append(g.runs, b)
	return run, true
}

// done records that one actor of b has returned.
func (g *Group) done(b *batch) {
	g.mu.Lock()
	defer g.mu.Unlock()
	b.pending--
	g.live--
	if g.live == 0 {
		g.running.Store(false)
	}
}

// prune joins finished runs and keeps their failures for the next Wait.
// Must be called with g.mu held.
func (g *Group) prune() {
	kept := g.runs[:0]
	for _, b := range g.runs {
		if b.pending > 0 {
			kept = append(kept, b)
			continue
		}
		if err := b.eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			g.errs = append(g.errs, err)
		}
	}
	clear(g.runs[len(kept):])
	g.runs = kept
}

// Halt clears the running flag without interrupting actors.
func (g *Group) Halt() {
	g.running.Store(false)
}

// Cancel clears the running flag and cancels every live actor's context.
func (g *Group) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running.Store(false)
	if g.cancel != nil {
		g.cancel()
	}
}

// Wait blocks until every actor launched so far has returned. Cancellation
// errors are expected and not reported.
func (g *Group) Wait() error {
	g.mu.Lock()
	runs := g.runs
	errs := g.errs
	g.runs = nil
	g.errs = nil
	g.mu.Unlock()

	for _, b := range runs {
		if err := b.eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
