// Package pipeline drives batches of pool.Tasks that together form one
// pipeline run: import, graph build, and route. It adds nothing to the
// pool's own scheduling — it only bounds how many independently-rooted
// task trees a caller submits and awaits at once.
package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/aristath/geoflow/internal/pool"
)

// Root pairs a Task with the ResultHandle its SetFunctionWithResult call
// produced, since RunRoots needs both to submit the task and later collect
// its outcome.
type Root struct {
	Task   *pool.Task
	Result *pool.ResultHandle
}

// Runner submits batches of Roots to a pool.Pool and waits for their
// results with bounded concurrency.
type Runner struct {
	pool             *pool.Pool
	concurrencyLimit int
}

// NewRunner creates a Runner against p. concurrencyLimit bounds how many
// roots RunRoots submits and awaits at once; <=0 means unbounded at this
// layer (the pool's own worker count still bounds actual execution).
func NewRunner(p *pool.Pool, concurrencyLimit int) *Runner {
	return &Runner{pool: p, concurrencyLimit: concurrencyLimit}
}

// RunRoots submits every root (which transitively submits any of its
// unsubmitted predecessors) and waits for each to reach a terminal state.
// A root's own error, or a submission error, fails RunRoots, but every
// other root still runs to completion — RunRoots does not cancel siblings,
// matching the Coordinator's own hands-off treatment of a batch's
// cross-task fate.
func (r *Runner) RunRoots(ctx context.Context, roots []Root) error {
	var g errgroup.Group
	if r.concurrencyLimit > 0 {
		g.SetLimit(r.concurrencyLimit)
	}

	for _, root := range roots {
		root := root
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.pool.Submit(root.Task); err != nil {
				return err
			}
			_, err := root.Result.Get()
			return err
		})
	}

	return g.Wait()
}
