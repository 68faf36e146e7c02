package domain

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"conform.dev/pkg/conform/internal/controller"
)

// Pool is the worker pool cases execute on. A run creates exactly one pool.
type Pool struct {
	size int
}

// NewPool creates a pool of size workers, or one per available CPU when size <= 0.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}

	return &Pool{size: size}
}

// PoolFor selects the pool for a run: a single worker under the debug/filtered
// policy, parallel workers otherwise.
func PoolFor(opts Options, parallel int) *Pool {
	if opts.Sequential() {
		return NewPool(1)
	}

	return NewPool(parallel)
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Runner executes the cases of a suite on its pool.
type Runner struct {
	pool *Pool
	ui   controller.UI
}

// NewRunner constructs a runner that owns pool.
func NewRunner(pool *Pool, ui controller.UI) *Runner {
	return &Runner{pool: pool, ui: ui}
}

// Pool returns the pool the runner executes on.
func (r *Runner) Pool() *Pool {
	return r.pool
}

// Run executes every case with tool. Each case stores its own result; workers share
// nothing but the work queue, so the case order is untouched by completion order.
func (r *Runner) Run(ctx context.Context, suite string, cases []*Case, tool Tool, opts Options) error {
	start := time.Now()
	sequential := opts.Sequential() || r.pool.Size() == 1

	startOptions := []controller.StartOption{controller.WithTotal(len(cases))}
	if sequential {
		startOptions = append(startOptions, controller.WithWorkers(1))
		if opts.PrintPaths() {
			startOptions = append(startOptions, controller.WithCaseLog())
		}
	} else {
		startOptions = append(startOptions, controller.WithWorkers(r.pool.Size()), controller.WithProgress())
	}

	r.ui.StartSuite(ctx, suite, startOptions...)
	defer r.ui.FinishSuite(ctx)

	if sequential {
		r.runSequential(ctx, cases, tool, opts)
	} else {
		r.runParallel(ctx, cases, tool)
	}

	slog.Info("Suite executed", "suite", suite, "cases", len(cases), "sequential", sequential, "elapsed", time.Since(start))

	return ctx.Err()
}

func (r *Runner) runSequential(ctx context.Context, cases []*Case, tool Tool, opts Options) {
	for _, c := range cases {
		if ctx.Err() != nil {
			return
		}

		if opts.PrintPaths() {
			r.ui.CaseStarted(ctx, c.Path)
		}

		c.Run(ctx, tool)
		r.ui.CaseCompleted(ctx, c.Path, c.Result)
	}
}

func (r *Runner) runParallel(ctx context.Context, cases []*Case, tool Tool) {
	var group errgroup.Group

	group.SetLimit(r.pool.Size())

	for _, c := range cases {
		if ctx.Err() != nil {
			break
		}

		group.Go(func() error {
			c.Run(ctx, tool)
			r.ui.CaseCompleted(ctx, c.Path, c.Result)

			return nil
		})
	}

	_ = group.Wait()
}
