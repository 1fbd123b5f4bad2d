package queue

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WorkerFunc processes one job. worker is the index of the calling worker in
// [0, workers) so callers can keep per-worker state without locking.
type WorkerFunc[J any] func(ctx context.Context, worker int, job J) error

// PoolConfig contains the configuration for a worker pool.
type PoolConfig struct {
	Workers   int // number of workers, NumCPU when <= 0
	QueueSize int // buffered jobs, Workers when <= 0
}

// EffectiveWorkers returns the worker count RunPool uses for n jobs.
func (c PoolConfig) EffectiveWorkers(n int) int {
	w := c.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	if n > 0 && w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// RunPool feeds jobs to a fixed set of workers. The first error returned by
// fn cancels the pool; ctx is checked between jobs, never mid-job.
func RunPool[J any](ctx context.Context, cfg PoolConfig, jobs []J, fn WorkerFunc[J]) (int, error) {
	workers := cfg.EffectiveWorkers(len(jobs))
	size := cfg.QueueSize
	if size <= 0 {
		size = workers
	}

	g, gctx := errgroup.WithContext(ctx)
	ch := make(chan J, size)

	g.Go(func() error {
		defer close(ch)
		for _, j := range jobs {
			select {
			case ch <- j:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for j := range ch {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := fn(gctx, w, j); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return workers, g.Wait()
}
