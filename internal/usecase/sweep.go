package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"SignalSweep/internal/domain/models"
	drepo "SignalSweep/internal/domain/repository"
	domsvc "SignalSweep/internal/domain/service"
	"SignalSweep/pkg/logger"
	"SignalSweep/pkg/queue"
)

// ErrNoValidResult is returned when every sweep job failed.
var ErrNoValidResult = errors.New("no valid backtest result")

const returnEpsilon = 1e-9

// Better reports whether cand beats best: a higher total return by more than
// returnEpsilon wins, otherwise a strictly lower drawdown within that band.
// Exact ties keep best.
func Better(cand, best *models.Result) bool {
	switch {
	case cand.TotalReturnPct > best.TotalReturnPct+returnEpsilon:
		return true
	case best.TotalReturnPct > cand.TotalReturnPct+returnEpsilon:
		return false
	default:
		return cand.MaxDrawdownPct < best.MaxDrawdownPct
	}
}

type scored struct {
	candidate models.Candidate
	result    *models.Result
}

// pick keeps left unless right is better. nil sides lose.
func pick(left, right *scored) *scored {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	case Better(right.result, left.result):
		return right
	default:
		return left
	}
}

// Sweeper runs candidates in parallel and keeps only the best result.
type Sweeper struct {
	factory  domsvc.SimulatorFactory
	workers  int
	observer domsvc.Observer
	metrics  drepo.Metrics
	log      *logger.Logger
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithWorkers sets the worker count, NumCPU when <= 0.
func WithWorkers(n int) SweeperOption {
	return func(s *Sweeper) { s.workers = n }
}

// WithProgressObserver receives OnProgress about every 1% of jobs.
func WithProgressObserver(o domsvc.Observer) SweeperOption {
	return func(s *Sweeper) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithSweepMetrics records per-job outcomes.
func WithSweepMetrics(m drepo.Metrics) SweeperOption {
	return func(s *Sweeper) { s.metrics = m }
}

// WithSweepLogger sets the logger used for failed jobs.
func WithSweepLogger(l *logger.Logger) SweeperOption {
	return func(s *Sweeper) { s.log = l }
}

// NewSweeper creates a Sweeper. factory is called once per worker.
func NewSweeper(factory domsvc.SimulatorFactory, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		factory:  factory,
		observer: domsvc.NopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindBest evaluates every job and reduces to the single best candidate.
// Failed jobs are counted and dropped. Cancellation is observed between jobs.
func (s *Sweeper) FindBest(ctx context.Context, samples []models.Sample, jobs []models.Candidate) (*models.SweepResult, error) {
	total := len(jobs)
	if total == 0 {
		return nil, ErrNoValidResult
	}

	every := total / 100
	if every < 1 {
		every = 1
	}

	cfg := queue.PoolConfig{Workers: s.workers}
	// One simulator and one local best per worker; slots are never shared.
	slots := cfg.EffectiveWorkers(total)
	sims := make([]domsvc.Simulator, slots)
	local := make([]*scored, slots)

	var done, failed atomic.Int64

	_, err := queue.RunPool(ctx, cfg, jobs, func(_ context.Context, w int, job models.Candidate) error {
		if sims[w] == nil {
			sims[w] = s.factory()
		}

		start := time.Now()
		res, err := sims[w].Run(samples, job)
		if s.metrics != nil {
			s.metrics.RecordJob(err == nil, time.Since(start).Seconds())
		}
		if err != nil {
			failed.Add(1)
			if s.log != nil {
				s.log.Debug("sweep job failed",
					logger.String("strategy", job.Strategy.Describe()),
					logger.Float64("sizing_fraction", job.SizingFraction),
					logger.Error(err),
				)
			}
		} else {
			local[w] = pick(local[w], &scored{candidate: job, result: res})
		}

		if n := int(done.Add(1)); n%every == 0 || n == total {
			s.observer.OnProgress(n, total)
			if s.metrics != nil {
				s.metrics.RecordProgress(n, total)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}

	var best *scored
	for _, l := range local {
		best = pick(best, l)
	}
	if best == nil {
		return nil, ErrNoValidResult
	}

	return &models.SweepResult{
		Candidate: best.candidate,
		Result:    best.result,
		Jobs:      total,
		Failed:    int(failed.Load()),
	}, nil
}
