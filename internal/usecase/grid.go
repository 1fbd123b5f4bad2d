package usecase

import (
	"errors"
	"fmt"
	"math"

	"SignalSweep/internal/domain/models"
)

// DefaultPullbackStep is the tolerance increment of the pullback grid.
const DefaultPullbackStep = 0.001

const (
	toggleBreakout = 1 << iota
	togglePullback
	toggleCrossover
	toggleAll = toggleBreakout | togglePullback | toggleCrossover
)

// steppedRange returns lo, lo+step, ... up to hi inclusive. Values are
// derived from an integer counter so the grid does not drift.
func steppedRange(lo, hi, step float64) []float64 {
	if step <= 0 || hi < lo {
		return nil
	}
	n := int(math.Floor((hi-lo)/step + 1e-9))
	out := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, lo+float64(i)*step)
	}
	return out
}

// GeneratePullbackPairs returns every (bounce, reject) pair of the stepped
// range with reject strictly greater than bounce.
func GeneratePullbackPairs(lo, hi, step float64) []models.PullbackConfig {
	values := steppedRange(lo, hi, step)
	var out []models.PullbackConfig
	for i, bounce := range values {
		for _, reject := range values[i+1:] {
			out = append(out, models.PullbackConfig{BounceTolerance: bounce, RejectTolerance: reject})
		}
	}
	return out
}

// GenerateStrategies expands the sweep space into strategies. Every non-empty
// combination of the breakout, pullback and crossover toggles is generated per
// moving-average pair; bias-only is always enabled. Pairs with long < 2*short
// are skipped, configured ones included.
func GenerateStrategies(space models.SweepSpace) ([]models.StrategyConfig, error) {
	if space.MinLookback < 1 || space.MaxLookback < space.MinLookback {
		return nil, fmt.Errorf("invalid lookback range %d..%d", space.MinLookback, space.MaxLookback)
	}
	step := space.PullbackStep
	if step <= 0 {
		step = DefaultPullbackStep
	}
	pairs := space.MAPairs
	if len(pairs) == 0 {
		pairs = models.DefaultMAPairs()
	}
	pullbacks := GeneratePullbackPairs(space.MinPullbackPct, space.MaxPullbackPct, step)

	var out []models.StrategyConfig
	for _, ma := range pairs {
		if ma.Short < 1 || ma.Long < 1 {
			return nil, fmt.Errorf("invalid moving average pair %d/%d", ma.Short, ma.Long)
		}
		if ma.Long < 2*ma.Short {
			continue
		}
		for mask := 1; mask <= toggleAll; mask++ {
			breakouts := []*models.BreakoutConfig{nil}
			if mask&toggleBreakout != 0 {
				breakouts = breakouts[:0]
				for lb := space.MinLookback; lb <= space.MaxLookback; lb++ {
					breakouts = append(breakouts, &models.BreakoutConfig{Lookback: lb})
				}
			}
			pbs := []*models.PullbackConfig{nil}
			if mask&togglePullback != 0 {
				if len(pullbacks) == 0 {
					continue
				}
				pbs = pbs[:0]
				for i := range pullbacks {
					pbs = append(pbs, &pullbacks[i])
				}
			}

			for _, bo := range breakouts {
				for _, pb := range pbs {
					out = append(out, models.StrategyConfig{
						Breakout:         bo,
						Pullback:         pb,
						EnableCrossovers: mask&toggleCrossover != 0,
						EnableBiasOnly:   true,
						MA:               models.MAConfig{ShortWindow: ma.Short, LongWindow: ma.Long},
						Filters:          space.Filters,
					})
				}
			}
		}
	}
	if len(out) == 0 {
		return nil, errors.New("sweep space is empty")
	}
	return out, nil
}

// GenerateJobs pairs every strategy with steps sizing fractions evenly spaced
// over (0, maxFraction].
func GenerateJobs(strategies []models.StrategyConfig, steps int, maxFraction float64) []models.Candidate {
	if steps < 1 {
		steps = 1
	}
	out := make([]models.Candidate, 0, len(strategies)*steps)
	for _, st := range strategies {
		for i := 1; i <= steps; i++ {
			out = append(out, models.Candidate{
				SizingFraction: float64(i) / float64(steps) * maxFraction,
				Strategy:       st,
			})
		}
	}
	return out
}
