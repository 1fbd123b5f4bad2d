package usecase

import (
	"fmt"

	"SignalSweep/internal/domain/models"
	domsvc "SignalSweep/internal/domain/service"
	"SignalSweep/internal/services/indicators"
)

// stepFunc handles the decision taken at one sample.
type stepFunc func(sample models.Sample, d models.Decision)

// checkReplayInput rejects series too short to produce a single decision.
func checkReplayInput(samples []models.Sample, strategy models.StrategyConfig) error {
	ma := strategy.MA
	if ma.ShortWindow < 1 || ma.LongWindow < 1 {
		return fmt.Errorf("invalid moving average windows %d/%d", ma.ShortWindow, ma.LongWindow)
	}
	if need := ma.LongWindow + 1; len(samples) < need {
		return fmt.Errorf("%w: %d samples, need %d", models.ErrInsufficientData, len(samples), need)
	}
	return nil
}

// replay marks the portfolio before every step and asks the engine for a
// decision once both moving averages and their previous values exist.
func replay(
	samples []models.Sample,
	strategy models.StrategyConfig,
	engine domsvc.DecisionEngine,
	mark func(price float64) float64,
	step stepFunc,
) []models.EquityPoint {
	prices := models.Prices(samples)
	curve := make([]models.EquityPoint, 0, len(samples))

	for i, s := range samples {
		curve = append(curve, models.EquityPoint{Timestamp: s.Timestamp, Equity: mark(s.Price)})

		window := prices[:i+1]
		mas, ok := indicators.MovingAverages(window, strategy.MA.ShortWindow, strategy.MA.LongWindow)
		if !ok {
			continue
		}
		step(s, engine.Decide(window, mas, strategy))
	}
	return curve
}

// finishResult fills the summary metrics. base is the equity the total
// return is measured against.
func finishResult(res *models.Result, base, winRate float64) *models.Result {
	res.TotalReturnPct = res.FinalEquity/base - 1
	res.MaxDrawdownPct = MaxDrawdown(res.EquityCurve)
	res.WinRatePct = winRate
	res.Stats = ComputeStats(res.EquityCurve)
	return res
}
