package usecase

import (
	"fmt"

	"SignalSweep/internal/domain/models"
	domsvc "SignalSweep/internal/domain/service"
	"SignalSweep/internal/services/indicators"
)

// AnalyzeLatest evaluates strategy on the most recent sample of the series.
func AnalyzeLatest(samples []models.Sample, strategy models.StrategyConfig, engine domsvc.DecisionEngine) (*models.Analysis, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples", models.ErrInsufficientData)
	}

	prices := models.Prices(samples)
	mas, ok := indicators.MovingAverages(prices, strategy.MA.ShortWindow, strategy.MA.LongWindow)
	if !ok {
		return nil, fmt.Errorf("%w: %d samples, need %d for SMA%d/SMA%d",
			models.ErrInsufficientData, len(samples), strategy.MA.LongWindow+1,
			strategy.MA.ShortWindow, strategy.MA.LongWindow)
	}

	return &models.Analysis{
		Last:     samples[len(samples)-1],
		Averages: mas,
		Decision: engine.Decide(prices, mas, strategy),
		Strategy: strategy.Describe(),
	}, nil
}
