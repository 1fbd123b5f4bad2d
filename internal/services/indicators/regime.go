package indicators

import (
	"math"

	"SignalSweep/internal/domain/models"
)

// DetectRegime classifies the macro trend. Short histories are Sideways.
func DetectRegime(prices []float64, f models.RegimeFilter) models.Regime {
	n := len(prices)
	required := f.LongWindow
	if f.SlopeWindow > required {
		required = f.SlopeWindow
	}
	if n < required+1 {
		return models.RegimeSideways
	}

	smaLong, ok := SimpleMovingAverage(prices, f.LongWindow)
	if !ok || smaLong <= 0 {
		return models.RegimeSideways
	}

	start, end := n-1-f.SlopeWindow, n-1
	startPrice, endPrice := prices[start], prices[end]
	if startPrice <= 0 {
		return models.RegimeSideways
	}

	trend := endPrice/startPrice - 1
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range prices[start : end+1] {
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	rng := (hi - lo) / smaLong

	if math.Abs(trend) < f.MinTrendStrength || rng < f.MinRange {
		return models.RegimeSideways
	}

	// direction has to agree with the long average
	switch {
	case endPrice > smaLong && trend > 0:
		return models.RegimeTrendingUp
	case endPrice < smaLong && trend < 0:
		return models.RegimeTrendingDown
	default:
		return models.RegimeSideways
	}
}
