package indicators

import (
	"math"
	"sort"

	"SignalSweep/internal/domain/models"
)

// AverageRange approximates ATR from closes only: the mean of |close[i]-close[i-1]|
// over the last period intervals.
func AverageRange(prices []float64, period int) (float64, bool) {
	if period <= 0 || len(prices) < period+1 {
		return 0, false
	}
	n := len(prices)
	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += math.Abs(prices[n-i] - prices[n-1-i])
	}
	return sum / float64(period), true
}

// VolatilityFraction is AverageRange as a fraction of the last price.
func VolatilityFraction(prices []float64, period int) (float64, bool) {
	atr, ok := AverageRange(prices, period)
	if !ok {
		return 0, false
	}
	last := prices[len(prices)-1]
	if last <= 0 {
		return 0, false
	}
	return atr / last, true
}

// VolatilityFloorFromHistory calibrates a floor as the percentile of the
// volatility fraction computed at every valid trailing window end.
func VolatilityFloorFromHistory(prices []float64, period int, percentile float64) (models.VolatilityFilter, bool) {
	if period <= 0 || len(prices) < period+2 {
		return models.VolatilityFilter{}, false
	}

	samples := make([]float64, 0, len(prices)-period)
	for end := period + 1; end <= len(prices); end++ {
		if v, ok := VolatilityFraction(prices[:end], period); ok {
			samples = append(samples, v)
		}
	}
	if len(samples) == 0 {
		return models.VolatilityFilter{}, false
	}
	sort.Float64s(samples)

	p := math.Min(math.Max(percentile, 0), 1)
	idx := int(math.Round(float64(len(samples)-1) * p))
	return models.VolatilityFilter{Period: period, Floor: samples[idx]}, true
}
