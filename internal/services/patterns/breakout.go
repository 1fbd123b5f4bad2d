package patterns

import "math"

// epsilon keeps exact ties from counting as a breakout/breakdown.
const epsilon = 1e-6

// referenceWindow returns the lookback prices before the last one; the last
// price is never part of its own reference.
func referenceWindow(prices []float64, lookback int) ([]float64, bool) {
	if lookback <= 0 || len(prices) < lookback+1 {
		return nil, false
	}
	last := len(prices) - 1
	return prices[last-lookback : last], true
}

// BreakoutAboveRecentHigh reports whether the last price clears the highest
// of the previous lookback prices.
func BreakoutAboveRecentHigh(prices []float64, lookback int) bool {
	window, ok := referenceWindow(prices, lookback)
	if !ok {
		return false
	}
	high := math.Inf(-1)
	for _, p := range window {
		high = math.Max(high, p)
	}
	return prices[len(prices)-1] > high*(1+epsilon)
}

// BreakdownBelowRecentLow reports whether the last price falls under the
// lowest of the previous lookback prices.
func BreakdownBelowRecentLow(prices []float64, lookback int) bool {
	window, ok := referenceWindow(prices, lookback)
	if !ok {
		return false
	}
	low := math.Inf(1)
	for _, p := range window {
		low = math.Min(low, p)
	}
	return prices[len(prices)-1] < low*(1-epsilon)
}
