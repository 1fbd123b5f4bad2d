package indicators

import "SignalSweep/internal/domain/models"

// SimpleMovingAverage is the mean of the last window prices.
func SimpleMovingAverage(prices []float64, window int) (float64, bool) {
	if window <= 0 || len(prices) < window {
		return 0, false
	}
	sum := 0.0
	for _, p := range prices[len(prices)-window:] {
		sum += p
	}
	return sum / float64(window), true
}

// MovingAverages computes short/long SMAs for the last step and the one before.
// It needs at least longWindow+1 prices.
func MovingAverages(prices []float64, shortWindow, longWindow int) (models.MovingAverageSet, bool) {
	var set models.MovingAverageSet
	if len(prices) < longWindow+1 {
		return set, false
	}

	var ok bool
	if set.Short, ok = SimpleMovingAverage(prices, shortWindow); !ok {
		return set, false
	}
	if set.Long, ok = SimpleMovingAverage(prices, longWindow); !ok {
		return set, false
	}

	prev := prices[:len(prices)-1]
	if set.PrevShort, ok = SimpleMovingAverage(prev, shortWindow); !ok {
		return set, false
	}
	if set.PrevLong, ok = SimpleMovingAverage(prev, longWindow); !ok {
		return set, false
	}
	return set, true
}
