package models

import (
	"errors"
	"time"
)

// ErrInsufficientData is returned when a computation lacks the minimum history it needs.
var ErrInsufficientData = errors.New("insufficient data")

// Sample is one (resampled) price observation.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// Prices extracts the price column.
func Prices(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Price
	}
	return out
}

// MovingAverageSet holds the current and previous-step short/long SMAs.
type MovingAverageSet struct {
	Short     float64 `json:"short"`
	Long      float64 `json:"long"`
	PrevShort float64 `json:"prev_short"`
	PrevLong  float64 `json:"prev_long"`
}

// Regime is the macro market state.
type Regime int

const (
	RegimeSideways Regime = iota
	RegimeTrendingUp
	RegimeTrendingDown
)

func (r Regime) String() string {
	switch r {
	case RegimeTrendingUp:
		return "TrendingUp"
	case RegimeTrendingDown:
		return "TrendingDown"
	default:
		return "Sideways"
	}
}
