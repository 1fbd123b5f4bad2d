package models

import (
	"fmt"
	"strings"
)

// MAConfig selects the short/long simple moving average windows.
type MAConfig struct {
	ShortWindow int `json:"short_window" yaml:"short_window" default:"20" validate:"gte=1"`
	LongWindow  int `json:"long_window" yaml:"long_window" default:"50" validate:"gte=1"`
}

// BreakoutConfig enables the breakout/breakdown rule.
type BreakoutConfig struct {
	Lookback int `json:"lookback" yaml:"lookback" validate:"gte=1"`
}

// PullbackConfig enables the pullback bounce/reject rule.
type PullbackConfig struct {
	BounceTolerance float64 `json:"bounce_tolerance" yaml:"bounce_tolerance" validate:"gte=0"`
	RejectTolerance float64 `json:"reject_tolerance" yaml:"reject_tolerance" validate:"gte=0"`
}

// VolatilityFilter holds the minimum acceptable normalized volatility.
type VolatilityFilter struct {
	Period int     `json:"period" yaml:"period" validate:"gte=1"`
	Floor  float64 `json:"floor" yaml:"floor" validate:"gte=0"`
}

// DefaultVolatilityFilter is the filter used by backtests when none is configured explicitly.
func DefaultVolatilityFilter() VolatilityFilter {
	return VolatilityFilter{Period: 5, Floor: 0.003}
}

// RegimeFilter parameterizes the macro regime classifier.
type RegimeFilter struct {
	LongWindow       int     `json:"long_window" yaml:"long_window" validate:"gte=1"`
	SlopeWindow      int     `json:"slope_window" yaml:"slope_window" validate:"gte=1"`
	MinTrendStrength float64 `json:"min_trend_strength" yaml:"min_trend_strength" validate:"gte=0"`
	MinRange         float64 `json:"min_range" yaml:"min_range" validate:"gte=0"`
}

// DefaultRegimeFilter is tuned for 1h candles: ~8 days long MA, ~2 days slope.
func DefaultRegimeFilter() RegimeFilter {
	return RegimeFilter{
		LongWindow:       200,
		SlopeWindow:      48,
		MinTrendStrength: 0.02,
		MinRange:         0.03,
	}
}

// FilterConfig gates the rules of the decision engine.
type FilterConfig struct {
	RequireTrendFilter       bool              `json:"require_trend_filter" yaml:"require_trend_filter"`
	RequirePriceConfirmation bool              `json:"require_price_confirmation" yaml:"require_price_confirmation"`
	Volatility               *VolatilityFilter `json:"volatility,omitempty" yaml:"volatility"`
	Regime                   *RegimeFilter     `json:"regime,omitempty" yaml:"regime"`
}

// StrategyConfig is one point of the parameter search space. Treat as immutable.
type StrategyConfig struct {
	Breakout         *BreakoutConfig `json:"breakout,omitempty" yaml:"breakout"`
	Pullback         *PullbackConfig `json:"pullback,omitempty" yaml:"pullback"`
	EnableCrossovers bool            `json:"enable_crossovers" yaml:"enable_crossovers"`
	EnableBiasOnly   bool            `json:"enable_bias_only" yaml:"enable_bias_only"`
	MA               MAConfig        `json:"ma" yaml:"ma"`
	Filters          FilterConfig    `json:"filters" yaml:"filters"`
}

// Describe renders every enabled sub-config in a fixed order.
func (s StrategyConfig) Describe() string {
	parts := []string{fmt.Sprintf("sma(%d/%d)", s.MA.ShortWindow, s.MA.LongWindow)}
	if s.Breakout != nil {
		parts = append(parts, fmt.Sprintf("breakout(lookback=%d)", s.Breakout.Lookback))
	}
	if s.Pullback != nil {
		parts = append(parts, fmt.Sprintf("pullback(bounce=%.3f%%,reject=%.3f%%)",
			s.Pullback.BounceTolerance*100, s.Pullback.RejectTolerance*100))
	}
	if s.EnableCrossovers {
		parts = append(parts, "crossovers")
	}
	if s.EnableBiasOnly {
		parts = append(parts, "bias-only")
	}

	var filters []string
	if s.Filters.RequireTrendFilter {
		filters = append(filters, "trend")
	}
	if s.Filters.RequirePriceConfirmation {
		filters = append(filters, "price")
	}
	if v := s.Filters.Volatility; v != nil {
		filters = append(filters, fmt.Sprintf("volatility(period=%d,floor=%.3f%%)", v.Period, v.Floor*100))
	}
	if r := s.Filters.Regime; r != nil {
		filters = append(filters, fmt.Sprintf("regime(long=%d,slope=%d,trend=%.2f%%,range=%.2f%%)",
			r.LongWindow, r.SlopeWindow, r.MinTrendStrength*100, r.MinRange*100))
	}
	if len(filters) > 0 {
		parts = append(parts, "filters["+strings.Join(filters, " ")+"]")
	}
	return strings.Join(parts, " ")
}

// HasRules reports whether at least one rule is enabled.
func (s StrategyConfig) HasRules() bool {
	return s.Breakout != nil || s.Pullback != nil || s.EnableCrossovers || s.EnableBiasOnly
}
