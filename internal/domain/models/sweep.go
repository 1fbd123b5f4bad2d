package models

import (
	"errors"
	"fmt"
	"time"
)

// Candidate is the input of one sweep job.
type Candidate struct {
	SizingFraction float64        `json:"sizing_fraction"`
	Strategy       StrategyConfig `json:"strategy"`
}

// SweepResult is the best (candidate, result) pair of a sweep.
type SweepResult struct {
	Candidate Candidate `json:"candidate"`
	Result    *Result   `json:"result"`
	Jobs      int       `json:"jobs"`
	Failed    int       `json:"failed"`
}

// MAPair is one entry of the moving-average window grid.
type MAPair struct {
	Short int `json:"short" yaml:"short" validate:"gte=1"`
	Long  int `json:"long" yaml:"long" validate:"gte=1"`
}

// SweepSpace describes the Cartesian parameter grid.
type SweepSpace struct {
	MAPairs        []MAPair     `json:"ma_pairs" yaml:"ma_pairs" validate:"dive"`
	MinLookback    int          `json:"min_lookback" yaml:"min_lookback" default:"3" validate:"gte=1"`
	MaxLookback    int          `json:"max_lookback" yaml:"max_lookback" default:"10" validate:"gte=1"`
	MinPullbackPct float64      `json:"min_pullback_pct" yaml:"min_pullback_pct" default:"0.001" validate:"gte=0"`
	MaxPullbackPct float64      `json:"max_pullback_pct" yaml:"max_pullback_pct" default:"0.01" validate:"gte=0"`
	PullbackStep   float64      `json:"pullback_step" yaml:"pullback_step" default:"0.001" validate:"gt=0"`
	FractionSteps  int          `json:"fraction_steps" yaml:"fraction_steps" default:"10" validate:"gte=1"`
	MaxFraction    float64      `json:"max_fraction" yaml:"max_fraction" default:"0.5" validate:"gt=0,lte=1"`
	Filters        FilterConfig `json:"filters" yaml:"filters"`
}

// Check validates the rules spanning several fields of the space.
func (s SweepSpace) Check() error {
	var errs []error
	if s.MinLookback > s.MaxLookback {
		errs = append(errs, fmt.Errorf("min_lookback %d > max_lookback %d", s.MinLookback, s.MaxLookback))
	}
	if s.MinPullbackPct > s.MaxPullbackPct {
		errs = append(errs, fmt.Errorf("min_pullback_pct %v > max_pullback_pct %v", s.MinPullbackPct, s.MaxPullbackPct))
	}
	for _, p := range s.MAPairs {
		if p.Short >= p.Long {
			errs = append(errs, fmt.Errorf("ma pair %d/%d: short must be below long", p.Short, p.Long))
		}
	}
	return errors.Join(errs...)
}

// DefaultMAPairs is the short x long grid filtered to long >= 2*short.
func DefaultMAPairs() []MAPair {
	shorts := []int{5, 10, 20, 50}
	longs := []int{20, 50, 100, 200}
	var out []MAPair
	for _, s := range shorts {
		for _, l := range longs {
			if l >= 2*s {
				out = append(out, MAPair{Short: s, Long: l})
			}
		}
	}
	return out
}

// RunRecord is the persisted summary of a backtest or sweep run.
type RunRecord struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"` // "backtest" | "sweep"
	Mode           Mode      `json:"mode"`
	Strategy       string    `json:"strategy"`
	SizingFraction float64   `json:"sizing_fraction"`
	InitialEquity  float64   `json:"initial_equity"`
	FinalEquity    float64   `json:"final_equity"`
	TotalReturnPct float64   `json:"total_return_pct"`
	MaxDrawdownPct float64   `json:"max_drawdown_pct"`
	WinRatePct     float64   `json:"win_rate_pct"`
	Closed         int       `json:"closed"`
	Samples        int       `json:"samples"`
	CreatedAt      time.Time `json:"created_at"`
}

// PositionEvent and TradeEvent are the NDJSON/Kafka envelopes of realized fills.
type PositionEvent struct {
	RunID    string   `json:"run_id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
}

type TradeEvent struct {
	RunID string `json:"run_id"`
	Type  string `json:"type"`
	Trade Trade  `json:"trade"`
}
