package models

import "time"

// Mode selects the portfolio simulator.
type Mode string

const (
	ModePosition Mode = "position"
	ModeSpot     Mode = "spot"
)

// EquityPoint is one mark-to-market value of the portfolio.
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Equity    float64   `json:"equity"`
}

// ResultStats summarizes per-step equity returns.
type ResultStats struct {
	StepReturnMean   float64 `json:"step_return_mean"`
	StepReturnStdDev float64 `json:"step_return_stddev"`
	Sharpe           float64 `json:"sharpe"`
}

// Result is the outcome of one simulation run. Positions is filled by the
// single-position simulator, Trades by the spot simulator.
type Result struct {
	Mode           Mode          `json:"mode"`
	InitialEquity  float64       `json:"initial_equity"`
	FinalEquity    float64       `json:"final_equity"`
	EquityCurve    []EquityPoint `json:"equity_curve,omitempty"`
	Positions      []Position    `json:"positions,omitempty"`
	Trades         []Trade       `json:"trades,omitempty"`
	TotalReturnPct float64       `json:"total_return_pct"`
	MaxDrawdownPct float64       `json:"max_drawdown_pct"`
	WinRatePct     float64       `json:"win_rate_pct"`
	Stats          ResultStats   `json:"stats"`
}

// Closed returns the number of realized positions or trades.
func (r *Result) Closed() int {
	if r.Mode == ModeSpot {
		return len(r.Trades)
	}
	return len(r.Positions)
}
