package models

import (
	"fmt"
	"time"
)

// Side of a single position.
type Side int

const (
	SideLong Side = iota
	SideShort
)

func (s Side) String() string {
	if s == SideShort {
		return "short"
	}
	return "long"
}

// MarshalText renders the side by name.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a side name.
func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "long":
		*s = SideLong
	case "short":
		*s = SideShort
	default:
		return fmt.Errorf("unknown side %q", b)
	}
	return nil
}

// SideFor maps a trading action to the side it implies.
func SideFor(a Action) (Side, bool) {
	switch a {
	case ActionBuy:
		return SideLong, true
	case ActionSell:
		return SideShort, true
	default:
		return SideLong, false
	}
}

// Position is a long or short position of the single-position simulator.
// Exit fields stay nil until the position is closed.
type Position struct {
	Side                 Side       `json:"side"`
	EntryTime            time.Time  `json:"entry_time"`
	EntryPrice           float64    `json:"entry_price"`
	Size                 float64    `json:"size"`
	EntryCollateralGross float64    `json:"entry_collateral_gross"`
	ExitTime             *time.Time `json:"exit_time,omitempty"`
	ExitPrice            *float64   `json:"exit_price,omitempty"`
	Profit               *float64   `json:"profit,omitempty"`
	ReturnPct            *float64   `json:"return_pct,omitempty"`
	EntryReason          string     `json:"entry_reason"`
	ExitReason           string     `json:"exit_reason,omitempty"`
}

// Closed reports whether the position has been realized.
func (p Position) Closed() bool {
	return p.ExitTime != nil
}

// RealizedProfit returns the profit, or 0 while open.
func (p Position) RealizedProfit() float64 {
	if p.Profit == nil {
		return 0
	}
	return *p.Profit
}

// Trade is one partial sell of the spot simulator against the average cost basis.
type Trade struct {
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	EntryValue float64   `json:"entry_value"`
	ExitValue  float64   `json:"exit_value"`
	Profit     float64   `json:"profit"`
	ReturnPct  float64   `json:"return_pct"`
}
