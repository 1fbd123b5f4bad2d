package usecase

import (
	"errors"
	"time"

	"SignalSweep/internal/domain/models"
	domsvc "SignalSweep/internal/domain/service"
)

const eofReason = "EOF"

// PositionSimulator holds at most one long or short position and flips it
// whenever the engine asks for the other side.
type PositionSimulator struct {
	initialCash float64
	engine      domsvc.DecisionEngine
	observer    domsvc.Observer
}

// NewPositionSimulator creates a single-position simulator. A nil observer
// discards events.
func NewPositionSimulator(initialCash float64, engine domsvc.DecisionEngine, observer domsvc.Observer) *PositionSimulator {
	if observer == nil {
		observer = domsvc.NopObserver{}
	}
	return &PositionSimulator{
		initialCash: initialCash,
		engine:      engine,
		observer:    observer,
	}
}

// Run replays samples under the candidate. Any position still open after the
// last sample is closed at the last price.
func (s *PositionSimulator) Run(samples []models.Sample, candidate models.Candidate) (*models.Result, error) {
	if s.initialCash <= 0 {
		return nil, errors.New("initial cash must be positive")
	}
	if err := checkReplayInput(samples, candidate.Strategy); err != nil {
		return nil, err
	}

	frac := clampFraction(candidate.SizingFraction)
	cash := s.initialCash
	var (
		open   *models.Position
		closed []models.Position
	)

	closeOpen := func(price float64, at time.Time, reason string) {
		p := closePosition(*open, price, at, reason)
		cash += p.EntryCollateralGross + *p.Profit
		closed = append(closed, p)
		open = nil
		s.observer.OnPositionClosed(p)
	}

	mark := func(price float64) float64 {
		if open == nil {
			return cash
		}
		return cash + liquidationValue(open, price)
	}

	curve := replay(samples, candidate.Strategy, s.engine, mark, func(sm models.Sample, d models.Decision) {
		side, ok := models.SideFor(d.Action)
		if !ok {
			return
		}
		if open != nil && open.Side == side {
			return
		}
		if open != nil {
			closeOpen(sm.Price, sm.Timestamp, d.Reason)
		}
		open = openPosition(side, sm, &cash, frac, d.Reason)
	})

	if open != nil {
		last := samples[len(samples)-1]
		closeOpen(last.Price, last.Timestamp, eofReason)
	}

	res := &models.Result{
		Mode:          models.ModePosition,
		InitialEquity: s.initialCash,
		FinalEquity:   cash,
		EquityCurve:   curve,
		Positions:     closed,
	}
	return finishResult(res, s.initialCash, PositionWinRate(closed)), nil
}

func liquidationValue(p *models.Position, price float64) float64 {
	if price <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Side == models.SideLong {
		return p.Size * price
	}
	return p.EntryCollateralGross + (p.EntryPrice-price)*p.Size
}

func openPosition(side models.Side, at models.Sample, cash *float64, frac float64, reason string) *models.Position {
	if at.Price <= 0 || *cash <= 0 || frac <= 0 {
		return nil
	}
	collateral := *cash * frac
	size := collateral / at.Price
	if collateral <= 0 || size <= 0 {
		return nil
	}
	*cash -= collateral

	return &models.Position{
		Side:                 side,
		EntryTime:            at.Timestamp,
		EntryPrice:           at.Price,
		Size:                 size,
		EntryCollateralGross: collateral,
		EntryReason:          reason,
	}
}

func closePosition(p models.Position, price float64, at time.Time, reason string) models.Position {
	var profit float64
	if p.Side == models.SideLong {
		profit = (price - p.EntryPrice) * p.Size
	} else {
		profit = (p.EntryPrice - price) * p.Size
	}
	ret := 0.0
	if p.EntryCollateralGross > 0 {
		ret = profit / p.EntryCollateralGross
	}

	p.ExitTime = &at
	p.ExitPrice = &price
	p.Profit = &profit
	p.ReturnPct = &ret
	p.ExitReason = reason
	return p
}

var _ domsvc.Simulator = (*PositionSimulator)(nil)
