package usecase

import (
	"time"

	"SignalSweep/internal/domain/models"
	domsvc "SignalSweep/internal/domain/service"
)

// SpotSimulator accumulates coin on buys and sells fractions of the holding
// against a running cost basis. Holdings left at the end are marked to market
// and never realized.
type SpotSimulator struct {
	initialCash float64
	initialCoin float64
	feeBps      float64
	engine      domsvc.DecisionEngine
	observer    domsvc.Observer
}

// NewSpotSimulator creates a spot-accumulation simulator. A nil observer
// discards events.
func NewSpotSimulator(initialCash, initialCoin, feeBps float64, engine domsvc.DecisionEngine, observer domsvc.Observer) *SpotSimulator {
	if observer == nil {
		observer = domsvc.NopObserver{}
	}
	return &SpotSimulator{
		initialCash: initialCash,
		initialCoin: initialCoin,
		feeBps:      feeBps,
		engine:      engine,
		observer:    observer,
	}
}

// spotBook is the mutable portfolio of one run.
type spotBook struct {
	cash       float64
	coin       float64
	basis      float64 // cost basis of the coin currently held
	avgEntry   float64
	inPosition bool
	entryTime  time.Time
}

// Run replays samples under the candidate.
func (s *SpotSimulator) Run(samples []models.Sample, candidate models.Candidate) (*models.Result, error) {
	if err := checkReplayInput(samples, candidate.Strategy); err != nil {
		return nil, err
	}

	first := samples[0].Price
	if first < 0 {
		first = 0
	}
	initialEquity := s.initialCash + s.initialCoin*first

	// Initial coin is booked as bought at the first price without fee.
	b := &spotBook{
		cash:       s.initialCash,
		coin:       s.initialCoin,
		basis:      s.initialCoin * first,
		inPosition: s.initialCoin > 0,
		entryTime:  samples[0].Timestamp,
	}
	if b.coin > 0 {
		b.avgEntry = first
	}

	feeMult := 1 - s.feeBps/10_000
	frac := clampFraction(candidate.SizingFraction)
	var trades []models.Trade

	mark := func(price float64) float64 { return b.cash + b.coin*price }

	curve := replay(samples, candidate.Strategy, s.engine, mark, func(sm models.Sample, d models.Decision) {
		switch d.Action {
		case models.ActionBuy:
			b.buy(sm, frac, feeMult)
		case models.ActionSell:
			if t, ok := b.sell(sm, frac, feeMult); ok {
				trades = append(trades, t)
				s.observer.OnTrade(t)
			}
		}
	})

	base := initialEquity
	if base <= 0 {
		base = 1
	}

	last := samples[len(samples)-1].Price
	res := &models.Result{
		Mode:          models.ModeSpot,
		InitialEquity: initialEquity,
		FinalEquity:   b.cash + b.coin*last,
		EquityCurve:   curve,
		Trades:        trades,
	}
	return finishResult(res, base, TradeWinRate(trades)), nil
}

func (b *spotBook) buy(at models.Sample, frac, feeMult float64) {
	if frac <= 0 || b.cash <= 0 || at.Price <= 0 {
		return
	}
	gross := b.cash * frac
	net := gross * feeMult
	qty := net / at.Price
	if gross <= 0 || qty <= 0 {
		return
	}

	if !b.inPosition && b.coin == 0 {
		b.inPosition = true
		b.entryTime = at.Timestamp
	}

	b.cash -= gross
	b.coin += qty
	b.basis += net
	if b.coin > 0 {
		b.avgEntry = b.basis / b.coin
	}
}

func (b *spotBook) sell(at models.Sample, frac, feeMult float64) (models.Trade, bool) {
	if frac <= 0 || b.coin <= 0 || at.Price <= 0 {
		return models.Trade{}, false
	}
	before := b.coin
	qty := before * frac
	if qty <= 0 {
		return models.Trade{}, false
	}
	exitValue := qty * at.Price * feeMult

	chunkBasis, entryPrice := 0.0, b.avgEntry
	if b.basis > 0 {
		chunkBasis = b.basis * (qty / before)
		b.basis -= chunkBasis
		entryPrice = chunkBasis / qty
	}

	b.cash += exitValue
	b.coin = before - qty

	ret := 0.0
	if chunkBasis > 0 {
		ret = exitValue/chunkBasis - 1
	}
	t := models.Trade{
		EntryTime:  b.entryTime,
		ExitTime:   at.Timestamp,
		EntryPrice: entryPrice,
		ExitPrice:  at.Price,
		EntryValue: chunkBasis,
		ExitValue:  exitValue,
		Profit:     exitValue - chunkBasis,
		ReturnPct:  ret,
	}

	if b.coin <= 0 {
		b.inPosition = false
		b.basis = 0
		b.avgEntry = 0
	}
	return t, true
}

var _ domsvc.Simulator = (*SpotSimulator)(nil)
