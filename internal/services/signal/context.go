package signal

import (
	"fmt"

	"SignalSweep/internal/domain/models"
	"SignalSweep/internal/services/indicators"
)

// StepContext is the gate state of one evaluation step. It is computed once
// and shared read-only by every rule.
type StepContext struct {
	Prices   []float64
	Last     float64
	MAs      models.MovingAverageSet
	Strategy models.StrategyConfig

	Uptrend   bool
	Downtrend bool
	AboveBoth bool
	BelowBoth bool
	Regime    models.Regime
}

// NewStepContext derives trend, price confirmation and regime gates.
// prices must be non-empty.
func NewStepContext(prices []float64, mas models.MovingAverageSet, strategy models.StrategyConfig) *StepContext {
	last := prices[len(prices)-1]
	c := &StepContext{
		Prices:    prices,
		Last:      last,
		MAs:       mas,
		Strategy:  strategy,
		Uptrend:   mas.Short > mas.Long && mas.Long >= mas.PrevLong,
		Downtrend: mas.Short < mas.Long && mas.Long <= mas.PrevLong,
		AboveBoth: last > mas.Short && last > mas.Long,
		BelowBoth: last < mas.Short && last < mas.Long,
		Regime:    models.RegimeSideways,
	}
	if rf := strategy.Filters.Regime; rf != nil {
		c.Regime = indicators.DetectRegime(prices, *rf)
	}
	return c
}

// Veto returns why an action is blocked by the configured filters, or "".
// Filters are checked in order: trend, price confirmation, regime.
func (c *StepContext) Veto(a models.Action) string {
	f := c.Strategy.Filters
	short, long := c.Strategy.MA.ShortWindow, c.Strategy.MA.LongWindow

	switch a {
	case models.ActionBuy:
		if f.RequireTrendFilter && !c.Uptrend {
			return fmt.Sprintf("trend filter: no uptrend (SMA%d > SMA%d with SMA%d rising)", short, long, long)
		}
		if f.RequirePriceConfirmation && !c.AboveBoth {
			return fmt.Sprintf("price confirmation: price not above SMA%d and SMA%d", short, long)
		}
		if f.Regime != nil && c.Regime != models.RegimeTrendingUp {
			return fmt.Sprintf("regime filter: regime is %s, need %s", c.Regime, models.RegimeTrendingUp)
		}
	case models.ActionSell:
		if f.RequireTrendFilter && !c.Downtrend {
			return fmt.Sprintf("trend filter: no downtrend (SMA%d < SMA%d with SMA%d falling)", short, long, long)
		}
		if f.RequirePriceConfirmation && !c.BelowBoth {
			return fmt.Sprintf("price confirmation: price not below SMA%d and SMA%d", short, long)
		}
		if f.Regime != nil && c.Regime != models.RegimeTrendingDown {
			return fmt.Sprintf("regime filter: regime is %s, need %s", c.Regime, models.RegimeTrendingDown)
		}
	}
	return ""
}
