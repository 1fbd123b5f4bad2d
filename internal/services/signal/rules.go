package signal

import (
	"fmt"

	"SignalSweep/internal/domain/models"
	"SignalSweep/internal/services/patterns"
)

// OutcomeKind tags a rule result.
type OutcomeKind int

const (
	NoMatch OutcomeKind = iota
	Blocked
	Fired
)

// Outcome of a single rule.
type Outcome struct {
	Kind   OutcomeKind
	Action models.Action
	Reason string
}

// Rule is a pure function over the step context.
type Rule func(c *StepContext) Outcome

// Rules in priority order. Disabled rules return NoMatch.
var Rules = []Rule{
	BreakoutRule,
	PullbackRule,
	CrossoverRule,
	BiasRule,
}

func gate(c *StepContext, a models.Action, reason string) Outcome {
	if veto := c.Veto(a); veto != "" {
		return Outcome{Kind: Blocked, Action: a, Reason: fmt.Sprintf("%s vetoed by %s", reason, veto)}
	}
	return Outcome{Kind: Fired, Action: a, Reason: reason}
}

// BreakoutRule: breakout -> buy, breakdown -> sell.
func BreakoutRule(c *StepContext) Outcome {
	cfg := c.Strategy.Breakout
	if cfg == nil {
		return Outcome{}
	}
	if patterns.BreakoutAboveRecentHigh(c.Prices, cfg.Lookback) {
		return gate(c, models.ActionBuy, fmt.Sprintf("Breakout above recent high (lookback=%d)", cfg.Lookback))
	}
	if patterns.BreakdownBelowRecentLow(c.Prices, cfg.Lookback) {
		return gate(c, models.ActionSell, fmt.Sprintf("Breakdown below recent low (lookback=%d)", cfg.Lookback))
	}
	return Outcome{}
}

// PullbackRule: bounce off the short SMA -> buy, rejection -> sell.
func PullbackRule(c *StepContext) Outcome {
	cfg := c.Strategy.Pullback
	if cfg == nil {
		return Outcome{}
	}
	short := c.Strategy.MA.ShortWindow
	if patterns.PullbackAndBounce(c.Prices, c.MAs.Short, cfg.BounceTolerance) {
		return gate(c, models.ActionBuy, fmt.Sprintf("Pullback to SMA%d and bounce", short))
	}
	if patterns.PullbackAndReject(c.Prices, c.MAs.Short, cfg.RejectTolerance) {
		return gate(c, models.ActionSell, fmt.Sprintf("Pullback to SMA%d and rejection", short))
	}
	return Outcome{}
}

// CrossoverRule fires on a fresh golden or death cross only.
func CrossoverRule(c *StepContext) Outcome {
	if !c.Strategy.EnableCrossovers {
		return Outcome{}
	}
	m := c.MAs
	short, long := c.Strategy.MA.ShortWindow, c.Strategy.MA.LongWindow
	if m.PrevShort <= m.PrevLong && m.Short > m.Long {
		return gate(c, models.ActionBuy, fmt.Sprintf("Golden Cross (SMA%d crossed above SMA%d)", short, long))
	}
	if m.PrevShort >= m.PrevLong && m.Short < m.Long {
		return gate(c, models.ActionSell, fmt.Sprintf("Death Cross (SMA%d crossed below SMA%d)", short, long))
	}
	return Outcome{}
}

// BiasRule follows the current SMA ordering without requiring a cross.
func BiasRule(c *StepContext) Outcome {
	if !c.Strategy.EnableBiasOnly {
		return Outcome{}
	}
	m := c.MAs
	short, long := c.Strategy.MA.ShortWindow, c.Strategy.MA.LongWindow
	switch {
	case m.Short > m.Long:
		return gate(c, models.ActionBuy, fmt.Sprintf("Long bias (SMA%d > SMA%d)", short, long))
	case m.Short < m.Long:
		return gate(c, models.ActionSell, fmt.Sprintf("Short bias (SMA%d < SMA%d)", short, long))
	}
	return Outcome{}
}
