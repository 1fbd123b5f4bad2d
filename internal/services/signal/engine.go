package signal

import (
	"fmt"
	"strings"

	"SignalSweep/internal/domain/models"
	domsvc "SignalSweep/internal/domain/service"
	"SignalSweep/internal/services/indicators"
)

const noMatchReason = "no strategy matched"

// Engine evaluates the volatility pre-filter and then the rule list; the
// first non-vetoed rule wins.
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine over the default rule priority.
func NewEngine() *Engine {
	return &Engine{rules: Rules}
}

// Decide returns the action for the last price of prices.
func (e *Engine) Decide(prices []float64, mas models.MovingAverageSet, strategy models.StrategyConfig) models.Decision {
	if len(prices) == 0 {
		return models.Decision{Action: models.ActionHold, Reason: "insufficient data: no prices"}
	}

	if vf := strategy.Filters.Volatility; vf != nil {
		vol, ok := indicators.VolatilityFraction(prices, vf.Period)
		if !ok {
			return models.Decision{
				Action: models.ActionHold,
				Reason: fmt.Sprintf("insufficient data for volatility filter (period=%d)", vf.Period),
			}
		}
		if vol < vf.Floor {
			return models.Decision{
				Action: models.ActionHold,
				Reason: fmt.Sprintf("Volatility too low: %.3f%% < floor %.3f%%", vol*100, vf.Floor*100),
			}
		}
	}

	ctx := NewStepContext(prices, mas, strategy)
	var blocked []string
	for _, rule := range e.rules {
		out := rule(ctx)
		switch out.Kind {
		case Fired:
			return models.Decision{Action: out.Action, Reason: out.Reason}
		case Blocked:
			blocked = append(blocked, out.Reason)
		}
	}

	if len(blocked) > 0 {
		return models.Decision{Action: models.ActionHold, Reason: strings.Join(blocked, "; ")}
	}
	return models.Decision{Action: models.ActionHold, Reason: noMatchReason}
}

var _ domsvc.DecisionEngine = (*Engine)(nil)
