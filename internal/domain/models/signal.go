package models

import "encoding/json"

// Action is the decision engine output.
type Action int

const (
	ActionHold Action = iota
	ActionBuy
	ActionSell
)

func (a Action) String() string {
	switch a {
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// MarshalJSON renders the action by name.
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// Decision is an action plus the reason it was taken (or vetoed).
type Decision struct {
	Action Action `json:"action"`
	Reason string `json:"reason"`
}

// Analysis is the engine's view of the most recent sample.
type Analysis struct {
	Last     Sample           `json:"last"`
	Averages MovingAverageSet `json:"averages"`
	Decision Decision         `json:"decision"`
	Strategy string           `json:"strategy"`
}
