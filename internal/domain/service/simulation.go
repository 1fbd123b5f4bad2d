package service

import "SignalSweep/internal/domain/models"

// DecisionEngine turns indicator state into an action for one step.
type DecisionEngine interface {
	Decide(prices []float64, mas models.MovingAverageSet, strategy models.StrategyConfig) models.Decision
}

// Simulator replays a price series under one candidate.
type Simulator interface {
	Run(samples []models.Sample, candidate models.Candidate) (*models.Result, error)
}

// SimulatorFactory builds an independent simulator per sweep worker.
type SimulatorFactory func() Simulator

// Observer receives simulation events. Implementations must be safe for
// concurrent use when shared by sweep workers.
type Observer interface {
	OnPositionClosed(p models.Position)
	OnTrade(t models.Trade)
	OnProgress(done, total int)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnPositionClosed(models.Position) {}
func (NopObserver) OnTrade(models.Trade)             {}
func (NopObserver) OnProgress(int, int)              {}

var _ Observer = NopObserver{}

// Observers fans every event out to each member in order.
type Observers []Observer

func (obs Observers) OnPositionClosed(p models.Position) {
	for _, o := range obs {
		o.OnPositionClosed(p)
	}
}

func (obs Observers) OnTrade(t models.Trade) {
	for _, o := range obs {
		o.OnTrade(t)
	}
}

func (obs Observers) OnProgress(done, total int) {
	for _, o := range obs {
		o.OnProgress(done, total)
	}
}

var _ Observer = Observers(nil)
