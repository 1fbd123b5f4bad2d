package usecase

import (
	"fmt"

	"SignalSweep/internal/domain/models"
	domsvc "SignalSweep/internal/domain/service"
)

// NewSimulator builds the simulator selected by settings.Mode.
func NewSimulator(settings models.SimulationSettings, engine domsvc.DecisionEngine, observer domsvc.Observer) (domsvc.Simulator, error) {
	switch settings.Mode {
	case models.ModePosition, "":
		return NewPositionSimulator(settings.InitialCash, engine, observer), nil
	case models.ModeSpot:
		return NewSpotSimulator(settings.InitialCash, settings.InitialCoin, settings.FeeBps, engine, observer), nil
	default:
		return nil, fmt.Errorf("unknown simulation mode: %s", settings.Mode)
	}
}

// SimulatorFactory returns a factory for sweep workers. Workers share the
// engine, which is stateless.
func SimulatorFactory(settings models.SimulationSettings, engine domsvc.DecisionEngine) (domsvc.SimulatorFactory, error) {
	if _, err := NewSimulator(settings, engine, nil); err != nil {
		return nil, err
	}
	return func() domsvc.Simulator {
		sim, _ := NewSimulator(settings, engine, nil)
		return sim
	}, nil
}
