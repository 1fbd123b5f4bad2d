package usecase

import (
	"math"
	"sync"
	"time"

	"SignalSweep/internal/domain/models"
)

// scriptedEngine returns a fixed action keyed by the number of prices seen.
type scriptedEngine struct {
	script map[int]models.Action
}

func (e scriptedEngine) Decide(prices []float64, _ models.MovingAverageSet, _ models.StrategyConfig) models.Decision {
	if a, ok := e.script[len(prices)]; ok {
		return models.Decision{Action: a, Reason: "scripted " + a.String()}
	}
	return models.Decision{Action: models.ActionHold, Reason: "hold"}
}

// recordingObserver collects events for assertions.
type recordingObserver struct {
	mu        sync.Mutex
	positions []models.Position
	trades    []models.Trade
	progress  [][2]int
}

func (o *recordingObserver) OnPositionClosed(p models.Position) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.positions = append(o.positions, p)
}

func (o *recordingObserver) OnTrade(t models.Trade) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.trades = append(o.trades, t)
}

func (o *recordingObserver) OnProgress(done, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress = append(o.progress, [2]int{done, total})
}

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func hourly(prices ...float64) []models.Sample {
	out := make([]models.Sample, len(prices))
	for i, p := range prices {
		out[i] = models.Sample{Timestamp: t0.Add(time.Duration(i) * time.Hour), Price: p}
	}
	return out
}

// tinyMA needs three prices before the first decision.
var tinyMA = models.MAConfig{ShortWindow: 1, LongWindow: 2}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
