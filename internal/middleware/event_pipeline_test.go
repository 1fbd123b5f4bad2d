package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"

	"SignalSweep/internal/domain/models"
)

type memJournal struct {
	mu        sync.Mutex
	positions []models.PositionEvent
	trades    []models.TradeEvent
}

func (j *memJournal) AppendPosition(ev models.PositionEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.positions = append(j.positions, ev)
	return nil
}

func (j *memJournal) AppendTrade(ev models.TradeEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.trades = append(j.trades, ev)
	return nil
}

func (j *memJournal) Close() error { return nil }

type memPublisher struct {
	mu        sync.Mutex
	fail      bool
	positions []models.PositionEvent
	trades    []models.TradeEvent
}

func (m *memPublisher) PublishRun(context.Context, *models.RunRecord) error { return nil }

func (m *memPublisher) PublishPosition(_ context.Context, ev models.PositionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("down")
	}
	m.positions = append(m.positions, ev)
	return nil
}

func (m *memPublisher) PublishTrade(_ context.Context, ev models.TradeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("down")
	}
	m.trades = append(m.trades, ev)
	return nil
}

func (m *memPublisher) Close() error { return nil }

type countingMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func (c *countingMetrics) RecordRun(string, models.Mode, bool)   {}
func (c *countingMetrics) RecordJob(bool, float64)               {}
func (c *countingMetrics) RecordProgress(int, int)               {}
func (c *countingMetrics) RecordBestReturn(models.Mode, float64) {}
func (c *countingMetrics) RecordError(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.errors == nil {
		c.errors = map[string]int{}
	}
	c.errors[kind]++
}

func TestEventPipelineFansOut(t *testing.T) {
	j := &memJournal{}
	pub := &memPublisher{}
	p := NewEventPipeline(nil, WithJournal(j), WithPublisher(pub))
	p.Start(context.Background())

	obs := p.Observer("run-1")
	profit := 5.0
	obs.OnPositionClosed(models.Position{Side: models.SideLong, Profit: &profit})
	obs.OnTrade(models.Trade{Profit: 1})
	obs.OnTrade(models.Trade{Profit: 2})
	obs.OnProgress(1, 2)

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(j.positions) != 1 || len(j.trades) != 2 {
		t.Fatalf("journal positions=%d trades=%d", len(j.positions), len(j.trades))
	}
	if len(pub.positions) != 1 || len(pub.trades) != 2 {
		t.Fatalf("published positions=%d trades=%d", len(pub.positions), len(pub.trades))
	}
	if pub.positions[0].RunID != "run-1" || pub.positions[0].Type != "position_closed" {
		t.Fatalf("position event = %+v", pub.positions[0])
	}
	if pub.trades[1].Trade.Profit != 2 || pub.trades[1].Type != "trade" {
		t.Fatalf("trade order lost: %+v", pub.trades)
	}
}

func TestEventPipelineDrainsWithoutStart(t *testing.T) {
	pub := &memPublisher{}
	p := NewEventPipeline(nil, WithPublisher(pub))
	p.Observer("r").OnTrade(models.Trade{})
	_ = p.Close()
	if len(pub.trades) != 1 {
		t.Fatalf("expected drained trade, got %d", len(pub.trades))
	}
	// after close events are dropped, not panicking
	p.Observer("r").OnTrade(models.Trade{})
	if err := p.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestEventPipelineBufferFull(t *testing.T) {
	m := &countingMetrics{}
	pub := &memPublisher{}
	p := NewEventPipeline(nil, WithPublisher(pub), WithMetrics(m), WithBufferSize(1))

	obs := p.Observer("r")
	obs.OnTrade(models.Trade{})
	obs.OnTrade(models.Trade{})
	_ = p.Close()

	if m.errors["event_buffer_full"] != 1 || len(pub.trades) != 1 {
		t.Fatalf("errors=%v published=%d", m.errors, len(pub.trades))
	}
}

func TestEventPipelinePublishError(t *testing.T) {
	m := &countingMetrics{}
	j := &memJournal{}
	p := NewEventPipeline(nil, WithJournal(j), WithPublisher(&memPublisher{fail: true}), WithMetrics(m))
	p.Start(context.Background())
	p.Observer("r").OnTrade(models.Trade{})
	_ = p.Close()

	if m.errors["event_publish"] != 1 {
		t.Fatalf("errors=%v", m.errors)
	}
	if len(j.trades) != 1 {
		t.Fatalf("journal must not depend on publisher")
	}
}
