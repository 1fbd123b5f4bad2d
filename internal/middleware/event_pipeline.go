package middleware

import (
	"context"
	"sync"
	"time"

	"SignalSweep/internal/domain/models"
	domrepo "SignalSweep/internal/domain/repository"
	domsvc "SignalSweep/internal/domain/service"
	"SignalSweep/internal/repository"
	"SignalSweep/pkg/logger"
)

// envelope is one buffered event; exactly one of position/trade is set.
type envelope struct {
	position *models.PositionEvent
	trade    *models.TradeEvent
}

// EventPipeline sits between the simulators and the event outputs.
// Fills are appended to the local journal synchronously and buffered for
// the stream publisher, which is drained by a background goroutine.
type EventPipeline struct {
	log       *logger.Logger
	journal   domrepo.EventLog
	publisher domrepo.EventPublisher
	metrics   domrepo.Metrics
	timeout   time.Duration

	bufCh   chan envelope
	done    chan struct{}
	mu      sync.RWMutex
	started bool
	closed  bool
}

type PipelineOption func(*EventPipeline)

// WithJournal appends every fill to l.
func WithJournal(l domrepo.EventLog) PipelineOption {
	return func(p *EventPipeline) { p.journal = l }
}

// WithPublisher streams every fill to pub.
func WithPublisher(pub domrepo.EventPublisher) PipelineOption {
	return func(p *EventPipeline) { p.publisher = pub }
}

func WithMetrics(m domrepo.Metrics) PipelineOption {
	return func(p *EventPipeline) { p.metrics = m }
}

// WithBufferSize sets how many fills may wait for the publisher.
func WithBufferSize(n int) PipelineOption {
	return func(p *EventPipeline) {
		if n > 0 {
			p.bufCh = make(chan envelope, n)
		}
	}
}

// WithPublishTimeout bounds each publish call.
func WithPublishTimeout(d time.Duration) PipelineOption {
	return func(p *EventPipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func NewEventPipeline(l *logger.Logger, opts ...PipelineOption) *EventPipeline {
	if l == nil {
		l = logger.Nop()
	}
	p := &EventPipeline{
		log:     l,
		timeout: 5 * time.Second,
		bufCh:   make(chan envelope, 1000),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the publisher drain loop. It is a no-op without a publisher.
func (p *EventPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed || p.publisher == nil {
		return
	}
	p.started = true

	go func() {
		defer close(p.done)
		for ev := range p.bufCh {
			p.publish(ctx, ev)
		}
	}()
}

// Close stops accepting events and waits until buffered ones are published.
func (p *EventPipeline) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	started := p.started
	close(p.bufCh)
	p.mu.Unlock()

	if started {
		<-p.done
	} else if p.publisher != nil {
		for ev := range p.bufCh {
			p.publish(context.Background(), ev)
		}
	}
	return nil
}

// Observer returns the observer of run runID.
func (p *EventPipeline) Observer(runID string) domsvc.Observer {
	return &runObserver{p: p, runID: runID}
}

func (p *EventPipeline) enqueue(ev envelope) {
	if p.publisher == nil {
		return
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.recordError("event_pipeline_closed")
		return
	}
	select {
	case p.bufCh <- ev:
	default:
		p.recordError("event_buffer_full")
		p.log.Warn("event buffer full, dropping event")
	}
}

func (p *EventPipeline) publish(ctx context.Context, ev envelope) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	var err error
	switch {
	case ev.position != nil:
		err = p.publisher.PublishPosition(ctx, *ev.position)
	case ev.trade != nil:
		err = p.publisher.PublishTrade(ctx, *ev.trade)
	}
	if err != nil {
		p.recordError("event_publish")
		p.log.Error("publish event failed", logger.Error(err))
	}
}

func (p *EventPipeline) recordError(kind string) {
	if p.metrics != nil {
		p.metrics.RecordError(kind)
	}
}

type runObserver struct {
	p     *EventPipeline
	runID string
}

func (o *runObserver) OnPositionClosed(pos models.Position) {
	ev := models.PositionEvent{RunID: o.runID, Type: repository.EventPositionClosed, Position: pos}
	o.p.log.Debug("position closed",
		logger.String("run_id", o.runID),
		logger.String("side", pos.Side.String()),
		logger.Float64("profit", pos.RealizedProfit()),
		logger.String("exit_reason", pos.ExitReason),
	)
	if o.p.journal != nil {
		if err := o.p.journal.AppendPosition(ev); err != nil {
			o.p.recordError("event_journal")
			o.p.log.Error("journal position failed", logger.String("run_id", o.runID), logger.Error(err))
		}
	}
	o.p.enqueue(envelope{position: &ev})
}

func (o *runObserver) OnTrade(t models.Trade) {
	ev := models.TradeEvent{RunID: o.runID, Type: repository.EventTrade, Trade: t}
	o.p.log.Debug("trade realized",
		logger.String("run_id", o.runID),
		logger.Float64("profit", t.Profit),
		logger.Float64("exit_price", t.ExitPrice),
	)
	if o.p.journal != nil {
		if err := o.p.journal.AppendTrade(ev); err != nil {
			o.p.recordError("event_journal")
			o.p.log.Error("journal trade failed", logger.String("run_id", o.runID), logger.Error(err))
		}
	}
	o.p.enqueue(envelope{trade: &ev})
}

func (o *runObserver) OnProgress(int, int) {}
