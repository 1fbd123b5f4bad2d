package repository

import (
	"context"

	"SignalSweep/internal/domain/models"
)

// SampleSource loads an ordered, resampled price history.
type SampleSource interface {
	Load(ctx context.Context, sampleHours int) ([]models.Sample, error)
	Name() string
}

// ResultSink persists run summaries.
type ResultSink interface {
	Save(ctx context.Context, rec *models.RunRecord) error
	Close() error
}

// EventPublisher emits realized fills and run summaries to a stream.
type EventPublisher interface {
	PublishRun(ctx context.Context, rec *models.RunRecord) error
	PublishPosition(ctx context.Context, ev models.PositionEvent) error
	PublishTrade(ctx context.Context, ev models.TradeEvent) error
	Close() error
}

// SweepCache memoizes sweep winners by a content key. TryLock guards a key
// while its sweep is running.
type SweepCache interface {
	Get(ctx context.Context, key string) (*models.SweepResult, error)
	Set(ctx context.Context, key string, res *models.SweepResult) error
	TryLock(ctx context.Context, key string) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// EventLog appends realized fills to a local journal.
type EventLog interface {
	AppendPosition(ev models.PositionEvent) error
	AppendTrade(ev models.TradeEvent) error
	Close() error
}

// Metrics records run, job and sweep outcomes.
type Metrics interface {
	RecordRun(kind string, mode models.Mode, ok bool)
	RecordJob(ok bool, seconds float64)
	RecordProgress(done, total int)
	RecordBestReturn(mode models.Mode, ret float64)
	RecordError(kind string)
}
