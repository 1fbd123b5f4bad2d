package repository

import (
	"context"

	"SignalSweep/internal/domain/models"
	drepo "SignalSweep/internal/domain/repository"
	pkgkafka "SignalSweep/pkg/kafka"
)

// Event types carried in the kafka event-type header.
const (
	EventRun            = "run"
	EventPositionClosed = "position_closed"
	EventTrade          = "trade"
)

// KafkaPublisher implements EventPublisher. Messages are keyed by run id so
// one run's events stay on one partition.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
}

func NewKafkaPublisher(producer *pkgkafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) PublishRun(ctx context.Context, rec *models.RunRecord) error {
	return p.producer.Publish(ctx, pkgkafka.Message{Key: rec.ID, Type: EventRun, Value: rec})
}

func (p *KafkaPublisher) PublishPosition(ctx context.Context, ev models.PositionEvent) error {
	return p.producer.Publish(ctx, pkgkafka.Message{Key: ev.RunID, Type: EventPositionClosed, Value: ev})
}

func (p *KafkaPublisher) PublishTrade(ctx context.Context, ev models.TradeEvent) error {
	return p.producer.Publish(ctx, pkgkafka.Message{Key: ev.RunID, Type: EventTrade, Value: ev})
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

var _ drepo.EventPublisher = (*KafkaPublisher)(nil)
