package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewProducerConfig(t *testing.T) {
	if _, err := NewProducer(Config{Topic: "t"}); err == nil {
		t.Fatalf("expected error without brokers")
	}

	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}, Compression: "zstd"})
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}
	defer p.Close()
	if p.Topic() != "signal-sweep.events" {
		t.Fatalf("topic default = %q", p.Topic())
	}
	w := p.writer.(*kafka.Writer)
	if w.Compression != kafka.Zstd || w.RequiredAcks != kafka.RequireAll || w.MaxAttempts != 5 || w.BatchSize != 100 {
		t.Fatalf("writer = %+v", w)
	}
}

func TestPublishBatchEncodesJSONAndHeaders(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "events", "snappy")

	err := p.PublishBatch(context.Background(), []Message{
		{Key: "run-1", Type: "run", Value: map[string]int{"closed": 3}},
		{Key: "run-1", Value: []byte("raw")},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(w.msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(w.msgs))
	}
	first := w.msgs[0]
	if string(first.Key) != "run-1" || string(first.Value) != `{"closed":3}` {
		t.Fatalf("unexpected message %s=%s", first.Key, first.Value)
	}
	if len(first.Headers) != 1 || first.Headers[0].Key != HeaderEventType || string(first.Headers[0].Value) != "run" {
		t.Fatalf("unexpected headers %+v", first.Headers)
	}
	if string(w.msgs[1].Value) != "raw" || len(w.msgs[1].Headers) != 0 {
		t.Fatalf("raw payload must pass through untouched")
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Fatalf("close: %v closed=%v", err, w.closed)
	}
}

func TestPublishWrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := newProducer(&fakeWriter{err: boom}, "events", "snappy")
	if err := p.Publish(context.Background(), Message{Key: "k", Value: "v"}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped broker error", err)
	}
}

func TestPublishRejectsUnencodableValue(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "events", "snappy")
	if err := p.Publish(context.Background(), Message{Value: make(chan int)}); err == nil {
		t.Fatalf("expected marshal error")
	}
	if len(w.msgs) != 0 {
		t.Fatalf("nothing should be written on encode failure")
	}
}
