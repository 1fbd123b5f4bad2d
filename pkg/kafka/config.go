package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// Config is the kafka section of the application config. NewProducer fills
// zero fields from the default tags.
type Config struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic" default:"signal-sweep.events"`
	RequiredAcks string        `yaml:"required_acks" default:"all" validate:"oneof=all one none"`
	Compression  string        `yaml:"compression" default:"snappy" validate:"oneof=none gzip snappy lz4 zstd"`
	MaxAttempts  int           `yaml:"max_attempts" default:"5" validate:"gte=1"`
	BatchSize    int           `yaml:"batch_size" default:"100" validate:"gte=1"`
	BatchTimeout time.Duration `yaml:"batch_timeout" default:"50ms"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	Async        bool          `yaml:"async"` // fire-and-forget writes
}

func (c Config) writer() *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        c.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: parseAcks(c.RequiredAcks),
		Compression:  parseCompression(c.Compression),
		MaxAttempts:  c.MaxAttempts,
		WriteTimeout: c.WriteTimeout,
		BatchSize:    c.BatchSize,
		BatchTimeout: c.BatchTimeout,
		Async:        c.Async,
	}
}

func parseAcks(s string) kafka.RequiredAcks {
	switch s {
	case "one":
		return kafka.RequireOne
	case "none":
		return kafka.RequireNone
	default:
		return kafka.RequireAll
	}
}

func parseCompression(s string) kafka.Compression {
	switch s {
	case "gzip":
		return kafka.Gzip
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	case "none":
		return 0
	default:
		return kafka.Snappy
	}
}
