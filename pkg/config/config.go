package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"SignalSweep/internal/domain/models"
	"SignalSweep/pkg/cache"
	"SignalSweep/pkg/clickhouse"
	"SignalSweep/pkg/kafka"
	"SignalSweep/pkg/logger"
)

type Config struct {
	Environment string            `yaml:"environment" default:"development" validate:"oneof=development staging production test"`
	Log         logger.Config     `yaml:"log"`
	Data        DataConfig        `yaml:"data"`
	Backtest    BacktestConfig    `yaml:"backtest"`
	Sweep       SweepConfig       `yaml:"sweep"`
	Output      OutputConfig      `yaml:"output"`
	Server      ServerConfig      `yaml:"server"`
	Kafka       kafka.Config      `yaml:"kafka"`
	ClickHouse  ClickHouseConfig  `yaml:"clickhouse"`
	Redis       cache.RedisConfig `yaml:"redis"`
}

// DataConfig selects where price history comes from.
type DataConfig struct {
	Source      string `yaml:"source" default:"csv" validate:"oneof=csv clickhouse"`
	Input       string `yaml:"input"` // CSV path (timestamp,price)
	SampleHours int    `yaml:"sample_hours" default:"1" validate:"gte=1,lte=168"`
	Symbol      string `yaml:"symbol"`
	Table       string `yaml:"table" default:"prices"`
	From        string `yaml:"from"` // optional RFC3339 bounds for ClickHouse
	To          string `yaml:"to"`
}

type BacktestConfig struct {
	models.SimulationSettings `yaml:",inline"`
	SizingFraction            float64               `yaml:"sizing_fraction" default:"0.5" validate:"gte=0,lte=1"`
	Strategy                  models.StrategyConfig `yaml:"strategy"`
	FloorPercentile           float64               `yaml:"floor_percentile" validate:"gte=0,lte=1"`
}

type SweepConfig struct {
	models.SimulationSettings `yaml:",inline"`
	Workers                   int               `yaml:"workers" validate:"gte=0"`
	Space                     models.SweepSpace `yaml:"space"`
	CacheTTL                  time.Duration     `yaml:"cache_ttl" default:"24h"`
	CacheEntries              int               `yaml:"cache_entries" default:"256" validate:"gte=1"` // in-process L1 size
}

type OutputConfig struct {
	EventLog   string `yaml:"event_log"` // NDJSON path, empty disables
	PrintCurve bool   `yaml:"print_curve"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"10m"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	MetricsEnabled  bool          `yaml:"metrics_enabled" default:"true"`
	// backtest/sweep requests per second per client, 0 disables
	RateLimit float64 `yaml:"rate_limit" default:"0.5" validate:"gte=0"`
	RateBurst int     `yaml:"rate_burst" default:"4" validate:"gte=1"`
}

// ClickHouseConfig adds the result table to the connection settings.
type ClickHouseConfig struct {
	clickhouse.Config `yaml:",inline"`
	ResultsTable      string `yaml:"results_table" default:"sweep_runs"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse applies defaults, overlays the YAML document and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SWEEP_INPUT"); v != "" {
		c.Data.Input = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks struct tags first, then rules spanning several fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	var errs []error
	switch c.Data.Source {
	case "csv":
		if c.Data.Input == "" {
			errs = append(errs, errors.New("data.input is required for the csv source"))
		}
	case "clickhouse":
		if !c.ClickHouse.Enabled {
			errs = append(errs, errors.New("data.source clickhouse requires clickhouse.enabled"))
		}
		if c.Data.Symbol == "" {
			errs = append(errs, errors.New("data.symbol is required for the clickhouse source"))
		}
	}
	for _, bound := range []string{c.Data.From, c.Data.To} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, bound); err != nil {
			errs = append(errs, fmt.Errorf("data bound %q: %w", bound, err))
		}
	}

	ma := c.Backtest.Strategy.MA
	if ma.ShortWindow >= ma.LongWindow {
		errs = append(errs, fmt.Errorf("backtest.strategy.ma: short window %d must be below long window %d", ma.ShortWindow, ma.LongWindow))
	}

	if err := c.Sweep.Space.Check(); err != nil {
		errs = append(errs, fmt.Errorf("sweep.space: %w", err))
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka.brokers cannot be empty when kafka is enabled"))
	}
	return errors.Join(errs...)
}
