package di

import (
	"context"
	"fmt"
	"time"

	"SignalSweep/internal/domain/repository"
	domsvc "SignalSweep/internal/domain/service"
	"SignalSweep/internal/handler/api"
	mid "SignalSweep/internal/middleware"
	internalrepo "SignalSweep/internal/repository"
	"SignalSweep/internal/services/signal"
	"SignalSweep/internal/usecase"
	"SignalSweep/pkg/cache"
	pkgch "SignalSweep/pkg/clickhouse"
	"SignalSweep/pkg/config"
	xhttp "SignalSweep/pkg/http"
	httpmw "SignalSweep/pkg/http/middleware"
	pkgkafka "SignalSweep/pkg/kafka"
	"SignalSweep/pkg/logger"
	"SignalSweep/pkg/metrics"
	"SignalSweep/pkg/server"
	"SignalSweep/pkg/util"
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx, cfg.ClickHouse.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideSampleSource selects the CSV or ClickHouse price history.
func ProvideSampleSource(cfg *config.Config, ch *pkgch.Client, l *logger.Logger) (repository.SampleSource, error) {
	switch cfg.Data.Source {
	case "clickhouse":
		if ch == nil {
			return nil, fmt.Errorf("data source clickhouse: client disabled")
		}
		from := util.ParseTimeDefault(cfg.Data.From, time.Time{})
		to := util.ParseTimeDefault(cfg.Data.To, time.Time{})
		return internalrepo.NewClickHouseSource(ch, cfg.Data.Table, cfg.Data.Symbol, from, to, l), nil
	default:
		return internalrepo.NewCSVSource(cfg.Data.Input), nil
	}
}

// ProvideResultSink stores run summaries in ClickHouse, or returns nil when disabled.
func ProvideResultSink(cfg *config.Config, ch *pkgch.Client) (repository.ResultSink, error) {
	if ch == nil {
		return nil, nil
	}
	store := internalrepo.NewClickHouseResultStore(ch, cfg.ClickHouse.ResultsTable)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(cfg.Kafka)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEventPublisher wraps the producer; nil producer means no publisher.
func ProvideEventPublisher(producer *pkgkafka.Producer) (repository.EventPublisher, func()) {
	if producer == nil {
		return nil, func() {}
	}
	pub := internalrepo.NewKafkaPublisher(producer)
	return pub, func() { _ = pub.Close() }
}

// ProvideEventLog opens the NDJSON journal, or returns nil without a path.
func ProvideEventLog(cfg *config.Config) (repository.EventLog, func(), error) {
	if cfg.Output.EventLog == "" {
		return nil, func() {}, nil
	}
	l, err := internalrepo.OpenNDJSONLog(cfg.Output.EventLog)
	if err != nil {
		return nil, nil, err
	}
	return l, func() { _ = l.Close() }, nil
}

// ProvideRedisCache connects to Redis, or returns nil when disabled.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rc, err := cache.NewRedisCache(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, func() { _ = rc.Close() }, nil
}

// ProvideSweepCache keeps sweep winners in Redis behind an in-process L1,
// or in memory only when Redis is disabled.
func ProvideSweepCache(cfg *config.Config, rc *cache.RedisCache) repository.SweepCache {
	mem := cache.NewMemoryCache(cache.WithMaxSize(cfg.Sweep.CacheEntries), cache.WithDefaultTTL(cfg.Sweep.CacheTTL))
	if rc == nil {
		return internalrepo.NewSweepCache(mem, cfg.Sweep.CacheTTL)
	}
	return internalrepo.NewSweepCache(cache.NewLayeredCache(rc, mem), cfg.Sweep.CacheTTL)
}

// ProvideEventPipeline starts the fill pipeline; cleanup drains it.
func ProvideEventPipeline(
	l *logger.Logger,
	journal repository.EventLog,
	pub repository.EventPublisher,
	m repository.Metrics,
) (*mid.EventPipeline, func()) {
	p := mid.NewEventPipeline(l,
		mid.WithJournal(journal),
		mid.WithPublisher(pub),
		mid.WithMetrics(m),
		mid.WithBufferSize(4096),
	)
	p.Start(context.Background())
	return p, func() { _ = p.Close() }
}

// ProvideEngine returns the rule-based decision engine.
func ProvideEngine() domsvc.DecisionEngine {
	return signal.NewEngine()
}

// ProvideRunner assembles the run orchestration.
func ProvideRunner(
	cfg *config.Config,
	l *logger.Logger,
	source repository.SampleSource,
	engine domsvc.DecisionEngine,
	sink repository.ResultSink,
	pub repository.EventPublisher,
	sc repository.SweepCache,
	m repository.Metrics,
	pipeline *mid.EventPipeline,
) *usecase.Runner {
	return usecase.NewRunner(source, engine,
		usecase.WithRunnerLogger(l),
		usecase.WithResultSink(sink),
		usecase.WithEventPublisher(pub),
		usecase.WithSweepCache(sc),
		usecase.WithRunnerMetrics(m),
		usecase.WithObserverFactory(pipeline.Observer),
		usecase.WithDefaultWorkers(cfg.Sweep.Workers),
	)
}

// ProvideHandler creates the HTTP handler. Enabled backends become
// readiness probes.
func ProvideHandler(
	cfg *config.Config,
	l *logger.Logger,
	runner *usecase.Runner,
	ch *pkgch.Client,
	rc *cache.RedisCache,
) *api.Handler {
	var opts []api.HandlerOption
	if ch != nil {
		opts = append(opts, api.WithReadinessProbe("clickhouse", ch.Health))
	}
	if rc != nil {
		opts = append(opts, api.WithReadinessProbe("redis", rc.Ping))
	}
	if cfg.Server.RateLimit > 0 {
		opts = append(opts, api.WithSweepLimiter(httpmw.NewLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)))
	}
	return api.NewHandler(l, runner, cfg.Backtest.Strategy, opts...)
}

// ProvideHTTPServer creates the echo server.
func ProvideHTTPServer(cfg *config.Config, l *logger.Logger, h *api.Handler) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(cfg.Server.MetricsEnabled),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application.
func ProvideApp(cfg *config.Config, l *logger.Logger, srv *xhttp.Server) *server.App {
	return server.New(cfg, l, srv)
}
