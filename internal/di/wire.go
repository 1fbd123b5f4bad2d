//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"SignalSweep/internal/usecase"
	"SignalSweep/pkg/config"
	"SignalSweep/pkg/server"
)

var runnerSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,

	// Infrastructure clients
	ProvideClickHouseClient,
	ProvideKafkaProducer,
	ProvideRedisCache,

	// Repositories
	ProvideSampleSource,
	ProvideResultSink,
	ProvideEventPublisher,
	ProvideEventLog,
	ProvideSweepCache,

	// Use cases
	ProvideEventPipeline,
	ProvideEngine,
	ProvideRunner,
)

// InitializeApp wires the HTTP service.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		runnerSet,
		ProvideHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeRunner wires the run orchestration used by the CLIs.
func InitializeRunner(cfg *config.Config) (*usecase.Runner, func(), error) {
	wire.Build(runnerSet)
	return nil, nil, nil
}
