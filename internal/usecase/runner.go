package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"SignalSweep/internal/domain/models"
	drepo "SignalSweep/internal/domain/repository"
	domsvc "SignalSweep/internal/domain/service"
	"SignalSweep/internal/services/indicators"
	"SignalSweep/pkg/cache"
	"SignalSweep/pkg/logger"
)

// ErrSweepInProgress is returned when an identical sweep holds the cache lock.
var ErrSweepInProgress = errors.New("identical sweep already running")

const (
	KindBacktest = "backtest"
	KindSweep    = "sweep"
)

// ObserverFactory builds the event observer of one run.
type ObserverFactory func(runID string) domsvc.Observer

// BuyAndHold is the passive benchmark of a run.
type BuyAndHold struct {
	Equity    float64 `json:"equity"`
	ReturnPct float64 `json:"return_pct"`
}

// BacktestParams selects the data and the single candidate to replay.
type BacktestParams struct {
	SampleHours    int
	Settings       models.SimulationSettings
	SizingFraction float64
	Strategy       models.StrategyConfig
	// FloorPercentile > 0 replaces the volatility floor with the given
	// percentile of the series' own volatility history.
	FloorPercentile float64
}

// BacktestReport is the outcome of Runner.Backtest.
type BacktestReport struct {
	RunID      string            `json:"run_id"`
	Source     string            `json:"source"`
	Samples    int               `json:"samples"`
	Candidate  models.Candidate  `json:"candidate"`
	Result     *models.Result    `json:"result"`
	BuyAndHold *BuyAndHold       `json:"buy_and_hold,omitempty"`
	Record     *models.RunRecord `json:"record"`
}

// SweepParams selects the data and the grid of a sweep.
type SweepParams struct {
	SampleHours int
	Settings    models.SimulationSettings
	Workers     int
	Space       models.SweepSpace
}

// SweepReport is the outcome of Runner.Sweep.
type SweepReport struct {
	RunID      string              `json:"run_id"`
	Source     string              `json:"source"`
	Samples    int                 `json:"samples"`
	Best       *models.SweepResult `json:"best"`
	BuyAndHold *BuyAndHold         `json:"buy_and_hold,omitempty"`
	Cached     bool                `json:"cached"`
	Took       time.Duration       `json:"took_ns"`
	Record     *models.RunRecord   `json:"record,omitempty"`
}

// Runner ties a sample source to the simulators and to the optional
// result sink, event publisher and sweep cache.
type Runner struct {
	source      drepo.SampleSource
	engine      domsvc.DecisionEngine
	sink        drepo.ResultSink
	publisher   drepo.EventPublisher
	cache       drepo.SweepCache
	metrics     drepo.Metrics
	observers   ObserverFactory
	log         *logger.Logger
	workers     int
	sideTimeout time.Duration
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

func WithResultSink(s drepo.ResultSink) RunnerOption {
	return func(r *Runner) { r.sink = s }
}

func WithEventPublisher(p drepo.EventPublisher) RunnerOption {
	return func(r *Runner) { r.publisher = p }
}

func WithSweepCache(c drepo.SweepCache) RunnerOption {
	return func(r *Runner) { r.cache = c }
}

func WithRunnerMetrics(m drepo.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithObserverFactory sets the per-run observer of realized fills.
func WithObserverFactory(f ObserverFactory) RunnerOption {
	return func(r *Runner) { r.observers = f }
}

func WithRunnerLogger(l *logger.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithDefaultWorkers is used when SweepParams.Workers is 0.
func WithDefaultWorkers(n int) RunnerOption {
	return func(r *Runner) { r.workers = n }
}

// NewRunner creates a Runner.
func NewRunner(source drepo.SampleSource, engine domsvc.DecisionEngine, opts ...RunnerOption) *Runner {
	r := &Runner{
		source:      source,
		engine:      engine,
		log:         logger.Nop(),
		sideTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Source names the configured sample source.
func (r *Runner) Source() string {
	return r.source.Name()
}

func (r *Runner) load(ctx context.Context, sampleHours int) ([]models.Sample, error) {
	start := time.Now()
	samples, err := r.source.Load(ctx, sampleHours)
	if err != nil {
		r.recordError("load")
		return nil, fmt.Errorf("load samples: %w", err)
	}
	r.log.Info("samples loaded",
		logger.String("source", r.source.Name()),
		logger.Int("samples", len(samples)),
		logger.Int("sample_hours", sampleHours),
		logger.Duration("took_ms", time.Since(start)),
	)
	return samples, nil
}

// Signal reports the engine decision at the latest sample.
func (r *Runner) Signal(ctx context.Context, sampleHours int, strategy models.StrategyConfig) (*models.Analysis, error) {
	samples, err := r.load(ctx, sampleHours)
	if err != nil {
		return nil, err
	}
	return AnalyzeLatest(samples, strategy, r.engine)
}

// Backtest replays one candidate over the loaded series.
func (r *Runner) Backtest(ctx context.Context, p BacktestParams) (*BacktestReport, error) {
	samples, err := r.load(ctx, p.SampleHours)
	if err != nil {
		return nil, err
	}

	if p.FloorPercentile > 0 {
		p.Strategy = calibrateFloor(samples, p.Strategy, p.FloorPercentile)
	}

	runID := uuid.NewString()
	sim, err := NewSimulator(p.Settings, r.engine, r.observer(runID))
	if err != nil {
		return nil, err
	}

	candidate := models.Candidate{SizingFraction: p.SizingFraction, Strategy: p.Strategy}
	res, err := sim.Run(samples, candidate)
	r.recordRun(KindBacktest, p.Settings.Mode, err == nil)
	if err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}

	rec := newRunRecord(runID, KindBacktest, candidate, res, len(samples))
	r.persist(ctx, rec)

	r.log.Info("backtest finished",
		logger.String("run_id", runID),
		logger.String("strategy", rec.Strategy),
		logger.Float64("total_return_pct", res.TotalReturnPct*100),
		logger.Int("closed", res.Closed()),
	)

	return &BacktestReport{
		RunID:      runID,
		Source:     r.source.Name(),
		Samples:    len(samples),
		Candidate:  candidate,
		Result:     res,
		BuyAndHold: buyAndHold(samples, p.Settings),
		Record:     rec,
	}, nil
}

// Sweep searches the grid for the best candidate. Identical sweeps over the
// same data are served from the cache when one is configured. progress may be nil.
func (r *Runner) Sweep(ctx context.Context, p SweepParams, progress domsvc.Observer) (*SweepReport, error) {
	start := time.Now()
	samples, err := r.load(ctx, p.SampleHours)
	if err != nil {
		return nil, err
	}

	report := &SweepReport{
		RunID:      uuid.NewString(),
		Source:     r.source.Name(),
		Samples:    len(samples),
		BuyAndHold: buyAndHold(samples, p.Settings),
	}

	key, err := SweepKey(samples, p.Settings, p.Space)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		best, err := r.cache.Get(ctx, key)
		switch {
		case err == nil:
			r.log.Info("sweep served from cache", logger.String("key", key))
			report.Best = best
			report.Cached = true
			report.Took = time.Since(start)
			return report, nil
		case !errors.Is(err, cache.ErrCacheMiss):
			r.recordError("cache")
			r.log.Warn("sweep cache get failed", logger.String("key", key), logger.Error(err))
		}

		ok, err := r.cache.TryLock(ctx, key)
		if err != nil {
			r.recordError("cache")
			r.log.Warn("sweep cache lock failed", logger.String("key", key), logger.Error(err))
		} else if !ok {
			return nil, ErrSweepInProgress
		} else {
			defer func() {
				if err := r.cache.Unlock(context.Background(), key); err != nil {
					r.log.Warn("sweep cache unlock failed", logger.String("key", key), logger.Error(err))
				}
			}()
		}
	}

	best, err := r.runSweep(ctx, samples, p, progress)
	r.recordRun(KindSweep, p.Settings.Mode, err == nil)
	if err != nil {
		return nil, err
	}
	report.Best = best
	report.Took = time.Since(start)

	if r.metrics != nil {
		r.metrics.RecordBestReturn(p.Settings.Mode, best.Result.TotalReturnPct)
	}

	// Only the winner's fills are reported; sweep workers run unobserved.
	replayEvents(r.observer(report.RunID), best.Result)

	report.Record = newRunRecord(report.RunID, KindSweep, best.Candidate, best.Result, len(samples))
	r.persist(ctx, report.Record)

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, best); err != nil {
			r.recordError("cache")
			r.log.Warn("sweep cache set failed", logger.String("key", key), logger.Error(err))
		}
	}

	r.log.Info("sweep finished",
		logger.String("run_id", report.RunID),
		logger.Int("jobs", best.Jobs),
		logger.Int("failed", best.Failed),
		logger.String("strategy", report.Record.Strategy),
		logger.Float64("sizing_fraction", best.Candidate.SizingFraction),
		logger.Float64("total_return_pct", best.Result.TotalReturnPct*100),
		logger.Duration("took_ms", report.Took),
	)
	return report, nil
}

func (r *Runner) runSweep(ctx context.Context, samples []models.Sample, p SweepParams, progress domsvc.Observer) (*models.SweepResult, error) {
	strategies, err := GenerateStrategies(p.Space)
	if err != nil {
		return nil, fmt.Errorf("generate strategies: %w", err)
	}
	jobs := GenerateJobs(strategies, p.Space.FractionSteps, p.Space.MaxFraction)

	factory, err := SimulatorFactory(p.Settings, r.engine)
	if err != nil {
		return nil, err
	}

	workers := p.Workers
	if workers <= 0 {
		workers = r.workers
	}

	obs := domsvc.Observers{newProgressLogger(r.log)}
	if progress != nil {
		obs = append(obs, progress)
	}

	r.log.Info("sweep started",
		logger.Int("strategies", len(strategies)),
		logger.Int("jobs", len(jobs)),
		logger.Int("workers", workers),
		logger.String("mode", string(p.Settings.Mode)),
	)

	sw := NewSweeper(factory,
		WithWorkers(workers),
		WithProgressObserver(obs),
		WithSweepMetrics(r.metrics),
		WithSweepLogger(r.log),
	)
	return sw.FindBest(ctx, samples, jobs)
}

func (r *Runner) observer(runID string) domsvc.Observer {
	if r.observers == nil {
		return domsvc.NopObserver{}
	}
	return r.observers(runID)
}

// persist stores and publishes a run summary. Failures are logged, not returned.
func (r *Runner) persist(ctx context.Context, rec *models.RunRecord) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.sideTimeout)
	defer cancel()

	if r.sink != nil {
		if err := r.sink.Save(ctx, rec); err != nil {
			r.recordError("sink")
			r.log.Error("save run failed", logger.String("run_id", rec.ID), logger.Error(err))
		}
	}
	if r.publisher != nil {
		if err := r.publisher.PublishRun(ctx, rec); err != nil {
			r.recordError("publish")
			r.log.Error("publish run failed", logger.String("run_id", rec.ID), logger.Error(err))
		}
	}
}

func (r *Runner) recordRun(kind string, mode models.Mode, ok bool) {
	if r.metrics != nil {
		r.metrics.RecordRun(kind, mode, ok)
	}
}

func (r *Runner) recordError(kind string) {
	if r.metrics != nil {
		r.metrics.RecordError(kind)
	}
}

func newRunRecord(runID, kind string, c models.Candidate, res *models.Result, samples int) *models.RunRecord {
	return &models.RunRecord{
		ID:             runID,
		Kind:           kind,
		Mode:           res.Mode,
		Strategy:       c.Strategy.Describe(),
		SizingFraction: c.SizingFraction,
		InitialEquity:  res.InitialEquity,
		FinalEquity:    res.FinalEquity,
		TotalReturnPct: res.TotalReturnPct,
		MaxDrawdownPct: res.MaxDrawdownPct,
		WinRatePct:     res.WinRatePct,
		Closed:         res.Closed(),
		Samples:        samples,
		CreatedAt:      time.Now().UTC(),
	}
}

// calibrateFloor keeps the configured volatility period, or the default one,
// and derives the floor from the series. The strategy is returned unchanged
// when the series is too short.
func calibrateFloor(samples []models.Sample, s models.StrategyConfig, percentile float64) models.StrategyConfig {
	period := models.DefaultVolatilityFilter().Period
	if s.Filters.Volatility != nil {
		period = s.Filters.Volatility.Period
	}
	vf, ok := indicators.VolatilityFloorFromHistory(models.Prices(samples), period, percentile)
	if !ok {
		return s
	}
	s.Filters.Volatility = &vf
	return s
}

func replayEvents(o domsvc.Observer, res *models.Result) {
	for _, p := range res.Positions {
		o.OnPositionClosed(p)
	}
	for _, t := range res.Trades {
		o.OnTrade(t)
	}
}

func buyAndHold(samples []models.Sample, s models.SimulationSettings) *BuyAndHold {
	equity, ok := BuyAndHoldEquity(samples, s.InitialCash, s.InitialCoin)
	if !ok {
		return nil
	}
	bh := &BuyAndHold{Equity: equity}
	if base := s.InitialCash + s.InitialCoin*samples[0].Price; base > 0 {
		bh.ReturnPct = equity/base - 1
	}
	return bh
}

// SweepKey fingerprints the series, the settings and the space.
func SweepKey(samples []models.Sample, s models.SimulationSettings, space models.SweepSpace) (string, error) {
	settings, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("sweep key: %w", err)
	}
	grid, err := json.Marshal(space)
	if err != nil {
		return "", fmt.Errorf("sweep key: %w", err)
	}
	return cache.HashKey("sweep", fingerprint(samples), settings, grid), nil
}

func fingerprint(samples []models.Sample) []byte {
	h := sha256.New()
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(len(samples)))
	h.Write(buf[:8])
	for _, s := range samples {
		binary.BigEndian.PutUint64(buf[:8], uint64(s.Timestamp.UnixNano()))
		binary.BigEndian.PutUint64(buf[8:], math.Float64bits(s.Price))
		h.Write(buf[:])
	}
	return h.Sum(nil)
}

type progressLogger struct {
	domsvc.NopObserver
	log *logger.Logger
}

func newProgressLogger(l *logger.Logger) progressLogger {
	return progressLogger{log: l}
}

func (p progressLogger) OnProgress(done, total int) {
	if done != total && done%(max(total/10, 1)) != 0 {
		return
	}
	p.log.Info("sweep progress", logger.Int("done", done), logger.Int("total", total))
}
