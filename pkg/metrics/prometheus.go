package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"SignalSweep/internal/domain/models"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal   *prometheus.CounterVec
	jobsTotal   *prometheus.CounterVec
	jobDuration prometheus.Histogram
	progress    prometheus.Gauge
	bestReturn  *prometheus.GaugeVec
	errorsTotal *prometheus.CounterVec
}

// New creates a recorder registered on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		runsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signal_sweep_runs_total",
				Help: "Total number of backtest and sweep runs",
			},
			[]string{"kind", "mode", "status"},
		),
		jobsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signal_sweep_jobs_total",
				Help: "Sweep jobs by outcome",
			},
			[]string{"outcome"},
		),
		jobDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "signal_sweep_job_duration_seconds",
				Help:    "Duration of a single sweep job in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
		),
		progress: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "signal_sweep_progress_ratio",
				Help: "Completed fraction of the running sweep",
			},
		),
		bestReturn: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "signal_sweep_best_return_ratio",
				Help: "Total return of the last sweep winner",
			},
			[]string{"mode"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signal_sweep_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

func (r *Recorder) RecordRun(kind string, mode models.Mode, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	r.runsTotal.WithLabelValues(kind, string(mode), status).Inc()
}

func (r *Recorder) RecordJob(ok bool, seconds float64) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	r.jobsTotal.WithLabelValues(outcome).Inc()
	r.jobDuration.Observe(seconds)
}

func (r *Recorder) RecordProgress(done, total int) {
	if total <= 0 {
		return
	}
	r.progress.Set(float64(done) / float64(total))
}

func (r *Recorder) RecordBestReturn(mode models.Mode, ret float64) {
	r.bestReturn.WithLabelValues(string(mode)).Set(ret)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
