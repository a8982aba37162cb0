// Package metrics exposes Prometheus instrumentation for TOPSIS runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/Topsis/internal/scoring"
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
)

// Registry holds all TOPSIS metrics.
type Registry struct {
	Runs         *prometheus.CounterVec
	RunDuration  prometheus.Histogram
	Alternatives prometheus.Histogram
	Criteria     prometheus.Histogram
	Deliveries   *prometheus.CounterVec
}

// NewRegistry creates the metrics and registers them with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "topsis_runs_total",
				Help: "TOPSIS pipeline runs by outcome and error kind",
			},
			[]string{"outcome", "kind"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "topsis_run_duration_seconds",
				Help:    "Wall time of a TOPSIS pipeline run",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		Alternatives: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "topsis_alternatives",
				Help:    "Number of alternatives per run",
				Buckets: prometheus.ExponentialBuckets(2, 2, 12),
			},
		),
		Criteria: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "topsis_criteria",
				Help:    "Number of criteria per run",
				Buckets: prometheus.LinearBuckets(2, 2, 10),
			},
		),
		Deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "topsis_deliveries_total",
				Help: "Result deliveries by channel and outcome",
			},
			[]string{"channel", "outcome"},
		),
	}

	if reg != nil {
		reg.MustRegister(r.Runs, r.RunDuration, r.Alternatives, r.Criteria, r.Deliveries)
	}
	return r
}

// ObserveRun implements scoring.Recorder.
func (r *Registry) ObserveRun(kind scoring.ErrorKind, alternatives, criteria int, elapsed time.Duration) {
	outcome := OutcomeOK
	if kind != "" {
		outcome = OutcomeRejected
	}
	r.Runs.WithLabelValues(outcome, string(kind)).Inc()
	r.RunDuration.Observe(elapsed.Seconds())
	if kind == "" {
		r.Alternatives.Observe(float64(alternatives))
		r.Criteria.Observe(float64(criteria))
	}
}

// ObserveDelivery counts one result delivery attempt.
func (r *Registry) ObserveDelivery(channel string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = "failed"
	}
	r.Deliveries.WithLabelValues(channel, outcome).Inc()
}
