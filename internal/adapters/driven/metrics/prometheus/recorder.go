// Package prometheus records batch engine metrics with client_golang.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "lifeops"

// Recorder exports per-batch counters and latencies.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	commits    *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewRecorder registers the batch metrics on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "operations_total",
			Help:      "Operations executed by batch kind and result.",
		}, []string{"kind", "result"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "commits_total",
			Help:      "Commit decisions by batch kind.",
		}, []string{"kind", "decision"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "duration_seconds",
			Help:      "Wall time from snapshot load to commit decision.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"kind"}),
	}
	r.registry.MustRegister(r.operations, r.commits, r.duration)
	return r
}

// ObserveBatch records one executed transaction.
func (r *Recorder) ObserveBatch(kind string, outcome domain.BatchOutcome, elapsed time.Duration) {
	r.operations.WithLabelValues(kind, "success").Add(float64(outcome.Successes))
	r.operations.WithLabelValues(kind, "failure").Add(float64(outcome.Failures))

	decision := "rollback"
	if outcome.Committed {
		decision = "commit"
	}
	r.commits.WithLabelValues(kind, decision).Inc()
	r.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
