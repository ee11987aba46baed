// Package metrics exposes Prometheus counters for mutation and window generation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the mutok collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	MutationsTotal   *prometheus.CounterVec
	VerdictsTotal    *prometheus.CounterVec
	ReciprocalRank   *prometheus.HistogramVec
	WindowsTotal     prometheus.Counter
	FoldCyclesTotal  prometheus.Counter
	ModelErrorsTotal *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		MutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mutok_mutations_total",
				Help: "Total number of sampled mutations",
			},
			[]string{"kind"},
		),

		VerdictsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mutok_model_verdicts_total",
				Help: "Model verdicts on mutated files",
			},
			[]string{"kind", "verdict"},
		),

		ReciprocalRank: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mutok_reciprocal_rank",
				Help:    "Reciprocal rank of the mutated position among model detections",
				Buckets: []float64{0, 0.1, 0.2, 0.25, 1.0 / 3, 0.5, 1},
			},
			[]string{"kind"},
		),

		WindowsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mutok_windows_total",
				Help: "Total number of training windows produced",
			},
		),

		FoldCyclesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mutok_fold_cycles_total",
				Help: "Completed passes over the selected folds",
			},
		),

		ModelErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mutok_model_errors_total",
				Help: "Failed model invocations",
			},
			[]string{"operation"},
		),
	}
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordMutation counts one sampled mutation.
func (m *Metrics) RecordMutation(kind string) {
	if m == nil {
		return
	}

	m.MutationsTotal.WithLabelValues(kind).Inc()
}

// RecordVerdict counts a model verdict ("accepted" or "rejected").
func (m *Metrics) RecordVerdict(kind, verdict string) {
	if m == nil {
		return
	}

	m.VerdictsTotal.WithLabelValues(kind, verdict).Inc()
}

// RecordRank observes a reciprocal rank for a scored mutation.
func (m *Metrics) RecordRank(kind string, reciprocalRank float64) {
	if m == nil {
		return
	}

	m.ReciprocalRank.WithLabelValues(kind).Observe(reciprocalRank)
}

// RecordModelError counts a failed model call.
func (m *Metrics) RecordModelError(operation string) {
	if m == nil {
		return
	}

	m.ModelErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordWindow counts one produced training window.
func (m *Metrics) RecordWindow() {
	if m == nil {
		return
	}

	m.WindowsTotal.Inc()
}

// RecordFoldCycle counts one completed pass over the selected folds.
func (m *Metrics) RecordFoldCycle() {
	if m == nil {
		return
	}

	m.FoldCyclesTotal.Inc()
}
