// Package metrics provides Prometheus metrics for article generation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "seowriter"

// Metrics holds the collectors of one run on a private registry.
// The Record and Observe methods are no-ops on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	// StageDuration measures pipeline stage duration.
	StageDuration *prometheus.HistogramVec
	// FallbacksTotal counts collaborator failures that were replaced by defaults.
	FallbacksTotal *prometheus.CounterVec
	// ArticlesTotal counts generation runs by article type and status.
	ArticlesTotal *prometheus.CounterVec
	// ImagesTotal counts image placeholders by outcome.
	ImagesTotal *prometheus.CounterVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages in seconds",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
			},
			[]string{"stage"},
		),
		FallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallbacks_total",
				Help:      "Total number of collaborator failures replaced by a default",
			},
			[]string{"collaborator"},
		),
		ArticlesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "articles_total",
				Help:      "Total number of article generation runs",
			},
			[]string{"type", "status"},
		),
		ImagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "images_total",
				Help:      "Total number of image placeholders processed",
			},
			[]string{"result"},
		),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStage records how long a stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}

	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordFallback records a collaborator failure.
func (m *Metrics) RecordFallback(collaborator string) {
	if m == nil {
		return
	}

	m.FallbacksTotal.WithLabelValues(collaborator).Inc()
}

// RecordArticle records a finished generation run.
func (m *Metrics) RecordArticle(articleType, status string) {
	if m == nil {
		return
	}

	m.ArticlesTotal.WithLabelValues(articleType, status).Inc()
}

// RecordImages records image outcomes of one article.
func (m *Metrics) RecordImages(generated, failed int) {
	if m == nil {
		return
	}

	m.ImagesTotal.WithLabelValues("generated").Add(float64(generated))
	m.ImagesTotal.WithLabelValues("fallback").Add(float64(failed))
}

// WriteTextfile writes all metrics in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
