// Package metrics exposes Prometheus counters for the site.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeAccepted     = "accepted"
	OutcomeInvalid      = "invalid"
	OutcomeStorageError = "storage_error"
)

// Metrics holds the site's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Submissions  *prometheus.CounterVec
	ViewRenders  *prometheus.CounterVec
	AssetMissing *prometheus.CounterVec
}

// New registers the site collectors plus the Go and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "portfolio",
				Name:      "contact_submissions_total",
				Help:      "Contact form submissions by outcome.",
			},
			[]string{"outcome"},
		),
		ViewRenders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "portfolio",
				Name:      "view_renders_total",
				Help:      "Rendered views by view slug.",
			},
			[]string{"view"},
		),
		AssetMissing: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "portfolio",
				Name:      "asset_missing_total",
				Help:      "Renders that fell back to a placeholder, by asset name.",
			},
			[]string{"asset"},
		),
	}

	registry.MustRegister(
		m.Submissions,
		m.ViewRenders,
		m.AssetMissing,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordSubmission counts one contact submission.
func (m *Metrics) RecordSubmission(outcome string) {
	m.Submissions.WithLabelValues(outcome).Inc()
}

// RecordView counts one rendered view.
func (m *Metrics) RecordView(slug string) {
	m.ViewRenders.WithLabelValues(slug).Inc()
}

// RecordMissingAsset counts one placeholder fallback.
func (m *Metrics) RecordMissingAsset(name string) {
	m.AssetMissing.WithLabelValues(name).Inc()
}
