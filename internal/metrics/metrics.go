// Package metrics exposes Prometheus instrumentation for site analysis.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analyze outcomes
const (
	OutcomeOK         = "ok"
	OutcomeFetchError = "fetch_error"
	OutcomeInvalid    = "invalid"
	OutcomeStoreError = "store_error"
)

// Metrics holds the analyzer's Prometheus metrics
type Metrics struct {
	AnalyzeTotal  *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	SnapshotItems prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers the metrics on reg. A nil reg uses a fresh private registry,
// which keeps tests and multiple instances from colliding.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		AnalyzeTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "haxsite_analyze_total",
			Help: "Analyze actions by outcome",
		}, []string{"outcome"}),

		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "haxsite_fetch_duration_seconds",
			Help:    "Time to retrieve and decode a site document",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}),

		SnapshotItems: factory.NewGauge(prometheus.GaugeOpts{
			Name: "haxsite_snapshot_items",
			Help: "Item count of the most recently stored snapshot",
		}),

		gatherer: reg,
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
