// Package metrics provides the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tradedesk"

// Metrics holds all Prometheus metrics for the application.
// All methods are safe to call on a nil *Metrics, which records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Analysis metrics
	AnalysisRequests *prometheus.CounterVec

	// Market data metrics
	FetchDuration *prometheus.HistogramVec
	CacheLookups  *prometheus.CounterVec

	// Generative AI metrics
	InsightRequests *prometheus.CounterVec
}

// New creates a Metrics instance backed by its own registry, so that several
// instances (one per test) never collide on registration.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AnalysisRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "requests_total",
			Help:      "Total number of analysis and backtest requests by operation and result",
		}, []string{"operation", "result"}),
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "marketdata",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream price history fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "outcome"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "marketdata",
			Name:      "cache_lookups_total",
			Help:      "Price cache lookups by result (hit, miss, corrupt, error)",
		}, []string{"result"}),
		InsightRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insight",
			Name:      "requests_total",
			Help:      "Generative AI summary requests by result",
		}, []string{"result"}),
	}
}

// Handler returns the HTTP handler serving this instance's registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveAnalysis counts one analysis or backtest request.
func (m *Metrics) ObserveAnalysis(operation, result string) {
	if m == nil {
		return
	}
	m.AnalysisRequests.WithLabelValues(operation, result).Inc()
}

// ObserveFetch records the latency of one upstream fetch.
func (m *Metrics) ObserveFetch(provider, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(provider, outcome).Observe(d.Seconds())
}

// ObserveCache counts one cache lookup.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveInsight counts one generative AI request.
func (m *Metrics) ObserveInsight(result string) {
	if m == nil {
		return
	}
	m.InsightRequests.WithLabelValues(result).Inc()
}
