// Package metrics holds the Prometheus collectors of schema-server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "schema_server"

// Metrics groups all collectors on a dedicated registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	loadErrors      *prometheus.CounterVec
	loadDuration    prometheus.Histogram
	documentValid   prometheus.Gauge
	documentSize    prometheus.Gauge
	documentChanges prometheus.Counter
}

// New creates and registers all collectors, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests to the schema endpoint by status code and method.",
			},
			[]string{"code", "method"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latency of HTTP requests to the schema endpoint.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"code", "method"},
		),
		loadErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "document_load_errors_total",
				Help:      "Total number of failed document loads by reason.",
			},
			[]string{"reason"},
		),
		loadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "document_load_duration_seconds",
				Help:      "Time spent reading and decoding the document.",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		documentValid: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "document_valid",
				Help:      "1 if the last watcher check found a valid JSON document, 0 otherwise.",
			},
		),
		documentSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "document_size_bytes",
				Help:      "Size of the document as seen by the last watcher check.",
			},
		),
		documentChanges: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "document_changes_total",
				Help:      "Number of document changes detected by the watcher.",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.loadErrors,
		m.loadDuration,
		m.documentValid,
		m.documentSize,
		m.documentChanges,
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns the /metrics handler for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// InstrumentHandler wraps next with request counter and latency collectors.
func (m *Metrics) InstrumentHandler(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return promhttp.InstrumentHandlerDuration(m.requestDuration,
		promhttp.InstrumentHandlerCounter(m.requestsTotal, next))
}

// ObserveLoad records the duration of a document load and, when reason is
// not empty, counts it as failed.
func (m *Metrics) ObserveLoad(seconds float64, reason string) {
	if m == nil {
		return
	}
	m.loadDuration.Observe(seconds)
	if reason != "" {
		m.loadErrors.WithLabelValues(reason).Inc()
	}
}

// SetDocumentState publishes the result of a watcher check.
func (m *Metrics) SetDocumentState(valid bool, size int) {
	if m == nil {
		return
	}
	if valid {
		m.documentValid.Set(1)
	} else {
		m.documentValid.Set(0)
	}
	m.documentSize.Set(float64(size))
}

// IncDocumentChanges counts a detected document change.
func (m *Metrics) IncDocumentChanges() {
	if m == nil {
		return
	}
	m.documentChanges.Inc()
}
