// Package metrics exposes Prometheus collectors and rolling latency windows
// for prompt generation and batch runs.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docbrief"

// Metrics groups every collector on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	PromptsGenerated *prometheus.CounterVec
	PromptFailures   *prometheus.CounterVec
	ContextChars     *prometheus.HistogramVec
	DocumentsLoaded  prometheus.Gauge
	BatchRuns        *prometheus.CounterVec
	ChunksWritten    prometheus.Counter
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec

	// Prompt build latency over the stats window, served as JSON.
	PromptLatency *Latency
}

// New registers all collectors. window bounds PromptLatency.
func New(window time.Duration) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PromptsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompts_generated_total",
			Help:      "Prompts generated, by kind.",
		}, []string{"kind"}),
		PromptFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompt_failures_total",
			Help:      "Rejected prompt requests, by kind and reason.",
		}, []string{"kind", "reason"}),
		ContextChars: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prompt_context_chars",
			Help:      "Characters of assembled document context per prompt.",
			Buckets:   []float64{1000, 5000, 10000, 20000, 40000, 60000, 80000},
		}, []string{"kind"}),
		DocumentsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "documents_loaded",
			Help:      "Documents in the current knowledge base snapshot.",
		}),
		BatchRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_runs_total",
			Help:      "Batch chunking runs, by final status.",
		}, []string{"status"}),
		ChunksWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_files_written_total",
			Help:      "Output files written by batch runs.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		PromptLatency: NewLatency(window),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.PromptsGenerated,
		m.PromptFailures,
		m.ContextChars,
		m.DocumentsLoaded,
		m.BatchRuns,
		m.ChunksWritten,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObservePrompt records one successful prompt generation.
func (m *Metrics) ObservePrompt(kind string, contextChars int, took time.Duration) {
	m.PromptsGenerated.WithLabelValues(kind).Inc()
	m.ContextChars.WithLabelValues(kind).Observe(float64(contextChars))
	m.PromptLatency.Record(kind, took)
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, took time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
