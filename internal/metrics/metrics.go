// Package metrics exposes practice counters on a dedicated Prometheus registry.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one server instance
type Metrics struct {
	registry *prometheus.Registry

	answers           *prometheus.CounterVec
	sessionsStarted   *prometheus.CounterVec
	sessionsCompleted *prometheus.CounterVec
	mirrorFailures    prometheus.Counter
	requests          *prometheus.CounterVec
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "harjoitus",
			Name:      "answers_total",
			Help:      "Submitted answers by mode and result.",
		}, []string{"mode", "result"}),
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "harjoitus",
			Name:      "sessions_started_total",
			Help:      "Practice sessions started by mode.",
		}, []string{"mode"}),
		sessionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "harjoitus",
			Name:      "sessions_completed_total",
			Help:      "Practice sessions completed by mode and whether they had no mistakes.",
		}, []string{"mode", "perfect"}),
		mirrorFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "harjoitus",
			Name:      "mirror_failures_total",
			Help:      "Failed writes or reads of the remote progress mirror.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "harjoitus",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
	}

	m.registry.MustRegister(
		m.answers,
		m.sessionsStarted,
		m.sessionsCompleted,
		m.mirrorFailures,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Answer counts one submitted answer
func (m *Metrics) Answer(mode string, correct bool) {
	result := "wrong"
	if correct {
		result = "correct"
	}
	m.answers.WithLabelValues(mode, result).Inc()
}

func (m *Metrics) SessionStarted(mode string) {
	m.sessionsStarted.WithLabelValues(mode).Inc()
}

func (m *Metrics) SessionCompleted(mode string, perfect bool) {
	m.sessionsCompleted.WithLabelValues(mode, strconv.FormatBool(perfect)).Inc()
}

func (m *Metrics) MirrorFailure() {
	m.mirrorFailures.Inc()
}

// Request counts one served HTTP request
func (m *Metrics) Request(method string, status int) {
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
