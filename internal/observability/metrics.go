package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects calculation metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry           *prometheus.Registry
	handler            http.Handler
	statementsBuilt    *prometheus.CounterVec
	resolutionFailures *prometheus.CounterVec
	calcDuration       *prometheus.HistogramVec
	requestsTotal      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	statements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "budget_statements_built_total",
		Help: "P&L statements assembled, by scope (territory or combined).",
	}, []string{"scope"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "budget_resolution_failures_total",
		Help: "Territory resolution failures, by input table.",
	}, []string{"table"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "budget_calculation_seconds",
		Help:    "Duration of engine operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "budget_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"route", "code"})
	registry.MustRegister(statements, failures, duration, requests)
	return &Metrics{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		statementsBuilt:    statements,
		resolutionFailures: failures,
		calcDuration:       duration,
		requestsTotal:      requests,
	}
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) StatementBuilt(scope string) {
	if m == nil {
		return
	}
	m.statementsBuilt.WithLabelValues(scope).Inc()
}

func (m *Metrics) ResolutionFailure(table string) {
	if m == nil {
		return
	}
	m.resolutionFailures.WithLabelValues(table).Inc()
}

// ObserveSince records the time elapsed since start for operation.
func (m *Metrics) ObserveSince(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.calcDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Request(route, code string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(route, code).Inc()
}
