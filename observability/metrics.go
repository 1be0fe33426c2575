package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ModuleMetricsRegistry records JSON-RPC module activity: request counts by
// outcome and handler latency.
type ModuleMetricsRegistry struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

var (
	moduleMetricsOnce sync.Once
	moduleRegistry    *ModuleMetricsRegistry
)

// ModuleMetrics returns the lazily-initialised module metrics registry.
func ModuleMetrics() *ModuleMetricsRegistry {
	moduleMetricsOnce.Do(func() {
		moduleRegistry = &ModuleMetricsRegistry{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "stakevest",
				Subsystem: "module",
				Name:      "requests_total",
				Help:      "Total JSON-RPC requests segmented by method and outcome.",
			}, []string{"method", "outcome"}),
			errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "stakevest",
				Subsystem: "module",
				Name:      "errors_total",
				Help:      "Total JSON-RPC errors segmented by method and code.",
			}, []string{"method", "code"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "stakevest",
				Subsystem: "module",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for JSON-RPC handlers.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method"}),
		}
		prometheus.MustRegister(moduleRegistry.requests, moduleRegistry.errors, moduleRegistry.latency)
	})
	return moduleRegistry
}

// ObserveRequest records a completed handler invocation.
func (m *ModuleMetricsRegistry) ObserveRequest(method, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.latency.WithLabelValues(method).Observe(time.Since(started).Seconds())
}

// ObserveError records a handler error by JSON-RPC code.
func (m *ModuleMetricsRegistry) ObserveError(method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, code).Inc()
}
