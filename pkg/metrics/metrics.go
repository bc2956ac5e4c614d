package metrics

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Telemetry counts landing events in Prometheus.
type Telemetry struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	failures *prometheus.CounterVec
	sessions prometheus.Gauge
}

// New registers the landing collectors on a dedicated registry together
// with the Go and process collectors.
func New() *Telemetry {
	registry := prometheus.NewRegistry()
	t := &Telemetry{
		registry: registry,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landing",
			Name:      "events_total",
			Help:      "Landing page builder events by name.",
		}, []string{"event"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landing",
			Name:      "failures_total",
			Help:      "Failed saves, feed fetches and widget renders.",
		}, []string{"event"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "landing",
			Name:      "open_sessions",
			Help:      "Page editing sessions currently open.",
		}),
	}
	registry.MustRegister(
		t.events,
		t.failures,
		t.sessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return t
}

// Record implements landing.Telemetry.
func (t *Telemetry) Record(_ context.Context, event string, _ map[string]any) {
	t.events.WithLabelValues(event).Inc()
	if strings.HasSuffix(event, "error") || strings.HasSuffix(event, "failed") {
		t.failures.WithLabelValues(event).Inc()
	}
	switch event {
	case "landing.session.open":
		t.sessions.Inc()
	case "landing.session.close":
		t.sessions.Dec()
	}
}

// Registry exposes the underlying registry.
func (t *Telemetry) Registry() *prometheus.Registry {
	return t.registry
}

// Handler serves the Prometheus exposition format.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}
