// Package metrics holds binfinder's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "binfinder"

// Collector holds every metric on a private registry.
// It satisfies api.RequestObserver and resolver.Observer.
type Collector struct {
	registry *prometheus.Registry

	SearchCycles     *prometheus.CounterVec
	StaleDiscards    prometheus.Counter
	CycleDuration    prometheus.Histogram
	BackendRequests  *prometheus.CounterVec
	BackendDuration  *prometheus.HistogramVec
	ActiveWorkspaces prometheus.Gauge
}

// New creates a collector with all metrics registered. Go runtime and
// process collectors are included when withRuntime is true.
func New(withRuntime bool) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		SearchCycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_cycles_total",
				Help:      "Search cycles committed, by outcome.",
			},
			[]string{"outcome"},
		),
		StaleDiscards: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_stale_discards_total",
				Help:      "Search cycle results dropped because a newer cycle had started.",
			},
		),
		CycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_cycle_duration_seconds",
				Help:      "Time from cycle launch to commit.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		BackendRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_requests_total",
				Help:      "Requests sent to the inventory backend.",
			},
			[]string{"method", "route", "status"},
		),
		BackendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_request_duration_seconds",
				Help:      "Backend request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ActiveWorkspaces: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ui_workspaces",
				Help:      "Browser sessions with a live search workspace.",
			},
		),
	}

	registry.MustRegister(
		c.SearchCycles,
		c.StaleDiscards,
		c.CycleDuration,
		c.BackendRequests,
		c.BackendDuration,
		c.ActiveWorkspaces,
	)
	if withRuntime {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return c
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveRequest records one backend request. Status 0 is reported as "error".
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.BackendRequests.WithLabelValues(method, route, label).Inc()
	c.BackendDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveCycle records a committed search cycle.
func (c *Collector) ObserveCycle(outcome string, elapsed time.Duration) {
	c.SearchCycles.WithLabelValues(outcome).Inc()
	c.CycleDuration.Observe(elapsed.Seconds())
}

// ObserveStale records a discarded search cycle.
func (c *Collector) ObserveStale() {
	c.StaleDiscards.Inc()
}

// SetWorkspaces sets the live workspace gauge.
func (c *Collector) SetWorkspaces(n int) {
	c.ActiveWorkspaces.Set(float64(n))
}
