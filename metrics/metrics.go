// Package metrics exposes Prometheus collectors for engine module calls and result caches.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for mask generation.
type Metrics struct {
	moduleCalls    *prometheus.CounterVec
	moduleDuration *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
	gridNodes      *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		moduleCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridmask_module_calls_total",
				Help: "Total number of engine module calls",
			},
			[]string{"module", "result"},
		),

		moduleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gridmask_module_duration_seconds",
				Help:    "Duration of engine module calls in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to 8s
			},
			[]string{"module"},
		),

		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridmask_cache_lookups_total",
				Help: "Total number of result cache lookups",
			},
			[]string{"result"},
		),

		gridNodes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gridmask_grid_nodes",
				Help:    "Number of nodes in returned grids",
				Buckets: prometheus.ExponentialBuckets(16, 4, 10),
			},
			[]string{"module"},
		),
	}
}

// RecordModuleCall records one module call and its duration.
func (m *Metrics) RecordModuleCall(module string, d time.Duration, err error) {
	if m == nil {
		return
	}

	result := "success"
	if err != nil {
		result = "error"
	}
	m.moduleCalls.WithLabelValues(module, result).Inc()
	m.moduleDuration.WithLabelValues(module).Observe(d.Seconds())
}

// RecordCacheLookup records a cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// RecordGrid records the size of a grid returned by module.
func (m *Metrics) RecordGrid(module string, nodes int) {
	if m == nil {
		return
	}
	m.gridNodes.WithLabelValues(module).Observe(float64(nodes))
}
