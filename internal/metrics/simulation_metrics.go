// Package metrics defines simulation-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Simulation counter vectors
var (
	SimulationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulations_total",
		Help:      "Total number of Monte Carlo simulations by kind",
	}, []string{"kind"})

	SimulationCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulation_cache_hits_total",
		Help:      "Seeded simulations served from cache",
	})

	SimulationCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulation_cache_misses_total",
		Help:      "Seeded simulations not found in cache",
	})
)

// Simulation histogram vectors
var (
	SimulationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "simulation_duration_seconds",
		Help:      "Duration of Monte Carlo simulations in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"kind"})

	SimulationIterations = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "simulation_iterations",
		Help:      "Iterations requested per simulation",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 5),
	})
)

// RecordSimulation records a completed simulation of the given kind.
func RecordSimulation(kind string, iterations int, durationSeconds float64) {
	SimulationsTotal.WithLabelValues(kind).Inc()
	SimulationDuration.WithLabelValues(kind).Observe(durationSeconds)
	SimulationIterations.Observe(float64(iterations))
}

// RecordCacheLookup records a simulation cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		SimulationCacheHits.Inc()
		return
	}
	SimulationCacheMisses.Inc()
}
