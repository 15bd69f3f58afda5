// Package metrics provides centralized Prometheus metrics registry for the risk engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "finrisk"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	AssessmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assessments_total",
		Help:      "Total number of risk assessments by resulting level",
	}, []string{"risk_level"})
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Total number of allocation recommendations by risk level",
	}, []string{"risk_level"})
	OperationErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operation_errors_total",
		Help:      "Total number of failed operations by operation and error kind",
	}, []string{"operation", "kind"})
	ReassessmentSweepsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reassessment_sweeps_total",
		Help:      "Total number of scheduled reassessment sweeps by outcome",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	LastTotalRiskScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_total_risk_score",
		Help:      "Total risk score of the most recent assessment",
	})
	StaleAssessments = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stale_assessments",
		Help:      "Users whose latest assessment was older than the staleness window at the last sweep",
	})
)

// Histogram metrics
var (
	FactorScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "factor_score",
		Help:      "Distribution of individual risk factor scores",
		Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	}, []string{"factor"})
	AssessmentDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "assessment_duration_seconds",
		Help:      "Duration of risk assessments in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(AssessmentsTotal)
		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(OperationErrorsTotal)
		registry.MustRegister(ReassessmentSweepsTotal)

		registry.MustRegister(LastTotalRiskScore)
		registry.MustRegister(StaleAssessments)

		registry.MustRegister(FactorScore)
		registry.MustRegister(AssessmentDuration)

		// Register simulation metrics
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(SimulationDuration)
		registry.MustRegister(SimulationIterations)
		registry.MustRegister(SimulationCacheHits)
		registry.MustRegister(SimulationCacheMisses)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordAssessment records a completed assessment with its factor scores.
func RecordAssessment(riskLevel string, totalScore float64, factors map[string]float64, durationSeconds float64) {
	AssessmentsTotal.WithLabelValues(riskLevel).Inc()
	LastTotalRiskScore.Set(totalScore)
	for factor, score := range factors {
		FactorScore.WithLabelValues(factor).Observe(score)
	}
	AssessmentDuration.Observe(durationSeconds)
}

// RecordRecommendation records an allocation recommendation.
func RecordRecommendation(riskLevel string) {
	RecommendationsTotal.WithLabelValues(riskLevel).Inc()
}

// RecordOperationError records a failed operation.
func RecordOperationError(operation, kind string) {
	if kind == "" {
		kind = "internal"
	}
	OperationErrorsTotal.WithLabelValues(operation, kind).Inc()
}

// RecordSweep records a reassessment sweep outcome and the stale count it found.
func RecordSweep(outcome string, stale int) {
	ReassessmentSweepsTotal.WithLabelValues(outcome).Inc()
	StaleAssessments.Set(float64(stale))
}
