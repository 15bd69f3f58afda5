// Package logger provides simulation-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// SimulationLogger provides dedicated logging for Monte Carlo runs.
type SimulationLogger struct {
	*logrus.Entry
}

// NewSimulationLogger creates a new simulation logger.
func NewSimulationLogger(baseLogger *logrus.Logger) *SimulationLogger {
	return &SimulationLogger{
		Entry: baseLogger.WithField("component", "simulation"),
	}
}

// LogSimulation logs a finished simulation run.
func (sl *SimulationLogger) LogSimulation(kind string, userID int64, iterations int, seed int64, expectedValue, successProbability float64, cacheHit bool, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"simulation_kind":     kind,
		"user_id":             userID,
		"iterations":          iterations,
		"seed":                seed,
		"expected_value":      expectedValue,
		"success_probability": successProbability,
		"cache_hit":           cacheHit,
		"duration_ms":         durationMs,
	}).Info("Simulation completed")
}

// LogIterationsCapped logs a request rejected for exceeding the iteration ceiling.
func (sl *SimulationLogger) LogIterationsCapped(userID int64, requested, maximum int) {
	sl.WithFields(logrus.Fields{
		"user_id":        userID,
		"requested":      requested,
		"max_iterations": maximum,
	}).Warn("Simulation iterations above configured maximum")
}
