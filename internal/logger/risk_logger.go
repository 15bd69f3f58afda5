// Package logger provides risk-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// RiskLogger provides dedicated logging for assessment and recommendation operations.
type RiskLogger struct {
	*logrus.Entry
}

// NewRiskLogger creates a new risk logger.
func NewRiskLogger(baseLogger *logrus.Logger) *RiskLogger {
	return &RiskLogger{
		Entry: baseLogger.WithField("component", "risk"),
	}
}

// LogAssessment logs a completed risk assessment.
func (rl *RiskLogger) LogAssessment(userID int64, assessmentID string, totalScore float64, riskLevel string, recommendations int, durationMs float64) {
	rl.WithFields(logrus.Fields{
		"user_id":          userID,
		"assessment_id":    assessmentID,
		"total_risk_score": totalScore,
		"risk_level":       riskLevel,
		"recommendations":  recommendations,
		"duration_ms":      durationMs,
	}).Info("Risk assessment completed")
}

// LogRecommendation logs an allocation recommendation.
func (rl *RiskLogger) LogRecommendation(userID int64, riskLevel string, allocation map[string]string) {
	rl.WithFields(logrus.Fields{
		"user_id":    userID,
		"risk_level": riskLevel,
		"allocation": allocation,
	}).Info("Allocation recommendation generated")
}

// LogFailure logs a rejected or failed operation with the error kind.
func (rl *RiskLogger) LogFailure(operation string, userID int64, kind string, err error) {
	entry := rl.WithFields(logrus.Fields{
		"operation":  operation,
		"user_id":    userID,
		"error_kind": kind,
	}).WithError(err)

	// Bad input is the caller's problem
	if kind == "invalid_input" || kind == "insufficient_data" {
		entry.Warn("Risk operation rejected")
		return
	}
	entry.Error("Risk operation failed")
}
