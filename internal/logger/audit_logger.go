// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRecordPersisted logs an append to the assessment or simulation history.
func (al *AuditLogger) LogRecordPersisted(table, recordID string, userID int64, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"table":     table,
		"record_id": recordID,
		"user_id":   userID,
		"timestamp": timestamp.Unix(),
	}).Info("Record persisted")
}

// LogSweep logs a completed reassessment sweep.
func (al *AuditLogger) LogSweep(candidates, reassessed, failed int, duration time.Duration) {
	entry := al.WithFields(logrus.Fields{
		"candidates":  candidates,
		"reassessed":  reassessed,
		"failed":      failed,
		"duration_ms": duration.Milliseconds(),
	})
	if failed > 0 {
		entry.Warn("Reassessment sweep completed with failures")
		return
	}
	entry.Info("Reassessment sweep completed")
}

// LogPolicyLoaded logs the scoring policy in effect at startup.
func (al *AuditLogger) LogPolicyLoaded(weights map[string]float64, lowThreshold, highThreshold float64) {
	al.WithFields(logrus.Fields{
		"weights":        weights,
		"low_threshold":  lowThreshold,
		"high_threshold": highThreshold,
	}).Info("Risk policy loaded")
}
