package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/finrisk/internal/metrics"
)

// SweepResult summarises one reassessment sweep
type SweepResult struct {
	Candidates int
	Reassessed int
	Failed     int
	Duration   time.Duration
}

// Outcome labels the sweep for metrics
func (r SweepResult) Outcome() string {
	switch {
	case r.Failed == 0:
		return "success"
	case r.Reassessed == 0:
		return "failed"
	default:
		return "partial"
	}
}

// ReassessStale appends a fresh assessment for every user whose latest one is
// older than the staleness window or predates their latest snapshot. One
// user's failure does not stop the sweep.
func (s *RiskService) ReassessStale(ctx context.Context) (SweepResult, error) {
	if s.repos == nil {
		return SweepResult{}, ErrNoPersistence
	}

	start := time.Now()
	cutoff := s.now().Add(-s.staleAfter)

	users, err := s.repos.Assessment.FindStaleUsers(ctx, cutoff, s.sweepBatch)
	if err != nil {
		metrics.RecordSweep("failed", 0)
		return SweepResult{}, err
	}

	result := SweepResult{Candidates: len(users)}
	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}
		if _, err := s.AssessUser(ctx, userID); err != nil {
			result.Failed++
			s.logger.WithFields(logrus.Fields{
				"user_id": userID,
			}).WithError(err).Warn("Reassessment failed")
			continue
		}
		result.Reassessed++
	}
	result.Duration = time.Since(start)

	metrics.RecordSweep(result.Outcome(), result.Candidates)
	s.audit.LogSweep(result.Candidates, result.Reassessed, result.Failed, result.Duration)
	return result, nil
}
