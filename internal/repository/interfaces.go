package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/finrisk/internal/models"
)

// DefaultHistoryLimit bounds assessment history when the caller passes no limit
const DefaultHistoryLimit = 10

// SnapshotRepository defines the interface for financial snapshot access
type SnapshotRepository interface {
	Save(ctx context.Context, userID int64, snapshot models.FinancialSnapshot) (*models.SnapshotRecord, error)
	GetLatest(ctx context.Context, userID int64) (*models.SnapshotRecord, error)
}

// ProfileRepository defines the interface for risk profile access
type ProfileRepository interface {
	Upsert(ctx context.Context, userID int64, profile models.RiskProfile) error
	Get(ctx context.Context, userID int64) (*models.RiskProfile, error)
}

// AssessmentRepository is append-only: assessments are never updated or deleted
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *models.RiskAssessment) error
	GetLatest(ctx context.Context, userID int64) (*models.RiskAssessment, error)
	GetHistory(ctx context.Context, userID int64, limit int) ([]*models.RiskAssessment, error)
	FindStaleUsers(ctx context.Context, assessedBefore time.Time, limit int) ([]int64, error)
}

// SimulationRepository defines the interface for stored simulation runs
type SimulationRepository interface {
	Create(ctx context.Context, result *models.SimulationResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SimulationResult, error)
	GetLatest(ctx context.Context, userID int64) (*models.SimulationResult, error)
}
