package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/finrisk/internal/models"
)

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Save(ctx context.Context, userID int64, snapshot models.FinancialSnapshot) (*models.SnapshotRecord, error) {
	args := m.Called(ctx, userID, snapshot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SnapshotRecord), args.Error(1)
}

func (m *MockSnapshotRepository) GetLatest(ctx context.Context, userID int64) (*models.SnapshotRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SnapshotRecord), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Upsert(ctx context.Context, userID int64, profile models.RiskProfile) error {
	args := m.Called(ctx, userID, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Get(ctx context.Context, userID int64) (*models.RiskProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RiskProfile), args.Error(1)
}

type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) Create(ctx context.Context, assessment *models.RiskAssessment) error {
	args := m.Called(ctx, assessment)
	return args.Error(0)
}

func (m *MockAssessmentRepository) GetLatest(ctx context.Context, userID int64) (*models.RiskAssessment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RiskAssessment), args.Error(1)
}

func (m *MockAssessmentRepository) GetHistory(ctx context.Context, userID int64, limit int) ([]*models.RiskAssessment, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RiskAssessment), args.Error(1)
}

func (m *MockAssessmentRepository) FindStaleUsers(ctx context.Context, assessedBefore time.Time, limit int) ([]int64, error) {
	args := m.Called(ctx, assessedBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockSimulationRepository struct {
	mock.Mock
}

func (m *MockSimulationRepository) Create(ctx context.Context, result *models.SimulationResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockSimulationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SimulationResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimulationResult), args.Error(1)
}

func (m *MockSimulationRepository) GetLatest(ctx context.Context, userID int64) (*models.SimulationResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimulationResult), args.Error(1)
}
