package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/finrisk/internal/database"
	"github.com/yourusername/finrisk/internal/models"
)

// PostgresSnapshotRepository implements SnapshotRepository for PostgreSQL.
// Each save inserts a new row; the newest row is the current snapshot.
type PostgresSnapshotRepository struct {
	db *database.DB
}

// NewPostgresSnapshotRepository creates a new snapshot repository
func NewPostgresSnapshotRepository(db *database.DB) SnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// Save stores a validated snapshot for userID
func (r *PostgresSnapshotRepository) Save(ctx context.Context, userID int64, snapshot models.FinancialSnapshot) (*models.SnapshotRecord, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO financial_data (
			user_id, monthly_income, monthly_expenses, total_assets,
			total_debt, emergency_fund, insurance_coverage
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING updated_at
	`

	record := &models.SnapshotRecord{UserID: userID, Snapshot: snapshot}
	err := r.db.Querier(ctx).QueryRow(ctx, query,
		userID, snapshot.MonthlyIncome, snapshot.MonthlyExpenses, snapshot.TotalAssets,
		snapshot.TotalDebt, snapshot.EmergencyFund, snapshot.InsuranceCoverage,
	).Scan(&record.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return record, nil
}

// GetLatest retrieves the most recent snapshot for userID
func (r *PostgresSnapshotRepository) GetLatest(ctx context.Context, userID int64) (*models.SnapshotRecord, error) {
	query := `
		SELECT user_id, monthly_income, monthly_expenses, total_assets,
		       total_debt, emergency_fund, insurance_coverage, updated_at
		FROM financial_data
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`

	record := &models.SnapshotRecord{}
	s := &record.Snapshot
	err := r.db.Querier(ctx).QueryRow(ctx, query, userID).Scan(
		&record.UserID, &s.MonthlyIncome, &s.MonthlyExpenses, &s.TotalAssets,
		&s.TotalDebt, &s.EmergencyFund, &s.InsuranceCoverage, &record.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return record, nil
}
