package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/finrisk/internal/database"
	"github.com/yourusername/finrisk/internal/models"
)

// PostgresProfileRepository implements ProfileRepository for PostgreSQL
type PostgresProfileRepository struct {
	db *database.DB
}

// NewPostgresProfileRepository creates a new profile repository
func NewPostgresProfileRepository(db *database.DB) ProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// Upsert stores the profile for userID, replacing any previous one
func (r *PostgresProfileRepository) Upsert(ctx context.Context, userID int64, profile models.RiskProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO risk_profiles (
			user_id, risk_tolerance, investment_experience, time_horizon, age, employment_status
		)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, NULLIF($6, ''))
		ON CONFLICT (user_id) DO UPDATE SET
			risk_tolerance = EXCLUDED.risk_tolerance,
			investment_experience = EXCLUDED.investment_experience,
			time_horizon = EXCLUDED.time_horizon,
			age = EXCLUDED.age,
			employment_status = EXCLUDED.employment_status,
			updated_at = now()
	`

	_, err := r.db.Querier(ctx).Exec(ctx, query,
		userID, string(profile.RiskTolerance), string(profile.InvestmentExperience),
		profile.TimeHorizon, profile.Age, profile.EmploymentStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert risk profile: %w", err)
	}

	return nil
}

// Get retrieves the profile for userID
func (r *PostgresProfileRepository) Get(ctx context.Context, userID int64) (*models.RiskProfile, error) {
	query := `
		SELECT COALESCE(risk_tolerance, ''), COALESCE(investment_experience, ''),
		       time_horizon, age, COALESCE(employment_status, '')
		FROM risk_profiles
		WHERE user_id = $1
	`

	var tolerance, experience string
	profile := &models.RiskProfile{}
	err := r.db.Querier(ctx).QueryRow(ctx, query, userID).Scan(
		&tolerance, &experience, &profile.TimeHorizon, &profile.Age, &profile.EmploymentStatus,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get risk profile: %w", err)
	}

	profile.RiskTolerance = models.RiskTolerance(tolerance)
	profile.InvestmentExperience = models.InvestmentExperience(experience)
	return profile, nil
}
