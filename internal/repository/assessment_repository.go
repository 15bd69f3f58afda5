package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/finrisk/internal/database"
	"github.com/yourusername/finrisk/internal/models"
)

const assessmentColumns = `
	id, user_id, liquidity_risk_score, credit_risk_score, market_risk_score,
	inflation_risk_score, protection_risk_score, total_risk_score, risk_level,
	risk_breakdown, recommendations, assessment_date
`

// PostgresAssessmentRepository implements AssessmentRepository for PostgreSQL
type PostgresAssessmentRepository struct {
	db *database.DB
}

// NewPostgresAssessmentRepository creates a new assessment repository
func NewPostgresAssessmentRepository(db *database.DB) AssessmentRepository {
	return &PostgresAssessmentRepository{db: db}
}

// Create appends an assessment to the user's history
func (r *PostgresAssessmentRepository) Create(ctx context.Context, a *models.RiskAssessment) error {
	if a.UserID == 0 {
		return models.NewInvalidInputError("user_id", "is required to persist an assessment")
	}

	breakdown, err := json.Marshal(a.RiskBreakdown)
	if err != nil {
		return fmt.Errorf("failed to encode risk breakdown: %w", err)
	}
	recommendations, err := json.Marshal(nonNil(a.Recommendations))
	if err != nil {
		return fmt.Errorf("failed to encode recommendations: %w", err)
	}

	query := `INSERT INTO risk_assessments (` + assessmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.db.Querier(ctx).Exec(ctx, query,
		a.ID, a.UserID, a.LiquidityRiskScore, a.CreditRiskScore, a.MarketRiskScore,
		a.InflationRiskScore, a.ProtectionRiskScore, a.TotalRiskScore, string(a.RiskLevel),
		breakdown, recommendations, a.AssessmentDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create risk assessment: %w", err)
	}

	return nil
}

// GetLatest retrieves the newest assessment for userID
func (r *PostgresAssessmentRepository) GetLatest(ctx context.Context, userID int64) (*models.RiskAssessment, error) {
	query := `SELECT ` + assessmentColumns + `
		FROM risk_assessments
		WHERE user_id = $1
		ORDER BY assessment_date DESC
		LIMIT 1`

	a, err := scanAssessment(r.db.Querier(ctx).QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest risk assessment: %w", err)
	}

	return a, nil
}

// GetHistory retrieves up to limit assessments for userID, newest first
func (r *PostgresAssessmentRepository) GetHistory(ctx context.Context, userID int64, limit int) ([]*models.RiskAssessment, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `SELECT ` + assessmentColumns + `
		FROM risk_assessments
		WHERE user_id = $1
		ORDER BY assessment_date DESC
		LIMIT $2`

	rows, err := r.db.Querier(ctx).Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk assessment history: %w", err)
	}
	defer rows.Close()

	var history []*models.RiskAssessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan risk assessment: %w", err)
		}
		history = append(history, a)
	}

	return history, rows.Err()
}

// FindStaleUsers returns users with a snapshot whose latest assessment is
// missing, older than assessedBefore, or older than their latest snapshot.
func (r *PostgresAssessmentRepository) FindStaleUsers(ctx context.Context, assessedBefore time.Time, limit int) ([]int64, error) {
	query := `
		WITH latest_snapshot AS (
			SELECT user_id, MAX(updated_at) AS updated_at
			FROM financial_data
			GROUP BY user_id
		), latest_assessment AS (
			SELECT user_id, MAX(assessment_date) AS assessed_at
			FROM risk_assessments
			GROUP BY user_id
		)
		SELECT s.user_id
		FROM latest_snapshot s
		LEFT JOIN latest_assessment a ON a.user_id = s.user_id
		WHERE a.assessed_at IS NULL
		   OR a.assessed_at < $1
		   OR s.updated_at > a.assessed_at
		ORDER BY s.user_id
		LIMIT $2
	`

	rows, err := r.db.Querier(ctx).Query(ctx, query, assessedBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale assessments: %w", err)
	}
	defer rows.Close()

	var users []int64
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, userID)
	}

	return users, rows.Err()
}

func scanAssessment(row pgx.Row) (*models.RiskAssessment, error) {
	a := &models.RiskAssessment{}
	var level string
	var breakdown, recommendations []byte

	err := row.Scan(
		&a.ID, &a.UserID, &a.LiquidityRiskScore, &a.CreditRiskScore, &a.MarketRiskScore,
		&a.InflationRiskScore, &a.ProtectionRiskScore, &a.TotalRiskScore, &level,
		&breakdown, &recommendations, &a.AssessmentDate,
	)
	if err != nil {
		return nil, err
	}

	a.RiskLevel = models.RiskLevel(level)
	if err := json.Unmarshal(breakdown, &a.RiskBreakdown); err != nil {
		return nil, fmt.Errorf("failed to decode risk breakdown: %w", err)
	}
	if err := json.Unmarshal(recommendations, &a.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	return a, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
