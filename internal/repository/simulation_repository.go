package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/finrisk/internal/database"
	"github.com/yourusername/finrisk/internal/models"
)

const simulationColumns = `
	id, user_id, parameters, seed, iterations, target_value, expected_value,
	success_probability, var_95, var_99, simulation_results, created_at
`

// PostgresSimulationRepository implements SimulationRepository for PostgreSQL
type PostgresSimulationRepository struct {
	db *database.DB
}

// NewPostgresSimulationRepository creates a new simulation repository
func NewPostgresSimulationRepository(db *database.DB) SimulationRepository {
	return &PostgresSimulationRepository{db: db}
}

// Create stores a simulation run. Terminal values are not persisted.
func (r *PostgresSimulationRepository) Create(ctx context.Context, result *models.SimulationResult) error {
	if result.UserID == 0 {
		return models.NewInvalidInputError("user_id", "is required to persist a simulation")
	}

	params, err := json.Marshal(result.Parameters)
	if err != nil {
		return fmt.Errorf("failed to encode simulation parameters: %w", err)
	}
	results, err := json.Marshal(result.Results)
	if err != nil {
		return fmt.Errorf("failed to encode simulation results: %w", err)
	}

	query := `INSERT INTO monte_carlo_simulations (` + simulationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.db.Querier(ctx).Exec(ctx, query,
		result.ID, result.UserID, params, result.Seed, result.Iterations, result.TargetValue,
		result.ExpectedValue, result.SuccessProbability, result.VaR95, result.VaR99,
		results, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create simulation: %w", err)
	}

	return nil
}

// GetByID retrieves a simulation by ID
func (r *PostgresSimulationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SimulationResult, error) {
	query := `SELECT ` + simulationColumns + ` FROM monte_carlo_simulations WHERE id = $1`

	result, err := scanSimulation(r.db.Querier(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}

	return result, nil
}

// GetLatest retrieves the newest simulation for userID
func (r *PostgresSimulationRepository) GetLatest(ctx context.Context, userID int64) (*models.SimulationResult, error) {
	query := `SELECT ` + simulationColumns + `
		FROM monte_carlo_simulations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	result, err := scanSimulation(r.db.Querier(ctx).QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest simulation: %w", err)
	}

	return result, nil
}

func scanSimulation(row pgx.Row) (*models.SimulationResult, error) {
	result := &models.SimulationResult{}
	var params, results []byte

	err := row.Scan(
		&result.ID, &result.UserID, &params, &result.Seed, &result.Iterations,
		&result.TargetValue, &result.ExpectedValue, &result.SuccessProbability,
		&result.VaR95, &result.VaR99, &results, &result.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(params, &result.Parameters); err != nil {
		return nil, fmt.Errorf("failed to decode simulation parameters: %w", err)
	}
	if err := json.Unmarshal(results, &result.Results); err != nil {
		return nil, fmt.Errorf("failed to decode simulation results: %w", err)
	}
	return result, nil
}
