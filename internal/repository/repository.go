// Package repository provides Postgres persistence for risk inputs and results.
package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/finrisk/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Snapshot   SnapshotRepository
	Profile    ProfileRepository
	Assessment AssessmentRepository
	Simulation SimulationRepository

	db *database.DB
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Snapshot:   NewPostgresSnapshotRepository(db),
		Profile:    NewPostgresProfileRepository(db),
		Assessment: NewPostgresAssessmentRepository(db),
		Simulation: NewPostgresSimulationRepository(db),
		db:         db,
	}, nil
}

// WithTransaction runs fn in one database transaction shared by every
// repository. Repositories assembled without a database run fn directly.
func (r *Repositories) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	if r.db == nil {
		return fn(ctx)
	}
	return r.db.WithTransaction(ctx, fn)
}
