//go:build integration

package repository

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/finrisk/internal/database"
	"github.com/yourusername/finrisk/internal/models"
)

const skipIntegration = "Skipping integration test in short mode"

// setupTestDB connects to FINRISK_TEST_DATABASE_URL and applies migrations
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	url := os.Getenv("FINRISK_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FINRISK_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err, "failed to connect to test database")
	db := database.NewFromPool(pool)
	require.NoError(t, db.Ping(ctx), "failed to ping test database")

	log := logrus.New()
	log.SetOutput(io.Discard)
	require.NoError(t, db.Migrate(ctx, log), "failed to run migrations")

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(),
			"TRUNCATE financial_data, risk_profiles, risk_assessments, monte_carlo_simulations")
		db.Close()
	})
	return db
}

// TestRepositoriesIntegration exercises every repository against real Postgres
func TestRepositoriesIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	ctx := context.Background()
	repos, err := NewRepositories(setupTestDB(t))
	require.NoError(t, err)

	t.Run("SnapshotAndProfile", func(t *testing.T) {
		snapshot := models.NewSnapshot(5000, 3500, 40000, 12000, 9000, 250000)
		_, err := repos.Snapshot.Save(ctx, 1, snapshot)
		require.NoError(t, err)

		latest, err := repos.Snapshot.GetLatest(ctx, 1)
		require.NoError(t, err)
		assert.True(t, latest.Snapshot.MonthlyIncome.Decimal.Equal(snapshot.MonthlyIncome.Decimal))

		age := 40
		require.NoError(t, repos.Profile.Upsert(ctx, 1, models.RiskProfile{RiskTolerance: models.ToleranceAggressive, Age: &age}))
		require.NoError(t, repos.Profile.Upsert(ctx, 1, models.RiskProfile{RiskTolerance: models.ToleranceModerate, Age: &age}))

		profile, err := repos.Profile.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.ToleranceModerate, profile.RiskTolerance)
	})

	t.Run("AssessmentHistory", func(t *testing.T) {
		base := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
		for i := 0; i < 3; i++ {
			require.NoError(t, repos.Assessment.Create(ctx, sampleAssessment(2, base.Add(time.Duration(i)*time.Minute))))
		}

		history, err := repos.Assessment.GetHistory(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.True(t, history[0].AssessmentDate.After(history[1].AssessmentDate))

		latest, err := repos.Assessment.GetLatest(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, history[0].ID, latest.ID)
	})

	t.Run("StaleUsers", func(t *testing.T) {
		stale, err := repos.Assessment.FindStaleUsers(ctx, time.Now().UTC(), 10)
		require.NoError(t, err)
		assert.Contains(t, stale, int64(1))
	})
}
