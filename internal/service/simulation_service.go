package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/finrisk/internal/cache"
	"github.com/yourusername/finrisk/internal/metrics"
	"github.com/yourusername/finrisk/internal/models"
)

// Simulation kinds, used for cache keys, metrics and logs
const (
	KindBasic      = "basic"
	KindGoal       = "goal"
	KindRetirement = "retirement"
)

// Simulate runs a basic Monte Carlo simulation. Seeded runs are served from
// cache when an identical run is already held.
func (s *RiskService) Simulate(ctx context.Context, params models.SimulationParameters) (*models.SimulationResult, error) {
	return s.simulate(ctx, 0, params)
}

func (s *RiskService) simulate(ctx context.Context, userID int64, params models.SimulationParameters) (*models.SimulationResult, error) {
	if err := s.checkIterations(userID, params.Iterations); err != nil {
		return nil, err
	}

	start := time.Now()
	key, cacheable := s.cacheKey(KindBasic, params, params.Seed)
	if cacheable && s.simCache != nil {
		if cached, ok := s.simCache.Get(key); ok {
			result := cached.Clone()
			s.stamp(result)
			s.logSimulation(KindBasic, userID, result, true, time.Since(start))
			return result, nil
		}
	}

	result, err := s.simulator.Simulate(ctx, params)
	if err != nil {
		s.fail("simulate", userID, err)
		return nil, err
	}

	if cacheable && s.simCache != nil {
		s.simCache.Set(key, *result.Clone())
	}
	metrics.RecordSimulation(KindBasic, params.Iterations, time.Since(start).Seconds())
	s.logSimulation(KindBasic, userID, result, false, time.Since(start))
	return result, nil
}

// SimulateForUser runs a simulation and stores it in the user's history
func (s *RiskService) SimulateForUser(ctx context.Context, userID int64, params models.SimulationParameters) (*models.SimulationResult, error) {
	if s.repos == nil {
		return nil, ErrNoPersistence
	}

	result, err := s.simulate(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	record := *result
	record.ID = uuid.New()
	record.UserID = userID
	record.CreatedAt = s.now().UTC()
	if err := s.repos.Simulation.Create(ctx, &record); err != nil {
		s.fail("simulate", userID, err)
		return nil, err
	}
	s.audit.LogRecordPersisted("monte_carlo_simulations", record.ID.String(), userID, record.CreatedAt)

	return &record, nil
}

// Goal runs a goal-based simulation with contribution sensitivity
func (s *RiskService) Goal(ctx context.Context, params models.GoalParameters) (*models.GoalResult, error) {
	if err := s.checkIterations(0, params.Iterations); err != nil {
		return nil, err
	}

	start := time.Now()
	key, cacheable := s.cacheKey(KindGoal, params, params.Seed)
	if cacheable && s.goalCache != nil {
		if cached, ok := s.goalCache.Get(key); ok {
			result := cached.Clone()
			s.stamp(result.Simulation)
			s.logSimulation(KindGoal, 0, result.Simulation, true, time.Since(start))
			return result, nil
		}
	}

	result, err := s.simulator.Goal(ctx, params)
	if err != nil {
		s.fail("goal", 0, err)
		return nil, err
	}

	if cacheable && s.goalCache != nil {
		s.goalCache.Set(key, *result.Clone())
	}
	metrics.RecordSimulation(KindGoal, params.Iterations, time.Since(start).Seconds())
	s.logSimulation(KindGoal, 0, result.Simulation, false, time.Since(start))
	return result, nil
}

// Retirement projects savings to retirement age. Zero iterations means the
// configured default.
func (s *RiskService) Retirement(ctx context.Context, params models.RetirementParameters) (*models.RetirementProjection, error) {
	if params.Iterations == 0 {
		params.Iterations = s.simCfg.DefaultIterations
	}
	if err := s.checkIterations(0, params.Iterations); err != nil {
		return nil, err
	}

	start := time.Now()
	key, cacheable := s.cacheKey(KindRetirement, params, params.Seed)
	if cacheable && s.retirementCache != nil {
		if cached, ok := s.retirementCache.Get(key); ok {
			result := cached.Clone()
			s.stamp(result.Simulation)
			s.logSimulation(KindRetirement, 0, result.Simulation, true, time.Since(start))
			return result, nil
		}
	}

	result, err := s.simulator.Retirement(ctx, params)
	if err != nil {
		s.fail("retirement", 0, err)
		return nil, err
	}

	if cacheable && s.retirementCache != nil {
		s.retirementCache.Set(key, *result.Clone())
	}
	metrics.RecordSimulation(KindRetirement, params.Iterations, time.Since(start).Seconds())
	s.logSimulation(KindRetirement, 0, result.Simulation, false, time.Since(start))
	return result, nil
}

// stamp gives a result served from cache its own identity
func (s *RiskService) stamp(r *models.SimulationResult) {
	if r == nil {
		return
	}
	r.ID = uuid.New()
	r.CreatedAt = s.now().UTC()
}

func (s *RiskService) checkIterations(userID int64, iterations int) error {
	if s.simCfg.MaxIterations > 0 && iterations > s.simCfg.MaxIterations {
		s.simLog.LogIterationsCapped(userID, iterations, s.simCfg.MaxIterations)
		err := models.NewInvalidInputError("iterations",
			fmt.Sprintf("must not exceed %d", s.simCfg.MaxIterations))
		metrics.RecordOperationError("simulate", string(err.Kind))
		return err
	}
	return nil
}

func (s *RiskService) cacheKey(kind string, params any, seed *int64) (cache.Key, bool) {
	key, ok, err := cache.KeyFor(kind, params, seed)
	if err != nil {
		s.logger.WithError(err).Warn("Simulation cache key unavailable")
		return cache.Key{}, false
	}
	return key, ok
}

func (s *RiskService) logSimulation(kind string, userID int64, r *models.SimulationResult, cacheHit bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	s.simLog.LogSimulation(kind, userID, r.Iterations, r.Seed, r.ExpectedValue, r.SuccessProbability,
		cacheHit, float64(elapsed.Microseconds())/1000)
}
