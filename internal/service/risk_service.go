// Package service orchestrates risk scoring and simulation with persistence,
// logging and metrics.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/finrisk/internal/cache"
	"github.com/yourusername/finrisk/internal/config"
	"github.com/yourusername/finrisk/internal/logger"
	"github.com/yourusername/finrisk/internal/metrics"
	"github.com/yourusername/finrisk/internal/models"
	"github.com/yourusername/finrisk/internal/montecarlo"
	"github.com/yourusername/finrisk/internal/repository"
	"github.com/yourusername/finrisk/internal/risk"
)

// ErrNoPersistence is returned by user-scoped operations when the service
// was built without repositories.
var ErrNoPersistence = errors.New("persistence is not configured")

// RiskService exposes the engine's operations to the CLI and scheduler
type RiskService struct {
	policy      risk.Policy
	recommender *risk.Recommender
	simulator   *montecarlo.Simulator
	simCfg      config.SimulationConfig
	staleAfter  time.Duration
	sweepBatch  int

	repos *repository.Repositories

	simCache        *cache.ResultCache[models.SimulationResult]
	goalCache       *cache.ResultCache[models.GoalResult]
	retirementCache *cache.ResultCache[models.RetirementProjection]

	logger  *logrus.Logger
	riskLog *logger.RiskLogger
	simLog  *logger.SimulationLogger
	audit   *logger.AuditLogger

	now func() time.Time
}

// PolicyFromConfig maps the risk section onto a scoring policy
func PolicyFromConfig(cfg config.RiskConfig) risk.Policy {
	return risk.Policy{
		Weights:       risk.Weights(cfg.Weights),
		LowThreshold:  cfg.LowThreshold,
		HighThreshold: cfg.HighThreshold,
	}
}

// SimulatorConfigFromConfig maps the simulation section onto simulator settings.
// Zero workers means one per CPU.
func SimulatorConfigFromConfig(cfg config.SimulationConfig) montecarlo.Config {
	mc := montecarlo.DefaultConfig()
	mc.BatchSize = cfg.BatchSize
	if cfg.Workers > 0 {
		mc.Workers = cfg.Workers
	}
	mc.RiskFreeRate = cfg.RiskFreeRate
	return mc
}

// NewRiskService builds the service. repos may be nil, in which case only
// the stateless operations are available.
func NewRiskService(cfg *config.Config, repos *repository.Repositories, log *logrus.Logger) (*RiskService, error) {
	policy := PolicyFromConfig(cfg.Risk)
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid risk policy: %w", err)
	}

	simulator, err := montecarlo.NewSimulator(SimulatorConfigFromConfig(cfg.Simulation))
	if err != nil {
		return nil, err
	}

	s := &RiskService{
		policy:      policy,
		recommender: risk.NewRecommender(risk.DefaultAllocationTable()),
		simulator:   simulator,
		simCfg:      cfg.Simulation,
		staleAfter:  cfg.Scheduler.StaleAfter(),
		sweepBatch:  cfg.Scheduler.BatchSize,
		repos:       repos,
		logger:      log,
		riskLog:     logger.NewRiskLogger(log),
		simLog:      logger.NewSimulationLogger(log),
		audit:       logger.NewAuditLogger(log),
		now:         time.Now,
	}

	if cfg.Cache.Enabled {
		s.simCache = cache.NewResultCache[models.SimulationResult](cfg.Cache.TTL(), cfg.Cache.MaxSize)
		s.goalCache = cache.NewResultCache[models.GoalResult](cfg.Cache.TTL(), cfg.Cache.MaxSize)
		s.retirementCache = cache.NewResultCache[models.RetirementProjection](cfg.Cache.TTL(), cfg.Cache.MaxSize)
	}

	s.audit.LogPolicyLoaded(map[string]float64{
		models.FactorLiquidity:  policy.Weights.Liquidity,
		models.FactorCredit:     policy.Weights.Credit,
		models.FactorMarket:     policy.Weights.Market,
		models.FactorInflation:  policy.Weights.Inflation,
		models.FactorProtection: policy.Weights.Protection,
	}, policy.LowThreshold, policy.HighThreshold)

	return s, nil
}

// Policy returns the scoring policy in effect
func (s *RiskService) Policy() risk.Policy {
	return s.policy
}

// Assess scores an input without persisting it
func (s *RiskService) Assess(ctx context.Context, in models.AssessmentInput) (*models.RiskAssessment, error) {
	return s.assess(ctx, 0, in.FinancialSnapshot, in.Profile())
}

func (s *RiskService) assess(ctx context.Context, userID int64, snapshot models.FinancialSnapshot, profile *models.RiskProfile) (*models.RiskAssessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	a, err := s.policy.Assess(snapshot, profile, s.now())
	if err != nil {
		s.fail("assess", userID, err)
		return nil, err
	}
	a.UserID = userID
	elapsed := time.Since(start)

	scores := a.Scores()
	factors := make(map[string]float64, len(models.Factors))
	for _, f := range models.Factors {
		factors[f] = scores.Get(f)
	}
	metrics.RecordAssessment(string(a.RiskLevel), a.TotalRiskScore, factors, elapsed.Seconds())
	s.riskLog.LogAssessment(userID, a.ID.String(), a.TotalRiskScore, string(a.RiskLevel),
		len(a.Recommendations), float64(elapsed.Microseconds())/1000)

	return a, nil
}

// SaveInput stores a user's snapshot and, when any profile field is set,
// their risk profile. Both writes share one transaction.
func (s *RiskService) SaveInput(ctx context.Context, userID int64, in models.AssessmentInput) (*models.SnapshotRecord, error) {
	if s.repos == nil {
		return nil, ErrNoPersistence
	}
	if userID <= 0 {
		return nil, models.NewInvalidInputError("user_id", "must be greater than 0")
	}

	var record *models.SnapshotRecord
	err := s.repos.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if record, err = s.repos.Snapshot.Save(ctx, userID, in.FinancialSnapshot); err != nil {
			return err
		}
		if profile := in.Profile(); profile != nil {
			return s.repos.Profile.Upsert(ctx, userID, *profile)
		}
		return nil
	})
	if err != nil {
		s.fail("save_input", userID, err)
		return nil, err
	}
	s.audit.LogRecordPersisted("financial_data", fmt.Sprintf("%d", userID), userID, record.UpdatedAt)
	return record, nil
}

// AssessUser scores the user's latest snapshot and profile and appends the
// result to their assessment history.
func (s *RiskService) AssessUser(ctx context.Context, userID int64) (*models.RiskAssessment, error) {
	if s.repos == nil {
		return nil, ErrNoPersistence
	}

	record, err := s.repos.Snapshot.GetLatest(ctx, userID)
	if err != nil {
		s.fail("assess_user", userID, err)
		return nil, fmt.Errorf("failed to load snapshot for user %d: %w", userID, err)
	}
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	a, err := s.assess(ctx, userID, record.Snapshot, profile)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Assessment.Create(ctx, a); err != nil {
		s.fail("assess_user", userID, err)
		return nil, err
	}
	s.audit.LogRecordPersisted("risk_assessments", a.ID.String(), userID, a.AssessmentDate)

	return a, nil
}

// History returns up to limit of the user's assessments, newest first
func (s *RiskService) History(ctx context.Context, userID int64, limit int) ([]*models.RiskAssessment, error) {
	if s.repos == nil {
		return nil, ErrNoPersistence
	}
	return s.repos.Assessment.GetHistory(ctx, userID, limit)
}

// Recommend builds an allocation for an assessment, adjusted for the profile
func (s *RiskService) Recommend(_ context.Context, a *models.RiskAssessment, profile *models.RiskProfile) (*models.AllocationRecommendation, error) {
	var userID int64
	if a != nil {
		userID = a.UserID
	}
	rec, err := s.recommender.RecommendForAssessment(a, profile)
	if err != nil {
		s.fail("recommend", userID, err)
		return nil, err
	}
	s.recordRecommendation(userID, rec)
	return rec, nil
}

// RecommendForLevel returns the baseline allocation for a risk level. The
// score must fall in that level's band under the current policy.
func (s *RiskService) RecommendForLevel(level models.RiskLevel, totalRiskScore float64) (*models.AllocationRecommendation, error) {
	if level.Valid() && totalRiskScore >= 0 && totalRiskScore <= 10 {
		if band := s.policy.Classify(totalRiskScore); band != level {
			err := models.NewInvalidInputError("total_risk_score",
				fmt.Sprintf("%.1f is in the %s band, not %s", models.RoundScore(totalRiskScore), band, level))
			s.fail("recommend", 0, err)
			return nil, err
		}
	}
	rec, err := s.recommender.Recommend(level, totalRiskScore)
	if err != nil {
		s.fail("recommend", 0, err)
		return nil, err
	}
	s.recordRecommendation(0, rec)
	return rec, nil
}

func (s *RiskService) recordRecommendation(userID int64, rec *models.AllocationRecommendation) {
	allocation := make(map[string]string, len(rec.RecommendedAllocation))
	for asset, pct := range rec.RecommendedAllocation {
		allocation[asset] = fmt.Sprintf("%.1f", pct)
	}
	metrics.RecordRecommendation(string(rec.RiskLevel))
	s.riskLog.LogRecommendation(userID, string(rec.RiskLevel), allocation)
}

// Dashboard gathers the user's current position, latest assessment and
// simulation, allocation advice and mitigation strategies.
func (s *RiskService) Dashboard(ctx context.Context, userID int64) (*models.Dashboard, error) {
	if s.repos == nil {
		return nil, ErrNoPersistence
	}

	d := &models.Dashboard{UserID: userID}

	record, err := s.repos.Snapshot.GetLatest(ctx, userID)
	switch {
	case err == nil:
		m := record.Snapshot.Metrics()
		d.Snapshot = &m
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	assessment, err := s.repos.Assessment.GetLatest(ctx, userID)
	switch {
	case err == nil:
		d.Assessment = assessment
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}

	simulation, err := s.repos.Simulation.GetLatest(ctx, userID)
	switch {
	case err == nil:
		d.Simulation = simulation
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("failed to load simulation: %w", err)
	}

	if d.Snapshot == nil && d.Assessment == nil && d.Simulation == nil {
		return nil, models.ErrNotFound
	}

	if d.Assessment != nil {
		profile, err := s.loadProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		if d.Recommendation, err = s.Recommend(ctx, d.Assessment, profile); err != nil {
			return nil, err
		}
		d.Mitigation = risk.MitigationStrategies(d.Assessment.Scores())
	}

	return d, nil
}

// loadProfile returns the stored profile, or nil when the user has none
func (s *RiskService) loadProfile(ctx context.Context, userID int64) (*models.RiskProfile, error) {
	profile, err := s.repos.Profile.Get(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load risk profile for user %d: %w", userID, err)
	}
	return profile, nil
}

func (s *RiskService) fail(operation string, userID int64, err error) {
	kind := string(models.KindOf(err))
	metrics.RecordOperationError(operation, kind)
	s.riskLog.LogFailure(operation, userID, kind, err)
}
