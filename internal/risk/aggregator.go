package risk

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/finrisk/internal/models"
)

const weightSumTolerance = 1e-9

// Weights define each factor's share of the total risk score
type Weights struct {
	Liquidity  float64 `mapstructure:"liquidity" json:"liquidity"`
	Credit     float64 `mapstructure:"credit" json:"credit"`
	Market     float64 `mapstructure:"market" json:"market"`
	Inflation  float64 `mapstructure:"inflation" json:"inflation"`
	Protection float64 `mapstructure:"protection" json:"protection"`
}

// Get returns the weight for a factor name
func (w Weights) Get(factor string) float64 {
	return models.FactorScores(w).Get(factor)
}

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	return w.Liquidity + w.Credit + w.Market + w.Inflation + w.Protection
}

// Policy holds the tunable aggregation constants
type Policy struct {
	Weights       Weights
	LowThreshold  float64
	HighThreshold float64
}

// DefaultPolicy returns the standard weights and level thresholds
func DefaultPolicy() Policy {
	return Policy{
		Weights: Weights{
			Liquidity:  0.25,
			Credit:     0.20,
			Market:     0.25,
			Inflation:  0.15,
			Protection: 0.15,
		},
		LowThreshold:  3.5,
		HighThreshold: 6.5,
	}
}

// Validate checks that weights are non-negative and sum to one, and that the
// thresholds split [0,10] into three non-empty bands.
func (p Policy) Validate() error {
	for _, factor := range models.Factors {
		if p.Weights.Get(factor) < 0 {
			return models.NewInvalidInputError("weights."+factor, "must be greater than or equal to 0")
		}
	}
	if sum := p.Weights.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return models.NewInvalidInputError("weights", fmt.Sprintf("must sum to 1, got %.6f", sum))
	}
	if !(p.LowThreshold > minScore && p.LowThreshold < p.HighThreshold && p.HighThreshold < maxScore) {
		return models.NewInvalidInputError("thresholds", "must satisfy 0 < low < high < 10")
	}
	return nil
}

// Classify maps a total score to a risk level. The score is rounded to one
// decimal first so the level always agrees with the published total.
func (p Policy) Classify(total float64) models.RiskLevel {
	rounded := models.RoundScore(total)
	switch {
	case rounded < p.LowThreshold:
		return models.RiskLevelLow
	case rounded < p.HighThreshold:
		return models.RiskLevelModerate
	default:
		return models.RiskLevelHigh
	}
}

// Aggregation is the weighted combination of the five sub-scores
type Aggregation struct {
	TotalRiskScore float64
	RiskLevel      models.RiskLevel
	Breakdown      map[string]models.FactorBreakdown
}

// Aggregate combines sub-scores into a weighted total, a level and a
// per-factor breakdown.
func (p Policy) Aggregate(scores models.FactorScores) (Aggregation, error) {
	if err := p.Validate(); err != nil {
		return Aggregation{}, err
	}

	total := 0.0
	breakdown := make(map[string]models.FactorBreakdown, len(models.Factors))
	for _, factor := range models.Factors {
		score := scores.Get(factor)
		if score < minScore || score > maxScore || math.IsNaN(score) {
			return Aggregation{}, models.NewInvalidInputError(factor, "score must be within [0,10]")
		}
		weight := p.Weights.Get(factor)
		weighted := score * weight
		total += weighted
		breakdown[factor] = models.FactorBreakdown{
			Score:         score,
			Weight:        weight,
			WeightedScore: weighted,
			Description:   p.describe(factor, score),
		}
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return Aggregation{}, models.NewCalculationError("total risk score is not finite", nil)
	}

	return Aggregation{
		TotalRiskScore: total,
		RiskLevel:      p.Classify(total),
		Breakdown:      breakdown,
	}, nil
}

// Assess scores a snapshot and builds a new assessment record dated now
func (p Policy) Assess(snapshot models.FinancialSnapshot, profile *models.RiskProfile, now time.Time) (*models.RiskAssessment, error) {
	scores, err := Score(snapshot, profile)
	if err != nil {
		return nil, err
	}
	agg, err := p.Aggregate(scores)
	if err != nil {
		return nil, err
	}

	return &models.RiskAssessment{
		ID:                  uuid.New(),
		LiquidityRiskScore:  scores.Liquidity,
		CreditRiskScore:     scores.Credit,
		MarketRiskScore:     scores.Market,
		InflationRiskScore:  scores.Inflation,
		ProtectionRiskScore: scores.Protection,
		TotalRiskScore:      agg.TotalRiskScore,
		RiskLevel:           agg.RiskLevel,
		RiskBreakdown:       agg.Breakdown,
		Recommendations:     Recommendations(scores),
		AssessmentDate:      now.UTC(),
	}, nil
}

var factorDescriptions = map[string][3]string{
	models.FactorLiquidity: {
		"Emergency reserves comfortably cover expected expenses",
		"Emergency reserves cover only part of expected expenses",
		"Risk of not having enough liquid assets for emergencies",
	},
	models.FactorCredit: {
		"Debt levels are well within income capacity",
		"Debt levels are noticeable relative to income",
		"Risk related to debt levels and creditworthiness",
	},
	models.FactorMarket: {
		"Investment approach can absorb market swings",
		"Moderate exposure to market volatility",
		"Risk from market volatility and investment losses",
	},
	models.FactorInflation: {
		"Assets are positioned to keep pace with inflation",
		"Part of the asset base is exposed to inflation",
		"Risk of purchasing power erosion due to inflation",
	},
	models.FactorProtection: {
		"Insurance coverage is adequate for current income",
		"Insurance coverage is below recommended levels",
		"Risk from inadequate insurance coverage",
	},
}

func (p Policy) describe(factor string, score float64) string {
	band := 2
	switch p.Classify(score) {
	case models.RiskLevelLow:
		band = 0
	case models.RiskLevelModerate:
		band = 1
	}
	return factorDescriptions[factor][band]
}
