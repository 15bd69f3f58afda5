package risk

import (
	"math"

	"github.com/yourusername/finrisk/internal/models"
)

// Fallback sub-scores used when the inputs a factor needs are missing
const (
	FallbackLiquidity  = 8.0
	FallbackCredit     = 5.0
	FallbackMarket     = 5.0
	FallbackProtection = 8.0
	FallbackCashRatio  = 0.5

	// DefaultHorizonYears stands in for a missing profile time horizon
	DefaultHorizonYears = 10
)

const (
	minScore = 0.0
	maxScore = 10.0

	fullCoverageMonths  = 6.0
	lowDebtRatio        = 0.2
	highDebtRatio       = 0.5
	coverageIncomeMulti = 10.0
	maxInflationHorizon = 30.0
)

// Score computes the five risk sub-scores for a snapshot. profile may be nil.
// Each score is clamped to [0,10] and rounded to one decimal.
func Score(snapshot models.FinancialSnapshot, profile *models.RiskProfile) (models.FactorScores, error) {
	if err := snapshot.Validate(); err != nil {
		return models.FactorScores{}, err
	}
	if err := profile.Validate(); err != nil {
		return models.FactorScores{}, err
	}

	scores := models.FactorScores{
		Liquidity:  LiquidityScore(snapshot),
		Credit:     CreditScore(snapshot),
		Market:     MarketScore(snapshot, profile),
		Inflation:  InflationScore(snapshot, profile),
		Protection: ProtectionScore(snapshot, profile),
	}
	for _, factor := range models.Factors {
		v := scores.Get(factor)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.FactorScores{}, models.NewCalculationError(factor+" score is not finite", nil)
		}
	}
	return scores, nil
}

// LiquidityScore falls linearly from 9 at zero months of emergency cover to
// 1 at six months, then adds cash-flow penalties.
func LiquidityScore(s models.FinancialSnapshot) float64 {
	expenses, hasExpenses := models.Amount(s.MonthlyExpenses)
	fund, hasFund := models.Amount(s.EmergencyFund)
	if !hasExpenses || !hasFund {
		return finish(FallbackLiquidity)
	}
	if expenses == 0 {
		return finish(1.0)
	}

	months := fund / expenses
	score := 1.0
	if months < fullCoverageMonths {
		score = 9.0 - months*(8.0/fullCoverageMonths)
	}

	if income, ok := models.Amount(s.MonthlyIncome); ok {
		surplus := income - expenses
		switch {
		case surplus < 0:
			score += 1.0
		case surplus < 0.1*expenses:
			score += 0.5
		}
	}
	return finish(score)
}

// CreditScore maps the debt-to-income ratio onto [1,10]. Zero income is
// maximal risk.
func CreditScore(s models.FinancialSnapshot) float64 {
	income, hasIncome := models.Amount(s.MonthlyIncome)
	_, hasDebt := models.Amount(s.TotalDebt)
	if !hasIncome || !hasDebt {
		return finish(FallbackCredit)
	}
	ratio, ok := s.DebtToIncomeRatio()
	if !ok || income == 0 {
		return finish(maxScore)
	}

	switch {
	case ratio <= lowDebtRatio:
		return finish(1.0)
	case ratio < highDebtRatio:
		return finish(1.0 + (ratio-lowDebtRatio)/(highDebtRatio-lowDebtRatio)*8.0)
	default:
		return finish(9.0 + math.Min(1.0, (ratio-highDebtRatio)/highDebtRatio))
	}
}

// MarketScore starts from the stated tolerance and adjusts for experience,
// horizon and how deep the asset base is relative to income.
func MarketScore(s models.FinancialSnapshot, profile *models.RiskProfile) float64 {
	if profile == nil {
		return FallbackMarket
	}

	score := FallbackMarket
	switch profile.RiskTolerance {
	case models.ToleranceConservative:
		score = 7.0
	case models.ToleranceAggressive:
		score = 3.0
	}

	switch profile.InvestmentExperience {
	case models.ExperienceBeginner:
		score += 1.0
	case models.ExperienceAdvanced:
		score -= 1.0
	}

	if profile.TimeHorizon != nil {
		h := float64(*profile.TimeHorizon)
		score += clamp(1.0-(h-3.0)*2.0/7.0, -1.0, 1.0)
	}

	income, hasIncome := models.Amount(s.MonthlyIncome)
	assets, hasAssets := models.Amount(s.TotalAssets)
	if hasIncome && hasAssets && income > 0 {
		depth := assets / (income * 12)
		switch {
		case depth > 5:
			score -= 0.5
		case depth < 1:
			score += 0.5
		}
	}
	return finish(score)
}

// InflationScore grows with the share of assets parked in cash and with the
// horizon over which that cash loses purchasing power.
func InflationScore(s models.FinancialSnapshot, profile *models.RiskProfile) float64 {
	cashRatio := FallbackCashRatio
	assets, hasAssets := models.Amount(s.TotalAssets)
	fund, hasFund := models.Amount(s.EmergencyFund)
	if hasAssets && hasFund && assets > 0 {
		cashRatio = clamp(fund/assets, 0, 1)
	}

	horizon := float64(DefaultHorizonYears)
	if profile != nil && profile.TimeHorizon != nil {
		horizon = float64(*profile.TimeHorizon)
	}
	horizon = math.Min(horizon, maxInflationHorizon)

	score := 2.0 + 5.0*cashRatio + cashRatio*3.0*horizon/maxInflationHorizon
	return finish(score)
}

// ProtectionScore falls as insurance coverage approaches ten times annual
// income. Zero coverage is maximal risk.
func ProtectionScore(s models.FinancialSnapshot, profile *models.RiskProfile) float64 {
	coverage, hasCoverage := models.Amount(s.InsuranceCoverage)
	income, hasIncome := models.Amount(s.MonthlyIncome)

	var score float64
	switch {
	case !hasCoverage || !hasIncome:
		score = FallbackProtection
	case income == 0 && coverage == 0:
		score = maxScore
	case income == 0:
		score = 5.0
	default:
		ratio := math.Min(coverage/(income*12), coverageIncomeMulti)
		score = maxScore - 0.9*ratio
	}

	if profile != nil && profile.Age != nil && *profile.Age >= 25 && *profile.Age <= 45 {
		score += 0.5
	}
	return finish(score)
}

func finish(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return models.RoundScore(clamp(v, minScore, maxScore))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
