package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/finrisk/internal/models"
)

func intPtr(v int) *int { return &v }

func referenceSnapshot() models.FinancialSnapshot {
	return models.NewSnapshot(5000, 3500, 100000, 25000, 15000, 500000)
}

func TestScoreReferenceSnapshot(t *testing.T) {
	scores, err := Score(referenceSnapshot(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3.3, scores.Liquidity)
	assert.Equal(t, 6.8, scores.Credit)
	assert.Equal(t, 5.0, scores.Market)
	assert.Equal(t, 2.9, scores.Inflation)
	assert.Equal(t, 2.5, scores.Protection)
}

func TestScoreZeroIncome(t *testing.T) {
	snapshot := models.NewSnapshot(0, 3500, 100000, 25000, 15000, 500000)

	scores, err := Score(snapshot, nil)
	require.NoError(t, err)
	assert.Equal(t, 10.0, scores.Credit, "zero income is maximal credit risk")
	assert.Equal(t, 4.3, scores.Liquidity, "negative surplus adds a full point")
	assert.Equal(t, 5.0, scores.Protection)
}

func TestScoreRejectsInvalidInput(t *testing.T) {
	t.Run("negative amount", func(t *testing.T) {
		snapshot := referenceSnapshot()
		snapshot.TotalDebt = decimal.NewNullDecimal(decimal.NewFromInt(-1))

		_, err := Score(snapshot, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrInvalidInput)

		var engineErr *models.Error
		require.ErrorAs(t, err, &engineErr)
		assert.Equal(t, "total_debt", engineErr.Field)
	})

	t.Run("unknown tolerance", func(t *testing.T) {
		_, err := Score(referenceSnapshot(), &models.RiskProfile{RiskTolerance: "reckless"})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("non-positive horizon", func(t *testing.T) {
		_, err := Score(referenceSnapshot(), &models.RiskProfile{TimeHorizon: intPtr(0)})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("empty snapshot", func(t *testing.T) {
		_, err := Score(models.FinancialSnapshot{}, nil)
		assert.ErrorIs(t, err, models.ErrInsufficientData)
	})
}

func TestScorePartialSnapshotUsesFallbacks(t *testing.T) {
	snapshot := models.FinancialSnapshot{
		MonthlyIncome: decimal.NewNullDecimal(decimal.NewFromInt(4000)),
	}

	scores, err := Score(snapshot, nil)
	require.NoError(t, err)
	assert.Equal(t, FallbackLiquidity, scores.Liquidity)
	assert.Equal(t, FallbackCredit, scores.Credit)
	assert.Equal(t, FallbackMarket, scores.Market)
	assert.Equal(t, 5.0, scores.Inflation)
	assert.Equal(t, FallbackProtection, scores.Protection)
}

func TestLiquidityScore(t *testing.T) {
	tests := []struct {
		name     string
		snapshot models.FinancialSnapshot
		expected float64
	}{
		{"no emergency fund", models.NewSnapshot(5000, 2000, 0, 0, 0, 0), 9.0},
		{"six months covered", models.NewSnapshot(5000, 2000, 0, 0, 12000, 0), 1.0},
		{"three months covered", models.NewSnapshot(5000, 2000, 0, 0, 6000, 0), 5.0},
		{"thin surplus", models.NewSnapshot(2100, 2000, 0, 0, 6000, 0), 5.5},
		{"no expenses", models.NewSnapshot(5000, 0, 0, 0, 0, 0), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LiquidityScore(tt.snapshot))
		})
	}
}

func TestCreditScore(t *testing.T) {
	tests := []struct {
		name     string
		debt     float64
		expected float64
	}{
		{"low ratio", 1200, 1.0},
		{"at low boundary", 2400, 1.0},
		{"mid ratio", 4200, 5.0},
		{"at high boundary", 6000, 9.0},
		{"double income", 12000, 10.0},
		{"far above", 60000, 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := models.NewSnapshot(1000, 500, 0, tt.debt, 0, 0)
			assert.Equal(t, tt.expected, CreditScore(snapshot))
		})
	}
}

func TestMarketScore(t *testing.T) {
	snapshot := referenceSnapshot()

	assert.Equal(t, 5.0, MarketScore(snapshot, nil), "missing profile is neutral")

	aggressive := &models.RiskProfile{
		RiskTolerance:        models.ToleranceAggressive,
		InvestmentExperience: models.ExperienceAdvanced,
		TimeHorizon:          intPtr(20),
	}
	assert.Equal(t, 1.0, MarketScore(snapshot, aggressive))

	conservative := &models.RiskProfile{
		RiskTolerance:        models.ToleranceConservative,
		InvestmentExperience: models.ExperienceBeginner,
		TimeHorizon:          intPtr(1),
	}
	assert.Equal(t, 9.0, MarketScore(snapshot, conservative))

	shortHorizon := MarketScore(snapshot, &models.RiskProfile{TimeHorizon: intPtr(2)})
	longHorizon := MarketScore(snapshot, &models.RiskProfile{TimeHorizon: intPtr(25)})
	assert.Greater(t, shortHorizon, longHorizon, "longer horizon lowers market risk")
}

func TestInflationScore(t *testing.T) {
	allCash := models.NewSnapshot(5000, 3500, 50000, 0, 50000, 0)
	assert.Equal(t, 10.0, InflationScore(allCash, &models.RiskProfile{TimeHorizon: intPtr(30)}))
	assert.Equal(t, 2.0, InflationScore(models.NewSnapshot(5000, 3500, 50000, 0, 0, 0), nil))

	short := InflationScore(allCash, &models.RiskProfile{TimeHorizon: intPtr(2)})
	long := InflationScore(allCash, &models.RiskProfile{TimeHorizon: intPtr(25)})
	assert.Greater(t, long, short, "cash held longer loses more to inflation")
}

func TestProtectionScore(t *testing.T) {
	assert.Equal(t, 10.0, ProtectionScore(models.NewSnapshot(5000, 3500, 0, 0, 0, 0), nil))
	assert.Equal(t, 1.0, ProtectionScore(models.NewSnapshot(5000, 3500, 0, 0, 0, 600000), nil))
	assert.Equal(t, 1.5, ProtectionScore(models.NewSnapshot(5000, 3500, 0, 0, 0, 600000), &models.RiskProfile{Age: intPtr(35)}))
	assert.Equal(t, 10.0, ProtectionScore(models.NewSnapshot(0, 0, 0, 0, 0, 0), &models.RiskProfile{Age: intPtr(30)}))
}

func TestScoresStayInRange(t *testing.T) {
	amounts := []float64{0, 1, 500, 5000, 250000, 1e7}
	profiles := []*models.RiskProfile{
		nil,
		{RiskTolerance: models.ToleranceConservative, InvestmentExperience: models.ExperienceBeginner, TimeHorizon: intPtr(1), Age: intPtr(30)},
		{RiskTolerance: models.ToleranceAggressive, InvestmentExperience: models.ExperienceAdvanced, TimeHorizon: intPtr(40), Age: intPtr(70)},
	}

	for _, income := range amounts {
		for _, expenses := range amounts {
			for _, other := range amounts {
				for _, profile := range profiles {
					snapshot := models.NewSnapshot(income, expenses, other, other/2, other/3, other*2)
					scores, err := Score(snapshot, profile)
					require.NoError(t, err)
					for _, factor := range models.Factors {
						v := scores.Get(factor)
						assert.GreaterOrEqual(t, v, 0.0, factor)
						assert.LessOrEqual(t, v, 10.0, factor)
					}
				}
			}
		}
	}
}
