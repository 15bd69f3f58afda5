package risk

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/finrisk/internal/models"
)

func TestRecommendBaselines(t *testing.T) {
	recommender := NewRecommender(nil)

	tests := []struct {
		level    models.RiskLevel
		total    float64
		expected map[string]float64
		headline string
	}{
		{
			level:    models.RiskLevelLow,
			total:    2.1,
			expected: map[string]float64{"stocks": 30, "bonds": 55, "cash": 10, "real_estate": 5},
			headline: "Conservative allocation recommended due to low overall risk tolerance",
		},
		{
			level:    models.RiskLevelModerate,
			total:    5.0,
			expected: map[string]float64{"stocks": 60, "bonds": 30, "cash": 5, "real_estate": 5},
			headline: "Balanced allocation recommended for moderate risk profile",
		},
		{
			level:    models.RiskLevelHigh,
			total:    8.25,
			expected: map[string]float64{"stocks": 80, "bonds": 15, "cash": 0, "real_estate": 5},
			headline: "Growth-oriented allocation suitable for higher risk tolerance",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			rec, err := recommender.Recommend(tt.level, tt.total)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, rec.RecommendedAllocation)
			assert.InDelta(t, 100.0, rec.Total(), 1e-9)
			assert.Equal(t, tt.level, rec.RiskLevel)
			require.Len(t, rec.Rationale, 2)
			assert.Equal(t, tt.headline, rec.Rationale[0])
			assert.Contains(t, rec.Rationale[1], fmt.Sprintf("%.1f", models.RoundScore(tt.total)))
		})
	}
}

func TestRecommendRejectsInvalidInput(t *testing.T) {
	recommender := NewRecommender(nil)

	_, err := recommender.Recommend("extreme", 5)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = recommender.Recommend(models.RiskLevelLow, -1)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = recommender.RecommendForAssessment(nil, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRecommendForAssessmentAdjustments(t *testing.T) {
	assessment := &models.RiskAssessment{
		LiquidityRiskScore:  8,
		CreditRiskScore:     4,
		MarketRiskScore:     5,
		InflationRiskScore:  8,
		ProtectionRiskScore: 3,
		TotalRiskScore:      5,
		RiskLevel:           models.RiskLevelModerate,
	}

	rec, err := NewRecommender(nil).RecommendForAssessment(assessment, &models.RiskProfile{Age: intPtr(40)})
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"stocks": 56.2, "bonds": 29.5, "cash": 6.7, "real_estate": 7.6}, rec.RecommendedAllocation)
	assert.InDelta(t, 100.0, rec.Total(), 1e-9)
	assert.Equal(t, []string{
		"Balanced allocation recommended for moderate risk profile",
		"Total risk score of 5.0 places this profile in the moderate risk band",
		"Increased cash allocation (6.7%) to address liquidity concerns",
		"Increased equity and real estate allocation to combat inflation risk",
	}, rec.Rationale)
}

func TestRecommendForAssessmentNeverNegative(t *testing.T) {
	assessment := &models.RiskAssessment{
		InflationRiskScore:  9,
		CreditRiskScore:     8,
		ProtectionRiskScore: 9,
		TotalRiskScore:      7.5,
		RiskLevel:           models.RiskLevelHigh,
	}

	rec, err := NewRecommender(nil).RecommendForAssessment(assessment, nil)
	require.NoError(t, err)

	for asset, pct := range rec.RecommendedAllocation {
		assert.GreaterOrEqual(t, pct, 0.0, asset)
	}
	assert.InDelta(t, 100.0, rec.Total(), 1e-9)
	assert.Contains(t, rec.Rationale, "Conservative approach recommended due to high debt levels")
	assert.Contains(t, rec.Rationale, "Consider increasing insurance coverage before aggressive investing")
}

func TestNormalizeAllocationLargestRemainder(t *testing.T) {
	out, err := normalizeAllocation(map[string]float64{"a": 1, "b": 1, "c": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 33.4, "b": 33.3, "c": 33.3}, out)

	_, err = normalizeAllocation(map[string]float64{"a": 0})
	assert.ErrorIs(t, err, models.ErrCalculation)
}
