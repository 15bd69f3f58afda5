package risk

import "github.com/yourusername/finrisk/internal/models"

const (
	recommendationThreshold = 6.0
	mitigationThreshold     = 5.0
)

var factorRecommendations = map[string]string{
	models.FactorLiquidity:  "Build emergency fund to cover 3-6 months of expenses",
	models.FactorCredit:     "Reduce debt levels and improve debt-to-income ratio",
	models.FactorMarket:     "Diversify investments and consider lower-risk assets",
	models.FactorInflation:  "Consider inflation-protected investments",
	models.FactorProtection: "Review and increase insurance coverage",
}

var factorStrategies = map[string][]string{
	models.FactorLiquidity: {
		"Build emergency fund to cover 3-6 months of expenses",
		"Consider high-yield savings account for emergency fund",
		"Reduce discretionary spending to improve cash flow",
		"Consider side income sources for additional cash flow",
	},
	models.FactorCredit: {
		"Focus on debt reduction, starting with highest interest rates",
		"Consider debt consolidation if beneficial",
		"Avoid taking on additional debt",
		"Improve credit score through timely payments",
	},
	models.FactorMarket: {
		"Diversify investment portfolio across asset classes",
		"Consider dollar-cost averaging for regular investments",
		"Review and rebalance portfolio regularly",
		"Avoid emotional investment decisions",
	},
	models.FactorInflation: {
		"Consider inflation-protected securities (TIPS)",
		"Invest in real assets like real estate or commodities",
		"Maintain some equity exposure for long-term growth",
		"Review and adjust investment strategy regularly",
	},
	models.FactorProtection: {
		"Review and increase life insurance coverage",
		"Consider disability insurance for income protection",
		"Ensure adequate health insurance coverage",
		"Review beneficiaries on all accounts and policies",
	},
}

// Recommendations returns one action per factor scoring above 6, in factor order
func Recommendations(scores models.FactorScores) []string {
	out := make([]string, 0, len(models.Factors))
	for _, factor := range models.Factors {
		if scores.Get(factor) > recommendationThreshold {
			out = append(out, factorRecommendations[factor])
		}
	}
	return out
}

// MitigationStrategies returns strategies for every factor scoring above 5
func MitigationStrategies(scores models.FactorScores) map[string][]string {
	out := make(map[string][]string)
	for _, factor := range models.Factors {
		if scores.Get(factor) > mitigationThreshold {
			out[factor] = append([]string(nil), factorStrategies[factor]...)
		}
	}
	return out
}
