package models

// Asset class names used in allocations
const (
	AssetStocks     = "stocks"
	AssetBonds      = "bonds"
	AssetCash       = "cash"
	AssetRealEstate = "real_estate"
)

// AssetClasses lists asset classes in display order
var AssetClasses = []string{AssetStocks, AssetBonds, AssetCash, AssetRealEstate}

// AllocationRecommendation is a target asset mix summing to 100 percent
type AllocationRecommendation struct {
	RecommendedAllocation map[string]float64 `json:"recommended_allocation"`
	RiskLevel             RiskLevel          `json:"risk_level"`
	TotalRiskScore        float64            `json:"total_risk_score"`
	Rationale             []string           `json:"rationale"`
}

// Total returns the sum of all allocation percentages
func (a AllocationRecommendation) Total() float64 {
	total := 0.0
	for _, pct := range a.RecommendedAllocation {
		total += pct
	}
	return total
}

// Dashboard is the per-user summary served to the presentation layer
type Dashboard struct {
	UserID         int64                     `json:"user_id"`
	Snapshot       *SnapshotMetrics          `json:"snapshot,omitempty"`
	Assessment     *RiskAssessment           `json:"assessment,omitempty"`
	Simulation     *SimulationResult         `json:"simulation,omitempty"`
	Recommendation *AllocationRecommendation `json:"recommendation,omitempty"`
	Mitigation     map[string][]string       `json:"mitigation_strategies,omitempty"`
}
