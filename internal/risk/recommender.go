package risk

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/yourusername/finrisk/internal/models"
)

// AllocationTable maps a risk level to its baseline asset mix in percent
type AllocationTable map[models.RiskLevel]map[string]float64

// DefaultAllocationTable returns the baseline mix for each risk level
func DefaultAllocationTable() AllocationTable {
	return AllocationTable{
		models.RiskLevelLow: {
			models.AssetStocks: 30, models.AssetBonds: 55, models.AssetCash: 10, models.AssetRealEstate: 5,
		},
		models.RiskLevelModerate: {
			models.AssetStocks: 60, models.AssetBonds: 30, models.AssetCash: 5, models.AssetRealEstate: 5,
		},
		models.RiskLevelHigh: {
			models.AssetStocks: 80, models.AssetBonds: 15, models.AssetCash: 0, models.AssetRealEstate: 5,
		},
	}
}

// Factor scores above this trigger allocation adjustments and rationale
const adjustmentThreshold = 7.0

const maxBondAge = 70

var levelRationale = map[models.RiskLevel]string{
	models.RiskLevelLow:      "Conservative allocation recommended due to low overall risk tolerance",
	models.RiskLevelModerate: "Balanced allocation recommended for moderate risk profile",
	models.RiskLevelHigh:     "Growth-oriented allocation suitable for higher risk tolerance",
}

// Recommender maps risk results to a target asset allocation
type Recommender struct {
	table AllocationTable
}

// NewRecommender creates a recommender. A nil table selects the defaults.
func NewRecommender(table AllocationTable) *Recommender {
	if table == nil {
		table = DefaultAllocationTable()
	}
	return &Recommender{table: table}
}

// Recommend returns the baseline allocation for a risk level
func (r *Recommender) Recommend(level models.RiskLevel, totalRiskScore float64) (*models.AllocationRecommendation, error) {
	base, err := r.baseline(level, totalRiskScore)
	if err != nil {
		return nil, err
	}
	allocation, err := normalizeAllocation(base)
	if err != nil {
		return nil, err
	}
	return &models.AllocationRecommendation{
		RecommendedAllocation: allocation,
		RiskLevel:             level,
		TotalRiskScore:        models.RoundScore(totalRiskScore),
		Rationale:             baseRationale(level, totalRiskScore),
	}, nil
}

// RecommendForAssessment tailors the baseline allocation using the
// assessment's factor scores and, when known, the user's age.
func (r *Recommender) RecommendForAssessment(a *models.RiskAssessment, profile *models.RiskProfile) (*models.AllocationRecommendation, error) {
	if a == nil {
		return nil, models.NewInvalidInputError("assessment", "is required")
	}
	base, err := r.baseline(a.RiskLevel, a.TotalRiskScore)
	if err != nil {
		return nil, err
	}

	if profile != nil && profile.Age != nil {
		bondTarget := math.Min(float64(*profile.Age), maxBondAge)
		base[models.AssetBonds] = (base[models.AssetBonds] + bondTarget) / 2
		base[models.AssetStocks] = (base[models.AssetStocks] + 100 - bondTarget) / 2
	}
	if a.LiquidityRiskScore > adjustmentThreshold {
		base[models.AssetCash] += 5
		base[models.AssetStocks] -= 3
		base[models.AssetBonds] -= 2
	}
	if a.InflationRiskScore > adjustmentThreshold {
		base[models.AssetRealEstate] += 3
		base[models.AssetStocks] += 2
		base[models.AssetCash] -= 3
		base[models.AssetBonds] -= 2
	}
	for asset, pct := range base {
		if pct < 0 {
			base[asset] = 0
		}
	}

	allocation, err := normalizeAllocation(base)
	if err != nil {
		return nil, err
	}

	rationale := baseRationale(a.RiskLevel, a.TotalRiskScore)
	if a.LiquidityRiskScore > adjustmentThreshold {
		rationale = append(rationale, fmt.Sprintf("Increased cash allocation (%.1f%%) to address liquidity concerns", allocation[models.AssetCash]))
	}
	if a.CreditRiskScore > adjustmentThreshold {
		rationale = append(rationale, "Conservative approach recommended due to high debt levels")
	}
	if a.InflationRiskScore > adjustmentThreshold {
		rationale = append(rationale, "Increased equity and real estate allocation to combat inflation risk")
	}
	if a.ProtectionRiskScore > adjustmentThreshold {
		rationale = append(rationale, "Consider increasing insurance coverage before aggressive investing")
	}

	return &models.AllocationRecommendation{
		RecommendedAllocation: allocation,
		RiskLevel:             a.RiskLevel,
		TotalRiskScore:        models.RoundScore(a.TotalRiskScore),
		Rationale:             rationale,
	}, nil
}

func (r *Recommender) baseline(level models.RiskLevel, total float64) (map[string]float64, error) {
	if !level.Valid() {
		return nil, models.NewInvalidInputError("risk_level", "must be one of low, moderate, high")
	}
	if math.IsNaN(total) || total < minScore || total > maxScore {
		return nil, models.NewInvalidInputError("total_risk_score", "must be within [0,10]")
	}
	row, ok := r.table[level]
	if !ok {
		return nil, models.NewInvalidInputError("risk_level", fmt.Sprintf("no allocation configured for %s", level))
	}
	base := make(map[string]float64, len(row))
	for asset, pct := range row {
		base[asset] = pct
	}
	return base, nil
}

func baseRationale(level models.RiskLevel, total float64) []string {
	return []string{
		levelRationale[level],
		fmt.Sprintf("Total risk score of %.1f places this profile in the %s risk band", models.RoundScore(total), level),
	}
}

// normalizeAllocation scales weights to percentages with one decimal that sum
// to exactly 100, assigning leftover tenths by largest remainder.
func normalizeAllocation(weights map[string]float64) (map[string]float64, error) {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, models.NewCalculationError("allocation weights must have a positive total", nil)
	}

	type share struct {
		asset     string
		tenths    int64
		remainder float64
	}
	shares := make([]share, 0, len(weights))
	assigned := int64(0)
	for asset, w := range weights {
		exact := w / total * 1000
		floor := math.Floor(exact)
		shares = append(shares, share{asset: asset, tenths: int64(floor), remainder: exact - floor})
		assigned += int64(floor)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].remainder != shares[j].remainder {
			return shares[i].remainder > shares[j].remainder
		}
		return shares[i].asset < shares[j].asset
	})
	for i := 0; assigned < 1000; i = (i + 1) % len(shares) {
		shares[i].tenths++
		assigned++
	}

	out := make(map[string]float64, len(shares))
	for _, s := range shares {
		out[s.asset] = decimal.New(s.tenths, -1).InexactFloat64()
	}
	return out, nil
}
