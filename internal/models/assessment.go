package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RiskLevel is the coarse classification of a total risk score
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelModerate RiskLevel = "moderate"
	RiskLevelHigh     RiskLevel = "high"
)

// Valid reports whether l is one of the three known levels
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLevelLow, RiskLevelModerate, RiskLevelHigh:
		return true
	}
	return false
}

// Risk factor names, used as breakdown keys
const (
	FactorLiquidity  = "liquidity"
	FactorCredit     = "credit"
	FactorMarket     = "market"
	FactorInflation  = "inflation"
	FactorProtection = "protection"
)

// Factors lists the risk factors in their canonical order
var Factors = []string{FactorLiquidity, FactorCredit, FactorMarket, FactorInflation, FactorProtection}

// FactorScores holds the five sub-scores, each in [0,10]
type FactorScores struct {
	Liquidity  float64 `json:"liquidity"`
	Credit     float64 `json:"credit"`
	Market     float64 `json:"market"`
	Inflation  float64 `json:"inflation"`
	Protection float64 `json:"protection"`
}

// Get returns the score for a factor name
func (s FactorScores) Get(factor string) float64 {
	switch factor {
	case FactorLiquidity:
		return s.Liquidity
	case FactorCredit:
		return s.Credit
	case FactorMarket:
		return s.Market
	case FactorInflation:
		return s.Inflation
	case FactorProtection:
		return s.Protection
	}
	return 0
}

// FactorBreakdown explains one factor's contribution to the total
type FactorBreakdown struct {
	Score         float64 `json:"score"`
	Weight        float64 `json:"weight"`
	WeightedScore float64 `json:"weighted_score"`
	Description   string  `json:"description"`
}

// RiskAssessment is an immutable scoring result. Reassessing produces a new
// record; history is append-only.
type RiskAssessment struct {
	ID                  uuid.UUID                  `db:"id" json:"id"`
	UserID              int64                      `db:"user_id" json:"user_id,omitempty"`
	LiquidityRiskScore  float64                    `db:"liquidity_risk_score" json:"liquidity_risk_score"`
	CreditRiskScore     float64                    `db:"credit_risk_score" json:"credit_risk_score"`
	MarketRiskScore     float64                    `db:"market_risk_score" json:"market_risk_score"`
	InflationRiskScore  float64                    `db:"inflation_risk_score" json:"inflation_risk_score"`
	ProtectionRiskScore float64                    `db:"protection_risk_score" json:"protection_risk_score"`
	TotalRiskScore      float64                    `db:"total_risk_score" json:"total_risk_score"`
	RiskLevel           RiskLevel                  `db:"risk_level" json:"risk_level"`
	RiskBreakdown       map[string]FactorBreakdown `db:"risk_breakdown" json:"risk_breakdown"`
	Recommendations     []string                   `db:"recommendations" json:"recommendations"`
	AssessmentDate      time.Time                  `db:"assessment_date" json:"assessment_date"`
}

// Scores returns the assessment's sub-scores
func (a *RiskAssessment) Scores() FactorScores {
	return FactorScores{
		Liquidity:  a.LiquidityRiskScore,
		Credit:     a.CreditRiskScore,
		Market:     a.MarketRiskScore,
		Inflation:  a.InflationRiskScore,
		Protection: a.ProtectionRiskScore,
	}
}

// WithUser returns a copy of the assessment owned by userID
func (a RiskAssessment) WithUser(userID int64) RiskAssessment {
	a.UserID = userID
	return a
}

// MarshalJSON publishes the total at one-decimal precision. The in-memory
// total keeps the exact weighted sum.
func (a RiskAssessment) MarshalJSON() ([]byte, error) {
	type plain RiskAssessment
	out := plain(a)
	out.TotalRiskScore = RoundScore(a.TotalRiskScore)
	return json.Marshal(out)
}

// RoundScore rounds a score to one decimal place
func RoundScore(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
