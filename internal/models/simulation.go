package models

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// DefaultIterations is used when a request does not specify iterations
const DefaultIterations = 10000

// MaxTimeHorizonYears bounds the horizon of a single simulation
const MaxTimeHorizonYears = 100

// PercentileKeys are the keys of SimulationResults.Percentiles in order
var PercentileKeys = []string{"5", "25", "50", "75", "95"}

// SimulationParameters drive a Monte Carlo run
type SimulationParameters struct {
	InitialValue        float64  `json:"initial_value"`
	ExpectedReturn      float64  `json:"expected_return"`
	Volatility          float64  `json:"volatility"`
	TimeHorizon         float64  `json:"time_horizon"`
	MonthlyContribution float64  `json:"monthly_contribution"`
	Iterations          int      `json:"iterations"`
	Seed                *int64   `json:"seed,omitempty"`
	TargetValue         *float64 `json:"target_value,omitempty"`
	InflationRate       float64  `json:"inflation_rate,omitempty"`
}

// UnmarshalJSON applies DefaultIterations when the field is absent. An
// explicit zero is kept so validation can reject it.
func (p *SimulationParameters) UnmarshalJSON(data []byte) error {
	type plain SimulationParameters
	aux := struct {
		*plain
		Iterations *int `json:"iterations"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Iterations == nil {
		p.Iterations = DefaultIterations
	} else {
		p.Iterations = *aux.Iterations
	}
	return nil
}

// Validate rejects parameters outside their documented domain
func (p SimulationParameters) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"initial_value", p.InitialValue},
		{"expected_return", p.ExpectedReturn},
		{"volatility", p.Volatility},
		{"time_horizon", p.TimeHorizon},
		{"monthly_contribution", p.MonthlyContribution},
		{"inflation_rate", p.InflationRate},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return NewInvalidInputError(f.name, "must be a finite number")
		}
	}
	switch {
	case p.Iterations <= 0:
		return NewInvalidInputError("iterations", "must be greater than 0")
	case p.Volatility < 0:
		return NewInvalidInputError("volatility", "must be greater than or equal to 0")
	case p.TimeHorizon <= 0:
		return NewInvalidInputError("time_horizon", "must be greater than 0")
	case p.TimeHorizon > MaxTimeHorizonYears:
		return NewInvalidInputError("time_horizon", fmt.Sprintf("must not exceed %d years", MaxTimeHorizonYears))
	case p.InitialValue < 0:
		return NewInvalidInputError("initial_value", "must be greater than or equal to 0")
	case p.MonthlyContribution < 0:
		return NewInvalidInputError("monthly_contribution", "must be greater than or equal to 0")
	case p.InitialValue == 0 && p.MonthlyContribution == 0:
		return NewInvalidInputError("initial_value", "must be greater than 0 when there are no contributions")
	case p.ExpectedReturn <= -1:
		return NewInvalidInputError("expected_return", "must be greater than -1")
	case p.InflationRate <= -1:
		return NewInvalidInputError("inflation_rate", "must be greater than -1")
	}
	if p.TargetValue != nil {
		t := *p.TargetValue
		if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
			return NewInvalidInputError("target_value", "must be a finite number greater than 0")
		}
	}
	return nil
}

// Months is the number of monthly steps the horizon covers, rounded to the
// nearest month. Any positive horizon covers at least one month.
func (p SimulationParameters) Months() int {
	months := int(math.Round(p.TimeHorizon * 12))
	if months < 1 {
		return 1
	}
	return months
}

// Statistics summarises the terminal value distribution
type Statistics struct {
	TotalReturn       float64 `json:"total_return"`
	AnnualizedReturn  float64 `json:"annualized_return"`
	MaxDrawdown       float64 `json:"max_drawdown"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	ExpectedShortfall float64 `json:"expected_shortfall"`
	MedianValue       float64 `json:"median_value"`
	StandardDeviation float64 `json:"standard_deviation"`
	ReturnVolatility  float64 `json:"return_volatility"`
	Skewness          float64 `json:"skewness"`
	Kurtosis          float64 `json:"kurtosis"`
}

// YearlyProjection is one yearly sample of the mean path
type YearlyProjection struct {
	Year          int     `json:"year"`
	ExpectedValue float64 `json:"expected_value"`
}

// SimulationResults is the nested "results" block of a simulation
type SimulationResults struct {
	Percentiles       map[string]float64 `json:"percentiles"`
	Statistics        Statistics         `json:"statistics"`
	YearlyProjections []YearlyProjection `json:"yearly_projections"`
}

// SimulationResult is the immutable outcome of one simulation run
type SimulationResult struct {
	ID                 uuid.UUID            `db:"id" json:"id"`
	UserID             int64                `db:"user_id" json:"user_id,omitempty"`
	Parameters         SimulationParameters `db:"parameters" json:"parameters"`
	Seed               int64                `db:"seed" json:"seed"`
	Iterations         int                  `db:"iterations" json:"iterations"`
	TargetValue        float64              `db:"target_value" json:"target_value"`
	ExpectedValue      float64              `db:"expected_value" json:"expected_value"`
	SuccessProbability float64              `db:"success_probability" json:"success_probability"`
	VaR95              float64              `db:"var_95" json:"var_95"`
	VaR99              float64              `db:"var_99" json:"var_99"`
	Results            SimulationResults    `db:"results" json:"results"`
	CreatedAt          time.Time            `db:"created_at" json:"created_at"`

	// TerminalValues is kept in memory for derived analyses and never serialised
	TerminalValues []float64 `db:"-" json:"-"`
}

// Clone returns a deep copy that shares no maps, slices or pointers with r
func (r *SimulationResult) Clone() *SimulationResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Parameters = r.Parameters.clone()
	c.Results.Percentiles = maps.Clone(r.Results.Percentiles)
	c.Results.YearlyProjections = slices.Clone(r.Results.YearlyProjections)
	c.TerminalValues = slices.Clone(r.TerminalValues)
	return &c
}

func (p SimulationParameters) clone() SimulationParameters {
	if p.Seed != nil {
		seed := *p.Seed
		p.Seed = &seed
	}
	if p.TargetValue != nil {
		target := *p.TargetValue
		p.TargetValue = &target
	}
	return p
}

// GoalParameters extend a simulation with a required target amount
type GoalParameters struct {
	SimulationParameters
	GoalValue float64 `json:"goal_value"`
}

// UnmarshalJSON keeps the iterations default of the embedded parameters
func (g *GoalParameters) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &g.SimulationParameters); err != nil {
		return err
	}
	var aux struct {
		GoalValue float64 `json:"goal_value"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	g.GoalValue = aux.GoalValue
	return nil
}

// ContributionSensitivity is the goal outcome at one contribution level
type ContributionSensitivity struct {
	MonthlyContribution float64 `json:"monthly_contribution"`
	SuccessProbability  float64 `json:"success_probability"`
	ExpectedValue       float64 `json:"expected_value"`
}

// ProbabilityRanges give the chance, in percent, of ending at or above a
// fraction of the goal.
type ProbabilityRanges struct {
	ExceedBy50Percent float64 `json:"exceed_target_by_50_percent"`
	ExceedBy25Percent float64 `json:"exceed_target_by_25_percent"`
	AchieveTarget     float64 `json:"achieve_target"`
	Within25Percent   float64 `json:"within_25_percent_of_target"`
	Within50Percent   float64 `json:"within_50_percent_of_target"`
}

// GoalResult is a simulation evaluated against a goal
type GoalResult struct {
	Simulation             *SimulationResult         `json:"simulation"`
	GoalValue              float64                   `json:"goal_value"`
	GoalSuccessProbability float64                   `json:"goal_success_probability"`
	AverageShortfall       float64                   `json:"average_shortfall"`
	WorstCaseShortfall     float64                   `json:"worst_case_shortfall"`
	RequiredReturn         *float64                  `json:"required_return"`
	ProbabilityRanges      ProbabilityRanges         `json:"probability_ranges"`
	Sensitivity            []ContributionSensitivity `json:"contribution_sensitivity"`
}

// Clone returns a deep copy of the goal result and its simulation
func (g *GoalResult) Clone() *GoalResult {
	if g == nil {
		return nil
	}
	c := *g
	c.Simulation = g.Simulation.Clone()
	if g.RequiredReturn != nil {
		required := *g.RequiredReturn
		c.RequiredReturn = &required
	}
	c.Sensitivity = slices.Clone(g.Sensitivity)
	return &c
}

// RetirementParameters describe a saver's path to retirement
type RetirementParameters struct {
	CurrentAge          int      `json:"current_age"`
	RetirementAge       int      `json:"retirement_age"`
	CurrentSavings      float64  `json:"current_savings"`
	MonthlyContribution float64  `json:"monthly_contribution"`
	ExpectedReturn      float64  `json:"expected_return"`
	Volatility          float64  `json:"volatility"`
	InflationRate       *float64 `json:"inflation_rate,omitempty"`
	Iterations          int      `json:"iterations,omitempty"`
	Seed                *int64   `json:"seed,omitempty"`
}

// WithdrawalAmounts are annual withdrawals at 3, 4 and 5 percent
type WithdrawalAmounts struct {
	ThreePercent float64 `json:"3_percent"`
	FourPercent  float64 `json:"4_percent"`
	FivePercent  float64 `json:"5_percent"`
}

// RetirementProjection is a simulation restated in today's money
type RetirementProjection struct {
	Simulation                   *SimulationResult            `json:"simulation"`
	YearsToRetirement            int                          `json:"years_to_retirement"`
	NominalExpectedValue         float64                      `json:"nominal_expected_value"`
	RealExpectedValue            float64                      `json:"real_expected_value"`
	InflationAdjustedPercentiles map[string]float64           `json:"inflation_adjusted_percentiles"`
	WithdrawalRates              map[string]WithdrawalAmounts `json:"withdrawal_rates"`
}

// Clone returns a deep copy of the projection and its simulation
func (r *RetirementProjection) Clone() *RetirementProjection {
	if r == nil {
		return nil
	}
	c := *r
	c.Simulation = r.Simulation.Clone()
	c.InflationAdjustedPercentiles = maps.Clone(r.InflationAdjustedPercentiles)
	c.WithdrawalRates = maps.Clone(r.WithdrawalRates)
	return &c
}
