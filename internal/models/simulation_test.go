package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() SimulationParameters {
	return SimulationParameters{
		InitialValue:        100000,
		ExpectedReturn:      0.07,
		Volatility:          0.15,
		TimeHorizon:         10,
		MonthlyContribution: 1000,
		Iterations:          1000,
	}
}

func TestSimulationParametersDefaultIterations(t *testing.T) {
	var p SimulationParameters
	require.NoError(t, json.Unmarshal([]byte(`{"initial_value": 1000, "expected_return": 0.05, "volatility": 0.1, "time_horizon": 5}`), &p))
	assert.Equal(t, DefaultIterations, p.Iterations)
	assert.Equal(t, 1000.0, p.InitialValue)

	var explicit SimulationParameters
	require.NoError(t, json.Unmarshal([]byte(`{"initial_value": 1000, "time_horizon": 5, "iterations": 0}`), &explicit))
	assert.Equal(t, 0, explicit.Iterations)
	assert.ErrorIs(t, explicit.Validate(), ErrInvalidInput)

	var goal GoalParameters
	require.NoError(t, json.Unmarshal([]byte(`{"initial_value": 1000, "time_horizon": 5, "goal_value": 5000}`), &goal))
	assert.Equal(t, DefaultIterations, goal.Iterations)
	assert.Equal(t, 5000.0, goal.GoalValue)
}

func TestSimulationParametersValidate(t *testing.T) {
	require.NoError(t, validParams().Validate())

	tests := []struct {
		name   string
		field  string
		mutate func(p *SimulationParameters)
	}{
		{"zero iterations", "iterations", func(p *SimulationParameters) { p.Iterations = 0 }},
		{"negative volatility", "volatility", func(p *SimulationParameters) { p.Volatility = -0.1 }},
		{"zero horizon", "time_horizon", func(p *SimulationParameters) { p.TimeHorizon = 0 }},
		{"horizon beyond limit", "time_horizon", func(p *SimulationParameters) { p.TimeHorizon = MaxTimeHorizonYears + 0.5 }},
		{"huge horizon", "time_horizon", func(p *SimulationParameters) { p.TimeHorizon = 1e15 }},
		{"negative initial value", "initial_value", func(p *SimulationParameters) { p.InitialValue = -1 }},
		{"negative contribution", "monthly_contribution", func(p *SimulationParameters) { p.MonthlyContribution = -1 }},
		{"nothing invested", "initial_value", func(p *SimulationParameters) { p.InitialValue, p.MonthlyContribution = 0, 0 }},
		{"nan return", "expected_return", func(p *SimulationParameters) { p.ExpectedReturn = math.NaN() }},
		{"total loss return", "expected_return", func(p *SimulationParameters) { p.ExpectedReturn = -1 }},
		{"negative target", "target_value", func(p *SimulationParameters) { v := -5.0; p.TargetValue = &v }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			err := p.Validate()
			require.ErrorIs(t, err, ErrInvalidInput)

			var engineErr *Error
			require.ErrorAs(t, err, &engineErr)
			assert.Equal(t, tt.field, engineErr.Field)
		})
	}
}

func TestSimulationParametersMonths(t *testing.T) {
	p := validParams()
	assert.Equal(t, 120, p.Months())
	p.TimeHorizon = 0.5
	assert.Equal(t, 6, p.Months())
	p.TimeHorizon = 0.01
	assert.Equal(t, 1, p.Months())
	p.TimeHorizon = MaxTimeHorizonYears
	assert.Equal(t, 1200, p.Months())
	require.NoError(t, p.Validate())
}

func TestSimulationResultClone(t *testing.T) {
	seed := int64(7)
	original := &SimulationResult{
		Parameters:     SimulationParameters{Iterations: 10, Seed: &seed},
		Results:        SimulationResults{Percentiles: map[string]float64{"50": 100}, YearlyProjections: []YearlyProjection{{Year: 1, ExpectedValue: 100}}},
		TerminalValues: []float64{90, 110},
	}

	c := original.Clone()
	c.Results.Percentiles["50"] = 1
	c.Results.YearlyProjections[0].ExpectedValue = 1
	c.TerminalValues[0] = 1
	*c.Parameters.Seed = 1

	assert.Equal(t, 100.0, original.Results.Percentiles["50"])
	assert.Equal(t, 100.0, original.Results.YearlyProjections[0].ExpectedValue)
	assert.Equal(t, 90.0, original.TerminalValues[0])
	assert.Equal(t, int64(7), *original.Parameters.Seed)
	assert.Nil(t, (*SimulationResult)(nil).Clone())

	goal := &GoalResult{Simulation: original, Sensitivity: []ContributionSensitivity{{MonthlyContribution: 100}}}
	gc := goal.Clone()
	gc.Simulation.TerminalValues[1] = 1
	gc.Sensitivity[0].MonthlyContribution = 1
	assert.Equal(t, 110.0, original.TerminalValues[1])
	assert.Equal(t, 100.0, goal.Sensitivity[0].MonthlyContribution)

	projection := &RetirementProjection{Simulation: original, InflationAdjustedPercentiles: map[string]float64{"25": 5}}
	pc := projection.Clone()
	pc.InflationAdjustedPercentiles["25"] = 1
	assert.Equal(t, 5.0, projection.InflationAdjustedPercentiles["25"])
	assert.NotSame(t, original, pc.Simulation)
}
