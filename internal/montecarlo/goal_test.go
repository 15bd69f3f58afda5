package montecarlo

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/finrisk/internal/models"
)

func TestGoal(t *testing.T) {
	params := referenceParams()
	params.Iterations = 4000

	result, err := newTestSimulator(t, 4).Goal(context.Background(), models.GoalParameters{
		SimulationParameters: params,
		GoalValue:            400000,
	})
	require.NoError(t, err)

	assert.Equal(t, 400000.0, result.Simulation.TargetValue)
	assert.Equal(t, result.Simulation.SuccessProbability, result.GoalSuccessProbability)
	assert.InDelta(t, result.GoalSuccessProbability, result.ProbabilityRanges.AchieveTarget, 1e-9)

	ranges := result.ProbabilityRanges
	assert.LessOrEqual(t, ranges.ExceedBy50Percent, ranges.ExceedBy25Percent)
	assert.LessOrEqual(t, ranges.ExceedBy25Percent, ranges.AchieveTarget)
	assert.LessOrEqual(t, ranges.AchieveTarget, ranges.Within25Percent)
	assert.LessOrEqual(t, ranges.Within25Percent, ranges.Within50Percent)

	assert.Greater(t, result.AverageShortfall, 0.0)
	assert.GreaterOrEqual(t, result.WorstCaseShortfall, result.AverageShortfall)

	require.NotNil(t, result.RequiredReturn)
	assert.Greater(t, *result.RequiredReturn, 0.0)
	assert.Less(t, *result.RequiredReturn, params.ExpectedReturn+0.02)

	require.Len(t, result.Sensitivity, len(SensitivityContributions))
	for i := 1; i < len(result.Sensitivity); i++ {
		prev, cur := result.Sensitivity[i-1], result.Sensitivity[i]
		assert.Greater(t, cur.MonthlyContribution, prev.MonthlyContribution)
		assert.GreaterOrEqual(t, cur.SuccessProbability, prev.SuccessProbability)
		assert.Greater(t, cur.ExpectedValue, prev.ExpectedValue)
	}
}

func TestGoalIsReproducible(t *testing.T) {
	params := referenceParams()
	params.Iterations = 1000
	goal := models.GoalParameters{SimulationParameters: params, GoalValue: 350000}

	first, err := newTestSimulator(t, 1).Goal(context.Background(), goal)
	require.NoError(t, err)
	second, err := newTestSimulator(t, 4).Goal(context.Background(), goal)
	require.NoError(t, err)

	assert.Equal(t, first.GoalSuccessProbability, second.GoalSuccessProbability)
	assert.Equal(t, first.Sensitivity, second.Sensitivity)
}

func TestGoalRejectsInvalidGoal(t *testing.T) {
	_, err := newTestSimulator(t, 1).Goal(context.Background(), models.GoalParameters{
		SimulationParameters: referenceParams(),
		GoalValue:            0,
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRequiredReturn(t *testing.T) {
	r := requiredReturn(100000, 0, 120, 200000)
	require.NotNil(t, r)
	expected := (math.Pow(2, 1.0/120) - 1) * 12
	assert.InDelta(t, expected, *r, 1e-6)

	withContributions := requiredReturn(100000, 1000, 120, 200000)
	require.NotNil(t, withContributions)
	assert.Less(t, *withContributions, *r)

	assert.Nil(t, requiredReturn(100000, 0, 12, 1e12))

	floor := requiredReturn(100000, 0, 12, 1)
	require.NotNil(t, floor)
	assert.Equal(t, minRequiredReturn, *floor)
}
