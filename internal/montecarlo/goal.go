package montecarlo

import (
	"context"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/finrisk/internal/models"
)

// SensitivityContributions are the monthly contribution levels probed when
// analysing a goal.
var SensitivityContributions = []float64{0, 100, 250, 500, 1000, 2000}

const (
	sensitivityIterations = 1000
	minRequiredReturn     = -0.99
	maxRequiredReturn     = 1.0
)

// Goal simulates params and measures the outcome against a target amount,
// including how the probability of success moves with contributions.
func (s *Simulator) Goal(ctx context.Context, params models.GoalParameters) (*models.GoalResult, error) {
	goal := params.GoalValue
	if math.IsNaN(goal) || math.IsInf(goal, 0) || goal <= 0 {
		return nil, models.NewInvalidInputError("goal_value", "must be a finite number greater than 0")
	}

	simParams := params.SimulationParameters
	simParams.TargetValue = &goal
	sim, err := s.Simulate(ctx, simParams)
	if err != nil {
		return nil, err
	}

	sorted := sortedCopy(sim.TerminalValues)
	result := &models.GoalResult{
		Simulation:             sim,
		GoalValue:              goal,
		GoalSuccessProbability: sim.SuccessProbability,
		RequiredReturn:         requiredReturn(simParams.InitialValue, simParams.MonthlyContribution, simParams.Months(), goal),
		ProbabilityRanges: models.ProbabilityRanges{
			ExceedBy50Percent: fractionAtOrAbove(sorted, goal*1.5) * 100,
			ExceedBy25Percent: fractionAtOrAbove(sorted, goal*1.25) * 100,
			AchieveTarget:     fractionAtOrAbove(sorted, goal) * 100,
			Within25Percent:   fractionAtOrAbove(sorted, goal*0.75) * 100,
			Within50Percent:   fractionAtOrAbove(sorted, goal*0.5) * 100,
		},
	}

	if below := sort.SearchFloat64s(sorted, goal); below > 0 {
		shortfalls := sorted[:below]
		result.AverageShortfall = goal - stat.Mean(shortfalls, nil)
		result.WorstCaseShortfall = goal - shortfalls[0]
	}

	result.Sensitivity, err = s.contributionSensitivity(ctx, simParams, sim.Seed)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// contributionSensitivity reruns a smaller simulation per contribution level
// with the parent's seed so the comparison is like for like.
func (s *Simulator) contributionSensitivity(ctx context.Context, params models.SimulationParameters, seed int64) ([]models.ContributionSensitivity, error) {
	out := make([]models.ContributionSensitivity, 0, len(SensitivityContributions))
	for _, contribution := range SensitivityContributions {
		entry := models.ContributionSensitivity{MonthlyContribution: contribution}
		if params.InitialValue == 0 && contribution == 0 {
			out = append(out, entry)
			continue
		}

		p := params
		p.MonthlyContribution = contribution
		p.Iterations = sensitivityIterations
		p.Seed = &seed
		sim, err := s.Simulate(ctx, p)
		if err != nil {
			return nil, err
		}
		entry.SuccessProbability = sim.SuccessProbability
		entry.ExpectedValue = sim.ExpectedValue
		out = append(out, entry)
	}
	return out, nil
}

// requiredReturn finds the constant annual return, compounded monthly, that
// grows the deposits to goal. It returns nil when no return in
// [-99%, 100%] reaches the goal.
func requiredReturn(initial, contribution float64, months int, goal float64) *float64 {
	fv := func(annual float64) float64 {
		i := annual / 12
		if i == 0 {
			return initial + contribution*float64(months)
		}
		growth := math.Pow(1+i, float64(months))
		return initial*growth + contribution*(growth-1)/i
	}

	lo, hi := minRequiredReturn, maxRequiredReturn
	if fv(hi) < goal {
		return nil
	}
	if fv(lo) >= goal {
		return &lo
	}
	for iter := 0; iter < 200 && hi-lo > 1e-10; iter++ {
		mid := (lo + hi) / 2
		if fv(mid) < goal {
			lo = mid
		} else {
			hi = mid
		}
	}
	return &hi
}
