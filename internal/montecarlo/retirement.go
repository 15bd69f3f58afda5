package montecarlo

import (
	"context"
	"fmt"
	"math"

	"github.com/yourusername/finrisk/internal/models"
)

// DefaultRetirementInflation is used when a projection omits inflation
const DefaultRetirementInflation = 0.03

var retirementPercentiles = []int{25, 50, 75, 90}

// Retirement projects savings to retirement age and restates the outcome in
// today's money, with sustainable annual withdrawals at 3, 4 and 5 percent.
func (s *Simulator) Retirement(ctx context.Context, params models.RetirementParameters) (*models.RetirementProjection, error) {
	if params.CurrentAge <= 0 {
		return nil, models.NewInvalidInputError("current_age", "must be greater than 0")
	}
	years := params.RetirementAge - params.CurrentAge
	if years <= 0 {
		return nil, models.NewInvalidInputError("retirement_age", "must be greater than current_age")
	}
	if years > models.MaxTimeHorizonYears {
		return nil, models.NewInvalidInputError("retirement_age",
			fmt.Sprintf("must be within %d years of current_age", models.MaxTimeHorizonYears))
	}

	inflation := DefaultRetirementInflation
	if params.InflationRate != nil {
		inflation = *params.InflationRate
	}
	iterations := params.Iterations
	if iterations == 0 {
		iterations = models.DefaultIterations
	}

	sim, err := s.Simulate(ctx, models.SimulationParameters{
		InitialValue:        params.CurrentSavings,
		ExpectedReturn:      params.ExpectedReturn,
		Volatility:          params.Volatility,
		TimeHorizon:         float64(years),
		MonthlyContribution: params.MonthlyContribution,
		Iterations:          iterations,
		Seed:                params.Seed,
		InflationRate:       inflation,
	})
	if err != nil {
		return nil, err
	}

	factor := math.Pow(1+inflation, float64(years))
	realValues := make([]float64, len(sim.TerminalValues))
	for i, v := range sim.TerminalValues {
		realValues[i] = v / factor
	}
	sorted := sortedCopy(realValues)
	realMean, _ := meanStdDev(sorted)

	projection := &models.RetirementProjection{
		Simulation:                   sim,
		YearsToRetirement:            years,
		NominalExpectedValue:         sim.ExpectedValue,
		RealExpectedValue:            realMean,
		InflationAdjustedPercentiles: make(map[string]float64, len(retirementPercentiles)),
		WithdrawalRates:              make(map[string]models.WithdrawalAmounts, len(retirementPercentiles)),
	}
	for _, pct := range retirementPercentiles {
		value := quantile(sorted, float64(pct)/100)
		projection.InflationAdjustedPercentiles[fmt.Sprint(pct)] = value
		projection.WithdrawalRates[fmt.Sprintf("percentile_%d", pct)] = models.WithdrawalAmounts{
			ThreePercent: value * 0.03,
			FourPercent:  value * 0.04,
			FivePercent:  value * 0.05,
		}
	}

	if !allFinite(realMean) {
		return nil, models.NewCalculationError("retirement projection is not finite", nil)
	}
	return projection, nil
}
