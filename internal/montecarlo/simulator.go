package montecarlo

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/finrisk/internal/models"
)

// Simulator runs Monte Carlo portfolio simulations. It holds only settings
// and is safe for concurrent use.
type Simulator struct {
	cfg Config
}

// NewSimulator creates a simulator
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulator config: %w", err)
	}
	return &Simulator{cfg: cfg}, nil
}

// batch is the output of one independent block of trials
type batch struct {
	terminal []float64
	pathSums []float64
}

// Simulate runs params.Iterations trials with monthly steps. Trials are split
// into fixed-size batches, each drawing from its own stream seeded by
// (seed, batch index), so a seeded run is bit-identical for any worker count.
// Cancelling ctx aborts the run and no partial result is returned.
func (s *Simulator) Simulate(ctx context.Context, params models.SimulationParameters) (*models.SimulationResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	months := params.Months()

	seed := time.Now().UnixNano()
	if params.Seed != nil {
		seed = *params.Seed
	}

	batches, err := s.run(ctx, params, months, seed)
	if err != nil {
		return nil, err
	}

	terminal := make([]float64, 0, params.Iterations)
	meanPath := make([]float64, months+1)
	for _, b := range batches {
		terminal = append(terminal, b.terminal...)
		for m, v := range b.pathSums {
			meanPath[m] += v
		}
	}
	for m := range meanPath {
		meanPath[m] /= float64(params.Iterations)
	}

	return s.summarize(params, seed, terminal, meanPath)
}

func (s *Simulator) run(ctx context.Context, params models.SimulationParameters, months int, seed int64) ([]batch, error) {
	n := (params.Iterations + s.cfg.BatchSize - 1) / s.cfg.BatchSize
	batches := make([]batch, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := 0; i < n; i++ {
		size := s.cfg.BatchSize
		if rem := params.Iterations - i*s.cfg.BatchSize; rem < size {
			size = rem
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			batches[i] = simulateBatch(params, months, size, seed, uint64(i))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

// simulateBatch evolves size trials month by month. A portfolio cannot fall
// below zero before the month's contribution is added.
func simulateBatch(params models.SimulationParameters, months, size int, seed int64, index uint64) batch {
	rng := rand.New(rand.NewPCG(uint64(seed), index))
	mu := params.ExpectedReturn / 12
	sigma := params.Volatility / math.Sqrt(12)

	b := batch{
		terminal: make([]float64, size),
		pathSums: make([]float64, months+1),
	}
	for t := 0; t < size; t++ {
		value := params.InitialValue
		b.pathSums[0] += value
		for m := 1; m <= months; m++ {
			r := mu + sigma*rng.NormFloat64()
			value = math.Max(0, value*(1+r)) + params.MonthlyContribution
			b.pathSums[m] += value
		}
		b.terminal[t] = value
	}
	return b
}

func (s *Simulator) summarize(params models.SimulationParameters, seed int64, terminal, meanPath []float64) (*models.SimulationResult, error) {
	months := len(meanPath) - 1
	base := baseValue(params, months)
	sorted := sortedCopy(terminal)

	mean, std := meanStdDev(sorted)
	p1 := quantile(sorted, 0.01)
	p5 := quantile(sorted, 0.05)
	median := quantile(sorted, 0.50)

	target := base * math.Pow(1+params.InflationRate, params.TimeHorizon)
	if params.TargetValue != nil {
		target = *params.TargetValue
	}

	trialReturns := make([]float64, len(terminal))
	for i, v := range terminal {
		trialReturns[i] = calculateCAGR(base, v, params.TimeHorizon)
	}
	annualized := calculateCAGR(base, mean, params.TimeHorizon)
	skew, kurt := shapeMoments(sorted, std)

	percentiles := map[string]float64{
		"5":  p5,
		"25": quantile(sorted, 0.25),
		"50": median,
		"75": quantile(sorted, 0.75),
		"95": quantile(sorted, 0.95),
	}

	stats := models.Statistics{
		TotalReturn:       mean/base - 1,
		AnnualizedReturn:  annualized,
		MaxDrawdown:       calculateMaxDrawdown(meanPath),
		SharpeRatio:       calculateSharpeRatio(annualized, trialReturns, s.cfg.RiskFreeRate),
		ExpectedShortfall: math.Max(0, base-tailMean(sorted, p5)),
		MedianValue:       median,
		StandardDeviation: std,
		ReturnVolatility:  std / base,
		Skewness:          skew,
		Kurtosis:          kurt,
	}

	result := &models.SimulationResult{
		ID:                 uuid.New(),
		Parameters:         params,
		Seed:               seed,
		Iterations:         params.Iterations,
		TargetValue:        target,
		ExpectedValue:      mean,
		SuccessProbability: fractionAtOrAbove(sorted, target) * 100,
		VaR95:              math.Max(0, base-p5),
		VaR99:              math.Max(0, base-p1),
		Results: models.SimulationResults{
			Percentiles:       percentiles,
			Statistics:        stats,
			YearlyProjections: yearlyProjections(meanPath),
		},
		CreatedAt:      time.Now().UTC(),
		TerminalValues: terminal,
	}

	if err := checkFinite(result); err != nil {
		return nil, err
	}
	return result, nil
}

// baseValue is the amount at risk: the initial value, or the total
// contributions when starting from nothing.
func baseValue(params models.SimulationParameters, months int) float64 {
	if params.InitialValue > 0 {
		return params.InitialValue
	}
	return params.MonthlyContribution * float64(months)
}

func yearlyProjections(meanPath []float64) []models.YearlyProjection {
	months := len(meanPath) - 1
	years := (months + 11) / 12
	out := make([]models.YearlyProjection, 0, years)
	for y := 1; y <= years; y++ {
		m := y * 12
		if m > months {
			m = months
		}
		out = append(out, models.YearlyProjection{Year: y, ExpectedValue: meanPath[m]})
	}
	return out
}

func checkFinite(r *models.SimulationResult) error {
	st := r.Results.Statistics
	values := []float64{
		r.ExpectedValue, r.SuccessProbability, r.VaR95, r.VaR99, r.TargetValue,
		st.TotalReturn, st.AnnualizedReturn, st.MaxDrawdown, st.SharpeRatio,
		st.ExpectedShortfall, st.MedianValue, st.StandardDeviation,
		st.ReturnVolatility, st.Skewness, st.Kurtosis,
	}
	for _, v := range r.Results.Percentiles {
		values = append(values, v)
	}
	if !allFinite(values...) {
		return models.NewCalculationError("simulation produced non-finite statistics", nil)
	}
	return nil
}
