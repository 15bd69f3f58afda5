package montecarlo

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// quantile returns the empirical p-quantile of an ascending slice
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// relativeNoise is the dispersion, relative to the mean, below which a
// distribution is treated as a single point
const relativeNoise = 1e-12

// meanStdDev returns the mean and sample standard deviation. Rounding noise
// in a constant sample is reported as zero.
func meanStdDev(values []float64) (float64, float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if std <= relativeNoise*math.Max(1, math.Abs(mean)) {
		std = 0
	}
	return mean, std
}

func sortedCopy(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}

// tailMean averages the values at or below threshold
func tailMean(sorted []float64, threshold float64) float64 {
	n := sort.Search(len(sorted), func(i int) bool { return sorted[i] > threshold })
	if n == 0 {
		return threshold
	}
	return stat.Mean(sorted[:n], nil)
}

// shapeMoments returns skewness and excess kurtosis, or zeros when the
// distribution is degenerate.
func shapeMoments(values []float64, std float64) (float64, float64) {
	if len(values) < 4 || std == 0 {
		return 0, 0
	}
	return stat.Skew(values, nil), stat.ExKurtosis(values, nil)
}

// calculateCAGR is the compound annual growth rate from base to final
func calculateCAGR(base, final, years float64) float64 {
	if base <= 0 || years <= 0 {
		return 0
	}
	if final <= 0 {
		return -1
	}
	return math.Pow(final/base, 1.0/years) - 1.0
}

// calculateMaxDrawdown is the largest peak-to-trough fall as a fraction
func calculateMaxDrawdown(path []float64) float64 {
	maxDD := 0.0
	peak := 0.0
	for _, v := range path {
		if v > peak {
			peak = v
		}
		if peak == 0 {
			continue
		}
		if dd := (peak - v) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// calculateSharpeRatio divides excess annual return by the dispersion of
// per-trial annual returns.
func calculateSharpeRatio(annualized float64, trialReturns []float64, riskFreeRate float64) float64 {
	if len(trialReturns) < 2 {
		return 0
	}
	_, std := meanStdDev(trialReturns)
	if std == 0 || math.IsNaN(std) {
		return 0
	}
	return (annualized - riskFreeRate) / std
}

func fractionAtOrAbove(sorted []float64, threshold float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := sort.SearchFloat64s(sorted, threshold)
	return float64(len(sorted)-idx) / float64(len(sorted))
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
