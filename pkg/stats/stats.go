// Package stats holds the shared numeric helpers and the error taxonomy
// used by the fitting, decision and value-of-information packages.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of x. Returns NaN for an empty slice,
// matching gonum conventions; callers that need an error use the
// InsufficientDataError taxonomy at their own boundary.
func Mean(x []float64) float64 {
	return stat.Mean(x, nil)
}

// PopStdDev returns the population standard deviation (divisor N).
// This is the Normal MLE of sigma, as opposed to the sample estimate.
func PopStdDev(x []float64) float64 {
	return math.Sqrt(stat.MomentAbout(2, x, stat.Mean(x, nil), nil))
}

// StdDev returns the unbiased sample standard deviation (divisor N-1).
func StdDev(x []float64) float64 {
	return stat.StdDev(x, nil)
}

// StdErr returns the Monte-Carlo standard error of the mean of x.
func StdErr(x []float64) float64 {
	return stat.StdDev(x, nil) / math.Sqrt(float64(len(x)))
}

// Quantile returns the empirical p-quantile of x. The input is copied and
// sorted, so callers keep ownership of x.
func Quantile(p float64, x []float64) float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}
