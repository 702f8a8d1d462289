// Package distfit estimates parametric distribution parameters from
// measurement samples: closed-form Normal maximum likelihood and
// nonparametric bootstrap confidence intervals.
package distfit

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/tensio-x/tensio/pkg/random"
	"github.com/tensio-x/tensio/pkg/stats"
)

// Params holds fitted location/scale parameters. Immutable once returned.
type Params struct {
	Mean float64
	Std  float64
}

// FitNormalMLE returns the maximum-likelihood Normal parameters for the
// sample: the arithmetic mean and the population standard deviation
// (divisor N, not N-1).
func FitNormalMLE(sample []float64) (Params, error) {
	if len(sample) == 0 {
		return Params{}, &stats.InsufficientDataError{Stage: "normal MLE fit", Size: 0, Min: 1}
	}
	return Params{
		Mean: stats.Mean(sample),
		Std:  stats.PopStdDev(sample),
	}, nil
}

// Estimator maps a (re)sample to named parameter estimates.
type Estimator func(sample []float64) (map[string]float64, error)

// Interval is an empirical confidence interval for one parameter.
type Interval struct {
	Low  float64
	High float64
}

// BootstrapCI resamples the input with replacement nResamples times,
// applies the estimator to each resample and returns the central
// confidence-level interval of every parameter the estimator reports.
func BootstrapCI(sample []float64, est Estimator, nResamples int, confidence float64, stream *random.Stream) (map[string]Interval, error) {
	if len(sample) < 2 {
		return nil, &stats.InsufficientDataError{Stage: "bootstrap", Size: len(sample), Min: 2}
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, &stats.InvalidParameterError{Param: "confidence", Value: confidence, Reason: "must be in (0, 1)"}
	}
	if nResamples < 1 {
		return nil, &stats.InvalidParameterError{Param: "nResamples", Value: float64(nResamples), Reason: "must be >= 1"}
	}

	estimates := map[string][]float64{}
	resample := make([]float64, len(sample))
	for r := 0; r < nResamples; r++ {
		for i := range resample {
			resample[i] = sample[stream.Intn(len(sample))]
		}
		params, err := est(resample)
		if err != nil {
			return nil, errors.Wrapf(err, "estimator failed on resample %d of %d", r, nResamples)
		}
		for name, value := range params {
			estimates[name] = append(estimates[name], value)
		}
	}

	alpha := (1 - confidence) / 2
	intervals := map[string]Interval{}
	for name, values := range estimates {
		sort.Float64s(values)
		intervals[name] = Interval{
			Low:  stat.Quantile(alpha, stat.Empirical, values, nil),
			High: stat.Quantile(1-alpha, stat.Empirical, values, nil),
		}
	}
	return intervals, nil
}

// NormalEstimator is the Estimator for FitNormalMLE, reporting "mean" and
// "std". It is what the yield-strength analysis bootstraps.
func NormalEstimator(sample []float64) (map[string]float64, error) {
	params, err := FitNormalMLE(sample)
	if err != nil {
		return nil, err
	}
	return map[string]float64{"mean": params.Mean, "std": params.Std}, nil
}
