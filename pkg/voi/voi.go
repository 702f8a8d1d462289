// Package voi estimates the expected value of information for additional
// yield-strength testing: the perfect-information bound (EVPI) and a
// nested Monte-Carlo sweep over candidate measurement precisions (EVI).
package voi

import (
	"runtime"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/tensio-x/tensio/pkg/decision"
	"github.com/tensio-x/tensio/pkg/random"
	"github.com/tensio-x/tensio/pkg/stats"
	"github.com/tensio-x/tensio/pkg/yieldmodel"
)

// Engine runs value-of-information computations on top of the decision
// evaluator. All fields are read-only while a computation runs.
type Engine struct {
	Model       *yieldmodel.Model
	Threshold   float64
	Costs       decision.CostTable
	FailureCost float64
	MasterSeed  uint64

	// Parallelism bounds concurrent posterior refits in Sweep; zero or
	// negative means GOMAXPROCS.
	Parallelism int

	// Progress, when set, is called after every finished unit of work.
	// It may be invoked from multiple goroutines.
	Progress func(stage string, done, total int)
}

// PerfectSample records one hypothetical perfectly-revealed strength, the
// action that would be chosen knowing it, and that action's cost.
type PerfectSample struct {
	RevealedStrength float64         `json:"revealed_strength"`
	ChosenAction     decision.Action `json:"chosen_action"`
	Cost             float64         `json:"cost"`
}

// PerfectResult is the EVPI computation output. Samples carries the
// per-hypothesis detail behind the value-of-perfect-information jitter
// figure.
type PerfectResult struct {
	BaselineCost float64         `json:"baseline_cost"`
	EVPI         float64         `json:"evpi"`
	Samples      []PerfectSample `json:"samples"`
}

// SweepPoint is the sweep result for one candidate measurement precision.
type SweepPoint struct {
	Noise    float64 `json:"noise"`
	MeanCost float64 `json:"mean_cost"`
	StdErr   float64 `json:"std_err"`
	Value    float64 `json:"value"`
}

// baselineCost is the expected cost of deciding now, before any further
// testing: the best action over the whole predictive ensemble.
func (e *Engine) baselineCost(predicted []float64) (float64, error) {
	result, err := decision.ExpectedCosts(predicted, e.Threshold, e.Costs, e.FailureCost)
	if err != nil {
		return 0, errors.Wrap(err, "baseline decision failed")
	}
	return result.Best().ExpectedCost, nil
}

// PerfectInformation computes EVPI: each predictive sample is treated as a
// perfectly revealed true strength, the best action is chosen for that
// outcome alone, and the mean of those best costs is subtracted from the
// baseline. A perfect future test cannot do worse than deciding now, so
// the result is non-negative up to the decision rule itself.
func (e *Engine) PerfectInformation(ensemble *yieldmodel.Ensemble) (*PerfectResult, error) {
	predicted := ensemble.PredictedYields()
	baseline, err := e.baselineCost(predicted)
	if err != nil {
		return nil, err
	}

	samples := make([]PerfectSample, len(predicted))
	costs := make([]float64, len(predicted))
	single := make([]float64, 1)
	for i, strength := range predicted {
		single[0] = strength
		result, err := decision.ExpectedCosts(single, e.Threshold, e.Costs, e.FailureCost)
		if err != nil {
			return nil, errors.Wrapf(err, "perfect-information decision failed for sample %d", i)
		}
		best := result.Best()
		samples[i] = PerfectSample{RevealedStrength: strength, ChosenAction: best.Action, Cost: best.ExpectedCost}
		costs[i] = best.ExpectedCost
		if e.Progress != nil {
			e.Progress("perfect information", i+1, len(predicted))
		}
	}

	return &PerfectResult{
		BaselineCost: baseline,
		EVPI:         baseline - stats.Mean(costs),
		Samples:      samples,
	}, nil
}

// Sweep estimates the expected value of an imperfect future test round for
// every candidate noise level. The predictive ensemble is cut into
// disjoint batches of testsPerRound hypothetical strengths; each batch
// plays the role of one future round of measurements taken with the
// candidate precision, the posterior is refit on the augmented data, and
// the best achievable cost is recorded. Batches are independent and run
// concurrently; every refit derives its own seed from (master, level,
// batch), so the output does not depend on scheduling.
func (e *Engine) Sweep(ensemble *yieldmodel.Ensemble, measurements, epsilon, noiseLevels []float64, testsPerRound int) ([]SweepPoint, error) {
	if testsPerRound < 1 {
		return nil, &stats.InvalidParameterError{Param: "testsPerRound", Value: float64(testsPerRound), Reason: "must be >= 1"}
	}
	for _, level := range noiseLevels {
		if level <= 0 {
			return nil, &stats.InvalidParameterError{Param: "noiseLevel", Value: level, Reason: "must be > 0"}
		}
	}
	predicted := ensemble.PredictedYields()
	batchCount := len(predicted) / testsPerRound
	if batchCount < 2 {
		return nil, &stats.InsufficientDataError{
			Stage: "value-of-information sweep",
			Size:  len(predicted),
			Min:   2 * testsPerRound,
		}
	}
	noise, err := yieldmodel.NoiseVector(epsilon, len(measurements))
	if err != nil {
		return nil, err
	}
	baseline, err := e.baselineCost(predicted)
	if err != nil {
		return nil, err
	}

	parallelism := e.Parallelism
	if parallelism < 1 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	total := len(noiseLevels) * batchCount
	var done atomic.Int64
	costs := make([][]float64, len(noiseLevels))
	var group errgroup.Group
	group.SetLimit(parallelism)
	for li, level := range noiseLevels {
		costs[li] = make([]float64, batchCount)
		for bi := 0; bi < batchCount; bi++ {
			li, level, bi := li, level, bi
			group.Go(func() error {
				batch := predicted[bi*testsPerRound : (bi+1)*testsPerRound]
				cost, err := e.hypotheticalRound(level, li, bi, measurements, noise, batch)
				if err != nil {
					return err
				}
				costs[li][bi] = cost
				if e.Progress != nil {
					e.Progress("value-of-information sweep", int(done.Add(1)), total)
				}
				return nil
			})
		}
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(noiseLevels))
	for li, level := range noiseLevels {
		mean := stats.Mean(costs[li])
		points[li] = SweepPoint{
			Noise:    level,
			MeanCost: mean,
			StdErr:   stats.StdErr(costs[li]),
			Value:    baseline - mean,
		}
	}
	return points, nil
}

// hypotheticalRound refits the posterior on the measurements augmented
// with one simulated round of future tests and returns the best expected
// cost under the updated beliefs.
func (e *Engine) hypotheticalRound(level float64, levelIdx, batchIdx int, measurements, noise, batch []float64) (float64, error) {
	augmented := make([]float64, 0, len(measurements)+len(batch))
	augmented = append(augmented, measurements...)
	augmented = append(augmented, batch...)

	augmentedNoise := make([]float64, 0, len(noise)+len(batch))
	augmentedNoise = append(augmentedNoise, noise...)
	for range batch {
		augmentedNoise = append(augmentedNoise, level)
	}

	seed := random.DeriveSeed(e.MasterSeed, "voi", uint64(levelIdx)<<32|uint64(batchIdx))
	updated, err := e.Model.SampleWithSeed(seed, augmented, augmentedNoise)
	if err != nil {
		return 0, errors.Wrapf(err, "posterior refit failed (noise %v, batch %d)", level, batchIdx)
	}
	result, err := decision.ExpectedCosts(updated.PredictedYields(), e.Threshold, e.Costs, e.FailureCost)
	if err != nil {
		return 0, errors.Wrapf(err, "decision failed on refit ensemble (noise %v, batch %d)", level, batchIdx)
	}
	return result.Best().ExpectedCost, nil
}
