package visualization

import (
	"github.com/tensio-x/tensio/pkg/decision"
	"github.com/tensio-x/tensio/pkg/voi"
	"github.com/tensio-x/tensio/pkg/yieldmodel"
)

// PredictiveHistogram wraps an ensemble's predictive yield samples for a
// histogram figure.
func PredictiveHistogram(label string, ensemble *yieldmodel.Ensemble) Histogram {
	return Histogram{Label: label, Values: ensemble.PredictedYields()}
}

// PriorPredictiveHistogram wraps prior predictive samples.
func PriorPredictiveHistogram(samples []float64) Histogram {
	return Histogram{Label: "prior predictive", Values: samples}
}

// PosteriorJointScatter is the joint (mu, sigma) scatter of an ensemble.
func PosteriorJointScatter(ensemble *yieldmodel.Ensemble) ScatterXY {
	return ScatterXY{
		XLabel: "mu [MPa]",
		YLabel: "sigma [MPa]",
		X:      ensemble.Mus(),
		Y:      ensemble.Sigmas(),
	}
}

// PerfectInfoJitter is the value-of-perfect-information jitter figure:
// each hypothetical revealed strength against the cost of the action it
// selects.
func PerfectInfoJitter(result *voi.PerfectResult) ScatterXY {
	x := make([]float64, len(result.Samples))
	y := make([]float64, len(result.Samples))
	for i, s := range result.Samples {
		x[i] = s.RevealedStrength
		y[i] = s.Cost
	}
	return ScatterXY{
		XLabel: "revealed yield strength [MPa]",
		YLabel: "expected cost",
		X:      x,
		Y:      y,
	}
}

// SweepPointRanges turns a sweep into point-range elements: value of
// information per noise level, with +/- one Monte-Carlo standard error.
func SweepPointRanges(points []voi.SweepPoint) []PointRange {
	out := make([]PointRange, len(points))
	for i, p := range points {
		out[i] = PointRange{
			X:    p.Noise,
			Y:    p.Value,
			Low:  p.Value - p.StdErr,
			High: p.Value + p.StdErr,
		}
	}
	return out
}

// MOTEScatter is the characteristic value against sample size.
func MOTEScatter(points []decision.MOTEPoint) ScatterXY {
	x := make([]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i] = float64(p.N)
		y[i] = p.Value
	}
	return ScatterXY{XLabel: "number of tests", YLabel: "MOTE [MPa]", X: x, Y: y}
}
