package decision

import (
	"sort"

	"github.com/tensio-x/tensio/pkg/stats"
)

// MOTE returns the Minimum Of Three Equivalent characteristic value of a
// small sample: the lowest value for n = 3..5, the second-lowest for
// n = 6..10, the third-lowest for n = 11..15, extrapolating by one rank
// per further five samples. Fewer than 3 samples is undefined.
func MOTE(sample []float64) (float64, error) {
	if len(sample) < 3 {
		return 0, &stats.InsufficientDataError{Stage: "MOTE characteristic value", Size: len(sample), Min: 3}
	}
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)
	return sorted[moteRank(len(sample))-1], nil
}

// moteRank is the 1-based order statistic the rule selects. The generic
// ceil(n/5) formula reproduces the tabulated rule at every boundary
// (n = 5 -> 1, n = 6 -> 2, n = 10 -> 2, n = 11 -> 3); the boundary cases
// are pinned by tests rather than trusted from the formula alone.
func moteRank(n int) int {
	return (n + 4) / 5
}

// MOTEPoint is one point of the characteristic-value-versus-sample-size
// curve.
type MOTEPoint struct {
	N     int     `json:"n"`
	Value float64 `json:"value"`
}

// MOTECurve evaluates MOTE on the leading prefixes of the sample, from
// three values up to the full sample, producing the data behind the
// MOTE-versus-test-count figure.
func MOTECurve(sample []float64) ([]MOTEPoint, error) {
	if len(sample) < 3 {
		return nil, &stats.InsufficientDataError{Stage: "MOTE curve", Size: len(sample), Min: 3}
	}
	points := make([]MOTEPoint, 0, len(sample)-2)
	for n := 3; n <= len(sample); n++ {
		value, err := MOTE(sample[:n])
		if err != nil {
			return nil, err
		}
		points = append(points, MOTEPoint{N: n, Value: value})
	}
	return points, nil
}
