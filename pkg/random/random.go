// Package random provides the deterministic sampling primitives used by
// every stochastic component. A Stream is created from an explicit seed and
// reproduces the exact same draw sequence for the same requests; seeds for
// parallel work are derived with DeriveSeed so execution order never
// affects reproducibility.
package random

import (
	"hash/fnv"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tensio-x/tensio/pkg/stats"
)

// DeriveSeed maps (master seed, stage name, index) to a stream seed.
// It is a pure function: no global state, safe to call from any goroutine.
func DeriveSeed(master uint64, stage string, index uint64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(master >> (8 * i))
	}
	h.Write(buf[:])
	h.Write([]byte(stage))
	for i := 0; i < 8; i++ {
		buf[i] = byte(index >> (8 * i))
	}
	h.Write(buf[:])
	return h.Sum64()
}

// Stream is a seeded source of draws from the distribution families the
// model needs. It is not safe for concurrent use; create one per goroutine
// with DeriveSeed.
type Stream struct {
	src rand.Source
	rng *rand.Rand
}

// NewStream returns a Stream seeded with the given value.
func NewStream(seed uint64) *Stream {
	src := rand.NewSource(seed)
	return &Stream{src: src, rng: rand.New(src)}
}

// Normal draws from Normal(mean, std).
func (s *Stream) Normal(mean, std float64) (float64, error) {
	if std <= 0 {
		return 0, &stats.InvalidParameterError{Param: "std", Value: std, Reason: "must be > 0"}
	}
	return distuv.Normal{Mu: mean, Sigma: std, Src: s.src}.Rand(), nil
}

// Exponential draws from Exponential(rate).
func (s *Stream) Exponential(rate float64) (float64, error) {
	if rate <= 0 {
		return 0, &stats.InvalidParameterError{Param: "rate", Value: rate, Reason: "must be > 0"}
	}
	return distuv.Exponential{Rate: rate, Src: s.src}.Rand(), nil
}

// StdNormal draws from Normal(0, 1). The unit parameters cannot leave the
// domain, so unlike Normal it cannot fail; MCMC inner loops use it.
func (s *Stream) StdNormal() float64 {
	return distuv.Normal{Mu: 0, Sigma: 1, Src: s.src}.Rand()
}

// Uniform draws from U[0, 1).
func (s *Stream) Uniform() float64 {
	return s.rng.Float64()
}

// Intn draws an integer from [0, n).
func (s *Stream) Intn(n int) int {
	return s.rng.Intn(n)
}

// TruncatedNormal draws from Normal(mean, std) conditioned on the result
// being >= lower. It inverts the unit-normal CDF directly instead of
// building a truncated distribution object per draw, so the hot predictive
// loop does not allocate.
func (s *Stream) TruncatedNormal(mean, std, lower float64) (float64, error) {
	if std <= 0 {
		return 0, &stats.InvalidParameterError{Param: "std", Value: std, Reason: "must be > 0"}
	}
	lowCDF := distuv.UnitNormal.CDF((lower - mean) / std)
	u := lowCDF + (1-lowCDF)*s.rng.Float64()
	if u >= 1 {
		// Truncation point far in the upper tail; clamp to the bound.
		return lower, nil
	}
	return mean + std*distuv.UnitNormal.Quantile(u), nil
}
