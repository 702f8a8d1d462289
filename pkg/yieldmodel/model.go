// Package yieldmodel fits the hierarchical model of material yield
// strength. Latent true strengths are drawn from a Normal(mu, sigma)
// population; each measurement observes one latent strength through known
// Gaussian noise. The package produces posterior ensembles of
// (mu, sigma, predicted yield) used by the decision and
// value-of-information packages.
package yieldmodel

import (
	"github.com/tensio-x/tensio/pkg/random"
	"github.com/tensio-x/tensio/pkg/stats"
)

// DefaultMeasurementNoise is the standard deviation assumed for the
// historical tensile test measurements, in MPa.
const DefaultMeasurementNoise = 5.0

// Config controls the priors and the sampler run.
type Config struct {
	Chains        int
	DrawsPerChain int
	Warmup        int
	MasterSeed    uint64

	// Priors: mu ~ Normal(MuPriorMean, MuPriorStd),
	// sigma ~ Exponential(SigmaPriorRate).
	MuPriorMean    float64
	MuPriorStd     float64
	SigmaPriorRate float64

	// Random-walk step on log(sigma).
	SigmaStep float64
}

// DefaultConfig returns the priors and sampler settings used by the
// yield-strength analysis.
func DefaultConfig() Config {
	return Config{
		Chains:         4,
		DrawsPerChain:  1000,
		Warmup:         500,
		MasterSeed:     1,
		MuPriorMean:    300,
		MuPriorStd:     100,
		SigmaPriorRate: 1.0 / 50.0,
		SigmaStep:      0.25,
	}
}

// Draw is one retained posterior draw. PredictedYield is a fresh
// predictive sample from TruncatedNormal(Mu, Sigma, 0), not the latent
// parameter itself; it is the quantity decision logic consumes.
type Draw struct {
	Chain          int     `json:"chain"`
	Iteration      int     `json:"iteration"`
	Mu             float64 `json:"mu"`
	Sigma          float64 `json:"sigma"`
	PredictedYield float64 `json:"predicted_yield"`
}

// Ensemble is the ordered collection of draws from all chains. It is
// produced once per sampling run and read-only afterwards.
type Ensemble struct {
	Draws []Draw `json:"draws"`

	// SigmaAcceptance is the acceptance rate of the log-sigma random walk
	// across all chains, exposed as a sampler diagnostic.
	SigmaAcceptance float64 `json:"sigma_acceptance"`
}

// Len returns the number of retained draws.
func (e *Ensemble) Len() int {
	return len(e.Draws)
}

// PredictedYields extracts the predictive samples in draw order.
func (e *Ensemble) PredictedYields() []float64 {
	out := make([]float64, len(e.Draws))
	for i, d := range e.Draws {
		out[i] = d.PredictedYield
	}
	return out
}

// Mus extracts the population-mean draws in draw order.
func (e *Ensemble) Mus() []float64 {
	out := make([]float64, len(e.Draws))
	for i, d := range e.Draws {
		out[i] = d.Mu
	}
	return out
}

// Sigmas extracts the population-std draws in draw order.
func (e *Ensemble) Sigmas() []float64 {
	out := make([]float64, len(e.Draws))
	for i, d := range e.Draws {
		out[i] = d.Sigma
	}
	return out
}

// ChainDraws returns the draws belonging to one chain, for per-chain
// diagnostics.
func (e *Ensemble) ChainDraws(chain int) []Draw {
	var out []Draw
	for _, d := range e.Draws {
		if d.Chain == chain {
			out = append(out, d)
		}
	}
	return out
}

// Model samples the joint posterior over (mu, sigma, latent strengths).
type Model struct {
	cfg Config
}

// New returns a Model with the given configuration.
func New(cfg Config) *Model {
	return &Model{cfg: cfg}
}

// Config returns the model configuration.
func (m *Model) Config() Config {
	return m.cfg
}

// PriorPredictive draws n yield strengths from the prior predictive
// distribution: parameters from the priors, then one truncated-Normal
// strength per parameter draw.
func (m *Model) PriorPredictive(n int, seed uint64) ([]float64, error) {
	stream := random.NewStream(seed)
	out := make([]float64, n)
	for i := range out {
		mu, err := stream.Normal(m.cfg.MuPriorMean, m.cfg.MuPriorStd)
		if err != nil {
			return nil, err
		}
		sigma, err := stream.Exponential(m.cfg.SigmaPriorRate)
		if err != nil {
			return nil, err
		}
		out[i], err = stream.TruncatedNormal(mu, sigma, 0)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// NoiseVector expands epsilon to one entry per measurement. A single
// value broadcasts; a vector must match the measurement count. The
// value-of-information sweep uses it to extend the historical noise vector
// with synthetic entries of a different precision.
func NoiseVector(epsilon []float64, n int) ([]float64, error) {
	switch len(epsilon) {
	case 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = epsilon[0]
		}
		return validateNoise(out)
	case n:
		out := make([]float64, n)
		copy(out, epsilon)
		return validateNoise(out)
	default:
		return nil, &stats.InvalidParameterError{
			Param:  "epsilon",
			Value:  float64(len(epsilon)),
			Reason: "noise vector length must be 1 or match the measurement count",
		}
	}
}

func validateNoise(noise []float64) ([]float64, error) {
	for _, eps := range noise {
		if eps <= 0 {
			return nil, &stats.InvalidParameterError{Param: "epsilon", Value: eps, Reason: "must be > 0"}
		}
	}
	return noise, nil
}
