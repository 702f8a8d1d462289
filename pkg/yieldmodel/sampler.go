package yieldmodel

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/tensio-x/tensio/pkg/random"
	"github.com/tensio-x/tensio/pkg/stats"
)

// PosteriorSample runs the configured number of independent chains against
// the measurements and returns the combined ensemble. epsilon is the known
// measurement-noise std: a single value broadcasts to every observation, a
// vector gives per-observation noise (historical and synthetic
// measurements of different precision can be mixed).
func (m *Model) PosteriorSample(measurements, epsilon []float64) (*Ensemble, error) {
	return m.SampleWithSeed(m.cfg.MasterSeed, measurements, epsilon)
}

// SampleWithSeed is PosteriorSample with an explicit master seed. The
// value-of-information sweep uses it to give every hypothetical refit its
// own deterministic seed.
func (m *Model) SampleWithSeed(master uint64, measurements, epsilon []float64) (*Ensemble, error) {
	if len(measurements) == 0 {
		return nil, &stats.InsufficientDataError{Stage: "posterior sampling", Size: 0, Min: 1}
	}
	noise, err := NoiseVector(epsilon, len(measurements))
	if err != nil {
		return nil, err
	}
	if m.cfg.Chains < 1 || m.cfg.DrawsPerChain < 1 {
		return nil, &stats.InvalidParameterError{
			Param:  "chains/draws",
			Value:  float64(m.cfg.Chains),
			Reason: "need at least one chain and one draw per chain",
		}
	}

	// Chains share nothing but their derived seeds; results are combined
	// by concatenation in chain order, so scheduling cannot change the
	// output.
	perChain := make([][]Draw, m.cfg.Chains)
	accepted := make([]int, m.cfg.Chains)
	var group errgroup.Group
	for c := 0; c < m.cfg.Chains; c++ {
		c := c
		group.Go(func() error {
			seed := random.DeriveSeed(master, "chain", uint64(c))
			draws, acc, err := m.runChain(c, seed, measurements, noise)
			if err != nil {
				return errors.Wrapf(err, "chain %d (of %d) failed", c, m.cfg.Chains)
			}
			perChain[c] = draws
			accepted[c] = acc
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	ensemble := &Ensemble{Draws: make([]Draw, 0, m.cfg.Chains*m.cfg.DrawsPerChain)}
	totalAccepted := 0
	for c := 0; c < m.cfg.Chains; c++ {
		ensemble.Draws = append(ensemble.Draws, perChain[c]...)
		totalAccepted += accepted[c]
	}
	totalSteps := m.cfg.Chains * (m.cfg.Warmup + m.cfg.DrawsPerChain)
	ensemble.SigmaAcceptance = float64(totalAccepted) / float64(totalSteps)
	return ensemble, nil
}

// runChain runs one Metropolis-within-Gibbs chain. The latent strengths
// and the population mean have conjugate Normal full conditionals and are
// updated by exact Gibbs steps; the population std takes a random-walk
// Metropolis step on log(sigma), with the Jacobian folded into the target.
func (m *Model) runChain(chain int, seed uint64, measurements, noise []float64) ([]Draw, int, error) {
	stream := random.NewStream(seed)
	n := len(measurements)

	latent := make([]float64, n)
	copy(latent, measurements)
	mu := stats.Mean(measurements)
	sigma := stats.PopStdDev(measurements)
	if sigma < 1 {
		// A single measurement (or identical repeats) gives a degenerate
		// MLE start; fall back to the prior scale.
		sigma = 1 / m.cfg.SigmaPriorRate
	}
	theta := math.Log(sigma)

	muPriorPrec := 1 / (m.cfg.MuPriorStd * m.cfg.MuPriorStd)
	draws := make([]Draw, 0, m.cfg.DrawsPerChain)
	accepted := 0

	total := m.cfg.Warmup + m.cfg.DrawsPerChain
	for it := 0; it < total; it++ {
		// Latent strengths: product of the population Normal and the
		// per-observation measurement Normal.
		sigmaPrec := 1 / (sigma * sigma)
		for i := 0; i < n; i++ {
			obsPrec := 1 / (noise[i] * noise[i])
			prec := sigmaPrec + obsPrec
			mean := (mu*sigmaPrec + measurements[i]*obsPrec) / prec
			latent[i] = mean + stream.StdNormal()/math.Sqrt(prec)
		}

		// Population mean: Normal prior times Normal likelihood of the
		// latents.
		sum := 0.0
		for _, y := range latent {
			sum += y
		}
		postPrec := muPriorPrec + float64(n)*sigmaPrec
		postMean := (m.cfg.MuPriorMean*muPriorPrec + sum*sigmaPrec) / postPrec
		mu = postMean + stream.StdNormal()/math.Sqrt(postPrec)

		// Population std: random walk on theta = log(sigma).
		current := m.logSigmaPosterior(theta, mu, latent)
		proposal := theta + m.cfg.SigmaStep*stream.StdNormal()
		proposed := m.logSigmaPosterior(proposal, mu, latent)
		if it >= m.cfg.Warmup && (!isFinite(current) || !isFinite(proposed)) {
			return nil, 0, &stats.ModelDivergenceError{
				Chain:     chain,
				Iteration: it - m.cfg.Warmup,
				Detail:    "non-finite log posterior density for sigma",
			}
		}
		if isFinite(proposed) && math.Log(stream.Uniform()) < proposed-current {
			theta = proposal
			accepted++
		}
		sigma = math.Exp(theta)

		if it >= m.cfg.Warmup {
			predicted, err := stream.TruncatedNormal(mu, sigma, 0)
			if err != nil {
				return nil, 0, err
			}
			draws = append(draws, Draw{
				Chain:          chain,
				Iteration:      it - m.cfg.Warmup,
				Mu:             mu,
				Sigma:          sigma,
				PredictedYield: predicted,
			})
		}
	}
	return draws, accepted, nil
}

// logSigmaPosterior is the unnormalized log full conditional of
// theta = log(sigma): Exponential prior on sigma, Normal likelihood of the
// latents, plus theta for the change of variables.
func (m *Model) logSigmaPosterior(theta, mu float64, latent []float64) float64 {
	sigma := math.Exp(theta)
	lp := -m.cfg.SigmaPriorRate*sigma + theta - float64(len(latent))*theta
	for _, y := range latent {
		z := (y - mu) / sigma
		lp -= 0.5 * z * z
	}
	return lp
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
