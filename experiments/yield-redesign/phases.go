package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tensio-x/tensio/pkg/dataset"
	"github.com/tensio-x/tensio/pkg/decision"
	"github.com/tensio-x/tensio/pkg/distfit"
	"github.com/tensio-x/tensio/pkg/metadata"
	"github.com/tensio-x/tensio/pkg/random"
	"github.com/tensio-x/tensio/pkg/visualization"
	"github.com/tensio-x/tensio/pkg/voi"
	"github.com/tensio-x/tensio/pkg/yieldmodel"
)

// Results-cache stage names. The posterior ensemble and the
// value-of-information sweep are the two expensive artifacts worth
// keeping between runs.
const (
	cacheStagePosterior = "posterior"
	cacheStageSweep     = "voi-sweep"
)

// analysis carries the state handed from phase to phase. Each phase only
// reads what earlier phases produced.
type analysis struct {
	model       *yieldmodel.Model
	threshold   float64
	costs       decision.CostTable
	failureCost float64
	cache       *metadata.SQLite
	figuresDir  string

	records      []dataset.Record
	measurements []float64

	fitted    distfit.Params
	intervals map[string]distfit.Interval
	moteCurve []decision.MOTEPoint

	priorPredictive []float64
	ensemble        *yieldmodel.Ensemble

	decisionResult decision.Result
	perfect        *voi.PerfectResult
	sweep          []voi.SweepPoint
}

// fitPhase loads the measurements and runs the distribution-level sanity
// analysis: MLE fit, bootstrap intervals and the MOTE characteristic
// value curve.
type fitPhase struct {
	state *analysis
}

func (p *fitPhase) Name() string { return "load and fit" }

func (p *fitPhase) Run(log *logrus.Logger) error {
	records, err := dataset.LoadCSV(csvFileFlag.Value())
	if err != nil {
		return err
	}
	p.state.records = records
	p.state.measurements = dataset.Yields(records)
	log.Infof("Loaded %d measurements from %s", len(records), csvFileFlag.Value())

	p.state.fitted, err = distfit.FitNormalMLE(p.state.measurements)
	if err != nil {
		return err
	}
	log.Infof("Normal MLE: mean %.1f MPa, std %.1f MPa", p.state.fitted.Mean, p.state.fitted.Std)

	stream := random.NewStream(random.DeriveSeed(uint64(masterSeedFlag.Value()), "bootstrap", 0))
	p.state.intervals, err = distfit.BootstrapCI(
		p.state.measurements, distfit.NormalEstimator, bootstrapFlag.Value(), 0.95, stream)
	if err != nil {
		return err
	}

	p.state.moteCurve, err = decision.MOTECurve(p.state.measurements)
	if err != nil {
		return err
	}
	mote := p.state.moteCurve[len(p.state.moteCurve)-1]
	log.Infof("MOTE characteristic value for n=%d: %.1f MPa", mote.N, mote.Value)

	visualization.DrawTable(visualization.MeasurementsTable(records))
	visualization.DrawTable(visualization.FitTable(p.state.fitted, p.state.intervals))
	return nil
}

// posteriorPhase samples the hierarchical posterior, reusing a cached
// ensemble when one is available, and draws the prior predictive sample
// for comparison figures.
type posteriorPhase struct {
	state *analysis
}

func (p *posteriorPhase) Name() string { return "posterior sampling" }

func (p *posteriorPhase) Run(log *logrus.Logger) error {
	var err error
	p.state.priorPredictive, err = p.state.model.PriorPredictive(
		p.state.model.Config().Chains*p.state.model.Config().DrawsPerChain,
		random.DeriveSeed(uint64(masterSeedFlag.Value()), "prior-predictive", 0))
	if err != nil {
		return err
	}

	if p.state.cache != nil {
		ensemble, err := p.state.cache.LoadEnsemble(cacheStagePosterior)
		if err == nil {
			log.Infof("Loaded cached posterior ensemble (%d draws)", ensemble.Len())
			p.state.ensemble = ensemble
			return nil
		}
		if errors.Cause(err) != metadata.ErrNotCached {
			return err
		}
	}

	noise := []float64{measurementNoiseFlag.Value()}
	p.state.ensemble, err = p.state.model.PosteriorSample(p.state.measurements, noise)
	if err != nil {
		return err
	}
	log.Infof("Sampled %d posterior draws (sigma step acceptance %.2f)",
		p.state.ensemble.Len(), p.state.ensemble.SigmaAcceptance)

	if p.state.cache != nil {
		if err := p.state.cache.StoreEnsemble(cacheStagePosterior, p.state.ensemble); err != nil {
			return err
		}
	}
	return nil
}

// decisionPhase evaluates the expected cost of each action against the
// posterior predictive strengths.
type decisionPhase struct {
	state *analysis
}

func (p *decisionPhase) Name() string { return "decision evaluation" }

func (p *decisionPhase) Run(log *logrus.Logger) error {
	result, err := decision.ExpectedCosts(
		p.state.ensemble.PredictedYields(), p.state.threshold, p.state.costs, p.state.failureCost)
	if err != nil {
		return err
	}
	p.state.decisionResult = result

	best := result.Best()
	log.Infof("Optimal action: %s (expected cost %.0f, p(fail) %.4f)",
		best.Action, best.ExpectedCost, best.PFail)
	visualization.DrawTable(visualization.DecisionTable(result))
	return nil
}

// valueOfInformationPhase estimates EVPI and sweeps the expected value of
// an imperfect future test round over the candidate noise levels.
type valueOfInformationPhase struct {
	state *analysis
}

func (p *valueOfInformationPhase) Name() string { return "value of information" }

func (p *valueOfInformationPhase) Run(log *logrus.Logger) error {
	engine := &voi.Engine{
		Model:       p.state.model,
		Threshold:   p.state.threshold,
		Costs:       p.state.costs,
		FailureCost: p.state.failureCost,
		MasterSeed:  uint64(masterSeedFlag.Value()),
		Progress: func(stage string, done, total int) {
			log.Debugf("%s: %d/%d", stage, done, total)
		},
	}

	var err error
	p.state.perfect, err = engine.PerfectInformation(p.state.ensemble)
	if err != nil {
		return err
	}
	log.Infof("EVPI: %.0f (baseline expected cost %.0f)",
		p.state.perfect.EVPI, p.state.perfect.BaselineCost)

	if p.state.cache != nil {
		sweep, err := p.state.cache.LoadSweep(cacheStageSweep)
		if err == nil {
			log.Infof("Loaded cached value-of-information sweep (%d noise levels)", len(sweep))
			p.state.sweep = sweep
			visualization.DrawTable(visualization.SweepTable(p.state.sweep))
			return nil
		}
		if errors.Cause(err) != metadata.ErrNotCached {
			return err
		}
	}

	p.state.sweep, err = engine.Sweep(
		p.state.ensemble,
		p.state.measurements,
		[]float64{measurementNoiseFlag.Value()},
		voiNoiseFlag.Value(),
		testsPerRoundFlag.Value())
	if err != nil {
		return err
	}

	if p.state.cache != nil {
		if err := p.state.cache.StoreSweep(cacheStageSweep, p.state.sweep); err != nil {
			return err
		}
	}
	visualization.DrawTable(visualization.SweepTable(p.state.sweep))
	return nil
}

// figureDataPhase writes the figure data models to the session directory
// for external plotting; nothing here computes.
type figureDataPhase struct {
	state *analysis
}

func (p *figureDataPhase) Name() string { return "figure data export" }

func (p *figureDataPhase) Run(log *logrus.Logger) error {
	figures := map[string]interface{}{
		"mote_vs_n":             visualization.MOTEScatter(p.state.moteCurve),
		"prior_predictive":      visualization.PriorPredictiveHistogram(p.state.priorPredictive),
		"posterior_predictive":  visualization.PredictiveHistogram("posterior predictive", p.state.ensemble),
		"posterior_joint":       visualization.PosteriorJointScatter(p.state.ensemble),
		"perfect_info_jitter":   visualization.PerfectInfoJitter(p.state.perfect),
		"voi_sweep_point_range": visualization.SweepPointRanges(p.state.sweep),
	}

	path := filepath.Join(p.state.figuresDir, "figures.json")
	data, err := json.MarshalIndent(figures, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling figure data failed")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing figure data to %s failed", path)
	}
	log.Infof("Figure data written to %s", path)
	return nil
}
