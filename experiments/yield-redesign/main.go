package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/tensio-x/tensio/pkg/conf"
	"github.com/tensio-x/tensio/pkg/decision"
	"github.com/tensio-x/tensio/pkg/experiment"
	"github.com/tensio-x/tensio/pkg/metadata"
	"github.com/tensio-x/tensio/pkg/utils/errutil"
	"github.com/tensio-x/tensio/pkg/yieldmodel"
)

var (
	// Input data.
	csvFileFlag = conf.NewFileFlag("csv_file",
		"CSV file with tensile test measurements (columns: id,yield_MPa).",
		"data/yield_measurements.csv")
	measurementNoiseFlag = conf.NewFloatFlag("measurement_noise",
		"Standard deviation of the historical measurement noise [MPa].",
		yieldmodel.DefaultMeasurementNoise)

	// Decision model.
	thresholdFlag = conf.NewFloatFlag("threshold",
		"Operating stress [MPa]; a component whose effective strength falls below it fails.",
		300)
	failureCostFlag = conf.NewFloatFlag("failure_cost",
		"Consequence cost of a structural failure.",
		decision.DefaultFailureCost)

	// Sampler configuration.
	masterSeedFlag = conf.NewIntFlag("master_seed",
		"Master random seed; every stage derives its own seed from it.", 1)
	chainsFlag = conf.NewIntFlag("chains", "Number of independent MCMC chains.", 4)
	drawsFlag  = conf.NewIntFlag("draws", "Retained draws per chain.", 1000)
	warmupFlag = conf.NewIntFlag("warmup", "Discarded warmup iterations per chain.", 500)

	// Value-of-information sweep.
	voiNoiseFlag = conf.NewFloatListFlag("voi_noise",
		"Candidate noise levels [MPa] for the value-of-information sweep.",
		1, 5, 10, 20, 30)
	testsPerRoundFlag = conf.NewIntFlag("tests_per_round",
		"Number of hypothetical future tests per simulated round.", 6)

	// Bootstrap.
	bootstrapFlag = conf.NewIntFlag("bootstrap_resamples",
		"Bootstrap resamples for the MLE confidence intervals.", 2000)

	// Persistence.
	cacheDBFlag = conf.NewStringFlag("cache_db",
		"SQLite file for metadata and cached sampling results. Empty disables persistence.", "")
	workDirFlag = conf.NewStringFlag("work_dir",
		"Base directory for experiment session logs and figure data.", os.TempDir())
)

// Check README.md for details of this experiment.
func main() {
	// Setup conf.
	conf.SetAppName("yield-redesign")
	conf.SetHelp(`Yield-strength redesign experiment: fits a hierarchical model to noisy
tensile test measurements, evaluates the expected cost of the candidate
redesign actions, and estimates the value of further testing (EVPI and a
sweep over candidate measurement precisions).`)

	// Parse CLI.
	errutil.Check(conf.ParseFlags())

	logrus.SetLevel(conf.LogLevel())

	// Optional persistence: metadata plus cached posterior ensembles. The
	// cache is keyed by experiment name so a rerun with the same inputs
	// can skip the expensive sampling.
	var md metadata.Metadata
	var cache *metadata.SQLite
	if cacheDBFlag.Value() != "" {
		var err error
		cache, err = metadata.NewSQLite(conf.AppName(), cacheDBFlag.Value())
		errutil.CheckWithContext(err, "opening cache database")
		defer cache.Close()
		md = cache
	}

	modelConfig := yieldmodel.DefaultConfig()
	modelConfig.Chains = chainsFlag.Value()
	modelConfig.DrawsPerChain = drawsFlag.Value()
	modelConfig.Warmup = warmupFlag.Value()
	modelConfig.MasterSeed = uint64(masterSeedFlag.Value())

	state := &analysis{
		model:       yieldmodel.New(modelConfig),
		threshold:   thresholdFlag.Value(),
		costs:       decision.DefaultCostTable(),
		failureCost: failureCostFlag.Value(),
		cache:       cache,
	}

	phases := []experiment.Phase{
		&fitPhase{state: state},
		&posteriorPhase{state: state},
		&decisionPhase{state: state},
		&valueOfInformationPhase{state: state},
		&figureDataPhase{state: state},
	}

	exp, err := experiment.NewExperiment(conf.AppName(), phases, workDirFlag.Value(), conf.LogLevel(), md)
	errutil.Check(err)
	state.figuresDir = exp.WorkingDirectory()

	if md != nil {
		errutil.Check(md.RecordMap(conf.GetFlags(), metadata.TypeFlags))
	}

	err = exp.Run()
	exp.Finalize()
	errutil.Check(err)
}
