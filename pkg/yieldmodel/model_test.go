package yieldmodel

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/tensio-x/tensio/pkg/stats"
)

var testMeasurements = []float64{390.2, 348.5, 367.9, 325.1, 410.6, 353.4}

// testConfig keeps chains short so the whole suite stays fast.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Chains = 2
	cfg.DrawsPerChain = 150
	cfg.Warmup = 100
	return cfg
}

func TestNoiseVector(t *testing.T) {
	Convey("While expanding the measurement-noise vector", t, func() {
		Convey("A single value broadcasts to every measurement", func() {
			noise, err := NoiseVector([]float64{5}, 4)
			So(err, ShouldBeNil)
			So(noise, ShouldResemble, []float64{5, 5, 5, 5})
		})

		Convey("A matching vector is copied through", func() {
			noise, err := NoiseVector([]float64{5, 5, 5, 1}, 4)
			So(err, ShouldBeNil)
			So(noise, ShouldResemble, []float64{5, 5, 5, 1})
		})

		Convey("A mismatched length is rejected", func() {
			_, err := NoiseVector([]float64{5, 5}, 4)
			So(err, ShouldHaveSameTypeAs, &stats.InvalidParameterError{})
		})

		Convey("Non-positive noise is rejected", func() {
			_, err := NoiseVector([]float64{0}, 4)
			So(err, ShouldHaveSameTypeAs, &stats.InvalidParameterError{})
		})
	})
}

func TestPriorPredictive(t *testing.T) {
	Convey("While drawing from the prior predictive", t, func() {
		model := New(testConfig())

		Convey("Draws are reproducible and never negative", func() {
			first, err := model.PriorPredictive(200, 9)
			So(err, ShouldBeNil)
			So(first, ShouldHaveLength, 200)
			for _, v := range first {
				So(v, ShouldBeGreaterThanOrEqualTo, 0)
			}

			second, err := model.PriorPredictive(200, 9)
			So(err, ShouldBeNil)
			So(second, ShouldResemble, first)
		})
	})
}

func TestPosteriorSample(t *testing.T) {
	Convey("While sampling the posterior", t, func() {
		model := New(testConfig())

		Convey("The ensemble has one entry per retained draw, in chain order", func() {
			ensemble, err := model.PosteriorSample(testMeasurements, []float64{5})
			So(err, ShouldBeNil)
			So(ensemble.Len(), ShouldEqual, 2*150)

			for i, draw := range ensemble.Draws {
				So(draw.Chain, ShouldEqual, i/150)
				So(draw.Iteration, ShouldEqual, i%150)
				So(draw.Sigma, ShouldBeGreaterThan, 0)
				So(draw.PredictedYield, ShouldBeGreaterThanOrEqualTo, 0)
			}
			So(len(ensemble.ChainDraws(1)), ShouldEqual, 150)
		})

		Convey("The same seed gives a bit-identical ensemble", func() {
			first, err := model.PosteriorSample(testMeasurements, []float64{5})
			So(err, ShouldBeNil)
			second, err := model.PosteriorSample(testMeasurements, []float64{5})
			So(err, ShouldBeNil)
			So(second, ShouldResemble, first)
		})

		Convey("A different master seed gives a different ensemble", func() {
			first, err := model.SampleWithSeed(1, testMeasurements, []float64{5})
			So(err, ShouldBeNil)
			second, err := model.SampleWithSeed(2, testMeasurements, []float64{5})
			So(err, ShouldBeNil)
			So(second.Draws[0], ShouldNotResemble, first.Draws[0])
		})

		Convey("Broadcast and explicit noise vectors agree", func() {
			scalar, err := model.PosteriorSample(testMeasurements, []float64{5})
			So(err, ShouldBeNil)
			vector, err := model.PosteriorSample(testMeasurements, []float64{5, 5, 5, 5, 5, 5})
			So(err, ShouldBeNil)
			So(vector, ShouldResemble, scalar)
		})

		Convey("The posterior mean lands between the prior mean and the data mean", func() {
			ensemble, err := model.PosteriorSample(testMeasurements, []float64{5})
			So(err, ShouldBeNil)
			mean := stats.Mean(ensemble.Mus())
			So(mean, ShouldBeGreaterThan, 300)
			So(mean, ShouldBeLessThan, 420)
		})

		Convey("The sigma walk makes some but not all moves", func() {
			ensemble, err := model.PosteriorSample(testMeasurements, []float64{5})
			So(err, ShouldBeNil)
			So(ensemble.SigmaAcceptance, ShouldBeGreaterThan, 0)
			So(ensemble.SigmaAcceptance, ShouldBeLessThan, 1)
		})

		Convey("Overflowing measurements surface a divergence error naming the chain", func() {
			// Values this close to the float64 ceiling make the mean, and
			// with it the log posterior density, non-finite.
			_, err := model.PosteriorSample([]float64{1e308, 9e307, 8e307}, []float64{5})
			So(err, ShouldNotBeNil)
			So(errors.Cause(err), ShouldHaveSameTypeAs, &stats.ModelDivergenceError{})
			So(err.Error(), ShouldContainSubstring, "chain")
		})

		Convey("Empty measurements are rejected", func() {
			_, err := model.PosteriorSample(nil, []float64{5})
			So(err, ShouldHaveSameTypeAs, &stats.InsufficientDataError{})
		})

		Convey("A mismatched noise vector is rejected", func() {
			_, err := model.PosteriorSample(testMeasurements, []float64{5, 5})
			So(err, ShouldHaveSameTypeAs, &stats.InvalidParameterError{})
		})
	})
}
