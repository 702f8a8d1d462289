package distfit

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tensio-x/tensio/pkg/random"
	"github.com/tensio-x/tensio/pkg/stats"
)

func TestFitNormalMLE(t *testing.T) {
	Convey("While fitting Normal parameters by maximum likelihood", t, func() {
		Convey("The mean is the arithmetic mean and the std uses divisor N", func() {
			params, err := FitNormalMLE([]float64{2, 4, 4, 4, 5, 5, 7, 9})
			So(err, ShouldBeNil)
			So(params.Mean, ShouldAlmostEqual, 5)
			So(params.Std, ShouldAlmostEqual, 2)
		})

		Convey("A single measurement fits with zero spread", func() {
			params, err := FitNormalMLE([]float64{350})
			So(err, ShouldBeNil)
			So(params.Mean, ShouldAlmostEqual, 350)
			So(params.Std, ShouldAlmostEqual, 0)
		})

		Convey("An empty sample is rejected", func() {
			_, err := FitNormalMLE(nil)
			So(err, ShouldHaveSameTypeAs, &stats.InsufficientDataError{})
		})
	})
}

func TestBootstrapCI(t *testing.T) {
	Convey("While bootstrapping confidence intervals", t, func() {
		sample := []float64{390.2, 348.5, 367.9, 325.1, 410.6, 353.4}

		Convey("Intervals are ordered and bracket the point estimates", func() {
			stream := random.NewStream(11)
			intervals, err := BootstrapCI(sample, NormalEstimator, 2000, 0.95, stream)
			So(err, ShouldBeNil)
			So(intervals, ShouldContainKey, "mean")
			So(intervals, ShouldContainKey, "std")

			params, _ := FitNormalMLE(sample)
			So(intervals["mean"].Low, ShouldBeLessThanOrEqualTo, intervals["mean"].High)
			So(intervals["std"].Low, ShouldBeLessThanOrEqualTo, intervals["std"].High)
			So(params.Mean, ShouldBeBetweenOrEqual, intervals["mean"].Low, intervals["mean"].High)
		})

		Convey("Intervals tighten on a larger sample from the same population", func() {
			large := make([]float64, 0, len(sample)*50)
			for i := 0; i < 50; i++ {
				large = append(large, sample...)
			}

			small, err := BootstrapCI(sample, NormalEstimator, 2000, 0.95, random.NewStream(11))
			So(err, ShouldBeNil)
			wide, err := BootstrapCI(large, NormalEstimator, 2000, 0.95, random.NewStream(11))
			So(err, ShouldBeNil)

			So(wide["mean"].High-wide["mean"].Low, ShouldBeLessThan,
				small["mean"].High-small["mean"].Low)
		})

		Convey("The same stream seed reproduces the same intervals", func() {
			first, err := BootstrapCI(sample, NormalEstimator, 500, 0.9, random.NewStream(3))
			So(err, ShouldBeNil)
			second, err := BootstrapCI(sample, NormalEstimator, 500, 0.9, random.NewStream(3))
			So(err, ShouldBeNil)
			So(first, ShouldResemble, second)
		})

		Convey("Degenerate inputs are rejected", func() {
			stream := random.NewStream(1)

			_, err := BootstrapCI([]float64{1}, NormalEstimator, 100, 0.95, stream)
			So(err, ShouldHaveSameTypeAs, &stats.InsufficientDataError{})

			_, err = BootstrapCI(sample, NormalEstimator, 100, 1.2, stream)
			So(err, ShouldHaveSameTypeAs, &stats.InvalidParameterError{})

			_, err = BootstrapCI(sample, NormalEstimator, 0, 0.95, stream)
			So(err, ShouldHaveSameTypeAs, &stats.InvalidParameterError{})
		})
	})
}
