package decision

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tensio-x/tensio/pkg/stats"
)

// ascending returns 10, 20, ... n*10 so the k-th lowest is k*10.
func ascending(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64((i + 1) * 10)
	}
	return out
}

func TestMOTE(t *testing.T) {
	Convey("While computing the MOTE characteristic value", t, func() {
		Convey("The selected rank matches the tabulated rule at every boundary", func() {
			cases := map[int]float64{
				3:  10, // lowest
				4:  10,
				5:  10,
				6:  20, // second lowest
				10: 20,
				11: 30, // third lowest
				15: 30,
				16: 40,
			}
			for n, expected := range cases {
				value, err := MOTE(ascending(n))
				So(err, ShouldBeNil)
				So(value, ShouldEqual, expected)
			}
		})

		Convey("The input order does not matter", func() {
			value, err := MOTE([]float64{410.6, 325.1, 390.2, 348.5, 367.9, 353.4})
			So(err, ShouldBeNil)
			So(value, ShouldEqual, 348.5)
		})

		Convey("The input slice is not reordered", func() {
			sample := []float64{3, 1, 2}
			_, err := MOTE(sample)
			So(err, ShouldBeNil)
			So(sample, ShouldResemble, []float64{3, 1, 2})
		})

		Convey("Fewer than three samples is undefined", func() {
			_, err := MOTE([]float64{1, 2})
			So(err, ShouldHaveSameTypeAs, &stats.InsufficientDataError{})
		})
	})
}

func TestMOTECurve(t *testing.T) {
	Convey("While tracing the characteristic value over sample size", t, func() {
		Convey("One point per prefix from n=3 up to the full sample", func() {
			points, err := MOTECurve(ascending(7))
			So(err, ShouldBeNil)
			So(points, ShouldHaveLength, 5)
			So(points[0], ShouldResemble, MOTEPoint{N: 3, Value: 10})
			So(points[4], ShouldResemble, MOTEPoint{N: 7, Value: 20})
		})

		Convey("Too small a sample is rejected", func() {
			_, err := MOTECurve([]float64{1, 2})
			So(err, ShouldHaveSameTypeAs, &stats.InsufficientDataError{})
		})
	})
}
