package conf

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/alecthomas/kingpin.v2"
)

func TestStringListValue(t *testing.T) {
	Convey("While using Custom StringListValue parser", t, func() {
		strListValue := StringListValue([]string{})

		Convey("It should implement kingpin.Value interfaces", func() {
			So(&strListValue, ShouldImplement, (*kingpin.Value)(nil))
			So(&strListValue, ShouldImplement, (*kingpin.Getter)(nil))
		})

		Convey("When parsing string inputs it should append them to string slice", func() {
			So(strListValue.IsCumulative(), ShouldBeTrue)

			So(strListValue.Set("A"), ShouldBeNil)
			So(strListValue.Get(), ShouldResemble, []string{"A"})

			So(strListValue.Set("B"), ShouldBeNil)
			So(strListValue.Get(), ShouldResemble, []string{"A", "B"})

			So(strListValue.Set("C,D"), ShouldBeNil)
			So(strListValue.Get(), ShouldResemble, []string{"A", "B", "C", "D"})

			So(strListValue.String(), ShouldEqual, "A,B,C,D")
		})
	})
}

func TestFloatListValue(t *testing.T) {
	Convey("While using Custom FloatListValue parser", t, func() {
		floatListValue := FloatListValue([]float64{})

		Convey("It should implement kingpin.Value interfaces", func() {
			So(&floatListValue, ShouldImplement, (*kingpin.Value)(nil))
			So(&floatListValue, ShouldImplement, (*kingpin.Getter)(nil))
		})

		Convey("When parsing inputs it should append them to float slice", func() {
			So(floatListValue.IsCumulative(), ShouldBeTrue)

			So(floatListValue.Set("1"), ShouldBeNil)
			So(floatListValue.Get(), ShouldResemble, []float64{1})

			So(floatListValue.Set("5,10.5"), ShouldBeNil)
			So(floatListValue.Get(), ShouldResemble, []float64{1, 5, 10.5})

			So(floatListValue.String(), ShouldEqual, "1,5,10.5")
		})

		Convey("When parsing a non numeric input it should fail", func() {
			So(floatListValue.Set("abc"), ShouldNotBeNil)
		})
	})
}
