package qdie

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAngleFor(t *testing.T) {
	Convey("Given the probability to angle mapping", t, func() {
		Convey("Boundary probabilities map to exact angles", func() {
			zero, err := AngleFor(0)
			So(err, ShouldBeNil)
			So(zero, ShouldEqual, 0)

			one, err := AngleFor(1)
			So(err, ShouldBeNil)
			So(one, ShouldEqual, math.Pi)
		})

		Convey("A fair coin is a quarter turn", func() {
			angle, err := AngleFor(0.5)
			So(err, ShouldBeNil)
			So(angle, ShouldAlmostEqual, math.Pi/2, 1e-12)
		})

		Convey("The angle reproduces the probability", func() {
			for _, p := range []Probability{0.1, 1.0 / 3, 0.75, 0.999} {
				angle, err := AngleFor(p)
				So(err, ShouldBeNil)

				s := math.Sin(angle / 2)
				So(s*s, ShouldAlmostEqual, float64(p), 1e-12)
			}
		})

		Convey("Probabilities outside [0, 1] are rejected", func() {
			for _, p := range []Probability{-0.01, 1.01, Probability(math.NaN())} {
				_, err := AngleFor(p)
				So(errors.Is(err, ErrDomain), ShouldBeTrue)
			}
		})
	})
}
