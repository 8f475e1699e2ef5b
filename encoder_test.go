package qdie

import (
	"errors"
	"math/bits"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEncode(t *testing.T) {
	Convey("Given the distribution encoder", t, func() {
		Convey("A single sided die needs no trials", func() {
			plan, err := Encode(1)
			So(err, ShouldBeNil)
			So(plan.Len(), ShouldEqual, 0)
			So(plan.Sides(), ShouldEqual, 1)
		})

		Convey("A coin is one fair trial", func() {
			plan, err := Encode(2)
			So(err, ShouldBeNil)
			So(plan.Trials, ShouldResemble, []TrialSpec{{Probability: 0.5, Slot: 0}})
			So(plan.Thresholds, ShouldResemble, []int{2})
		})

		Convey("A six sided die halves, singles out, then halves again", func() {
			plan, err := Encode(6)
			So(err, ShouldBeNil)
			So(plan.Thresholds, ShouldResemble, []int{6, 3, 2})
			So(len(plan.Trials), ShouldEqual, 3)
			So(float64(plan.Trials[0].Probability), ShouldEqual, 0.5)
			So(float64(plan.Trials[1].Probability), ShouldAlmostEqual, 1.0/3, 1e-15)
			So(float64(plan.Trials[2].Probability), ShouldEqual, 0.5)
		})

		Convey("Every trial targets its own slot in emission order", func() {
			plan, err := Encode(45)
			So(err, ShouldBeNil)
			for i, spec := range plan.Trials {
				So(spec.Slot, ShouldEqual, i)
			}
		})

		Convey("The trial count is logarithmic", func() {
			for n := 1; n <= 64; n++ {
				plan, err := Encode(n)
				So(err, ShouldBeNil)

				// one trial per halving, one per odd step
				So(plan.Len(), ShouldEqual, bits.Len(uint(n))-1+bits.OnesCount(uint(n))-1)

				if n >= 2 {
					So(plan.Len(), ShouldBeLessThanOrEqualTo, 2*(bits.Len(uint(n))-1))
				}
			}
		})

		Convey("Powers of two only emit fair trials", func() {
			plan, err := Encode(8)
			So(err, ShouldBeNil)
			So(plan.Thresholds, ShouldResemble, []int{8, 4, 2})
			for _, spec := range plan.Trials {
				So(float64(spec.Probability), ShouldEqual, 0.5)
			}
		})

		Convey("Sides below one are rejected", func() {
			for _, n := range []int{0, -3} {
				_, err := Encode(n)
				So(errors.Is(err, ErrInvalidArity), ShouldBeTrue)
			}
		})

		Convey("Fingerprints tell plans apart", func() {
			a, _ := Encode(6)
			b, _ := Encode(6)
			c, _ := Encode(7)
			So(a.Fingerprint(), ShouldEqual, b.Fingerprint())
			So(a.Fingerprint(), ShouldNotEqual, c.Fingerprint())
		})

		Convey("Trials carries the rotation angles", func() {
			plan, _ := Encode(3)
			trials, err := Trials(plan)
			So(err, ShouldBeNil)
			So(len(trials), ShouldEqual, 2)

			for i, trial := range trials {
				angle, _ := AngleFor(plan.Trials[i].Probability)
				So(trial.Slot, ShouldEqual, i)
				So(trial.Angle, ShouldEqual, angle)
			}
		})
	})
}
