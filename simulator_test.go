package qdie

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSimulatorTrials(t *testing.T) {
	Convey("Given a seeded simulator", t, func() {
		ctx := context.Background()
		sim := NewSimulator(WithSeed(42))

		Convey("Certain trials always read their forced value", func() {
			one, _ := AngleFor(1)

			bits, err := sim.ExecuteTrials(ctx, []Trial{{Angle: one, Slot: 2}, {Angle: 0, Slot: 0}})
			So(err, ShouldBeNil)
			So(bits, ShouldResemble, BitVector{0, 1})
		})

		Convey("A biased trial reads 1 at its probability", func() {
			angle, _ := AngleFor(0.25)
			ones := 0

			for i := 0; i < 4000; i++ {
				bits, err := sim.ExecuteTrials(ctx, []Trial{{Angle: angle, Slot: 0}})
				So(err, ShouldBeNil)
				ones += bits[0]
			}

			So(float64(ones)/4000, ShouldAlmostEqual, 0.25, 0.04)
		})

		Convey("An empty batch reads nothing", func() {
			bits, err := sim.ExecuteTrials(ctx, nil)
			So(err, ShouldBeNil)
			So(len(bits), ShouldEqual, 0)
		})

		Convey("Duplicate or negative slots are rejected", func() {
			_, err := sim.ExecuteTrials(ctx, []Trial{{Slot: 1}, {Slot: 1}})
			So(errors.Is(err, ErrArityMismatch), ShouldBeTrue)

			_, err = sim.ExecuteTrials(ctx, []Trial{{Slot: -1}})
			So(errors.Is(err, ErrArityMismatch), ShouldBeTrue)
		})

		Convey("Registers wider than the cap are rejected", func() {
			small := NewSimulator(WithMaxSlots(3))
			_, err := small.ExecuteTrials(ctx, []Trial{{Slot: 3}})
			So(errors.Is(err, ErrArityMismatch), ShouldBeTrue)
		})

		Convey("A cancelled context stops the batch", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := sim.ExecuteTrials(cancelled, []Trial{{Slot: 0}})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestSimulatorUnitaries(t *testing.T) {
	Convey("Given a two slot register", t, func() {
		ctx := context.Background()
		sim := NewSimulator(WithSeed(1))
		So(sim.Reset(ctx, 2), ShouldBeNil)

		Convey("Bit q of a basis index is slot q", func() {
			So(sim.ApplyCustomUnitary(ctx, PauliX(), []int{1}), ShouldBeNil)

			amplitudes, err := sim.Wavefunction(ctx)
			So(err, ShouldBeNil)
			So(amplitudes, ShouldResemble, []complex128{0, 0, 1, 0})
		})

		Convey("A controlled flip acts only when the control is set", func() {
			So(ApplyControlled(ctx, sim, PauliX(), 0, 1), ShouldBeNil)

			amplitudes, _ := sim.Wavefunction(ctx)
			So(cmplx.Abs(amplitudes[0]), ShouldAlmostEqual, 1, 1e-12)

			So(sim.ApplyCustomUnitary(ctx, PauliX(), []int{0}), ShouldBeNil)
			So(ApplyControlled(ctx, sim, PauliX(), 0, 1), ShouldBeNil)

			amplitudes, _ = sim.Wavefunction(ctx)
			So(cmplx.Abs(amplitudes[3]), ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("Hadamard then controlled flip entangles the slots", func() {
			So(sim.ApplyCustomUnitary(ctx, Hadamard(), []int{0}), ShouldBeNil)
			So(ApplyControlled(ctx, sim, PauliX(), 0, 1), ShouldBeNil)

			amplitudes, _ := sim.Wavefunction(ctx)
			So(real(amplitudes[0]), ShouldAlmostEqual, 1/math.Sqrt2, 1e-12)
			So(real(amplitudes[3]), ShouldAlmostEqual, 1/math.Sqrt2, 1e-12)
			So(cmplx.Abs(amplitudes[1]), ShouldAlmostEqual, 0, 1e-12)
			So(cmplx.Abs(amplitudes[2]), ShouldAlmostEqual, 0, 1e-12)
		})

		Convey("Operators must match the number of targets", func() {
			err := sim.ApplyCustomUnitary(ctx, Identity(4), []int{0})
			So(errors.Is(err, ErrArityMismatch), ShouldBeTrue)

			d, _ := Diffusion(3)
			err = sim.ApplyCustomUnitary(ctx, d, []int{0, 1})
			So(errors.Is(err, ErrArityMismatch), ShouldBeTrue)

			err = sim.ApplyCustomUnitary(ctx, Identity(4), []int{1, 1})
			So(errors.Is(err, ErrArityMismatch), ShouldBeTrue)

			err = sim.ApplyCustomUnitary(ctx, Identity(2), []int{2})
			So(errors.Is(err, ErrArityMismatch), ShouldBeTrue)
		})

		Convey("Reset rejects empty registers", func() {
			So(errors.Is(sim.Reset(ctx, 0), ErrInvalidArity), ShouldBeTrue)
		})
	})
}

func TestQuantumStateMeasure(t *testing.T) {
	Convey("Given an equal superposition on one slot", t, func() {
		state := NewQuantumState(1)
		So(state.Apply(Hadamard(), []int{0}), ShouldBeNil)
		So(state.ProbabilityOne(0), ShouldAlmostEqual, 0.5, 1e-12)

		Convey("Measuring collapses onto the result", func() {
			bit := state.Measure(0, 0.9)
			So(bit, ShouldEqual, 0)
			So(cmplx.Abs(state.Vector[0]), ShouldAlmostEqual, 1, 1e-12)
			So(state.Vector[1], ShouldEqual, complex(0, 0))
		})

		Convey("A low draw reads 1", func() {
			So(state.Measure(0, 0.1), ShouldEqual, 1)
			So(state.ProbabilityOne(0), ShouldAlmostEqual, 1, 1e-12)
		})
	})
}
