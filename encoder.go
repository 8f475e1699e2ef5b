package qdie

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/theapemachine/errnie"
)

// TrialSpec is one independent biased coin: Slot reads 1 with Probability.
type TrialSpec struct {
	Probability Probability
	Slot        int
}

/*
EncodingPlan is the ordered set of independent trials that together encode a
uniform draw over [1, N], along with the remaining-alternatives count that
each trial was emitted for.

Trials and Thresholds are index aligned. Trial i always targets slot i, so
the plan never shares a slot with another plan's register.
*/
type EncodingPlan struct {
	Trials     []TrialSpec
	Thresholds []int
	sides      int
}

/*
Encode decomposes a fair N-sided die into O(log N) independent biased
trials by repeatedly halving the number of remaining alternatives.

An even count emits a fair trial and halves. An odd count emits a trial
that reads 1 with probability 1/m, which singles out one alternative, and
leaves an even count behind. The walk stops once one alternative remains.
*/
func Encode(n int) (*EncodingPlan, error) {
	if n < 1 {
		return nil, fmt.Errorf("encode %d sides: %w", n, ErrInvalidArity)
	}

	plan := &EncodingPlan{sides: n}

	for m := n; m > 1; {
		spec := TrialSpec{Slot: len(plan.Trials)}

		if m%2 == 0 {
			spec.Probability = 0.5
			plan.Thresholds = append(plan.Thresholds, m)
			m /= 2
		} else {
			spec.Probability = Probability(1 / float64(m))
			plan.Thresholds = append(plan.Thresholds, m)
			m--
		}

		plan.Trials = append(plan.Trials, spec)
	}

	errnie.Debug("Encode - sides %d, trials %d, thresholds %v", n, len(plan.Trials), plan.Thresholds)
	return plan, nil
}

// Sides returns the number of outcomes the plan encodes.
func (plan *EncodingPlan) Sides() int {
	return plan.sides
}

// Len returns the number of trials, which is also the register width.
func (plan *EncodingPlan) Len() int {
	return len(plan.Trials)
}

// Fingerprint identifies the plan by its threshold sequence.
func (plan *EncodingPlan) Fingerprint() uint64 {
	buf := make([]byte, 0, 8*(len(plan.Thresholds)+1))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(plan.sides))

	for _, threshold := range plan.Thresholds {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(threshold))
	}

	return xxhash.Sum64(buf)
}

// Trials converts a plan into the angle/slot pairs a Backend consumes.
func Trials(plan *EncodingPlan) ([]Trial, error) {
	trials := make([]Trial, 0, len(plan.Trials))

	for _, spec := range plan.Trials {
		angle, err := AngleFor(spec.Probability)
		if err != nil {
			return nil, fmt.Errorf("trial on slot %d: %w", spec.Slot, err)
		}

		trials = append(trials, Trial{Angle: angle, Slot: spec.Slot})
	}

	return trials, nil
}
