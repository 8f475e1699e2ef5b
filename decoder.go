package qdie

import "fmt"

// BitVector holds one measured bit per trial, in slot order.
type BitVector []int

/*
Decode folds a measured bit vector back into an outcome in [1, N].

The walk runs from the last emitted trial to the first. A set bit on an even
threshold shifts the answer into the upper half of that range. A set bit on
an odd threshold selects the alternative the trial singled out, discarding
whatever the finer trials accumulated.
*/
func Decode(plan *EncodingPlan, bits BitVector) (int, error) {
	if len(bits) != len(plan.Trials) {
		return 0, fmt.Errorf(
			"decode %d bits against %d trials: %w",
			len(bits), len(plan.Trials), ErrLengthMismatch,
		)
	}

	if len(plan.Thresholds) != len(plan.Trials) {
		return 0, fmt.Errorf(
			"decode plan with %d thresholds for %d trials: %w",
			len(plan.Thresholds), len(plan.Trials), ErrLengthMismatch,
		)
	}

	answer := 1

	for i := len(bits) - 1; i >= 0; i-- {
		switch bits[i] {
		case 0:
			continue
		case 1:
		default:
			return 0, fmt.Errorf("decode slot %d value %d: %w", i, bits[i], ErrInvalidBit)
		}

		threshold := plan.Thresholds[i]

		if threshold%2 == 0 {
			answer += threshold / 2
		} else {
			answer = threshold
		}
	}

	return answer, nil
}
