package qdie

import (
	"context"
	"fmt"

	"github.com/theapemachine/errnie"
)

// FlipCoin runs a single trial on slot 0 that reads 1 with probability p.
func FlipCoin(ctx context.Context, backend Backend, p Probability) (int, error) {
	angle, err := AngleFor(p)
	if err != nil {
		return 0, err
	}

	bits, err := backend.ExecuteTrials(ctx, []Trial{{Angle: angle, Slot: 0}})
	if err != nil {
		return 0, fmt.Errorf("flip coin: %w", err)
	}

	if len(bits) != 1 {
		return 0, fmt.Errorf("flip coin got %d bits: %w", len(bits), ErrLengthMismatch)
	}

	return bits[0], nil
}

/*
ThrowDie draws a uniform outcome in [1, n]. The plan's trials are
independent, so the whole throw is a single batch against the backend.
*/
func ThrowDie(ctx context.Context, backend Backend, n int) (int, error) {
	plan, err := Encode(n)
	if err != nil {
		return 0, err
	}

	return Throw(ctx, backend, plan)
}

// Throw executes an existing plan and decodes the outcome.
func Throw(ctx context.Context, backend Backend, plan *EncodingPlan) (int, error) {
	if plan.Len() == 0 {
		return 1, nil
	}

	trials, err := Trials(plan)
	if err != nil {
		return 0, err
	}

	bits, err := backend.ExecuteTrials(ctx, trials)
	if err != nil {
		return 0, fmt.Errorf("throw d%d: %w", plan.Sides(), err)
	}

	outcome, err := Decode(plan, bits)
	if err != nil {
		return 0, err
	}

	errnie.Debug("Throw - d%d bits %v outcome %d", plan.Sides(), bits, outcome)
	return outcome, nil
}

// ThrowOctahedralDie reads three fair trials as a binary number in [1, 8].
func ThrowOctahedralDie(ctx context.Context, backend Backend) (int, error) {
	half, err := AngleFor(0.5)
	if err != nil {
		return 0, err
	}

	bits, err := backend.ExecuteTrials(ctx, []Trial{
		{Angle: half, Slot: 0},
		{Angle: half, Slot: 1},
		{Angle: half, Slot: 2},
	})
	if err != nil {
		return 0, fmt.Errorf("throw d8: %w", err)
	}

	if len(bits) != 3 {
		return 0, fmt.Errorf("throw d8 got %d bits: %w", len(bits), ErrLengthMismatch)
	}

	return 1 + 4*bits[0] + 2*bits[1] + bits[2], nil
}
