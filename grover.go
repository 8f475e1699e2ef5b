package qdie

import (
	"context"
	"fmt"
	"math/cmplx"

	"github.com/theapemachine/errnie"
)

// Widest register Amplify builds dense 2^k x 2^k operators for.
const maxDenseSlots = 10

// AmplificationResult is the register after one amplification step.
type AmplificationResult struct {
	Width      int
	Marked     int
	Amplitudes []complex128
}

// SuccessProbability is the chance of measuring the marked index.
func (result *AmplificationResult) SuccessProbability() float64 {
	mod := cmplx.Abs(result.Amplitudes[result.Marked])
	return mod * mod
}

/*
Amplify runs a single amplitude-amplification step over width slots: a
uniform superposition, a phase flip on marked, then one reflection about the
mean. It does not iterate. Both operators are dense, so width is capped at
maxDenseSlots.
*/
func Amplify(ctx context.Context, backend Backend, width, marked int) (*AmplificationResult, error) {
	if width < 1 {
		return nil, fmt.Errorf("amplify over %d slots: %w", width, ErrInvalidArity)
	}

	if width > maxDenseSlots {
		return nil, fmt.Errorf(
			"amplify over %d slots exceeds dense limit %d: %w",
			width, maxDenseSlots, ErrArityMismatch,
		)
	}

	size := 1 << width

	oracle, err := PhaseOracle(size, marked)
	if err != nil {
		return nil, err
	}

	diffusion, err := Diffusion(size)
	if err != nil {
		return nil, err
	}

	if err := backend.Reset(ctx, width); err != nil {
		return nil, fmt.Errorf("amplify: %w", err)
	}

	for slot := 0; slot < width; slot++ {
		if err := backend.ApplyCustomUnitary(ctx, Hadamard(), []int{slot}); err != nil {
			return nil, fmt.Errorf("amplify: %w", err)
		}
	}

	// Most significant target first, so matrix indices match basis indices.
	targets := make([]int, width)
	for i := range targets {
		targets[i] = width - 1 - i
	}

	if err := backend.ApplyCustomUnitary(ctx, oracle, targets); err != nil {
		return nil, fmt.Errorf("amplify: %w", err)
	}

	if err := backend.ApplyCustomUnitary(ctx, diffusion, targets); err != nil {
		return nil, fmt.Errorf("amplify: %w", err)
	}

	amplitudes, err := backend.Wavefunction(ctx)
	if err != nil {
		return nil, fmt.Errorf("amplify: %w", err)
	}

	result := &AmplificationResult{Width: width, Marked: marked, Amplitudes: amplitudes}
	errnie.Info("Amplify - width %d, marked %d, success %.4f", width, marked, result.SuccessProbability())

	return result, nil
}

// ApplyControlled applies sub to target whenever control reads 1.
func ApplyControlled(ctx context.Context, backend Backend, sub Matrix, control, target int) error {
	embedded, err := EmbedControlled(sub)
	if err != nil {
		return err
	}

	return backend.ApplyCustomUnitary(ctx, embedded, []int{control, target})
}
