package qdie

import "context"

// Trial is a rotation of Angle radians applied to a blank Slot before measurement.
type Trial struct {
	Angle float64
	Slot  int
}

/*
Backend is the probabilistic register that trials and custom operations run
on. It may be a remote service or the in-process Simulator; the encoder and
decoder never depend on which.

ExecuteTrials prepares a register of max(slot)+1 slots, rotates each listed
slot, measures the listed slots and returns one bit per trial in ascending
slot order.

ApplyCustomUnitary applies a matrix of dimension 2^len(targets) to the held
register. targets[0] is the most significant bit of the matrix index.

Wavefunction returns a copy of the held register's amplitudes, where bit q of
a basis index is slot q.
*/
type Backend interface {
	ExecuteTrials(ctx context.Context, trials []Trial) (BitVector, error)
	Reset(ctx context.Context, width int) error
	ApplyCustomUnitary(ctx context.Context, m Matrix, targets []int) error
	Wavefunction(ctx context.Context) ([]complex128, error)
}
