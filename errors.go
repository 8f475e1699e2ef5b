package qdie

import "errors"

var (
	// ErrInvalidArity is returned when a die, register or operator size is below one.
	ErrInvalidArity = errors.New("invalid arity")
	// ErrDomain is returned when a probability falls outside [0, 1].
	ErrDomain = errors.New("probability out of domain")
	// ErrLengthMismatch is returned when a bit vector does not match its plan.
	ErrLengthMismatch = errors.New("bit vector length mismatch")
	// ErrInvalidBit is returned when a bit vector holds something other than 0 or 1.
	ErrInvalidBit = errors.New("invalid bit value")
	// ErrDimension is returned when a matrix has the wrong shape.
	ErrDimension = errors.New("matrix dimension mismatch")
	// ErrArityMismatch is returned when a matrix does not fit the register slots it targets.
	ErrArityMismatch = errors.New("register arity mismatch")
)
