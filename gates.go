package qdie

import (
	"fmt"
	"math"
)

/*
Hadamard returns
 1/√2 * [1  1]
        [1 -1]
*/
func Hadamard() Matrix {
	h := complex(1/math.Sqrt2, 0)
	return Matrix{
		{h, h},
		{h, -h},
	}
}

// PauliX is the bit flip.
func PauliX() Matrix {
	return Matrix{
		{0, 1},
		{1, 0},
	}
}

// PauliZ is the phase flip.
func PauliZ() Matrix {
	return Matrix{
		{1, 0},
		{0, -1},
	}
}

// RX rotates a slot about the X axis by theta.
func RX(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return Matrix{
		{c, s},
		{s, c},
	}
}

// PhaseOracle returns the n x n diagonal operator that negates the amplitude of marked.
func PhaseOracle(n, marked int) (Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("oracle of size %d: %w", n, ErrInvalidArity)
	}

	if marked < 0 || marked >= n {
		return nil, fmt.Errorf("oracle marks %d outside [0, %d): %w", marked, n, ErrDimension)
	}

	out := Identity(n)
	out[marked][marked] = -1
	return out, nil
}
