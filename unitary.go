package qdie

import (
	"fmt"
	"math/cmplx"
)

/*
Matrix is a dense square complex matrix, row major.

Matrices built by this package are handed to a Backend as custom operations
and are never mutated afterwards.
*/
type Matrix [][]complex128

// Identity returns the n x n identity.
func Identity(n int) Matrix {
	m := Zeros(n)
	for i := range m {
		m[i][i] = 1
	}
	return m
}

// Zeros returns the n x n zero matrix.
func Zeros(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]complex128, n)
	}
	return m
}

// Dim returns the side length of a square matrix, or an error for ragged or non-square input.
func (m Matrix) Dim() (int, error) {
	n := len(m)
	if n == 0 {
		return 0, fmt.Errorf("empty matrix: %w", ErrDimension)
	}

	for i, row := range m {
		if len(row) != n {
			return 0, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), n, ErrDimension)
		}
	}

	return n, nil
}

/*
EmbedControlled builds the 4x4 operator that applies sub to a target slot
only when a control slot reads 1:

	| I  0   |
	| 0  sub |

The control is the most significant index bit. sub is taken as is: a
non-unitary sub yields a non-unitary embedding.
*/
func EmbedControlled(sub Matrix) (Matrix, error) {
	n, err := sub.Dim()
	if err != nil {
		return nil, fmt.Errorf("embed controlled: %w", err)
	}

	if n != 2 {
		return nil, fmt.Errorf("embed controlled: got %dx%d, want 2x2: %w", n, n, ErrDimension)
	}

	out := Identity(2 * n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[n+i][n+j] = sub[i][j]
		}
	}

	return out, nil
}

/*
Diffusion returns the mean-reflection operator (2/n)J - I, where J is the
all-ones matrix. Applied to a vector it reflects every component about the
vector's mean, which is the amplification step of Grover search.
*/
func Diffusion(n int) (Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("diffusion of size %d: %w", n, ErrInvalidArity)
	}

	mean := complex(2/float64(n), 0)
	out := make(Matrix, n)

	for i := range out {
		out[i] = make([]complex128, n)
		for j := range out[i] {
			out[i][j] = mean
		}
		out[i][i] -= 1
	}

	return out, nil
}

// Mul returns a*b.
func Mul(a, b Matrix) (Matrix, error) {
	n, err := a.Dim()
	if err != nil {
		return nil, err
	}

	k, err := b.Dim()
	if err != nil {
		return nil, err
	}

	if n != k {
		return nil, fmt.Errorf("multiply %dx%d by %dx%d: %w", n, n, k, k, ErrDimension)
	}

	out := Zeros(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum complex128
			for p := 0; p < n; p++ {
				sum += a[i][p] * b[p][j]
			}
			out[i][j] = sum
		}
	}

	return out, nil
}

// MulVec returns m*v.
func MulVec(m Matrix, v []complex128) ([]complex128, error) {
	n, err := m.Dim()
	if err != nil {
		return nil, err
	}

	if len(v) != n {
		return nil, fmt.Errorf("multiply %dx%d by vector of %d: %w", n, n, len(v), ErrDimension)
	}

	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i] += m[i][j] * v[j]
		}
	}

	return out, nil
}

// ConjugateTranspose returns the adjoint of m.
func ConjugateTranspose(m Matrix) Matrix {
	out := Zeros(len(m))
	for i := range m {
		for j := range m[i] {
			out[j][i] = cmplx.Conj(m[i][j])
		}
	}
	return out
}

// Trace sums the diagonal.
func Trace(m Matrix) complex128 {
	var sum complex128
	for i := range m {
		sum += m[i][i]
	}
	return sum
}

// ApproxEqual reports whether a and b agree entry by entry within tol.
func ApproxEqual(a, b Matrix, tol float64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if cmplx.Abs(a[i][j]-b[i][j]) > tol {
				return false
			}
		}
	}

	return true
}

// IsUnitary reports whether m*m† is the identity within tol.
func IsUnitary(m Matrix, tol float64) bool {
	n, err := m.Dim()
	if err != nil {
		return false
	}

	product, err := Mul(m, ConjugateTranspose(m))
	if err != nil {
		return false
	}

	return ApproxEqual(product, Identity(n), tol)
}
