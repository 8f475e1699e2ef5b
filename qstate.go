package qdie

import (
	"fmt"
	"math"
	"math/cmplx"
)

// QuantumState is a state vector over a register of Width slots.
type QuantumState struct {
	Vector []complex128
	Width  int
}

// NewQuantumState returns a register of width slots, all reading 0.
func NewQuantumState(width int) *QuantumState {
	vector := make([]complex128, 1<<width)
	vector[0] = 1
	return &QuantumState{Vector: vector, Width: width}
}

/*
Apply multiplies the amplitudes over targets by m. targets must be distinct,
in range, and len(m) must be 2^len(targets).
*/
func (qs *QuantumState) Apply(m Matrix, targets []int) error {
	if err := qs.checkTargets(m, targets); err != nil {
		return err
	}

	k := len(targets)
	dim := 1 << k

	var mask int
	for _, t := range targets {
		mask |= 1 << t
	}

	out := make([]complex128, len(qs.Vector))

	for i, amplitude := range qs.Vector {
		if amplitude == 0 {
			continue
		}

		col := 0
		for p, t := range targets {
			if i>>t&1 == 1 {
				col |= 1 << (k - 1 - p)
			}
		}

		base := i &^ mask
		for row := 0; row < dim; row++ {
			entry := m[row][col]
			if entry == 0 {
				continue
			}

			j := base
			for p, t := range targets {
				if row>>(k-1-p)&1 == 1 {
					j |= 1 << t
				}
			}
			out[j] += entry * amplitude
		}
	}

	qs.Vector = out
	return nil
}

func (qs *QuantumState) checkTargets(m Matrix, targets []int) error {
	n, err := m.Dim()
	if err != nil {
		return err
	}

	if len(targets) == 0 || len(targets) > qs.Width || n != 1<<len(targets) {
		return fmt.Errorf(
			"%dx%d operator on %d targets of a %d slot register: %w",
			n, n, len(targets), qs.Width, ErrArityMismatch,
		)
	}

	seen := make(map[int]bool, len(targets))
	for _, t := range targets {
		if t < 0 || t >= qs.Width || seen[t] {
			return fmt.Errorf("target slot %d: %w", t, ErrArityMismatch)
		}
		seen[t] = true
	}

	return nil
}

// ProbabilityOne is the chance that measuring slot reads 1.
func (qs *QuantumState) ProbabilityOne(slot int) float64 {
	var prob float64
	for i, amplitude := range qs.Vector {
		if i>>slot&1 == 1 {
			mod := cmplx.Abs(amplitude)
			prob += mod * mod // Square of the modulus
		}
	}
	return prob
}

/*
Measure collapses slot given a uniform draw r in [0, 1) and returns the bit
it read. Amplitudes inconsistent with the result are zeroed and the rest
renormalized.
*/
func (qs *QuantumState) Measure(slot int, r float64) int {
	one := qs.ProbabilityOne(slot)

	bit := 0
	kept := 1 - one
	if r < one {
		bit = 1
		kept = one
	}

	scale := complex(1, 0)
	if kept > 0 {
		scale = complex(1/math.Sqrt(kept), 0)
	}

	for i := range qs.Vector {
		if i>>slot&1 != bit {
			qs.Vector[i] = 0
			continue
		}
		qs.Vector[i] *= scale
	}

	return bit
}

// Snapshot returns a copy of the amplitudes.
func (qs *QuantumState) Snapshot() []complex128 {
	out := make([]complex128, len(qs.Vector))
	copy(out, qs.Vector)
	return out
}
