package qdie

import (
	"fmt"
	"math"
)

// Histogram counts die outcomes over [1, Sides].
type Histogram struct {
	Sides  int
	Counts []int
	total  int
}

/*
NewHistogram allocates an empty histogram for a die with the given number of
sides.
*/
func NewHistogram(sides int) (*Histogram, error) {
	if sides < 1 {
		return nil, fmt.Errorf("histogram of %d sides: %w", sides, ErrInvalidArity)
	}
	return &Histogram{Sides: sides, Counts: make([]int, sides)}, nil
}

// Record counts one outcome.
func (h *Histogram) Record(outcome int) error {
	if outcome < 1 || outcome > h.Sides {
		return fmt.Errorf("outcome %d outside [1, %d]: %w", outcome, h.Sides, ErrInvalidArity)
	}

	h.Counts[outcome-1]++
	h.total++
	return nil
}

// Count returns how often outcome was recorded.
func (h *Histogram) Count(outcome int) int {
	if outcome < 1 || outcome > h.Sides {
		return 0
	}
	return h.Counts[outcome-1]
}

// Total returns the number of recorded outcomes.
func (h *Histogram) Total() int {
	return h.total
}

/*
ChiSquare is Pearson's statistic of the recorded counts against a uniform
distribution, with Sides-1 degrees of freedom.
*/
func (h *Histogram) ChiSquare() float64 {
	if h.total == 0 {
		return 0
	}

	expected := float64(h.total) / float64(h.Sides)

	var stat float64
	for _, count := range h.Counts {
		diff := float64(count) - expected
		stat += diff * diff / expected
	}

	return stat
}

// Uniform reports whether the counts pass a chi-square test at the 0.001 level.
func (h *Histogram) Uniform() bool {
	if h.Sides == 1 {
		return true
	}
	return h.ChiSquare() <= ChiSquareCritical(h.Sides-1)
}

// Upper 0.001 quantiles of the chi-square distribution, indexed by degrees of freedom.
var chiSquare999 = []float64{
	0, 10.828, 13.816, 16.266, 18.467, 20.515, 22.458, 24.322, 26.124, 27.877,
	29.588, 31.264, 32.909, 34.528, 36.123, 37.697, 39.252, 40.790, 42.312, 43.820,
	45.315,
}

/*
ChiSquareCritical returns the 0.001 critical value for df degrees of freedom.
Beyond the table it falls back to the Wilson-Hilferty approximation.
*/
func ChiSquareCritical(df int) float64 {
	if df < 1 {
		return 0
	}

	if df < len(chiSquare999) {
		return chiSquare999[df]
	}

	const z = 3.090 // upper 0.001 standard normal quantile
	k := float64(df)
	t := 1 - 2/(9*k) + z*math.Sqrt(2/(9*k))

	return k * t * t * t
}
