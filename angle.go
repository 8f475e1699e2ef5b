package qdie

import (
	"fmt"
	"math"
)

// Probability is the chance that a trial reads 1.
type Probability float64

/*
AngleFor returns the rotation angle that, applied to a blank slot, makes the
slot read 1 with the given probability once measured.

	angle = 2 * asin(sqrt(p))
*/
func AngleFor(p Probability) (float64, error) {
	if math.IsNaN(float64(p)) || p < 0 || p > 1 {
		return 0, fmt.Errorf("angle for %v: %w", float64(p), ErrDomain)
	}

	switch p {
	case 0:
		return 0, nil
	case 1:
		return math.Pi, nil
	}

	return 2 * math.Asin(math.Sqrt(float64(p))), nil
}
