package hash

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Distance returns the L1 distance between two fingerprints
func Distance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.Wrapf(ErrLengthMismatch, "%v != %v", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	return floats.Distance(a, b, 1), nil
}
