package hash

import (
	"testing"

	"github.com/pkg/errors"
)

func TestDistance(t *testing.T) {
	t.Parallel()
	a := []float64{1.0, 5.0, 0.0}
	b := []float64{2.0, 3.0, 4.0}
	ab, err := Distance(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if ab != 7.0 {
		t.Fatalf("L1 distance must be 7.0, got %v", ab)
	}
	ba, _ := Distance(b, a)
	if ab != ba {
		t.Fatal("Distance must be symmetric")
	}
	aa, _ := Distance(a, a)
	if aa != 0 {
		t.Fatal("Distance to itself must be 0")
	}
	empty, err := Distance(nil, []float64{})
	if err != nil || empty != 0 {
		t.Fatal("Empty fingerprints are equal")
	}
}

func TestDistanceLengthMismatch(t *testing.T) {
	t.Parallel()
	_, err := Distance([]float64{1.0}, []float64{1.0, 2.0})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("Expected length mismatch error, got %v", err)
	}
}
