package common

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/blas/blas64"
)

const tol = 1e-6

func TestNewVec(t *testing.T) {
	t.Parallel()
	var v blas64.Vector
	v = NewVec([]float64{0.0, 42.0})
	if math.Abs(blas64.Asum(v)-42.0) > tol {
		t.Error("Corrupted conversion to blas vector")
	}
	v = NewVec(nil)
	if blas64.Asum(v) != 0.0 {
		t.Error("Corrupted conversion to blas vector: nil should return empty vector")
	}
}

func TestConvert(t *testing.T) {
	t.Parallel()
	f := ConvertTo64([]float32{1.5, -2})
	if f[0] != 1.5 || f[1] != -2 {
		t.Errorf("Wrong float conversion: %v", f)
	}
	u := UintTo64([]uint32{0, 7})
	if u[0] != 0 || u[1] != 7 {
		t.Errorf("Wrong uint conversion: %v", u)
	}
}

func TestIsFinite(t *testing.T) {
	t.Parallel()
	if !IsFinite(1.0) {
		t.Error("1.0 is finite")
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(-1)) {
		t.Error("NaN and Inf are not finite")
	}
}
