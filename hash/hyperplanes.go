package hash

import (
	"math/rand"

	cm "github.com/gasparian/hash-matching-go/common"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// Eval returns w*x + b
func (h *Hyperplane) Eval(vec []float64) float64 {
	return blas64.Dot(cm.NewVec(h.W), cm.NewVec(vec)) + h.B
}

// FitHyperplanes generates d random hyperplanes passing through the descriptors centroid
func FitHyperplanes(desc Descriptors, d int, rng *rand.Rand) HyperplaneSet {
	if d <= 0 || desc.Cols() == 0 {
		return HyperplaneSet{}
	}
	centroid := desc.Centroid()
	set := make(HyperplaneSet, d)
	for i := range set {
		w := make([]float64, len(centroid))
		for j := range w {
			w[j] = -1.0 + rng.Float64()*2
		}
		set[i] = Hyperplane{
			W: w,
			B: -floats.Dot(w, centroid),
		}
	}
	return set
}

// BucketIndex computes the sign pattern of vec against the set;
// hyperplane 0 gives the most significant bit
func (s HyperplaneSet) BucketIndex(vec []float64) int {
	idx := 0
	for i := range s {
		idx <<= 1
		if s[i].Eval(vec) > 0 {
			idx |= 1
		}
	}
	return idx
}

// BucketKey returns sign pattern as a string of bits
func (s HyperplaneSet) BucketKey(vec []float64) string {
	key := make([]byte, len(s))
	for i := range s {
		if s[i].Eval(vec) > 0 {
			key[i] = '1'
		} else {
			key[i] = '0'
		}
	}
	return string(key)
}
