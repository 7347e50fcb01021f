package hash

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// NewDescriptors splits flat row-major data into rows of cols values
func NewDescriptors(data []float64, cols int) (Descriptors, error) {
	if cols <= 0 || len(data)%cols != 0 {
		return nil, errors.Wrapf(ErrRaggedDescriptors, "%v values can't be split into rows of %v", len(data), cols)
	}
	desc := make(Descriptors, len(data)/cols)
	for i := range desc {
		desc[i] = data[i*cols : (i+1)*cols]
	}
	return desc, nil
}

// Rows returns number of descriptors
func (d Descriptors) Rows() int {
	return len(d)
}

// Cols returns descriptor length, 0 for the empty set
func (d Descriptors) Cols() int {
	if len(d) == 0 {
		return 0
	}
	return len(d[0])
}

// Validate checks that every row has the same length
func (d Descriptors) Validate() error {
	cols := d.Cols()
	for i, row := range d {
		if len(row) != cols {
			return errors.Wrapf(ErrRaggedDescriptors, "row %v has %v values, expected %v", i, len(row), cols)
		}
	}
	return nil
}

// Subset gathers rows by indices without copying values
func (d Descriptors) Subset(indices []int) Descriptors {
	sub := make(Descriptors, len(indices))
	for i, idx := range indices {
		sub[i] = d[idx]
	}
	return sub
}

// Centroid returns the per-column mean
func (d Descriptors) Centroid() []float64 {
	centroid := make([]float64, d.Cols())
	if len(d) == 0 {
		return centroid
	}
	for _, row := range d {
		floats.Add(centroid, row)
	}
	floats.Scale(1/float64(len(d)), centroid)
	return centroid
}
