package hash

import (
	"math"

	cm "github.com/gasparian/hash-matching-go/common"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

func (hasher *Hasher) checkInput(desc Descriptors) error {
	if !hasher.initialized {
		return ErrNotInitialized
	}
	return desc.Validate()
}

// GetHash1 computes the hierarchical fingerprint: for every first-level region
// (in table order) the number of its descriptors falling into each sub-region.
// Length is (2^k)^2 and doesn't depend on the descriptors number
func (hasher *Hasher) GetHash1(desc Descriptors) ([]uint32, error) {
	hasher.mutex.RLock()
	defer hasher.mutex.RUnlock()

	if err := hasher.checkInput(desc); err != nil {
		return nil, err
	}
	if desc.Rows() > 0 && desc.Cols() != hasher.dims {
		return nil, errors.Wrapf(ErrFeatureDims, "got %v, expected %v", desc.Cols(), hasher.dims)
	}
	size := hasher.table.Size()
	hash := make([]uint32, 0, size*size)
	regions := Partition(desc, hasher.planes, hasher.table)
	for i, region := range regions {
		counts := regionCounts(desc.Subset(region), hasher.subPlanes[i], hasher.table)
		hash = append(hash, counts...)
	}
	return hash, nil
}

// GetHash2 computes the histogram of quantized descriptor values.
// A value goes to the bin floor(v/interval) when it's an exact multiple of
// the interval and to the next one otherwise; bins out of range are clamped
func (hasher *Hasher) GetHash2(desc Descriptors) ([]uint32, error) {
	hasher.mutex.RLock()
	defer hasher.mutex.RUnlock()

	if err := hasher.checkInput(desc); err != nil {
		return nil, err
	}
	levels := hasher.Config.QuantizationLevels
	interval := hasher.Config.FeaturesMaxValue / float64(levels)
	hash := make([]uint32, levels)
	for m, row := range desc {
		for n, v := range row {
			if !cm.IsFinite(v) {
				return nil, errors.Wrapf(ErrQuantizationOverflow, "value %v at [%v, %v]", v, m, n)
			}
			hash[quantize(v, interval, levels)]++
		}
	}
	return hash, nil
}

func quantize(v, interval float64, levels int) int {
	q := v / interval
	if q < 0 {
		return 0
	}
	if q >= float64(levels) {
		return levels - 1
	}
	level := int(q)
	if math.Mod(v, interval) > 0 {
		level++
	}
	if level > levels-1 {
		level = levels - 1
	}
	return level
}

// GetHash3 projects every descriptor column onto the random vectors.
// Length is ProjectionCount x D; descriptors can't have more rows than the reference
func (hasher *Hasher) GetHash3(desc Descriptors) ([]float64, error) {
	hasher.mutex.RLock()
	defer hasher.mutex.RUnlock()

	if err := hasher.checkInput(desc); err != nil {
		return nil, err
	}
	if desc.Rows() > hasher.refRows {
		return nil, errors.Wrapf(ErrDimensionMismatch, "got %v rows, reference has %v", desc.Rows(), hasher.refRows)
	}
	cols := desc.Cols()
	hash := make([]float64, len(hasher.projections)*cols)
	for i, r := range hasher.projections {
		sums := hash[i*cols : (i+1)*cols]
		for m, row := range desc {
			floats.AddScaled(sums, r[m], row)
		}
	}
	return hash, nil
}

// GetHash computes the fingerprint of the selected variant as float values
func (hasher *Hasher) GetHash(variant Variant, desc Descriptors) ([]float64, error) {
	switch variant {
	case Hierarchical:
		hash, err := hasher.GetHash1(desc)
		if err != nil {
			return nil, err
		}
		return cm.UintTo64(hash), nil
	case Histogram:
		hash, err := hasher.GetHash2(desc)
		if err != nil {
			return nil, err
		}
		return cm.UintTo64(hash), nil
	case Projection:
		return hasher.GetHash3(desc)
	}
	return nil, errors.Wrapf(ErrUnknownVariant, "%v", int(variant))
}

// ParseVariant maps 1, 2, 3 to the hash variants
func ParseVariant(v int) (Variant, error) {
	variant := Variant(v)
	switch variant {
	case Hierarchical, Histogram, Projection:
		return variant, nil
	}
	return 0, errors.Wrapf(ErrUnknownVariant, "%v", v)
}

func (v Variant) String() string {
	switch v {
	case Hierarchical:
		return "hierarchical"
	case Histogram:
		return "histogram"
	case Projection:
		return "projection"
	}
	return "unknown"
}
