package hash

import (
	"sync"

	cm "github.com/gasparian/hash-matching-go/common"
	"github.com/pkg/errors"
)

const (
	DefaultMaxHyperplanes     = 15
	DefaultMinHyperplanes     = 2
	DefaultFeaturesMaxValue   = 255.0
	DefaultQuantizationLevels = 128
	DefaultProjectionCount    = 5
	DefaultAttempts           = 1

	// fingerprint of the first variant holds 4^k values
	maxHyperplanesLimit = 15
	maxCombinationWidth = 30
)

// Variant selects one of the fingerprint encodings
type Variant int

const (
	// Hierarchical sub-region counts
	Hierarchical Variant = iota + 1
	// Quantized descriptor values histogram
	Histogram
	// Random projections of the descriptor columns
	Projection
)

var (
	ErrInitialization       = errors.New("no number of hyperplanes produces only non-empty regions")
	ErrNotInitialized       = errors.New("hasher is not initialized")
	ErrDimensionMismatch    = errors.New("descriptors rows number exceeds the reference rows number")
	ErrFeatureDims          = errors.New("descriptors columns number differs from the reference one")
	ErrLengthMismatch       = errors.New("fingerprints must have the same length")
	ErrQuantizationOverflow = errors.New("descriptor value can't be quantized")
	ErrInvalidConfig        = errors.New("invalid hasher config")
	ErrUnknownVariant       = errors.New("unknown hash variant")
	ErrRaggedDescriptors    = errors.New("all descriptors must have the same length")
)

// Descriptors holds one feature vector per row (N x D)
type Descriptors [][]float64

// Hyperplane holds the normal vector and the offset: w*x + b
type Hyperplane struct {
	W []float64
	B float64
}

// HyperplaneSet holds hyperplanes fitted through the same centroid
type HyperplaneSet []Hyperplane

// CombinationTable holds every possible bucket key for d hyperplanes,
// position in the table is the bucket index
type CombinationTable struct {
	d    int
	keys []string
}

// Config holds all needed constants for creating the Hasher instance
type Config struct {
	MaxHyperplanes     int
	MinHyperplanes     int
	FeaturesMaxValue   float64
	QuantizationLevels int
	ProjectionCount    int
	Attempts           int
	Seed               int64
}

// Hasher holds the hyperplanes, sub-region hyperplanes and projection vectors
// computed once over the reference descriptors
type Hasher struct {
	mutex       sync.RWMutex
	logger      *cm.Logger
	Config      Config
	nPlanes     int
	refRows     int
	dims        int
	initialized bool
	table       CombinationTable
	planes      HyperplaneSet
	subPlanes   []HyperplaneSet
	projections [][]float64
}

// hasherEncode using for encoding/decoding the Hasher structure
type hasherEncode struct {
	Config      Config
	NPlanes     int
	RefRows     int
	Dims        int
	Planes      HyperplaneSet
	SubPlanes   []HyperplaneSet
	Projections [][]float64
}
