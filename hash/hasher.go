package hash

import (
	"bytes"
	"encoding/gob"
	"math/rand"

	cm "github.com/gasparian/hash-matching-go/common"
	"github.com/pkg/errors"
)

// DefaultConfig returns the parameters the matcher runs with by default
func DefaultConfig() Config {
	return Config{
		MaxHyperplanes:     DefaultMaxHyperplanes,
		MinHyperplanes:     DefaultMinHyperplanes,
		FeaturesMaxValue:   DefaultFeaturesMaxValue,
		QuantizationLevels: DefaultQuantizationLevels,
		ProjectionCount:    DefaultProjectionCount,
		Attempts:           DefaultAttempts,
	}
}

// withDefaults replaces zero values with the defaults
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxHyperplanes == 0 {
		c.MaxHyperplanes = def.MaxHyperplanes
	}
	if c.MinHyperplanes == 0 {
		c.MinHyperplanes = def.MinHyperplanes
	}
	if c.FeaturesMaxValue == 0 {
		c.FeaturesMaxValue = def.FeaturesMaxValue
	}
	if c.QuantizationLevels == 0 {
		c.QuantizationLevels = def.QuantizationLevels
	}
	if c.ProjectionCount == 0 {
		c.ProjectionCount = def.ProjectionCount
	}
	if c.Attempts == 0 {
		c.Attempts = def.Attempts
	}
	return c
}

// Validate checks the config bounds
func (c Config) Validate() error {
	switch {
	case c.MinHyperplanes < 1:
		return errors.Wrap(ErrInvalidConfig, "min hyperplanes number must be a positive integer")
	case c.MaxHyperplanes < c.MinHyperplanes:
		return errors.Wrap(ErrInvalidConfig, "max hyperplanes number must not be less than the min one")
	case c.MaxHyperplanes > maxHyperplanesLimit:
		return errors.Wrapf(ErrInvalidConfig, "max hyperplanes number must not exceed %v", maxHyperplanesLimit)
	case c.FeaturesMaxValue <= 0:
		return errors.Wrap(ErrInvalidConfig, "features max value must be positive")
	case c.QuantizationLevels < 1:
		return errors.Wrap(ErrInvalidConfig, "quantization levels number must be a positive integer")
	case c.ProjectionCount < 0:
		return errors.Wrap(ErrInvalidConfig, "projections number can't be negative")
	case c.Attempts < 1:
		return errors.Wrap(ErrInvalidConfig, "attempts number must be a positive integer")
	}
	return nil
}

// NewHasher creates an empty Hasher; zero config values take the defaults
func NewHasher(config Config, logger *cm.Logger) *Hasher {
	return &Hasher{
		Config:  config.withDefaults(),
		logger:  cm.OrNop(logger),
		nPlanes: -1,
	}
}

// NumHyperplanes returns number of hyperplanes per level, -1 if not initialized
func (hasher *Hasher) NumHyperplanes() int {
	hasher.mutex.RLock()
	defer hasher.mutex.RUnlock()
	return hasher.nPlanes
}

// ReferenceRows returns number of descriptors used for initialization
func (hasher *Hasher) ReferenceRows() int {
	hasher.mutex.RLock()
	defer hasher.mutex.RUnlock()
	return hasher.refRows
}

// Initialized reports whether encoding is allowed
func (hasher *Hasher) Initialized() bool {
	hasher.mutex.RLock()
	defer hasher.mutex.RUnlock()
	return hasher.initialized
}

func (hasher *Hasher) reset() {
	hasher.initialized = false
	hasher.nPlanes = -1
	hasher.refRows = 0
	hasher.dims = 0
	hasher.table = CombinationTable{}
	hasher.planes = nil
	hasher.subPlanes = nil
	hasher.projections = nil
}

// Initialize searches for the largest number of hyperplanes k, from MaxHyperplanes
// down to MinHyperplanes, which leaves every first-level region non-empty,
// and fits the second-level hyperplanes for each region.
// Returns false and ErrInitialization if no k fits; the hasher then refuses encoding.
func (hasher *Hasher) Initialize(desc Descriptors) (bool, error) {
	hasher.mutex.Lock()
	defer hasher.mutex.Unlock()

	hasher.reset()
	if err := hasher.Config.Validate(); err != nil {
		return false, err
	}
	if err := desc.Validate(); err != nil {
		return false, err
	}

	rng := rand.New(rand.NewSource(hasher.Config.Seed))
	done := false
	for k := hasher.Config.MaxHyperplanes; k >= hasher.Config.MinHyperplanes && !done; k-- {
		if 1<<uint(k) > desc.Rows() {
			hasher.logger.Debug().Int("hyperplanes", k).Int("rows", desc.Rows()).Msg("Not enough descriptors to fill every region")
			continue
		}
		for attempt := 0; attempt < hasher.Config.Attempts && !done; attempt++ {
			var smallest int
			done, smallest = hasher.initializeHyperplanes(desc, k, rng)
			hasher.logger.Debug().
				Int("hyperplanes", k).
				Int("attempt", attempt).
				Int("smallestRegion", smallest).
				Bool("done", done).
				Msg("Initializing iteration")
		}
	}
	projections := randomProjections(hasher.Config.Seed, hasher.Config.ProjectionCount, 3*desc.Rows())
	if !done {
		hasher.logger.Error().Int("rows", desc.Rows()).Msg("Impossible to find a correct number of hyperplanes")
		hasher.reset()
		hasher.projections = projections
		return false, errors.Wrapf(ErrInitialization, "searched %v..%v hyperplanes over %v descriptors",
			hasher.Config.MaxHyperplanes, hasher.Config.MinHyperplanes, desc.Rows())
	}
	hasher.projections = projections
	hasher.refRows = desc.Rows()
	hasher.dims = desc.Cols()
	hasher.initialized = true
	hasher.logger.Info().Int("hyperplanes", hasher.nPlanes).Int("rows", hasher.refRows).Msg("Initialization finished")
	return true, nil
}

// initializeHyperplanes makes a single attempt with k hyperplanes;
// returns the smallest first-level region size as well
func (hasher *Hasher) initializeHyperplanes(desc Descriptors, k int, rng *rand.Rand) (bool, int) {
	table := BuildCombinations(k)
	planes := FitHyperplanes(desc, k, rng)
	regions := Partition(desc, planes, table)
	smallest := smallestRegion(regions)
	if smallest == 0 {
		return false, smallest
	}
	subPlanes := make([]HyperplaneSet, len(regions))
	for i, region := range regions {
		subPlanes[i] = FitHyperplanes(desc.Subset(region), k, rng)
	}
	hasher.nPlanes = k
	hasher.table = table
	hasher.planes = planes
	hasher.subPlanes = subPlanes
	return true, smallest
}

// randomProjections generates count vectors of uniform [0, 1) values,
// vector i is seeded by seed+i+1
func randomProjections(seed int64, count, size int) [][]float64 {
	projections := make([][]float64, count)
	for i := range projections {
		rng := rand.New(rand.NewSource(seed + int64(i) + 1))
		r := make([]float64, size)
		for j := range r {
			r[j] = rng.Float64()
		}
		projections[i] = r
	}
	return projections
}

// Dump encodes the initialized Hasher as a byte-array
func (hasher *Hasher) Dump() ([]byte, error) {
	hasher.mutex.RLock()
	defer hasher.mutex.RUnlock()

	if !hasher.initialized {
		return nil, ErrNotInitialized
	}
	buf := &bytes.Buffer{}
	enc := gob.NewEncoder(buf)
	err := enc.Encode(hasherEncode{
		Config:      hasher.Config,
		NPlanes:     hasher.nPlanes,
		RefRows:     hasher.refRows,
		Dims:        hasher.dims,
		Planes:      hasher.planes,
		SubPlanes:   hasher.subPlanes,
		Projections: hasher.projections,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load restores the Hasher from the byte-array made by Dump
func (hasher *Hasher) Load(inp []byte) error {
	hasher.mutex.Lock()
	defer hasher.mutex.Unlock()

	var decoded hasherEncode
	dec := gob.NewDecoder(bytes.NewReader(inp))
	if err := dec.Decode(&decoded); err != nil {
		return err
	}
	if err := decoded.Config.Validate(); err != nil {
		return err
	}
	table := BuildCombinations(decoded.NPlanes)
	if len(decoded.Planes) != decoded.NPlanes || len(decoded.SubPlanes) != table.Size() {
		return errors.Wrap(ErrNotInitialized, "dumped hasher is inconsistent")
	}
	hasher.reset()
	hasher.Config = decoded.Config
	hasher.nPlanes = decoded.NPlanes
	hasher.refRows = decoded.RefRows
	hasher.dims = decoded.Dims
	hasher.table = table
	hasher.planes = decoded.Planes
	hasher.subPlanes = decoded.SubPlanes
	hasher.projections = decoded.Projections
	hasher.initialized = true
	return nil
}
