package app

import (
	"os"
	"strconv"

	"github.com/gasparian/hash-matching-go/annbench"
	"github.com/gasparian/hash-matching-go/hash"
	"github.com/gasparian/hash-matching-go/store"
	"github.com/gasparian/hash-matching-go/store/kv"
	"github.com/gasparian/hash-matching-go/store/purekv"
	"github.com/pkg/errors"
)

var (
	errUnknownStore = errors.New("unknown store type")
)

// DefaultServiceConfig returns the config used when no env vars are set
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		Hasher: hash.DefaultConfig(),
		Store: StoreConfig{
			Type: MemoryStore,
			PureKv: purekv.Config{
				Address: "0.0.0.0:6666",
				Timeout: 500,
			},
		},
		App: Config{
			Variant:    int(hash.Hierarchical),
			TopN:       10,
			Workers:    4,
			DescThresh: 300.0,
			Dataset:    annbench.DefaultDataset,
		},
	}
}

// ParseEnv forms app config by parsing the environment variables;
// unset variables keep the defaults
func ParseEnv() (*ServiceConfig, error) {
	config := DefaultServiceConfig()
	intVars := map[string]*int{
		"HASH_VARIANT":    &config.App.Variant,
		"TOP_N":           &config.App.TopN,
		"WORKERS":         &config.App.Workers,
		"MAX_HYPERPLANES": &config.Hasher.MaxHyperplanes,
		"MIN_HYPERPLANES": &config.Hasher.MinHyperplanes,
		"N_LEVELS":        &config.Hasher.QuantizationLevels,
		"PROJ_NUM":        &config.Hasher.ProjectionCount,
		"ATTEMPTS":        &config.Hasher.Attempts,
		"PUREKV_TIMEOUT":  &config.Store.PureKv.Timeout,
	}
	for key, ptr := range intVars {
		val := os.Getenv(key)
		if len(val) == 0 {
			continue
		}
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return nil, errors.Wrapf(err, "env %s", key)
		}
		*ptr = parsed
	}
	floatVars := map[string]*float64{
		"DESC_THRESH":        &config.App.DescThresh,
		"FEATURES_MAX_VALUE": &config.Hasher.FeaturesMaxValue,
	}
	for key, ptr := range floatVars {
		val := os.Getenv(key)
		if len(val) == 0 {
			continue
		}
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "env %s", key)
		}
		*ptr = parsed
	}
	if val := os.Getenv("SEED"); len(val) != 0 {
		seed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "env SEED")
		}
		config.Hasher.Seed = seed
	}
	stringVars := map[string]*string{
		"STORE":       &config.Store.Type,
		"PUREKV_ADDR": &config.Store.PureKv.Address,
		"DATASET":     &config.App.Dataset,
	}
	for key, ptr := range stringVars {
		if val := os.Getenv(key); len(val) != 0 {
			*ptr = val
		}
	}
	return config, nil
}

// NewStore creates the configured store; returned func releases it
func NewStore(config StoreConfig) (store.Store, func(), error) {
	switch config.Type {
	case MemoryStore, "":
		return kv.NewKVStore(), func() {}, nil
	case PureKvStore:
		s := purekv.New(config.PureKv)
		if err := s.Start(); err != nil {
			return nil, nil, errors.Wrap(err, "starting pure-kv client")
		}
		return s, s.Close, nil
	}
	return nil, nil, errors.Wrap(errUnknownStore, config.Type)
}
