package app

import (
	cm "github.com/gasparian/hash-matching-go/common"
	"github.com/gasparian/hash-matching-go/hash"
	"github.com/gasparian/hash-matching-go/store"
	"github.com/gasparian/hash-matching-go/store/purekv"
)

const (
	MemoryStore = "memory"
	PureKvStore = "purekv"
)

// Config holds general constants of the ranking run
type Config struct {
	Variant    int
	TopN       int
	Workers    int
	DescThresh float64
	Dataset    string
}

// StoreConfig selects where the catalog fingerprints are kept
type StoreConfig struct {
	Type   string
	PureKv purekv.Config
}

// ServiceConfig holds all needed variables to run the matcher
type ServiceConfig struct {
	Hasher hash.Config
	Store  StoreConfig
	App    Config
}

// Candidate is a catalog entry: image id and its descriptors
type Candidate struct {
	ID          string
	Descriptors hash.Descriptors
}

// Matcher holds the Hasher initialized over the reference descriptors
// and the store with catalog fingerprints
type Matcher struct {
	Hasher  *hash.Hasher
	Store   store.Store
	Logger  *cm.Logger
	Config  ServiceConfig
	variant hash.Variant
	refDesc hash.Descriptors
	refHash []float64
}
