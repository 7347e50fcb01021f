package store

import (
	"github.com/pkg/errors"
)

var (
	ErrKeyNotFound = errors.New("key not found")
)

// Record holds the fingerprint of a catalog entry and
// the number of its baseline descriptor matches with the reference
type Record struct {
	Fingerprint []float64
	Matches     int
}

// Iterator consists from only one method which returns id of the next record
type Iterator interface {
	Next() (string, bool)
}

// Store methods to be able to hold catalog fingerprints
// and iterate over them when ranking against the reference
type Store interface {
	SetRecord(id string, rec Record) error
	GetRecord(id string) (Record, error)
	GetIterator() (Iterator, error)
	Clear() error
}
