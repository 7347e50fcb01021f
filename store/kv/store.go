package kv

import (
	"sync"

	"github.com/gasparian/hash-matching-go/store"
	"github.com/pkg/errors"
)

// KVStore keeps records in memory
type KVStore struct {
	mx sync.RWMutex
	m  map[string]store.Record
}

// NewKVStore creates empty in-memory store
func NewKVStore() *KVStore {
	return &KVStore{
		m: make(map[string]store.Record),
	}
}

// KeysIterator walks over a snapshot of ids
type KeysIterator struct {
	ids []string
	pos int
}

// Next returns the next id or false when exhausted
func (it *KeysIterator) Next() (string, bool) {
	if it.pos >= len(it.ids) {
		return "", false
	}
	id := it.ids[it.pos]
	it.pos++
	return id, true
}

// SetRecord saves a copy of the record
func (s *KVStore) SetRecord(id string, rec store.Record) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	fp := make([]float64, len(rec.Fingerprint))
	copy(fp, rec.Fingerprint)
	s.m[id] = store.Record{Fingerprint: fp, Matches: rec.Matches}
	return nil
}

// GetRecord returns the record by id
func (s *KVStore) GetRecord(id string) (store.Record, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	rec, ok := s.m[id]
	if !ok {
		return store.Record{}, errors.Wrap(store.ErrKeyNotFound, id)
	}
	return rec, nil
}

// GetIterator returns iterator over ids stored at the moment of the call
func (s *KVStore) GetIterator() (store.Iterator, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	ids := make([]string, 0, len(s.m))
	for id := range s.m {
		ids = append(ids, id)
	}
	return &KeysIterator{ids: ids}, nil
}

// Clear drops all records
func (s *KVStore) Clear() error {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.m = make(map[string]store.Record)
	return nil
}
