package purekv

import (
	"sync"

	"github.com/gasparian/hash-matching-go/store"
	pkv "github.com/gasparian/pure-kv-go/client"
	"github.com/pkg/errors"
)

const (
	fingerprintsBucket = "fingerprints"
	matchesBucket      = "matches"
)

var (
	errWrongValueType = errors.New("stored value has unexpected type")
)

// KeysIterator walks over the fingerprints bucket with a dedicated client
type KeysIterator struct {
	client *pkv.Client
}

// Next returns the next record id
func (it *KeysIterator) Next() (string, bool) {
	if it.client == nil {
		return "", false
	}
	id, val, err := it.client.Next(fingerprintsBucket)
	if val == nil || err != nil {
		it.client.Close()
		it.client = nil
		return "", false
	}
	return id, true
}

// Config holds pure-kv server address and client timeout
type Config struct {
	Address string
	Timeout int
}

// PureKvStore keeps records on the pure-kv server
type PureKvStore struct {
	mx     sync.RWMutex
	config Config
	client *pkv.Client
}

// New creates store client, Start must be called before use
func New(config Config) *PureKvStore {
	return &PureKvStore{
		config: config,
		client: pkv.New(config.Address, config.Timeout),
	}
}

// Start opens the connection and creates buckets
func (p *PureKvStore) Start() error {
	err := p.client.Open()
	if err != nil {
		return err
	}
	// buckets may already exist
	p.client.Create(fingerprintsBucket)
	p.client.Create(matchesBucket)
	return nil
}

// Close shutdowns rpc client
func (p *PureKvStore) Close() {
	p.client.Close()
}

// Clear drops everything on the server and recreates buckets
func (p *PureKvStore) Clear() error {
	p.mx.Lock()
	defer p.mx.Unlock()
	// buckets may be already destroyed
	p.client.Destroy(fingerprintsBucket)
	p.client.Destroy(matchesBucket)
	if err := p.client.Create(fingerprintsBucket); err != nil {
		return err
	}
	return p.client.Create(matchesBucket)
}

// SetRecord saves fingerprint and matches number under the same id
func (p *PureKvStore) SetRecord(id string, rec store.Record) error {
	p.mx.Lock()
	defer p.mx.Unlock()
	err := p.client.Set(fingerprintsBucket, id, rec.Fingerprint)
	if err != nil {
		return err
	}
	return p.client.Set(matchesBucket, id, rec.Matches)
}

// GetRecord loads the record by id
func (p *PureKvStore) GetRecord(id string) (store.Record, error) {
	p.mx.RLock()
	defer p.mx.RUnlock()
	tmpFp, ok := p.client.Get(fingerprintsBucket, id)
	if !ok {
		return store.Record{}, errors.Wrap(store.ErrKeyNotFound, id)
	}
	fp, ok := tmpFp.([]float64)
	if !ok {
		return store.Record{}, errors.Wrap(errWrongValueType, id)
	}
	rec := store.Record{Fingerprint: fp}
	if tmpMatches, ok := p.client.Get(matchesBucket, id); ok {
		if matches, ok := tmpMatches.(int); ok {
			rec.Matches = matches
		}
	}
	return rec, nil
}

// GetIterator makes server-side iterator over the fingerprints bucket
func (p *PureKvStore) GetIterator() (store.Iterator, error) {
	err := p.client.MakeIterator(fingerprintsBucket)
	if err != nil {
		return nil, err
	}
	client := pkv.New(p.config.Address, p.config.Timeout)
	if err := client.Open(); err != nil {
		return nil, err
	}
	return &KeysIterator{client: client}, nil
}
