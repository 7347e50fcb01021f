package app

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"
	"sync"

	cm "github.com/gasparian/hash-matching-go/common"
	"github.com/gasparian/hash-matching-go/hash"
	"github.com/gasparian/hash-matching-go/matching"
	"github.com/gasparian/hash-matching-go/store"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrNoReference       = errors.New("reference descriptors are not set")
	ErrReferenceMismatch = errors.New("descriptors differ from the ones the hasher was initialized with")
)

// NewMatcher creates matcher over the given store
func NewMatcher(config ServiceConfig, s store.Store, logger *cm.Logger) (*Matcher, error) {
	variant, err := hash.ParseVariant(config.App.Variant)
	if err != nil {
		return nil, err
	}
	if err := config.Hasher.Validate(); err != nil {
		return nil, err
	}
	if config.App.Workers < 1 {
		config.App.Workers = 1
	}
	logger = cm.OrNop(logger)
	return &Matcher{
		Hasher:  hash.NewHasher(config.Hasher, logger),
		Store:   s,
		Logger:  logger,
		Config:  config,
		variant: variant,
	}, nil
}

// SetReference fits the hasher over the reference image descriptors,
// then computes the reference fingerprint
func (m *Matcher) SetReference(desc hash.Descriptors) error {
	ok, err := m.Hasher.Initialize(desc)
	if err != nil {
		return err
	}
	if !ok {
		return hash.ErrInitialization
	}
	return m.setReferenceHash(desc)
}

// RestoreReference loads the hasher dumped after SetReference over the same
// descriptors, so the reference is not fitted again
func (m *Matcher) RestoreReference(dump []byte, desc hash.Descriptors) error {
	m.refDesc, m.refHash = nil, nil
	if err := m.Hasher.Load(dump); err != nil {
		return errors.Wrap(err, "loading hasher")
	}
	if desc.Rows() != m.Hasher.ReferenceRows() {
		return errors.Wrapf(ErrReferenceMismatch, "got %v rows, hasher was fitted on %v",
			desc.Rows(), m.Hasher.ReferenceRows())
	}
	return m.setReferenceHash(desc)
}

// DumpHasher encodes the hasher fitted by SetReference
func (m *Matcher) DumpHasher() ([]byte, error) {
	if !m.Hasher.Initialized() {
		return nil, ErrNoReference
	}
	return m.Hasher.Dump()
}

func (m *Matcher) setReferenceHash(desc hash.Descriptors) error {
	refHash, err := m.Hasher.GetHash(m.variant, desc)
	if err != nil {
		return errors.Wrap(err, "reference fingerprint")
	}
	m.refDesc = desc
	m.refHash = refHash
	m.Logger.Info().
		Int("hyperplanes", m.Hasher.NumHyperplanes()).
		Int("rows", desc.Rows()).
		Str("variant", m.variant.String()).
		Msg("reference is set")
	return nil
}

// recoverable errors just mean the candidate can't be compared
// with the reference, so it is skipped
func recoverable(err error) bool {
	switch errors.Cause(err) {
	case hash.ErrDimensionMismatch, hash.ErrFeatureDims, hash.ErrQuantizationOverflow, hash.ErrRaggedDescriptors:
		return true
	}
	return false
}

// AddCandidate computes candidate fingerprint and saves it to the store;
// empty id is replaced with a generated one
func (m *Matcher) AddCandidate(c Candidate) (string, error) {
	if m.refHash == nil {
		return "", ErrNoReference
	}
	if len(c.ID) == 0 {
		c.ID = uuid.New().String()
	}
	fp, err := m.Hasher.GetHash(m.variant, c.Descriptors)
	if err != nil {
		return c.ID, err
	}
	matches := matching.CrossCheck(m.refDesc, c.Descriptors, m.Config.App.DescThresh)
	err = m.Store.SetRecord(c.ID, store.Record{
		Fingerprint: fp,
		Matches:     len(matches),
	})
	if err != nil {
		return c.ID, errors.Wrap(err, "saving record")
	}
	return c.ID, nil
}

// AddCandidates hashes candidates with the pool of workers;
// candidates that can't be hashed are logged and skipped
func (m *Matcher) AddCandidates(ctx context.Context, candidates []Candidate) (int, error) {
	if m.refHash == nil {
		return 0, ErrNoReference
	}
	jobs := make(chan Candidate)
	var (
		wg       sync.WaitGroup
		mx       sync.Mutex
		added    int
		firstErr error
	)
	for i := 0; i < m.Config.App.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				id, err := m.AddCandidate(c)
				mx.Lock()
				switch {
				case err == nil:
					added++
				case recoverable(err):
					m.Logger.Warn().Str("id", id).Err(err).Msg("candidate skipped")
				case firstErr == nil:
					firstErr = err
				}
				mx.Unlock()
			}
		}()
	}
loop:
	for _, c := range candidates {
		select {
		case <-ctx.Done():
			break loop
		case jobs <- c:
		}
	}
	close(jobs)
	wg.Wait()
	if firstErr != nil {
		return added, firstErr
	}
	return added, ctx.Err()
}

// Rank returns up to topN stored candidates closest to the reference
// fingerprint; topN <= 0 returns all of them
func (m *Matcher) Rank(topN int) ([]cm.NeighborsRecord, error) {
	if m.refHash == nil {
		return nil, ErrNoReference
	}
	iter, err := m.Store.GetIterator()
	if err != nil {
		return nil, err
	}
	var records []cm.NeighborsRecord
	for {
		id, ok := iter.Next()
		if !ok {
			break
		}
		rec, err := m.Store.GetRecord(id)
		if err != nil {
			return nil, err
		}
		dist, err := hash.Distance(m.refHash, rec.Fingerprint)
		if err != nil {
			m.Logger.Warn().Str("id", id).Err(err).Msg("record skipped")
			continue
		}
		if math.IsNaN(dist) || math.IsInf(dist, 0) {
			continue
		}
		records = append(records, cm.NeighborsRecord{
			ID:      id,
			Dist:    dist,
			Matches: rec.Matches,
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Dist == records[j].Dist {
			return records[i].ID < records[j].ID
		}
		return records[i].Dist < records[j].Dist
	})
	if topN > 0 && len(records) > topN {
		records = records[:topN]
	}
	return records, nil
}

// WriteReport writes ranked records as csv: id, distance, matches
func WriteReport(w io.Writer, records []cm.NeighborsRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "distance", "matches"}); err != nil {
		return err
	}
	for _, r := range records {
		err := writer.Write([]string{
			r.ID,
			strconv.FormatFloat(r.Dist, 'f', -1, 64),
			strconv.Itoa(r.Matches),
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
