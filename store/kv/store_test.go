package kv

import (
	"reflect"
	"sort"
	"testing"

	"github.com/gasparian/hash-matching-go/store"
	"github.com/pkg/errors"
)

var (
	recordsAreNotEqualErr   = errors.New("Records are not equal")
	wrongKeysErr            = errors.New("Iterator returned wrong ids")
	recordShouldNotExistErr = errors.New("Record should not exist in a store")
)

func TestKvStore(t *testing.T) {
	s := NewKVStore()

	t.Run("SetRecord", func(t *testing.T) {
		rec := store.Record{Fingerprint: []float64{1, 2}, Matches: 3}
		err := s.SetRecord("0", rec)
		if err != nil {
			t.Fatal(err)
		}
		recReturned, err := s.GetRecord("0")
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(rec, recReturned) {
			t.Error(recordsAreNotEqualErr)
		}
		rec.Fingerprint[0] = 42
		recReturned, _ = s.GetRecord("0")
		if recReturned.Fingerprint[0] != 1 {
			t.Error("Store must keep its own copy of the fingerprint")
		}
		err = s.SetRecord("1", rec)
		if err != nil {
			t.Fatal(err)
		}
	})

	t.Run("Iterator", func(t *testing.T) {
		it, err := s.GetIterator()
		if err != nil {
			t.Fatal(err)
		}
		ids := make([]string, 0)
		for id, ok := it.Next(); ok; id, ok = it.Next() {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		if !reflect.DeepEqual(ids, []string{"0", "1"}) {
			t.Error(wrongKeysErr)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		s.Clear()
		_, err := s.GetRecord("0")
		if !errors.Is(err, store.ErrKeyNotFound) {
			t.Error(recordShouldNotExistErr)
		}
	})
}
