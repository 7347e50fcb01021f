package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/gasparian/hash-matching-go/app"
	cm "github.com/gasparian/hash-matching-go/common"
	"github.com/gasparian/hash-matching-go/hash"
	"github.com/gasparian/hash-matching-go/store/kv"
	"github.com/pkg/errors"
)

func TestAgreement(t *testing.T) {
	records := []cm.NeighborsRecord{
		{ID: "a", Dist: 1, Matches: 10},
		{ID: "b", Dist: 2, Matches: 1},
		{ID: "c", Dist: 3, Matches: 20},
		{ID: "d", Dist: 4, Matches: 0},
	}
	precision, recall := agreement(records, 2)
	if precision != 0.5 || recall != 0.5 {
		t.Fatalf("Expected 0.5/0.5, got %v/%v", precision, recall)
	}
	precision, _ = agreement(records, 4)
	if precision != 1 {
		t.Fatalf("Full lists must agree, got %v", precision)
	}
}

func TestCatalogFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.h5", "a.hdf5", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0600); err != nil {
			t.Fatal(err)
		}
	}
	files, err := catalogFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.hdf5" || filepath.Base(files[1]) != "b.h5" {
		t.Fatalf("Wrong catalog files: %v", files)
	}
	_, err = catalogFiles(t.TempDir())
	if errors.Cause(err) != errNoCatalog {
		t.Fatalf("Expected empty catalog error, got %v", err)
	}
}

func newMatcher(t *testing.T, seed int64) *app.Matcher {
	config := app.DefaultServiceConfig()
	config.Hasher.Seed = seed
	config.Hasher.Attempts = 3
	m, err := app.NewMatcher(*config, kv.NewKVStore(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSetReferenceWithDump(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ref := make(hash.Descriptors, 100)
	for i := range ref {
		ref[i] = make([]float64, 16)
		for j := range ref[i] {
			ref[i][j] = 100 + rng.NormFloat64()*40
		}
	}
	path := filepath.Join(t.TempDir(), "hasher.gob")
	logger := cm.NopLogger()

	fitted := newMatcher(t, 42)
	if err := setReference(fitted, ref, path, logger); err != nil {
		t.Fatal(err)
	}
	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Hasher dump must be written: %v", err)
	}

	restored := newMatcher(t, 7)
	if err := setReference(restored, ref, path, logger); err != nil {
		t.Fatal(err)
	}
	dump, err := restored.DumpHasher()
	if err != nil {
		t.Fatal(err)
	}
	if string(dump) != string(saved) {
		t.Fatal("Restored hasher must be the saved one")
	}
	if restored.Hasher.NumHyperplanes() != fitted.Hasher.NumHyperplanes() {
		t.Fatal("Restored hasher must keep the number of hyperplanes")
	}
}
