package hash

import (
	"testing"
)

func TestBuildCombinations(t *testing.T) {
	t.Parallel()
	for d := 0; d <= 12; d++ {
		table := BuildCombinations(d)
		if table.Size() != 1<<uint(d) {
			t.Fatalf("Table for %v hyperplanes must hold %v keys, got %v", d, 1<<uint(d), table.Size())
		}
		seen := make(map[string]bool)
		for i := 0; i < table.Size(); i++ {
			key := table.Key(i)
			if len(key) != d {
				t.Fatalf("Key %q must have %v bits", key, d)
			}
			if seen[key] {
				t.Fatalf("Duplicated key %q", key)
			}
			seen[key] = true
			idx, ok := table.Index(key)
			if !ok || idx != i {
				t.Fatalf("Key %q must be found at %v, got %v", key, i, idx)
			}
		}
	}
}

func TestCombinationsOrder(t *testing.T) {
	t.Parallel()
	table := BuildCombinations(3)
	expected := []string{"000", "001", "010", "011", "100", "101", "110", "111"}
	for i, key := range expected {
		if table.Key(i) != key {
			t.Errorf("Position %v: expected %q, got %q", i, key, table.Key(i))
		}
	}
	again := BuildCombinations(3)
	for i := range expected {
		if again.Key(i) != table.Key(i) {
			t.Fatal("Order must be stable for the same number of hyperplanes")
		}
	}
}

func TestCombinationsIndexMiss(t *testing.T) {
	t.Parallel()
	table := BuildCombinations(2)
	for _, key := range []string{"", "0", "012", "0a"} {
		if _, ok := table.Index(key); ok {
			t.Errorf("Key %q must not be found", key)
		}
	}
	if BuildCombinations(-1).Size() != 0 {
		t.Error("Negative width must produce an empty table")
	}
}
