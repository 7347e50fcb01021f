package hash

import (
	"strings"
)

// BuildCombinations creates the table of all 2^d bucket keys,
// ordered lexicographically with the first hyperplane as the most significant bit
func BuildCombinations(d int) CombinationTable {
	if d < 0 || d > maxCombinationWidth {
		return CombinationTable{}
	}
	size := 1 << uint(d)
	keys := make([]string, size)
	var sb strings.Builder
	for i := 0; i < size; i++ {
		sb.Reset()
		for bit := d - 1; bit >= 0; bit-- {
			if i&(1<<uint(bit)) != 0 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		keys[i] = sb.String()
	}
	return CombinationTable{
		d:    d,
		keys: keys,
	}
}

// Size returns number of buckets
func (t CombinationTable) Size() int {
	return len(t.keys)
}

// Width returns number of bits in a key
func (t CombinationTable) Width() int {
	return t.d
}

// Key returns bucket key by its index
func (t CombinationTable) Key(idx int) string {
	return t.keys[idx]
}

// Index maps a bucket key to its position in the table;
// the key bits already form the index, so no scan is needed
func (t CombinationTable) Index(key string) (int, bool) {
	if len(t.keys) == 0 || len(key) != t.d {
		return -1, false
	}
	idx := 0
	for i := 0; i < len(key); i++ {
		idx <<= 1
		switch key[i] {
		case '1':
			idx |= 1
		case '0':
		default:
			return -1, false
		}
	}
	return idx, true
}
