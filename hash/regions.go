package hash

// Partition assigns each descriptor row to a bucket of the table;
// returns one region (list of row indices) per bucket in table order
func Partition(desc Descriptors, set HyperplaneSet, table CombinationTable) [][]int {
	regions := make([][]int, table.Size())
	if len(set) == 0 || table.Size() == 0 || len(set) != table.Width() {
		return regions
	}
	for i, row := range desc {
		idx := set.BucketIndex(row)
		regions[idx] = append(regions[idx], i)
	}
	return regions
}

// regionCounts returns number of rows per bucket
func regionCounts(desc Descriptors, set HyperplaneSet, table CombinationTable) []uint32 {
	counts := make([]uint32, table.Size())
	if len(set) == 0 || table.Size() == 0 || len(set) != table.Width() {
		return counts
	}
	for _, row := range desc {
		counts[set.BucketIndex(row)]++
	}
	return counts
}

func smallestRegion(regions [][]int) int {
	if len(regions) == 0 {
		return 0
	}
	min := len(regions[0])
	for _, r := range regions[1:] {
		if len(r) < min {
			min = len(r)
		}
	}
	return min
}
