// Package matching implements the exhaustive descriptor-to-descriptor matching
// used as an independent similarity signal next to the fingerprint distance.
package matching

import (
	"math"

	"github.com/gasparian/hash-matching-go/hash"
	"gonum.org/v1/gonum/floats"
)

// Match pairs a query descriptor with its mutual nearest train descriptor
type Match struct {
	QueryIdx int
	TrainIdx int
	Dist     float64
}

// nearest returns index of the closest row in train (L2) and the distance
func nearest(vec []float64, train hash.Descriptors) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i, row := range train {
		if len(row) != len(vec) {
			continue
		}
		d := floats.Distance(vec, row, 2)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// CrossCheck finds pairs which are nearest neighbours of each other
// in both directions and are closer than thresh
func CrossCheck(query, train hash.Descriptors, thresh float64) []Match {
	if len(query) == 0 || len(train) == 0 {
		return nil
	}
	backward := make([]int, len(train))
	for j, row := range train {
		backward[j], _ = nearest(row, query)
	}
	matches := make([]Match, 0)
	for i, row := range query {
		j, d := nearest(row, train)
		if j < 0 || backward[j] != i || d >= thresh {
			continue
		}
		matches = append(matches, Match{QueryIdx: i, TrainIdx: j, Dist: d})
	}
	return matches
}
