package common

import (
	"github.com/rs/zerolog"
)

// Logger holds the zerolog instance shared by all components
type Logger struct {
	zerolog.Logger
}

// NeighborsRecord holds a single ranked catalog entry
// Used to sort candidates by the fingerprint distance to the reference
type NeighborsRecord struct {
	ID      string  `json:"id,omitempty"`
	Dist    float64 `json:"dist"`
	Matches int     `json:"matches"`
}
