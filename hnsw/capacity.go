package hnsw

import (
	"fmt"
)

// Capacity describes the ceilings of the bounded profile. A zero field leaves
// that dimension of the graph unbounded.
type Capacity struct {
	MaxNodes      int // total number of vectors
	MaxDimension  int // vector width
	MaxLayers     int // number of layers, level 0 included
	MaxNeighbors  int // neighbors per node and layer
	MaxCandidates int // beam width of any layer search
}

// DefaultBoundedCapacity mirrors the ceilings of the fixed-resource build.
var DefaultBoundedCapacity = Capacity{
	MaxNodes:      4000,
	MaxDimension:  384,
	MaxLayers:     10,
	MaxNeighbors:  64,
	MaxCandidates: 200,
}

// Bounded reports whether any ceiling is set.
func (c Capacity) Bounded() bool {
	return c != Capacity{}
}

// linkCap returns the capacity reserved for one neighbor list. A list may hold
// one entry above its degree bound between linking and pruning.
func (c Capacity) linkCap(bound int) int {
	if c.MaxNeighbors > 0 {
		return c.MaxNeighbors + 1
	}

	return bound + 1
}

// exceeds reports whether value is above a set ceiling.
func exceeds(value, ceiling int) bool {
	return ceiling > 0 && value > ceiling
}

func (c Capacity) validate() error {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"MaxNodes", c.MaxNodes},
		{"MaxDimension", c.MaxDimension},
		{"MaxLayers", c.MaxLayers},
		{"MaxNeighbors", c.MaxNeighbors},
		{"MaxCandidates", c.MaxCandidates},
	} {
		if f.value < 0 {
			return fmt.Errorf("%w: capacity %s must not be negative, got %d", ErrInvalidParameter, f.name, f.value)
		}
	}

	return nil
}
