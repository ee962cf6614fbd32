// Package fixed exposes the bounded profile of the HNSW graph through a
// flat-array calling convention: vectors and queries are passed as a value
// slice plus an explicit width, results are written into a caller-provided
// id buffer.
//
// Every request that does not fit the configured limits is rejected with
// hnsw.ErrCapacityExceeded. Nothing is truncated.
package fixed

import (
	"fmt"

	"github.com/hupe1980/smallworld/hnsw"
)

// Params are the construction parameters of an Index.
type Params struct {
	Dimension      int
	M              int
	MMax           int
	MMax0          int
	EFConstruction int
	ML             int
	Seed           uint64
}

// DefaultParams is the reference configuration for 384-wide embeddings.
var DefaultParams = Params{
	Dimension:      384,
	M:              32,
	MMax:           32,
	MMax0:          64,
	EFConstruction: 32,
	ML:             4,
	Seed:           12345,
}

// Limits are the ceilings of an Index. All of them must be set.
type Limits = hnsw.Capacity

// DefaultLimits matches hnsw.DefaultBoundedCapacity.
var DefaultLimits = hnsw.DefaultBoundedCapacity

// Index is a fixed-capacity HNSW index. It is not safe for concurrent use.
type Index struct {
	graph  *hnsw.Graph
	limits Limits
}

// New creates an empty index. Every field of limits must be positive.
func New(p Params, limits Limits) (*Index, error) {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"MaxNodes", limits.MaxNodes},
		{"MaxDimension", limits.MaxDimension},
		{"MaxLayers", limits.MaxLayers},
		{"MaxNeighbors", limits.MaxNeighbors},
		{"MaxCandidates", limits.MaxCandidates},
	} {
		if f.value <= 0 {
			return nil, fmt.Errorf("%w: limit %s must be positive, got %d", hnsw.ErrInvalidParameter, f.name, f.value)
		}
	}

	g, err := hnsw.New(p.Dimension, func(o *hnsw.Options) {
		o.M = p.M
		o.MMax = p.MMax
		o.MMax0 = p.MMax0
		o.EFConstruction = p.EFConstruction
		o.ML = p.ML
		o.Seed = p.Seed
		o.Capacity = limits
	})
	if err != nil {
		return nil, err
	}

	return &Index{graph: g, limits: limits}, nil
}

// Insert adds the first dim entries of values as a new vector.
func (x *Index) Insert(values []float32, dim int) error {
	v, err := x.slice(values, dim)
	if err != nil {
		return err
	}

	_, err = x.graph.Insert(v)

	return err
}

// Search writes the ids of up to k nearest neighbors of the first dim entries
// of query into out, nearest first, and returns how many it wrote. out must
// hold at least min(k, Len()) ids.
func (x *Index) Search(query []float32, dim, k int, out []uint32) (int, error) {
	q, err := x.slice(query, dim)
	if err != nil {
		return 0, err
	}

	if k <= 0 {
		return 0, hnsw.ErrInvalidK
	}

	if c := x.limits.MaxCandidates; k > c {
		return 0, fmt.Errorf("%w: k %d exceeds ceiling %d", hnsw.ErrCapacityExceeded, k, c)
	}

	if n := min(k, x.graph.Len()); len(out) < n {
		return 0, fmt.Errorf("%w: output buffer holds %d ids, need %d", hnsw.ErrCapacityExceeded, len(out), n)
	}

	results, err := x.graph.KNNSearch(q, k)
	if err != nil {
		return 0, err
	}

	for i, r := range results {
		out[i] = r.ID
	}

	return len(results), nil
}

// slice validates dim and returns the first dim entries of values.
func (x *Index) slice(values []float32, dim int) ([]float32, error) {
	if c := x.limits.MaxDimension; dim > c {
		return nil, fmt.Errorf("%w: dimension %d exceeds ceiling %d", hnsw.ErrCapacityExceeded, dim, c)
	}

	if dim != x.graph.Dimension() {
		return nil, &hnsw.ErrDimensionMismatch{Expected: x.graph.Dimension(), Actual: dim}
	}

	if len(values) < dim {
		return nil, &hnsw.ErrDimensionMismatch{Expected: dim, Actual: len(values)}
	}

	return values[:dim], nil
}

// Len returns the number of stored vectors.
func (x *Index) Len() int { return x.graph.Len() }

// Limits returns the ceilings the index was created with.
func (x *Index) Limits() Limits { return x.limits }

// Stats returns a snapshot of the graph's shape.
func (x *Index) Stats() hnsw.Stats { return x.graph.Stats() }

// Validate checks the structural invariants of the graph.
func (x *Index) Validate() error { return x.graph.Validate() }
