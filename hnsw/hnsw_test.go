package hnsw

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph(t testing.TB, dimension int, optFns ...func(o *Options)) *Graph {
	t.Helper()

	g, err := New(dimension, optFns...)
	require.NoError(t, err)

	return g
}

func insertAll(t testing.TB, g *Graph, vectors [][]float32) {
	t.Helper()

	for i, v := range vectors {
		id, err := g.Insert(v)
		require.NoError(t, err)
		require.Equal(t, uint32(i), id)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		dimension int
		optFn     func(o *Options)
		want      error
	}{
		{"Defaults", 4, func(o *Options) {}, nil},
		{"ZeroDimension", 0, func(o *Options) {}, ErrInvalidParameter},
		{"ZeroM", 4, func(o *Options) { o.M = 0 }, ErrInvalidParameter},
		{"NegativeMMax", 4, func(o *Options) { o.MMax = -1 }, ErrInvalidParameter},
		{"ZeroMMax0", 4, func(o *Options) { o.MMax0 = 0 }, ErrInvalidParameter},
		{"ZeroEFConstruction", 4, func(o *Options) { o.EFConstruction = 0 }, ErrInvalidParameter},
		{"ZeroML", 4, func(o *Options) { o.ML = 0 }, ErrInvalidParameter},
		{"NegativeCapacity", 4, func(o *Options) { o.Capacity.MaxNodes = -1 }, ErrInvalidParameter},
		{"Bounded", 384, func(o *Options) { o.Capacity = DefaultBoundedCapacity }, nil},
		{"BoundedDimension", 385, func(o *Options) { o.Capacity = DefaultBoundedCapacity }, ErrCapacityExceeded},
		{"BoundedLayers", 4, func(o *Options) {
			o.Capacity = DefaultBoundedCapacity
			o.ML = 10
		}, ErrCapacityExceeded},
		{"BoundedDegree", 4, func(o *Options) {
			o.Capacity = DefaultBoundedCapacity
			o.MMax0 = 65
		}, ErrCapacityExceeded},
		{"BoundedM", 4, func(o *Options) {
			o.Capacity = DefaultBoundedCapacity
			o.M = 65
		}, ErrCapacityExceeded},
		{"BoundedBeam", 4, func(o *Options) {
			o.Capacity = DefaultBoundedCapacity
			o.EFConstruction = 201
		}, ErrCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.dimension, tt.optFn)
			if tt.want == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.dimension, g.Dimension())
				assert.Equal(t, 0, g.Len())
				assert.Equal(t, -1, g.MaxLevel())

				return
			}

			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, g)
		})
	}
}

// Scenario: three 2-D points; the exact match wins, the close point is next.
func TestKNNSearchThreePoints(t *testing.T) {
	g := newTestGraph(t, 2)
	insertAll(t, g, [][]float32{{0, 0}, {10, 10}, {0.1, 0.1}})

	res, err := g.KNNSearch([]float32{0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, uint32(0), res[0].ID)
	assert.Equal(t, float32(0), res[0].Distance)

	res, err = g.KNNSearch([]float32{0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, uint32(0), res[0].ID)
	assert.Equal(t, uint32(2), res[1].ID)

	res, err = g.KNNSearch([]float32{0.09, 0.09}, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, uint32(2), res[0].ID)

	require.NoError(t, g.Validate())
}

func TestKNNSearchSingleNode(t *testing.T) {
	g := newTestGraph(t, 3)
	insertAll(t, g, [][]float32{{1, 2, 3}})

	ep, ok := g.EntryPoint()
	require.True(t, ok)
	assert.Equal(t, uint32(0), ep)

	for _, q := range [][]float32{{0, 0, 0}, {1, 2, 3}, {-100, 5, 1e6}} {
		res, err := g.KNNSearch(q, 1)
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, uint32(0), res[0].ID)
	}
}

func TestKNNSearchClampsK(t *testing.T) {
	g := newTestGraph(t, 2)
	insertAll(t, g, [][]float32{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 2}})

	res, err := g.KNNSearch([]float32{0.2, 0.2}, 10)
	require.NoError(t, err)
	require.Len(t, res, 5)

	seen := map[uint32]bool{}
	for i, r := range res {
		assert.False(t, seen[r.ID], "duplicate id %d", r.ID)
		seen[r.ID] = true

		if i > 0 {
			assert.LessOrEqual(t, res[i-1].Distance, r.Distance)
		}
	}

	assert.Equal(t, uint32(0), res[0].ID)
	assert.Equal(t, uint32(4), res[4].ID)
}

func TestKNNSearchEmptyGraph(t *testing.T) {
	g := newTestGraph(t, 4)

	res, err := g.KNNSearch([]float32{1, 2, 3, 4}, 5)
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	_, ok := g.EntryPoint()
	assert.False(t, ok)
}

func TestKNNSearchErrors(t *testing.T) {
	g := newTestGraph(t, 2)
	insertAll(t, g, [][]float32{{0, 0}, {1, 1}})

	_, err := g.KNNSearch([]float32{0, 0, 0}, 1)

	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 2, dm.Expected)
	assert.Equal(t, 3, dm.Actual)
	assert.ErrorIs(t, err, ErrDimension)

	_, err = g.KNNSearch([]float32{0, 0}, 0)
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = g.KNNSearch([]float32{0, 0}, 1, func(o *SearchOptions) { o.EF = -1 })
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = g.BruteSearch([]float32{0}, 1)
	assert.ErrorIs(t, err, ErrDimension)

	_, err = g.BruteSearch([]float32{0, 0}, -1)
	assert.ErrorIs(t, err, ErrInvalidK)
}

func TestInsertDimensionMismatch(t *testing.T) {
	vectors := [][]float32{{0, 0}, {1, 1}, {2, 0}, {0, 2}, {3, 3}, {1, 2}}

	g := newTestGraph(t, 2)
	insertAll(t, g, vectors[:3])

	_, err := g.Insert([]float32{1, 2, 3})

	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 3, g.Len())

	_, err = g.Insert(nil)
	assert.ErrorIs(t, err, ErrDimension)
	assert.Equal(t, 3, g.Len())

	for _, v := range vectors[3:] {
		_, err := g.Insert(v)
		require.NoError(t, err)
	}

	// The rejected inserts must not have advanced the level sampler either.
	ref := newTestGraph(t, 2)
	insertAll(t, ref, vectors)

	assertSameTopology(t, ref, g)
}

func TestInsertCopiesVector(t *testing.T) {
	g := newTestGraph(t, 2)

	v := []float32{1, 2}
	_, err := g.Insert(v)
	require.NoError(t, err)

	v[0] = 42

	stored, ok := g.Vector(0)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2}, stored)

	stored[1] = 42
	again, _ := g.Vector(0)
	assert.Equal(t, []float32{1, 2}, again)

	_, ok = g.Vector(1)
	assert.False(t, ok)
}

func TestAccessors(t *testing.T) {
	g := newTestGraph(t, 2, func(o *Options) { o.ML = 3 })
	insertAll(t, g, [][]float32{{0, 0}, {1, 1}, {2, 2}, {3, 3}})

	for i := range g.Len() {
		id := uint32(i)

		level, ok := g.Level(id)
		require.True(t, ok)

		for l := 0; l <= level; l++ {
			_, ok := g.Neighbors(id, l)
			assert.True(t, ok, "node %d layer %d", id, l)
		}

		_, ok = g.Neighbors(id, level+1)
		assert.False(t, ok)
	}

	_, ok := g.Level(99)
	assert.False(t, ok)

	_, ok = g.Neighbors(99, 0)
	assert.False(t, ok)

	ep, ok := g.EntryPoint()
	require.True(t, ok)

	level, _ := g.Level(ep)
	assert.Equal(t, g.MaxLevel(), level)
	assert.Equal(t, 3, g.Options().ML)
}

func TestBruteSearch(t *testing.T) {
	g := newTestGraph(t, 2)
	insertAll(t, g, [][]float32{{0, 0}, {10, 10}, {0.1, 0.1}})

	res, err := g.BruteSearch([]float32{0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, []uint32{0, 2, 1}, []uint32{res[0].ID, res[1].ID, res[2].ID})
}

func TestErrors(t *testing.T) {
	err := &ErrDimensionMismatch{Expected: 4, Actual: 2}
	assert.Equal(t, "dimension mismatch: expected 4, got 2", err.Error())
	assert.True(t, errors.Is(err, ErrDimension))
	assert.False(t, errors.Is(err, ErrInvalidK))

	assert.ErrorIs(t, invalidParameter("M", 0), ErrInvalidParameter)
	assert.ErrorIs(t, capacityExceeded("node count", 5, 4), ErrCapacityExceeded)
}

func assertSameTopology(t *testing.T, want, got *Graph) {
	t.Helper()

	require.Equal(t, want.Len(), got.Len())
	require.Equal(t, want.MaxLevel(), got.MaxLevel())

	wantEP, _ := want.EntryPoint()
	gotEP, _ := got.EntryPoint()
	require.Equal(t, wantEP, gotEP)

	for i := range want.Len() {
		id := uint32(i)

		wl, _ := want.Level(id)
		gl, _ := got.Level(id)
		require.Equal(t, wl, gl, "level of node %d", id)

		for l := 0; l <= wl; l++ {
			wn, _ := want.Neighbors(id, l)
			gn, _ := got.Neighbors(id, l)
			require.Equal(t, wn, gn, "neighbors of node %d on layer %d", id, l)
		}
	}
}
