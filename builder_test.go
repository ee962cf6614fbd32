package smallworld

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/smallworld/hnsw"
)

func TestBuilder(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		idx, err := HNSW(16).Build()
		require.NoError(t, err)

		assert.Equal(t, hnsw.DefaultOptions, idx.Stats().Options)
		assert.Equal(t, 16, idx.Dimension())
	})

	t.Run("Options", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}

		idx, err := HNSW(4).
			M(8).
			MMax(12).
			MMax0(24).
			EFConstruction(50).
			ML(3).
			Seed(99).
			Heuristic(true).
			Bounded(hnsw.DefaultBoundedCapacity).
			Logger(NoopLogger()).
			Metrics(metrics).
			SearchConcurrency(2).
			Build()
		require.NoError(t, err)

		opts := idx.Stats().Options
		assert.Equal(t, 8, opts.M)
		assert.Equal(t, 12, opts.MMax)
		assert.Equal(t, 24, opts.MMax0)
		assert.Equal(t, 50, opts.EFConstruction)
		assert.Equal(t, 3, opts.ML)
		assert.Equal(t, uint64(99), opts.Seed)
		assert.True(t, opts.Heuristic)
		assert.Equal(t, hnsw.DefaultBoundedCapacity, opts.Capacity)
		assert.Equal(t, 2, idx.searchConcurrency)

		_, err = idx.Insert(context.Background(), []float32{1, 2, 3, 4})
		require.NoError(t, err)
		assert.Equal(t, int64(1), metrics.GetStats().InsertCount)
	})

	t.Run("Immutable", func(t *testing.T) {
		base := HNSW(4)
		_ = base.M(4)

		idx := base.MustBuild()
		assert.Equal(t, hnsw.DefaultM, idx.Stats().Options.M)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := HNSW(4).M(0).Build()
		assert.ErrorIs(t, err, ErrInvalidParameter)

		assert.Panics(t, func() { HNSW(0).MustBuild() })
	})
}

func TestSearchBuilder(t *testing.T) {
	ctx := context.Background()

	idx := HNSW(2).MustBuild()

	_, err := idx.Search([]float32{0, 0}).First(ctx)
	assert.ErrorIs(t, err, ErrNoResults)

	for _, v := range [][]float32{{0, 0}, {10, 10}, {0.1, 0.1}} {
		_, err := idx.Insert(ctx, v)
		require.NoError(t, err)
	}

	t.Run("Execute", func(t *testing.T) {
		results, err := idx.Search([]float32{0, 0}).KNN(2).EF(8).Execute(ctx)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, uint32(0), results[0].ID)
		assert.Equal(t, uint32(2), results[1].ID)
	})

	t.Run("DefaultK", func(t *testing.T) {
		results := idx.Search([]float32{0, 0}).MustExecute(ctx)
		assert.Len(t, results, 3)
	})

	t.Run("Exact", func(t *testing.T) {
		results, err := idx.Search([]float32{9, 9}).KNN(1).Exact().Execute(ctx)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, uint32(1), results[0].ID)
	})

	t.Run("First", func(t *testing.T) {
		r, err := idx.Search([]float32{0.09, 0.09}).First(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint32(2), r.ID)
	})

	t.Run("Stream", func(t *testing.T) {
		var ids []uint32

		for r, err := range idx.Search([]float32{0, 0}).KNN(3).Stream(ctx) {
			require.NoError(t, err)

			if r.Distance > 1 {
				break
			}

			ids = append(ids, r.ID)
		}

		assert.Equal(t, []uint32{0, 2}, ids)
	})

	t.Run("StreamError", func(t *testing.T) {
		var errs int

		for _, err := range idx.Search([]float32{0}).Stream(ctx) {
			assert.Error(t, err)
			errs++
		}

		assert.Equal(t, 1, errs)
	})

	t.Run("MustExecutePanics", func(t *testing.T) {
		assert.Panics(t, func() { idx.Search([]float32{0}).MustExecute(ctx) })
	})
}
