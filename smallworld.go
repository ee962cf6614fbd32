package smallworld

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/smallworld/hnsw"
)

// SearchResult is one hit of a search, ordered ascending by Distance then ID.
type SearchResult = hnsw.SearchResult

// Stats is a snapshot of the graph's shape.
type Stats = hnsw.Stats

// Index is a thread-safe HNSW index: one writer or any number of readers at
// a time.
type Index struct {
	mu     sync.RWMutex
	graph  *hnsw.Graph
	closed bool

	metrics           MetricsCollector
	logger            *Logger
	searchConcurrency int
}

// New creates an empty index for vectors of the given dimension.
func New(dimension int, optFns ...Option) (*Index, error) {
	opts := applyOptions(optFns)

	g, err := hnsw.New(dimension, opts.graphOptions...)
	if err != nil {
		return nil, translateError(err)
	}

	return &Index{
		graph:             g,
		metrics:           opts.metricsCollector,
		logger:            opts.logger.WithDimension(dimension),
		searchConcurrency: opts.searchConcurrency,
	}, nil
}

// Insert adds a copy of vector and returns its id. Ids are dense and follow
// insertion order.
func (idx *Index) Insert(ctx context.Context, vector []float32) (uint32, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		idx.metrics.RecordInsert(time.Since(start), err)
		idx.logger.LogInsert(ctx, 0, len(vector), err)

		return 0, err
	}

	idx.mu.Lock()
	id, err := idx.insert(vector)
	n := idx.graph.Len()
	idx.mu.Unlock()

	idx.metrics.RecordInsert(time.Since(start), err)
	idx.metrics.RecordSize(n)
	idx.logger.LogInsert(ctx, id, len(vector), err)

	return id, err
}

func (idx *Index) insert(vector []float32) (uint32, error) {
	if idx.closed {
		return 0, ErrClosed
	}

	id, err := idx.graph.Insert(vector)

	return id, translateError(err)
}

// BatchInsertResult reports the outcome of a BatchInsert per input vector:
// IDs[i] is valid when Errors[i] is nil.
type BatchInsertResult struct {
	IDs    []uint32
	Errors []error
}

// Failed returns the number of vectors that were not inserted.
func (r BatchInsertResult) Failed() int {
	failed := 0

	for _, err := range r.Errors {
		if err != nil {
			failed++
		}
	}

	return failed
}

// BatchInsert inserts vectors in order under a single write lock. A failing
// vector does not stop the batch; a cancelled context fails the remainder.
func (idx *Index) BatchInsert(ctx context.Context, vectors [][]float32) BatchInsertResult {
	start := time.Now()

	result := BatchInsertResult{
		IDs:    make([]uint32, len(vectors)),
		Errors: make([]error, len(vectors)),
	}

	idx.mu.Lock()

	for i, v := range vectors {
		if err := ctx.Err(); err != nil {
			result.Errors[i] = err
			continue
		}

		result.IDs[i], result.Errors[i] = idx.insert(v)
	}

	n := idx.graph.Len()
	idx.mu.Unlock()

	failed := result.Failed()
	idx.metrics.RecordBatchInsert(len(vectors), failed, time.Since(start))
	idx.metrics.RecordSize(n)
	idx.logger.LogBatchInsert(ctx, len(vectors), failed)

	return result
}

// KNNSearchOptions contains options for KNN search.
type KNNSearchOptions struct {
	// EF widens the layer-0 beam. The effective beam is max(EF, k), so the
	// zero value searches with a beam of exactly k.
	EF int
}

// KNNSearch returns up to k approximate nearest neighbors of query, ascending
// by distance. k is clamped to Len; an empty index yields an empty result.
func (idx *Index) KNNSearch(ctx context.Context, query []float32, k int, optFns ...func(o *KNNSearchOptions)) ([]SearchResult, error) {
	start := time.Now()

	idx.mu.RLock()
	results, err := idx.knnSearch(query, k, optFns)
	idx.mu.RUnlock()

	idx.metrics.RecordSearch(k, time.Since(start), err)
	idx.logger.LogSearch(ctx, k, len(results), err)

	return results, err
}

// knnSearch must be called with at least the read lock held.
func (idx *Index) knnSearch(query []float32, k int, optFns []func(o *KNNSearchOptions)) ([]SearchResult, error) {
	if idx.closed {
		return nil, ErrClosed
	}

	var opts KNNSearchOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	results, err := idx.graph.KNNSearch(query, k, func(o *hnsw.SearchOptions) {
		o.EF = opts.EF
	})

	return results, translateError(err)
}

// SearchBatch runs one KNNSearch per query concurrently and returns the
// results in query order. The first failing query cancels the rest.
func (idx *Index) SearchBatch(ctx context.Context, queries [][]float32, k int, optFns ...func(o *KNNSearchOptions)) ([][]SearchResult, error) {
	results := make([][]SearchResult, len(queries))

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, ErrClosed
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(idx.searchConcurrency)

	for i, q := range queries {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			start := time.Now()
			res, err := idx.knnSearch(q, k, optFns)
			idx.metrics.RecordSearch(k, time.Since(start), err)

			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}

			results[i] = res

			return nil
		})
	}

	err := eg.Wait()
	idx.logger.LogSearchBatch(ctx, len(queries), k, err)

	if err != nil {
		return nil, err
	}

	return results, nil
}

// BruteSearch performs an exact scan over all vectors.
func (idx *Index) BruteSearch(ctx context.Context, query []float32, k int) ([]SearchResult, error) {
	start := time.Now()

	idx.mu.RLock()

	var (
		results []SearchResult
		err     error
	)

	if idx.closed {
		err = ErrClosed
	} else {
		results, err = idx.graph.BruteSearch(query, k)
		err = translateError(err)
	}

	idx.mu.RUnlock()

	idx.metrics.RecordSearch(k, time.Since(start), err)
	idx.logger.LogSearch(ctx, k, len(results), err)

	return results, err
}

// Vector returns a copy of the vector stored under id.
func (idx *Index) Vector(id uint32) ([]float32, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.graph.Vector(id)
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.graph.Len()
}

// Dimension returns the vector width of the index.
func (idx *Index) Dimension() int {
	return idx.graph.Dimension()
}

// Stats returns a snapshot of the graph's shape.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.graph.Stats()
}

// Validate checks the structural invariants of the graph.
func (idx *Index) Validate() error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.graph.Validate()
}
