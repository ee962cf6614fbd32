package smallworld

import (
	"context"
	"errors"
	"iter"
)

// ErrNoResults is returned by SearchBuilder.First on an empty index.
var ErrNoResults = errors.New("no results")

// Search creates a new fluent search builder for the given query vector.
//
// Example:
//
//	results, err := idx.Search(query).
//	    KNN(10).
//	    EF(100).
//	    Execute(ctx)
func (idx *Index) Search(query []float32) *SearchBuilder {
	return &SearchBuilder{
		idx:   idx,
		query: query,
		k:     10, // Default k
	}
}

// SearchBuilder is a fluent builder for constructing search queries.
type SearchBuilder struct {
	idx   *Index
	query []float32
	k     int
	ef    int
	exact bool
}

// KNN sets the number of nearest neighbors to return.
func (sb *SearchBuilder) KNN(k int) *SearchBuilder {
	sb.k = k
	return sb
}

// EF sets the layer-0 beam width. Values below k are raised to k.
func (sb *SearchBuilder) EF(ef int) *SearchBuilder {
	sb.ef = ef
	return sb
}

// Exact switches to a brute-force scan.
func (sb *SearchBuilder) Exact() *SearchBuilder {
	sb.exact = true
	return sb
}

// Execute runs the search and returns the results.
func (sb *SearchBuilder) Execute(ctx context.Context) ([]SearchResult, error) {
	if sb.exact {
		return sb.idx.BruteSearch(ctx, sb.query, sb.k)
	}

	return sb.idx.KNNSearch(ctx, sb.query, sb.k, func(o *KNNSearchOptions) {
		o.EF = sb.ef
	})
}

// MustExecute runs the search, panicking on error.
// Use this only in tests or when you're certain the query is valid.
func (sb *SearchBuilder) MustExecute(ctx context.Context) []SearchResult {
	results, err := sb.Execute(ctx)
	if err != nil {
		panic(err)
	}

	return results
}

// Stream returns an iterator over the results, nearest first.
// Breaking out of the loop stops the iteration.
func (sb *SearchBuilder) Stream(ctx context.Context) iter.Seq2[SearchResult, error] {
	return func(yield func(SearchResult, error) bool) {
		results, err := sb.Execute(ctx)
		if err != nil {
			yield(SearchResult{}, err)
			return
		}

		for _, r := range results {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// First returns only the nearest result, or ErrNoResults on an empty index.
func (sb *SearchBuilder) First(ctx context.Context) (SearchResult, error) {
	sb.k = 1

	results, err := sb.Execute(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	if len(results) == 0 {
		return SearchResult{}, ErrNoResults
	}

	return results[0], nil
}
