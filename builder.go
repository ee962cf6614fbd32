package smallworld

import (
	"github.com/hupe1980/smallworld/hnsw"
)

// HNSW creates a new index builder with the specified dimension.
//
// The builder is immutable - each method returns a new builder with the updated configuration.
//
// Example:
//
//	idx, err := smallworld.HNSW(128).
//	    M(16).
//	    EFConstruction(200).
//	    Seed(42).
//	    Build()
func HNSW(dimension int) Builder {
	return Builder{
		dimension: dimension,
		graph:     hnsw.DefaultOptions,
	}
}

// Builder is an immutable fluent builder for Index instances.
type Builder struct {
	dimension   int
	graph       hnsw.Options
	logger      *Logger
	metrics     MetricsCollector
	concurrency int
}

// M sets the number of neighbors a new node is linked to per layer.
func (b Builder) M(m int) Builder {
	b.graph.M = m
	return b
}

// MMax sets the degree bound on layers >= 1.
func (b Builder) MMax(m int) Builder {
	b.graph.MMax = m
	return b
}

// MMax0 sets the degree bound on layer 0.
func (b Builder) MMax0(m int) Builder {
	b.graph.MMax0 = m
	return b
}

// EFConstruction sets the beam width used while inserting.
// Higher values improve index quality but slow down indexing.
//
// Note: the search-time beam is set per query via KNNSearchOptions.EF or
// Search().EF().
func (b Builder) EFConstruction(ef int) Builder {
	b.graph.EFConstruction = ef
	return b
}

// ML sets the highest level a node can be sampled into.
func (b Builder) ML(ml int) Builder {
	b.graph.ML = ml
	return b
}

// Seed sets the seed of the level sampler. Equal seeds and equal insertion
// sequences build identical graphs.
func (b Builder) Seed(seed uint64) Builder {
	b.graph.Seed = seed
	return b
}

// Heuristic enables or disables the diversity heuristic for neighbor
// selection. Default: false.
func (b Builder) Heuristic(enabled bool) Builder {
	b.graph.Heuristic = enabled
	return b
}

// Bounded switches to the fixed-capacity profile with the given ceilings.
func (b Builder) Bounded(c hnsw.Capacity) Builder {
	b.graph.Capacity = c
	return b
}

// Logger sets the structured logger for operation tracing.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	b.metrics = mc
	return b
}

// SearchConcurrency limits the goroutines used by SearchBatch.
func (b Builder) SearchConcurrency(n int) Builder {
	b.concurrency = n
	return b
}

// Build creates the Index.
func (b Builder) Build() (*Index, error) {
	graph := b.graph

	opts := []Option{
		WithGraphOptions(func(o *hnsw.Options) { *o = graph }),
		WithSearchConcurrency(b.concurrency),
	}

	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}

	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}

	return New(b.dimension, opts...)
}

// MustBuild creates the Index, panicking on error.
func (b Builder) MustBuild() *Index {
	idx, err := b.Build()
	if err != nil {
		panic(err)
	}

	return idx
}
