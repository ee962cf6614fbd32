// Package smallworld provides an in-process approximate nearest neighbor index
// built as a Hierarchical Navigable Small World (HNSW) graph.
//
// Vectors are inserted one at a time and receive dense uint32 ids in insertion
// order. Queries return the K nearest stored vectors under squared Euclidean
// distance, ascending by distance. Nodes are never deleted.
//
// # Quick Start
//
//	ctx := context.Background()
//	idx, _ := smallworld.HNSW(128).M(16).Seed(42).Build()
//
//	id, _ := idx.Insert(ctx, vector)
//	results, _ := idx.Search(query).KNN(10).EF(64).Execute(ctx)
//
// # Concurrency
//
// Index holds a sync.RWMutex: inserts are serialized, searches run in
// parallel. SearchBatch fans a slice of queries out over a bounded number of
// goroutines.
//
// # Profiles
//
// The zero hnsw.Capacity is the growable profile. Setting any ceiling, e.g.
// with Builder.Bounded(hnsw.DefaultBoundedCapacity), switches to the bounded
// profile: requests that would exceed a ceiling fail with ErrCapacityExceeded.
// The fixed package offers the same profile behind a flat-array API.
//
// # Observability
//
// Operations are logged through a *Logger (log/slog) and reported to a
// MetricsCollector. Both default to no-ops; see the promcollector package
// for a Prometheus collector.
package smallworld
