// Package testutil provides testing utilities for smallworld.
//
// This package is intended for use in tests, benchmarks and the benchmark
// CLI. It provides helpers for generating random vectors, computing exact
// nearest neighbors, and verifying search recall.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UniformVectors(10000, 4)           // uniform [0, 1)
//	signed := rng.UniformRangeVectors(100, 4, -1, 1)
//	blobs := rng.ClusteredVectors(1000, 4, 16, 0.05)
//
// # Exact Search (Ground Truth)
//
//	truth := testutil.BruteForceSearch(vecs, query, k)
//
// # Recall Verification
//
//	recall := testutil.ComputeRecall(truth, approx)
package testutil
