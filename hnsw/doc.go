// Package hnsw implements Hierarchical Navigable Small World graphs.
//
// HNSW provides approximate nearest neighbor search with sub-linear expected
// query time under squared Euclidean distance.
//
// # Profiles
//
// A single Graph implementation serves two deployment profiles, selected by
// Options.Capacity:
//
//   - growable (zero Capacity): every container grows on demand.
//   - bounded: hard ceilings on nodes, dimension, layers, degree and beam
//     width. Requests that would exceed a ceiling fail with
//     ErrCapacityExceeded instead of being truncated.
//
// # Parameters
//
//   - M: neighbors attached per new node per layer (default: 16)
//   - MMax: degree bound at layers >= 1 (default: 32)
//   - MMax0: degree bound at layer 0 (default: 64)
//   - EFConstruction: beam width during insertion (default: 100)
//   - ML: highest level a node can be sampled at (default: 2)
//   - Seed: seed of the level sampler
//
// Neighbor selection keeps the nearest M candidates. Setting Heuristic enables
// the diversity heuristic from the paper instead.
//
// A Graph is not safe for concurrent use while Insert runs. Concurrent
// KNNSearch calls are safe with each other. The root package wraps a Graph
// with a read/write lock.
//
// # Reference
//
// Malkov & Yashunin, "Efficient and robust approximate nearest neighbor search
// using Hierarchical Navigable Small World graphs", IEEE TPAMI 2018.
package hnsw
