// Package distance provides vector distance calculations.
//
// Wide vectors are handed to gonum's pure-Go BLAS (Saxpy + Sdot), narrow ones
// use a scalar loop.
//
// The HNSW graph is defined on squared Euclidean distance (MetricL2), which
// is also the only name ParseMetric accepts from configuration files.
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
package distance
