package distance

import (
	"fmt"

	"gonum.org/v1/gonum/blas/gonum"
)

// blasMinWidth is the vector width from which SquaredL2 hands the work to
// gonum's BLAS kernels. Narrower vectors stay on the scalar loop.
const blasMinWidth = 64

var blasEngine = gonum.Implementation{}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
// The kernel is picked by width only, so a given width always yields the same
// rounding behaviour.
func SquaredL2(a, b []float32) float32 {
	if len(a) >= blasMinWidth {
		return squaredL2BLAS(a, b)
	}

	return squaredL2Scalar(a, b)
}

func squaredL2Scalar(a, b []float32) float32 {
	var sum float32

	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return sum
}

func squaredL2BLAS(a, b []float32) float32 {
	n := len(a)

	diff := make([]float32, n)
	copy(diff, a)

	// diff = a - b
	blasEngine.Saxpy(n, -1, b, 1, diff, 1)

	return blasEngine.Sdot(n, diff, 1, diff, 1)
}

// Metric represents the distance metric used for vector comparison.
type Metric int

// MetricL2 is squared Euclidean distance, the metric of the HNSW graph.
const MetricL2 Metric = iota

func (m Metric) String() string {
	switch m {
	case MetricL2:
		return "L2"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric resolves a metric name as written in configuration files.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "", "L2", "l2", "squared_l2":
		return MetricL2, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", s)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float32) float32
