package hnsw

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned for construction parameters that are
	// non-positive or inconsistent.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrCapacityExceeded is returned in the bounded profile when a request
	// would exceed a configured ceiling.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrDimension matches every *ErrDimensionMismatch via errors.Is.
	ErrDimension = errors.New("dimension mismatch")
)

// ErrDimensionMismatch is returned when a vector or query width differs from
// the graph's dimension.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrDimension) hold.
func (e *ErrDimensionMismatch) Is(target error) bool {
	return target == ErrDimension
}

func invalidParameter(name string, value int) error {
	return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidParameter, name, value)
}

func capacityExceeded(what string, value, ceiling int) error {
	return fmt.Errorf("%w: %s %d exceeds ceiling %d", ErrCapacityExceeded, what, value, ceiling)
}
