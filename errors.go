package smallworld

import (
	"errors"
	"fmt"

	"github.com/hupe1980/smallworld/hnsw"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = hnsw.ErrInvalidK

	// ErrInvalidParameter is returned for non-positive or inconsistent options.
	ErrInvalidParameter = hnsw.ErrInvalidParameter

	// ErrCapacityExceeded is returned in the bounded profile when a request
	// would exceed a ceiling.
	ErrCapacityExceeded = hnsw.ErrCapacityExceeded

	// ErrCorrupt is returned by Validate when the graph breaks an invariant.
	ErrCorrupt = hnsw.ErrCorrupt

	// ErrClosed is returned by every operation on a closed Index.
	ErrClosed = errors.New("index is closed")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// The underlying hnsw error can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var dm *hnsw.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}

	return err
}
