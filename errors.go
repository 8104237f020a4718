package gridloc

import (
	"errors"
	"fmt"

	"github.com/hupe1980/gridloc/bounds"
	"github.com/hupe1980/gridloc/internal/bucket"
	"github.com/hupe1980/gridloc/internal/grid"
)

var (
	// ErrInvalidConfiguration is returned for degenerate regions and invalid
	// division, occupancy or tolerance parameters.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrNotConfigured is returned by insertions and queries issued before
	// InitPointInsertion or InitIncrementalPointInsertion.
	ErrNotConfigured = errors.New("locator not configured")

	// ErrEmptyLocator is returned by proximity queries on a locator with no points.
	ErrEmptyLocator = errors.New("locator is empty")

	// ErrIDInUse is returned by InsertPoint when the identifier is already indexed.
	ErrIDInUse = errors.New("point id already in use")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrInvalidRadius is returned for negative or NaN search radii.
	ErrInvalidRadius = errors.New("radius must not be negative")
)

// ErrDimensionMismatch indicates a point/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
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

	// Configuration failures from the grid and box layers.
	if errors.Is(err, grid.ErrDegenerateRegion) ||
		errors.Is(err, grid.ErrNegativeEstimate) ||
		errors.Is(err, grid.ErrInvalidDivisions) ||
		errors.Is(err, grid.ErrTooManyBuckets) ||
		errors.Is(err, bounds.ErrInvalidBox) ||
		errors.Is(err, bounds.ErrNoPoints) {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	if errors.Is(err, bucket.ErrDuplicateID) {
		return fmt.Errorf("%w: %w", ErrIDInUse, err)
	}

	return err
}
