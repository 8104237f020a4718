package gridloc

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
)

// DefaultPointsPerBucket is the target average bucket occupancy used when
// neither WithDivisions nor WithPointsPerBucket is given.
const DefaultPointsPerBucket = 3

type options struct {
	divisions        []int
	pointsPerBucket  int
	tolerance        float64
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Locator at construction time.
//
// Options are validated once in New; the grid they describe is fixed for the
// lifetime of the locator.
type Option func(*options)

// WithDivisions sets explicit per-axis division counts, one per axis, each >= 1.
// Axes whose bounding box extent is zero always get a single division.
//
// Mutually exclusive with WithPointsPerBucket.
func WithDivisions(divisions ...int) Option {
	return func(o *options) {
		o.divisions = slices.Clone(divisions)
	}
}

// WithPointsPerBucket derives the divisions from the number of points so that
// buckets hold about n points on average. Higher values mean fewer, larger
// buckets: a cheaper build and more points examined per query. Values below 1
// are clamped to 1.
//
// Mutually exclusive with WithDivisions.
func WithPointsPerBucket(n int) Option {
	return func(o *options) {
		o.pointsPerBucket = max(n, 1)
	}
}

// WithTolerance sets the distance within which IsInsertedPoint and
// InsertUniquePoint treat two points as the same. Defaults to 0 (exact match).
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &gridloc.BasicMetricsCollector{}
//	loc, _ := gridloc.New[float64](3, gridloc.WithMetricsCollector(metrics))
//	// ... use loc ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg buckets: %d\n", stats.SearchCount, stats.SearchAvgBucketHit)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := gridloc.NewJSONLogger(slog.LevelInfo)
//	loc, _ := gridloc.New[float64](3, gridloc.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// validate checks option combinations and fills in defaults.
func (o *options) validate(dimension int) error {
	if dimension < 1 {
		return fmt.Errorf("%w: dimension %d", ErrInvalidConfiguration, dimension)
	}
	if o.divisions != nil && o.pointsPerBucket != 0 {
		return fmt.Errorf("%w: divisions and points per bucket are mutually exclusive", ErrInvalidConfiguration)
	}
	if o.divisions != nil {
		if len(o.divisions) != dimension {
			return fmt.Errorf("%w: %d division counts for dimension %d", ErrInvalidConfiguration, len(o.divisions), dimension)
		}
		for i, d := range o.divisions {
			if d < 1 {
				return fmt.Errorf("%w: axis %d has %d divisions", ErrInvalidConfiguration, i, d)
			}
		}
	} else if o.pointsPerBucket == 0 {
		o.pointsPerBucket = DefaultPointsPerBucket
	}
	if math.IsNaN(o.tolerance) || o.tolerance < 0 {
		return fmt.Errorf("%w: tolerance %v", ErrInvalidConfiguration, o.tolerance)
	}
	return nil
}
