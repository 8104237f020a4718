package gridloc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/hupe1980/gridloc/bounds"
	"github.com/hupe1980/gridloc/distance"
	"github.com/hupe1980/gridloc/internal/bucket"
	"github.com/hupe1980/gridloc/internal/core"
	"github.com/hupe1980/gridloc/internal/grid"
	"github.com/hupe1980/gridloc/pointstore"
	"golang.org/x/exp/constraints"
)

// PointID identifies a point in the store a locator indexes.
type PointID = core.PointID

// NotFound is returned by lookups that matched no point.
const NotFound = core.NotFound

// ErrInvalidPoint is returned for points or queries with NaN or infinite coordinates.
var ErrInvalidPoint = errors.New("point has non-finite coordinates")

// State is the lifecycle stage of a Locator.
type State int

const (
	// StateUnconfigured means no grid exists yet.
	StateUnconfigured State = iota
	// StateConfigured means the grid is allocated but holds no points.
	StateConfigured
	// StatePopulated means at least one point is indexed.
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "Unconfigured"
	case StateConfigured:
		return "Configured"
	case StatePopulated:
		return "Populated"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Stats summarizes the bucket table.
type Stats struct {
	Dimension       int
	Divisions       []int
	Buckets         int
	NonEmptyBuckets int
	MaxOccupancy    int
	MeanOccupancy   float64 // over non-empty buckets
	Points          int
}

// Locator is a grid-based spatial index over the points of a pointstore.Store.
//
// The locator never copies point data: buckets hold identifiers and every
// distance is computed against the store. The store stays owned by the caller
// and must outlive the locator's use of it.
type Locator[T constraints.Float] struct {
	dim     int
	opts    options
	logger  *Logger
	metrics MetricsCollector

	store pointstore.Store[T]
	box   bounds.Box[T]
	grid  *grid.Grid
	table *bucket.Table
}

// New creates an unconfigured Locator for points with dimension coordinates.
func New[T constraints.Float](dimension int, optFns ...Option) (*Locator[T], error) {
	opts := applyOptions(optFns)
	if err := opts.validate(dimension); err != nil {
		return nil, err
	}
	return &Locator[T]{
		dim:     dimension,
		opts:    opts,
		logger:  opts.logger.WithDimension(dimension),
		metrics: opts.metricsCollector,
	}, nil
}

// InitPointInsertion indexes every point of store in one pass. box is the region
// to partition; nil bounds the store's points. Divisions derived from
// WithPointsPerBucket use store.Len() as the point count.
//
// Any previous bucket table is discarded. On error the locator is unchanged.
func (l *Locator[T]) InitPointInsertion(store pointstore.Store[T], box *bounds.Box[T]) error {
	if store == nil {
		return fmt.Errorf("%w: nil point store", ErrInvalidConfiguration)
	}
	return l.init("batch", store, box, store.Len())
}

// InitIncrementalPointInsertion prepares the locator for one-at-a-time insertion
// into store. estimatedPoints sizes a derived grid; the store's current length
// is used when larger. Points already in store are indexed.
//
// Any previous bucket table is discarded. On error the locator is unchanged.
func (l *Locator[T]) InitIncrementalPointInsertion(store pointstore.Store[T], box *bounds.Box[T], estimatedPoints int) error {
	if store == nil {
		return fmt.Errorf("%w: nil point store", ErrInvalidConfiguration)
	}
	if estimatedPoints < 0 {
		return translateError(fmt.Errorf("%w: %d", grid.ErrNegativeEstimate, estimatedPoints))
	}
	return l.init("incremental", store, box, max(estimatedPoints, store.Len()))
}

func (l *Locator[T]) init(mode string, store pointstore.Store[T], box *bounds.Box[T], estimate int) error {
	start := time.Now()

	g, table, region, err := l.build(store, box, estimate)
	if err != nil {
		err = translateError(err)
		l.metrics.RecordBuild(0, 0, time.Since(start), err)
		l.logger.LogBuild(context.Background(), mode, nil, 0, time.Since(start), err)
		return err
	}

	l.store, l.box, l.grid, l.table = store, region, g, table

	l.metrics.RecordBuild(table.Len(), table.Size(), time.Since(start), nil)
	l.logger.LogBuild(context.Background(), mode, g.Divisions(), table.Len(), time.Since(start), nil)
	return nil
}

func (l *Locator[T]) build(store pointstore.Store[T], box *bounds.Box[T], estimate int) (*grid.Grid, *bucket.Table, bounds.Box[T], error) {
	var region bounds.Box[T]

	if store.Dimension() != l.dim {
		return nil, nil, region, &ErrDimensionMismatch{Expected: l.dim, Actual: store.Dimension()}
	}

	if box == nil {
		b, err := bounds.FromPoints(l.dim, store.All())
		if err != nil {
			return nil, nil, region, err
		}
		region = b
	} else {
		if err := box.Validate(); err != nil {
			return nil, nil, region, err
		}
		if box.Dimension() != l.dim {
			return nil, nil, region, &ErrDimensionMismatch{Expected: l.dim, Actual: box.Dimension()}
		}
		region = box.Clone()
	}

	var (
		g   *grid.Grid
		err error
	)
	if l.opts.divisions != nil {
		g, err = grid.New(region.Lower(), region.Upper(), l.opts.divisions)
	} else {
		g, err = grid.Derive(region.Lower(), region.Upper(), l.opts.pointsPerBucket, estimate)
	}
	if err != nil {
		return nil, nil, region, err
	}

	table := bucket.New(g.Size())
	var (
		q    []float64
		cell []int
	)
	for id, p := range store.All() {
		q = distance.Widen(q, p)
		cell = g.CellOf(q, cell)
		if err := table.Add(g.Linear(cell), id); err != nil {
			return nil, nil, region, err
		}
	}
	return g, table, region, nil
}

// InsertPoint stores x under id and indexes it. No duplicate-coordinate check is
// made; use IsInsertedPoint first to avoid duplicates. An id that is already
// indexed yields ErrIDInUse and leaves the locator unchanged.
func (l *Locator[T]) InsertPoint(id PointID, x []T) (err error) {
	start := time.Now()
	defer func() {
		l.metrics.RecordInsert(time.Since(start), err)
		l.logger.LogInsert(context.Background(), id, err == nil, err)
	}()

	if err := l.checkPoint(x); err != nil {
		return err
	}
	if id == NotFound {
		return fmt.Errorf("%w: %d is reserved", ErrIDInUse, id)
	}
	if l.table.Contains(id) {
		return fmt.Errorf("%w: %d", ErrIDInUse, id)
	}
	if err := l.store.Set(id, x); err != nil {
		return err
	}
	return translateError(l.index(id, x))
}

// InsertNextPoint appends x to the store under a new, monotonically increasing
// identifier and indexes it.
func (l *Locator[T]) InsertNextPoint(x []T) (id PointID, err error) {
	start := time.Now()
	id = NotFound
	defer func() {
		l.metrics.RecordInsert(time.Since(start), err)
		l.logger.LogInsert(context.Background(), id, err == nil, err)
	}()

	if err := l.checkPoint(x); err != nil {
		return NotFound, err
	}
	return l.insertNext(x)
}

func (l *Locator[T]) insertNext(x []T) (PointID, error) {
	id, err := l.store.Append(x)
	if err != nil {
		return NotFound, err
	}
	if err := l.index(id, x); err != nil {
		return NotFound, translateError(err)
	}
	return id, nil
}

func (l *Locator[T]) index(id PointID, x []T) error {
	q := distance.Widen(make([]float64, 0, l.dim), x)
	return l.table.Add(l.grid.Linear(l.grid.CellOf(q, nil)), id)
}

// IsInsertedPoint returns the identifier of an indexed point within Tolerance of
// x, or NotFound. When several match, the closest wins, then the smallest id.
// It never inserts.
func (l *Locator[T]) IsInsertedPoint(x []T) (PointID, error) {
	if err := l.checkPoint(x); err != nil {
		return NotFound, err
	}
	if l.table.Len() == 0 {
		return NotFound, nil
	}

	q := distance.Widen(make([]float64, 0, l.dim), x)
	tol := l.opts.tolerance
	tol2 := tol * tol
	best, bestD := NotFound, math.Inf(1)

	l.grid.Overlapping(q, tol, func(linear int, idx []int) bool {
		if l.grid.Distance2ToCell(q, idx) > tol2 {
			return true
		}
		l.table.Each(linear, func(id uint64) bool {
			p, ok := l.store.Point(id)
			if !ok {
				return true
			}
			d := distance.SquaredL2To(q, p)
			if d <= tol2 && (d < bestD || (d == bestD && id < best)) {
				best, bestD = id, d
			}
			return true
		})
		return true
	})
	return best, nil
}

// InsertUniquePoint inserts x unless a point within Tolerance is already indexed.
// It returns the identifier of the new or existing point and whether x was inserted.
func (l *Locator[T]) InsertUniquePoint(x []T) (id PointID, inserted bool, err error) {
	start := time.Now()
	id = NotFound
	defer func() {
		l.metrics.RecordInsert(time.Since(start), err)
		l.logger.LogInsert(context.Background(), id, inserted, err)
	}()

	existing, err := l.IsInsertedPoint(x)
	if err != nil {
		return NotFound, false, err
	}
	if existing != NotFound {
		return existing, false, nil
	}
	id, err = l.insertNext(x)
	if err != nil {
		return NotFound, false, err
	}
	return id, true, nil
}

// checkPoint validates x for a configured locator.
func (l *Locator[T]) checkPoint(x []T) error {
	if l.grid == nil {
		return ErrNotConfigured
	}
	if len(x) != l.dim {
		return &ErrDimensionMismatch{Expected: l.dim, Actual: len(x)}
	}
	for _, v := range x {
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidPoint, x)
		}
	}
	return nil
}

// Reset releases the bucket table and returns the locator to the unconfigured
// state. The point store is left untouched.
func (l *Locator[T]) Reset() {
	l.store = nil
	l.box = bounds.Box[T]{}
	l.grid = nil
	l.table = nil
}

// Dimension returns the number of coordinates per point.
func (l *Locator[T]) Dimension() int { return l.dim }

// Divisions returns the per-axis division counts in use, or the configured
// explicit divisions (nil when derived) before initialisation.
func (l *Locator[T]) Divisions() []int {
	if l.grid != nil {
		return l.grid.Divisions()
	}
	return slices.Clone(l.opts.divisions)
}

// CellWidths returns the per-axis bucket widths, or nil before initialisation.
func (l *Locator[T]) CellWidths() []float64 {
	if l.grid == nil {
		return nil
	}
	return l.grid.Widths()
}

// NumberOfPointsPerBucket returns the target average bucket occupancy.
func (l *Locator[T]) NumberOfPointsPerBucket() int { return l.opts.pointsPerBucket }

// Tolerance returns the duplicate-detection distance.
func (l *Locator[T]) Tolerance() float64 { return l.opts.tolerance }

// Bounds returns a copy of the partitioned region.
func (l *Locator[T]) Bounds() bounds.Box[T] { return l.box.Clone() }

// Distance2ToBounds returns the squared distance from x to the partitioned
// region, 0 for points inside it.
func (l *Locator[T]) Distance2ToBounds(x []T) (float64, error) {
	if err := l.checkPoint(x); err != nil {
		return 0, err
	}
	return l.box.Distance2(distance.Widen(nil, x)), nil
}

// Points returns the store the locator indexes, or nil before initialisation.
func (l *Locator[T]) Points() pointstore.Store[T] { return l.store }

// Len returns the number of indexed points.
func (l *Locator[T]) Len() int {
	if l.table == nil {
		return 0
	}
	return l.table.Len()
}

// NumberOfBuckets returns the size of the bucket table.
func (l *Locator[T]) NumberOfBuckets() int {
	if l.table == nil {
		return 0
	}
	return l.table.Size()
}

// State returns the lifecycle stage.
func (l *Locator[T]) State() State {
	switch {
	case l.grid == nil:
		return StateUnconfigured
	case l.table.Len() == 0:
		return StateConfigured
	default:
		return StatePopulated
	}
}

// Stats summarizes bucket occupancy. It costs one pass over the buckets.
func (l *Locator[T]) Stats() Stats {
	s := Stats{Dimension: l.dim, Divisions: l.Divisions()}
	if l.table == nil {
		return s
	}
	ts := l.table.Stats()
	s.Buckets = ts.Buckets
	s.NonEmptyBuckets = ts.NonEmptyBuckets
	s.MaxOccupancy = ts.MaxOccupancy
	s.Points = ts.Points
	if ts.NonEmptyBuckets > 0 {
		s.MeanOccupancy = float64(ts.Points) / float64(ts.NonEmptyBuckets)
	}
	return s
}
