package gridloc

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"
	"time"

	"github.com/hupe1980/gridloc/distance"
	"github.com/hupe1980/gridloc/internal/pool"
	"github.com/hupe1980/gridloc/internal/queue"
	"golang.org/x/sync/errgroup"
)

// Neighbor is a point returned by a k-nearest query.
type Neighbor struct {
	ID       PointID
	Distance float64 // Euclidean distance to the query
}

// FindClosestPoint returns the identifier of the indexed point closest to x.
// Queries outside the bounding box are answered exactly as well. Ties resolve
// to the smallest identifier.
func (l *Locator[T]) FindClosestPoint(x []T) (PointID, error) {
	return l.findClosest(context.Background(), x)
}

func (l *Locator[T]) findClosest(ctx context.Context, x []T) (PointID, error) {
	start := time.Now()
	id, _, visited, err := l.closest(x, math.Inf(1))
	l.recordSearch(ctx, "closest", visited, found(id), start, err)
	return id, err
}

// FindClosestInsertedPoint is FindClosestPoint restricted to queries inside the
// bounding box: for a query outside it, NotFound is returned without searching.
func (l *Locator[T]) FindClosestInsertedPoint(x []T) (PointID, error) {
	if err := l.checkQuery(x); err != nil {
		return NotFound, err
	}
	if !l.box.Contains(x) {
		return NotFound, nil
	}
	return l.FindClosestPoint(x)
}

// FindClosestPointWithinRadius returns the closest indexed point no farther than
// radius from x together with its distance. When no point qualifies it returns
// NotFound and +Inf.
func (l *Locator[T]) FindClosestPointWithinRadius(radius float64, x []T) (PointID, float64, error) {
	if !(radius >= 0) {
		return NotFound, math.Inf(1), fmt.Errorf("%w: %v", ErrInvalidRadius, radius)
	}
	start := time.Now()
	id, d2, visited, err := l.closest(x, radius*radius)
	l.recordSearch(context.Background(), "closest_within_radius", visited, found(id), start, err)
	if err != nil || id == NotFound {
		return NotFound, math.Inf(1), err
	}
	return id, distance.Sqrt(d2), nil
}

// closest expands Chebyshev shells of buckets around the query's cell. After
// each shell it stops once every unvisited bucket is farther than the best
// candidate; the first non-empty shell is not enough, since a closer point can
// sit in a farther bucket along a diagonal. Only candidates within limit2
// (squared) are accepted.
func (l *Locator[T]) closest(x []T, limit2 float64) (PointID, float64, int, error) {
	if err := l.checkQuery(x); err != nil {
		return NotFound, 0, 0, err
	}

	sc := pool.Get()
	defer pool.Put(sc)

	sc.Query = distance.Widen(sc.Query, x)
	sc.Cell = l.grid.CellOf(sc.Query, sc.Cell)
	q, center := sc.Query, sc.Cell
	best, bestD := NotFound, limit2
	visited := 0

	scan := func(linear int, idx []int) bool {
		if l.table.Occupancy(linear) == 0 || l.grid.Distance2ToCell(q, idx) > bestD {
			return true
		}
		visited++
		l.table.Each(linear, func(id uint64) bool {
			p, ok := l.store.Point(id)
			if !ok {
				return true
			}
			d := distance.SquaredL2To(q, p)
			if d < bestD || (d == bestD && id < best) {
				best, bestD = id, d
			}
			return true
		})
		return true
	}

	for r := 0; r <= l.grid.MaxRadius(center); r++ {
		l.grid.Shell(center, r, scan)
		bound, ok := l.grid.ShellBound2(q, center, r)
		if !ok || bound > bestD {
			break
		}
	}
	return best, bestD, visited, nil
}

// FindClosestNPoints returns up to k indexed points closest to x, nearest first,
// with ties resolved by the smaller identifier.
func (l *Locator[T]) FindClosestNPoints(k int, x []T) ([]Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidK, k)
	}
	start := time.Now()
	if err := l.checkQuery(x); err != nil {
		l.recordSearch(context.Background(), "closest_n", 0, 0, start, err)
		return nil, err
	}

	sc := pool.Get()
	defer pool.Put(sc)

	sc.Query = distance.Widen(sc.Query, x)
	sc.Cell = l.grid.CellOf(sc.Query, sc.Cell)
	q, center := sc.Query, sc.Cell
	pq := sc.Result
	visited := 0

	// worst is the admission threshold: +Inf until k candidates are held.
	worst := func() float64 {
		if pq.Len() < k {
			return math.Inf(1)
		}
		top, _ := pq.Top()
		return top.Distance
	}

	scan := func(linear int, idx []int) bool {
		if l.table.Occupancy(linear) == 0 || l.grid.Distance2ToCell(q, idx) > worst() {
			return true
		}
		visited++
		l.table.Each(linear, func(id uint64) bool {
			if p, ok := l.store.Point(id); ok {
				pq.PushBounded(queue.Item{ID: id, Distance: distance.SquaredL2To(q, p)}, k)
			}
			return true
		})
		return true
	}

	for r := 0; r <= l.grid.MaxRadius(center); r++ {
		l.grid.Shell(center, r, scan)
		bound, ok := l.grid.ShellBound2(q, center, r)
		if !ok || bound > worst() {
			break
		}
	}

	items := pq.Drain()
	out := make([]Neighbor, len(items))
	for i, it := range items {
		out[i] = Neighbor{ID: it.ID, Distance: distance.Sqrt(it.Distance)}
	}
	l.recordSearch(context.Background(), "closest_n", visited, len(out), start, nil)
	return out, nil
}

// FindPointsWithinRadius returns the identifiers of all indexed points within
// radius of x, in ascending order.
func (l *Locator[T]) FindPointsWithinRadius(radius float64, x []T) ([]PointID, error) {
	if !(radius >= 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadius, radius)
	}
	start := time.Now()
	if err := l.checkQuery(x); err != nil {
		l.recordSearch(context.Background(), "within_radius", 0, 0, start, err)
		return nil, err
	}

	q := distance.Widen(make([]float64, 0, l.dim), x)
	r2 := radius * radius
	var ids []PointID
	visited := 0

	l.grid.Overlapping(q, radius, func(linear int, idx []int) bool {
		if l.table.Occupancy(linear) == 0 || l.grid.Distance2ToCell(q, idx) > r2 {
			return true
		}
		visited++
		l.table.Each(linear, func(id uint64) bool {
			if p, ok := l.store.Point(id); ok && distance.SquaredL2To(q, p) <= r2 {
				ids = append(ids, id)
			}
			return true
		})
		return true
	})

	slices.Sort(ids)
	l.recordSearch(context.Background(), "within_radius", visited, len(ids), start, nil)
	return ids, nil
}

// FindClosestPoints answers FindClosestPoint for every query concurrently.
// Result i belongs to queries[i]. It must not run concurrently with insertions.
func (l *Locator[T]) FindClosestPoints(ctx context.Context, queries [][]T) (ids []PointID, err error) {
	defer func() { l.logger.LogBatchSearch(ctx, len(queries), err) }()

	if l.grid == nil {
		return nil, ErrNotConfigured
	}
	if l.table.Len() == 0 {
		return nil, ErrEmptyLocator
	}

	ids = make([]PointID, len(queries))
	workers := min(runtime.GOMAXPROCS(0), max(1, len(queries)))
	chunk := (len(queries) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(queries); lo += chunk {
		hi := min(lo+chunk, len(queries))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				id, err := l.findClosest(gctx, queries[i])
				if err != nil {
					return fmt.Errorf("query %d: %w", i, err)
				}
				ids[i] = id
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// checkQuery validates x and requires at least one indexed point.
func (l *Locator[T]) checkQuery(x []T) error {
	if err := l.checkPoint(x); err != nil {
		return err
	}
	if l.table.Len() == 0 {
		return ErrEmptyLocator
	}
	return nil
}

func (l *Locator[T]) recordSearch(ctx context.Context, op string, visited, n int, start time.Time, err error) {
	l.metrics.RecordSearch(visited, time.Since(start), err)
	l.logger.LogSearch(ctx, op, visited, n, err)
}

func found(id PointID) int {
	if id == NotFound {
		return 0
	}
	return 1
}
