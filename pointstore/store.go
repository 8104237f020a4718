package pointstore

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"sync"

	"github.com/hupe1980/gridloc/internal/container"
	"github.com/hupe1980/gridloc/internal/core"
	"golang.org/x/exp/constraints"
)

var (
	// ErrIDOutOfRange is returned for identifiers the container cannot address.
	ErrIDOutOfRange = errors.New("point id out of range")

	// ErrDimension is returned when a point has the wrong number of coordinates.
	ErrDimension = errors.New("point dimension mismatch")
)

// Store is an append-capable container of identifier to coordinate pairs.
//
// Implementations must allow concurrent reads. Writes are serialized by the caller.
type Store[T constraints.Float] interface {
	// Dimension returns the number of coordinates per point.
	Dimension() int
	// Len returns the number of stored points.
	Len() int
	// Point returns the coordinates stored under id.
	// The returned slice must not be modified.
	Point(id core.PointID) ([]T, bool)
	// Append stores p under a new identifier greater than every identifier in use.
	Append(p []T) (core.PointID, error)
	// Set stores p under id, replacing any previous coordinates.
	Set(id core.PointID, p []T) error
	// All iterates stored points in ascending identifier order.
	All() iter.Seq2[core.PointID, []T]
}

// Options contains configuration options for a Container.
type Options struct {
	// Capacity is an optional hint for the number of points; it pre-allocates storage.
	Capacity int
}

// DefaultOptions contains the default configuration options for a Container.
var DefaultOptions = Options{
	Capacity: 0,
}

// Compile-time check to ensure Container satisfies Store.
var _ Store[float64] = (*Container[float64])(nil)

// Container is the default Store, backed by a segmented array indexed by id.
// Identifiers are limited to the uint32 range.
type Container[T constraints.Float] struct {
	points *container.SegmentedPoints[T]

	mu    sync.Mutex // Serializes writers
	next  uint64     // One past the highest id in use
	count int
}

// New creates an empty Container for points with dim coordinates.
func New[T constraints.Float](dim int, optFns ...func(o *Options)) *Container[T] {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	c := &Container[T]{points: container.NewSegmentedPoints[T](dim)}
	if opts.Capacity > 0 && opts.Capacity <= math.MaxUint32 {
		// Touch the last slot's segment so growth does not happen on the hot path.
		c.points.Reserve(uint32(opts.Capacity - 1))
	}
	return c
}

// FromPoints creates a Container holding pts under identifiers 0..len(pts)-1.
func FromPoints[T constraints.Float](dim int, pts [][]T) (*Container[T], error) {
	c := New[T](dim, func(o *Options) { o.Capacity = len(pts) })
	for _, p := range pts {
		if _, err := c.Append(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Dimension implements Store.
func (c *Container[T]) Dimension() int { return c.points.Dimension() }

// Len implements Store.
func (c *Container[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Point implements Store.
func (c *Container[T]) Point(id core.PointID) ([]T, bool) {
	if id > math.MaxUint32 {
		return nil, false
	}
	return c.points.Get(uint32(id))
}

// Append implements Store.
func (c *Container[T]) Append(p []T) (core.PointID, error) {
	if err := c.check(p); err != nil {
		return core.NotFound, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.next
	if id > math.MaxUint32 {
		return core.NotFound, fmt.Errorf("%w: %d", ErrIDOutOfRange, id)
	}
	c.points.Set(uint32(id), p)
	c.next++
	c.count++
	return id, nil
}

// Set implements Store.
func (c *Container[T]) Set(id core.PointID, p []T) error {
	if err := c.check(p); err != nil {
		return err
	}
	if id > math.MaxUint32 {
		return fmt.Errorf("%w: %d", ErrIDOutOfRange, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.points.Set(uint32(id), p) {
		c.count++
	}
	c.next = max(c.next, id+1)
	return nil
}

// All implements Store.
func (c *Container[T]) All() iter.Seq2[core.PointID, []T] {
	return func(yield func(core.PointID, []T) bool) {
		c.mu.Lock()
		end := c.next
		c.mu.Unlock()

		for id := range end {
			p, ok := c.points.Get(uint32(id))
			if !ok {
				continue
			}
			if !yield(id, p) {
				return
			}
		}
	}
}

func (c *Container[T]) check(p []T) error {
	if len(p) != c.points.Dimension() {
		return fmt.Errorf("%w: got %d coordinates, want %d", ErrDimension, len(p), c.points.Dimension())
	}
	return nil
}
