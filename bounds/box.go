// Package bounds provides the axis-aligned bounding box a locator partitions into buckets.
package bounds

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/hupe1980/gridloc/distance"
	"golang.org/x/exp/constraints"
)

var (
	// ErrInvalidBox is returned for boxes with mismatched, non-finite or inverted bounds.
	ErrInvalidBox = errors.New("invalid bounding box")

	// ErrNoPoints is returned by FromPoints when the sequence is empty.
	ErrNoPoints = errors.New("no points to bound")
)

// Box is an axis-aligned bounding box. Min[i] <= Max[i] holds on every axis;
// zero-width axes are allowed.
type Box[T constraints.Float] struct {
	Min []T
	Max []T
}

// New creates a validated Box. The slices are copied.
func New[T constraints.Float](minCorner, maxCorner []T) (Box[T], error) {
	b := Box[T]{Min: slices.Clone(minCorner), Max: slices.Clone(maxCorner)}
	if err := b.Validate(); err != nil {
		return Box[T]{}, err
	}
	return b, nil
}

// FromPoints returns the tightest box containing every point in seq.
func FromPoints[T constraints.Float](dim int, seq iter.Seq2[uint64, []T]) (Box[T], error) {
	b := Box[T]{Min: make([]T, dim), Max: make([]T, dim)}
	empty := true
	for _, p := range seq {
		if len(p) != dim {
			return Box[T]{}, fmt.Errorf("%w: point has %d coordinates, want %d", ErrInvalidBox, len(p), dim)
		}
		if empty {
			copy(b.Min, p)
			copy(b.Max, p)
			empty = false
			continue
		}
		for i, v := range p {
			b.Min[i] = min(b.Min[i], v)
			b.Max[i] = max(b.Max[i], v)
		}
	}
	if empty {
		return Box[T]{}, ErrNoPoints
	}
	if err := b.Validate(); err != nil {
		return Box[T]{}, err
	}
	return b, nil
}

// Validate checks the box invariants.
func (b Box[T]) Validate() error {
	if len(b.Min) == 0 || len(b.Min) != len(b.Max) {
		return fmt.Errorf("%w: min has %d axes, max has %d", ErrInvalidBox, len(b.Min), len(b.Max))
	}
	for i := range b.Min {
		lo, hi := float64(b.Min[i]), float64(b.Max[i])
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return fmt.Errorf("%w: axis %d is not finite", ErrInvalidBox, i)
		}
		if lo > hi {
			return fmt.Errorf("%w: axis %d has min %v > max %v", ErrInvalidBox, i, lo, hi)
		}
	}
	return nil
}

// Dimension returns the number of axes.
func (b Box[T]) Dimension() int { return len(b.Min) }

// Contains reports whether p lies inside the closed box.
func (b Box[T]) Contains(p []T) bool {
	for i, v := range p {
		if v < b.Min[i] || v > b.Max[i] {
			return false
		}
	}
	return true
}

// Distance2 returns the squared distance from q to the box, 0 inside it.
func (b Box[T]) Distance2(q []float64) float64 {
	return distance.ToBox(q, b.Lower(), b.Upper())
}

// Lower returns the min corner widened to float64.
func (b Box[T]) Lower() []float64 { return widen(b.Min) }

// Upper returns the max corner widened to float64.
func (b Box[T]) Upper() []float64 { return widen(b.Max) }

// Clone returns a deep copy.
func (b Box[T]) Clone() Box[T] {
	return Box[T]{Min: slices.Clone(b.Min), Max: slices.Clone(b.Max)}
}

func (b Box[T]) String() string {
	return fmt.Sprintf("Box{min: %v, max: %v}", b.Min, b.Max)
}

func widen[T constraints.Float](v []T) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
