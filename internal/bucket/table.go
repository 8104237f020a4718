// Package bucket implements the dense bucket table of a grid locator.
//
// Each lattice cell owns a roaring64 bitmap of the point identifiers whose
// coordinates fall inside it. Bitmaps are allocated on first insertion, so an
// empty cell costs one nil pointer. A second bitmap tracks every indexed
// identifier, which keeps the partition invariant checkable in O(1) per insert:
// an identifier can never be present in two buckets.
package bucket

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// ErrDuplicateID is returned when an identifier is already indexed.
var ErrDuplicateID = errors.New("point id already indexed")

// Table is a fixed-size array of buckets. It is not safe for concurrent
// mutation; concurrent reads are safe when no writer is active.
type Table struct {
	cells []*roaring64.Bitmap
	ids   *roaring64.Bitmap
}

// New creates a Table with size empty buckets.
func New(size int) *Table {
	return &Table{
		cells: make([]*roaring64.Bitmap, size),
		ids:   roaring64.New(),
	}
}

// Add places id in bucket cell.
func (t *Table) Add(cell int, id uint64) error {
	if cell < 0 || cell >= len(t.cells) {
		return fmt.Errorf("bucket %d out of range [0, %d)", cell, len(t.cells))
	}
	if t.ids.Contains(id) {
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	t.ids.Add(id)
	b := t.cells[cell]
	if b == nil {
		b = roaring64.New()
		t.cells[cell] = b
	}
	b.Add(id)
	return nil
}

// Contains reports whether id is indexed in any bucket.
func (t *Table) Contains(id uint64) bool {
	return t.ids.Contains(id)
}

// Each calls fn for every id in bucket cell in ascending order.
// It returns false if fn did.
func (t *Table) Each(cell int, fn func(id uint64) bool) bool {
	b := t.cells[cell]
	if b == nil {
		return true
	}
	it := b.Iterator()
	for it.HasNext() {
		if !fn(it.Next()) {
			return false
		}
	}
	return true
}

// Occupancy returns the number of ids in bucket cell.
func (t *Table) Occupancy(cell int) int {
	if b := t.cells[cell]; b != nil {
		return int(b.GetCardinality())
	}
	return 0
}

// Size returns the number of buckets.
func (t *Table) Size() int { return len(t.cells) }

// Len returns the number of indexed ids.
func (t *Table) Len() int { return int(t.ids.GetCardinality()) }

// Stats summarizes bucket occupancy.
type Stats struct {
	Buckets         int
	NonEmptyBuckets int
	MaxOccupancy    int
	Points          int
}

// Stats computes occupancy statistics in O(buckets).
func (t *Table) Stats() Stats {
	s := Stats{Buckets: len(t.cells), Points: t.Len()}
	for i := range t.cells {
		n := t.Occupancy(i)
		if n == 0 {
			continue
		}
		s.NonEmptyBuckets++
		s.MaxOccupancy = max(s.MaxOccupancy, n)
	}
	return s
}
