// Package container implements container data structures.
package container

import (
	"sync"
	"sync/atomic"
)

const (
	// segmentBits determines the number of points per segment.
	// 12 bits = 4096 points per segment.
	segmentBits = 12
	segmentSize = 1 << segmentBits
	segmentMask = segmentSize - 1
)

// SegmentedPoints is an append-friendly, segmented store of fixed-dimension
// coordinate tuples. Reads are lock-free; growth is serialized.
//
// Slots that were never written read as absent. Coordinates handed out by Get
// alias the segment memory and stay valid for the lifetime of the array, since
// segments are never reallocated once published.
type SegmentedPoints[T any] struct {
	dim      int
	segments atomic.Pointer[[]*pointSegment[T]]
	mu       sync.Mutex // Protects growth
}

type pointSegment[T any] struct {
	coords  []T // segmentSize * dim
	present [segmentSize]atomic.Bool
}

// NewSegmentedPoints creates an empty SegmentedPoints for tuples of length dim.
func NewSegmentedPoints[T any](dim int) *SegmentedPoints[T] {
	sp := &SegmentedPoints[T]{dim: dim}
	segments := make([]*pointSegment[T], 0)
	sp.segments.Store(&segments)
	return sp
}

// Dimension returns the tuple length.
func (sp *SegmentedPoints[T]) Dimension() int { return sp.dim }

// Get returns the tuple stored at index.
// The second result is false if the slot was never written.
func (sp *SegmentedPoints[T]) Get(index uint32) ([]T, bool) {
	seg := sp.segment(int(index >> segmentBits))
	if seg == nil {
		return nil, false
	}
	slot := int(index & segmentMask)
	if !seg.present[slot].Load() {
		return nil, false
	}
	off := slot * sp.dim
	return seg.coords[off : off+sp.dim : off+sp.dim], true
}

// Set copies value into the slot at index, growing the array if necessary.
// It reports whether the slot was previously empty.
func (sp *SegmentedPoints[T]) Set(index uint32, value []T) bool {
	segIdx := int(index >> segmentBits)

	seg := sp.segment(segIdx)
	if seg == nil {
		seg = sp.grow(segIdx)
	}

	slot := int(index & segmentMask)
	off := slot * sp.dim
	copy(seg.coords[off:off+sp.dim], value)
	return !seg.present[slot].Swap(true)
}

func (sp *SegmentedPoints[T]) segment(segIdx int) *pointSegment[T] {
	segments := sp.segments.Load()
	if segments == nil || segIdx >= len(*segments) {
		return nil
	}
	return (*segments)[segIdx]
}

// grow allocates the segment at segIdx under the growth lock.
func (sp *SegmentedPoints[T]) grow(segIdx int) *pointSegment[T] {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	// Reload under lock
	current := *sp.segments.Load()
	if segIdx < len(current) && current[segIdx] != nil {
		return current[segIdx]
	}

	next := current
	if segIdx >= len(next) {
		grown := make([]*pointSegment[T], segIdx+1)
		copy(grown, next)
		next = grown
	} else {
		next = append([]*pointSegment[T](nil), current...)
	}

	seg := &pointSegment[T]{coords: make([]T, segmentSize*sp.dim)}
	next[segIdx] = seg

	// Publish new segments
	sp.segments.Store(&next)
	return seg
}

// Reserve allocates every segment up to and including the one holding index.
// Reserved slots read as absent until written.
func (sp *SegmentedPoints[T]) Reserve(index uint32) {
	last := int(index >> segmentBits)
	for segIdx := range last + 1 {
		if sp.segment(segIdx) == nil {
			sp.grow(segIdx)
		}
	}
}
