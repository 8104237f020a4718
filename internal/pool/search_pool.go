// Package pool provides object pools for low-allocation proximity queries.
package pool

import (
	"sync"

	"github.com/hupe1980/gridloc/internal/queue"
)

const (
	// DefaultMaxDimensions is the initial capacity of the query buffers.
	DefaultMaxDimensions = 8

	// DefaultQueueCapacity is the initial capacity of the result heap.
	DefaultQueueCapacity = 64

	// maxRetainedQueue bounds the heap capacity kept across Put.
	maxRetainedQueue = 1 << 16
)

// SearchContext holds per-query scratch buffers. A context is owned by a single
// query at a time; concurrent queries each take their own.
type SearchContext struct {
	Query  []float64            // widened query coordinates
	Cell   []int                // cell tuple of the query
	Result *queue.PriorityQueue // k-nearest candidates, worst on top
}

var searchContextPool = sync.Pool{
	New: func() any {
		return &SearchContext{
			Query:  make([]float64, 0, DefaultMaxDimensions),
			Cell:   make([]int, 0, DefaultMaxDimensions),
			Result: queue.NewMax(DefaultQueueCapacity),
		}
	},
}

// Get retrieves a reset SearchContext from the pool.
func Get() *SearchContext {
	ctx := searchContextPool.Get().(*SearchContext)
	ctx.Reset()
	return ctx
}

// Put returns a SearchContext to the pool for reuse.
// Contexts whose heap grew past maxRetainedQueue are dropped.
func Put(ctx *SearchContext) {
	if ctx.Result.Cap() > maxRetainedQueue {
		return
	}
	searchContextPool.Put(ctx)
}

// Reset clears the SearchContext for reuse.
func (sc *SearchContext) Reset() {
	sc.Query = sc.Query[:0]
	sc.Cell = sc.Cell[:0]
	sc.Result.Reset()
}
