// Package queue provides the bounded candidate heap used by k-nearest searches.
package queue

// Item is a candidate point and its squared distance to the query.
type Item struct {
	ID       uint64
	Distance float64
}

// worse reports whether a ranks after b: farther, or equally far with a larger ID.
func worse(a, b Item) bool {
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}
	return a.ID > b.ID
}

// PriorityQueue is a binary max-heap of Items: the worst item is on top.
type PriorityQueue struct {
	items []Item
}

// NewMax initializes a new priority queue with the worst item on top.
func NewMax(capacity int) *PriorityQueue {
	return &PriorityQueue{
		items: make([]Item, 0, capacity),
	}
}

// Len returns the number of items in the queue.
func (pq *PriorityQueue) Len() int { return len(pq.items) }

// Cap returns the capacity of the backing slice.
func (pq *PriorityQueue) Cap() int { return cap(pq.items) }

// Top returns the top item of the heap.
func (pq *PriorityQueue) Top() (Item, bool) {
	if len(pq.items) == 0 {
		return Item{}, false
	}
	return pq.items[0], true
}

// Push inserts an item while maintaining the heap invariant.
func (pq *PriorityQueue) Push(item Item) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// Pop removes and returns the top item while maintaining the heap invariant.
func (pq *PriorityQueue) Pop() (Item, bool) {
	n := len(pq.items)
	if n == 0 {
		return Item{}, false
	}
	root := pq.items[0]
	last := pq.items[n-1]
	pq.items = pq.items[:n-1]
	if n-1 > 0 {
		pq.items[0] = last
		pq.siftDown(0)
	}
	return root, true
}

// PushBounded keeps at most k best items: it pushes item if the queue holds fewer
// than k items, or replaces the top if item ranks before it.
func (pq *PriorityQueue) PushBounded(item Item, k int) bool {
	if len(pq.items) < k {
		pq.Push(item)
		return true
	}
	if !worse(pq.items[0], item) {
		return false
	}
	pq.items[0] = item
	pq.siftDown(0)
	return true
}

// Drain pops every item, returning them best first.
func (pq *PriorityQueue) Drain() []Item {
	out := make([]Item, len(pq.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i], _ = pq.Pop()
	}
	return out
}

// Reset clears the priority queue for reuse.
func (pq *PriorityQueue) Reset() {
	pq.items = pq.items[:0]
}

func (pq *PriorityQueue) less(i, j int) bool {
	return worse(pq.items[i], pq.items[j])
}

func (pq *PriorityQueue) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !pq.less(i, p) {
			return
		}
		pq.items[i], pq.items[p] = pq.items[p], pq.items[i]
		i = p
	}
}

func (pq *PriorityQueue) siftDown(i int) {
	n := len(pq.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		r := l + 1
		if r < n && pq.less(r, l) {
			best = r
		}
		if !pq.less(best, i) {
			return
		}
		pq.items[i], pq.items[best] = pq.items[best], pq.items[i]
		i = best
	}
}
