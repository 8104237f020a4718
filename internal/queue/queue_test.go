package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueue(t *testing.T) {
	t.Run("MaxHeap", func(t *testing.T) {
		pq := NewMax(4)
		pq.Push(Item{ID: 1, Distance: 3})
		pq.Push(Item{ID: 2, Distance: 1})
		pq.Push(Item{ID: 3, Distance: 2})

		top, ok := pq.Top()
		require.True(t, ok)
		assert.Equal(t, uint64(1), top.ID)

		assert.Equal(t, []Item{{2, 1}, {3, 2}, {1, 3}}, pq.Drain())
		assert.Equal(t, 0, pq.Len())
	})

	t.Run("MaxHeapTieBreaksOnID", func(t *testing.T) {
		pq := NewMax(4)
		pq.Push(Item{ID: 4, Distance: 1})
		pq.Push(Item{ID: 9, Distance: 1})
		pq.Push(Item{ID: 2, Distance: 0.5})

		top, _ := pq.Top()
		assert.Equal(t, Item{ID: 9, Distance: 1}, top)
		assert.Equal(t, []Item{{2, 0.5}, {4, 1}, {9, 1}}, pq.Drain())
	})

	t.Run("PushBounded", func(t *testing.T) {
		pq := NewMax(2)
		assert.True(t, pq.PushBounded(Item{ID: 1, Distance: 5}, 2))
		assert.True(t, pq.PushBounded(Item{ID: 2, Distance: 4}, 2))
		assert.False(t, pq.PushBounded(Item{ID: 3, Distance: 6}, 2))
		assert.True(t, pq.PushBounded(Item{ID: 0, Distance: 5}, 2)) // tie, smaller id wins
		assert.True(t, pq.PushBounded(Item{ID: 4, Distance: 1}, 2))

		assert.Equal(t, []Item{{4, 1}, {2, 4}}, pq.Drain())
	})

	t.Run("EmptyPop", func(t *testing.T) {
		pq := NewMax(0)
		_, ok := pq.Pop()
		assert.False(t, ok)
		_, ok = pq.Top()
		assert.False(t, ok)

		pq.Push(Item{ID: 1})
		pq.Reset()
		assert.Equal(t, 0, pq.Len())
	})
}
