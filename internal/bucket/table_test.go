package bucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	t.Run("AddAndIterate", func(t *testing.T) {
		tbl := New(4)
		require.NoError(t, tbl.Add(2, 9))
		require.NoError(t, tbl.Add(2, 3))
		require.NoError(t, tbl.Add(0, 5))

		var ids []uint64
		tbl.Each(2, func(id uint64) bool {
			ids = append(ids, id)
			return true
		})
		assert.Equal(t, []uint64{3, 9}, ids)
		assert.Equal(t, 2, tbl.Occupancy(2))
		assert.Equal(t, 0, tbl.Occupancy(1))
		assert.Equal(t, 3, tbl.Len())
		assert.True(t, tbl.Contains(5))
		assert.False(t, tbl.Contains(6))
	})

	t.Run("DuplicateIDRejected", func(t *testing.T) {
		tbl := New(2)
		require.NoError(t, tbl.Add(0, 1))

		err := tbl.Add(1, 1)
		assert.ErrorIs(t, err, ErrDuplicateID)
		assert.Equal(t, 0, tbl.Occupancy(1))
		assert.Equal(t, 1, tbl.Len())
	})

	t.Run("OutOfRange", func(t *testing.T) {
		tbl := New(2)
		assert.Error(t, tbl.Add(2, 1))
		assert.Error(t, tbl.Add(-1, 1))
		assert.Equal(t, 0, tbl.Len())
	})

	t.Run("EarlyStop", func(t *testing.T) {
		tbl := New(1)
		for id := range uint64(5) {
			require.NoError(t, tbl.Add(0, id))
		}
		calls := 0
		done := tbl.Each(0, func(uint64) bool {
			calls++
			return calls < 2
		})
		assert.False(t, done)
		assert.Equal(t, 2, calls)
		assert.True(t, tbl.Each(0, func(uint64) bool { return true }))
	})

	t.Run("Stats", func(t *testing.T) {
		tbl := New(5)
		require.NoError(t, tbl.Add(0, 1))
		require.NoError(t, tbl.Add(0, 2))
		require.NoError(t, tbl.Add(0, 3))
		require.NoError(t, tbl.Add(4, 4))

		assert.Equal(t, Stats{Buckets: 5, NonEmptyBuckets: 2, MaxOccupancy: 3, Points: 4}, tbl.Stats())
	})
}
