package pointstore

import (
	"testing"

	"github.com/hupe1980/gridloc/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainer(t *testing.T) {
	t.Run("AppendAssignsMonotonicIDs", func(t *testing.T) {
		c := New[float64](2)

		id0, err := c.Append([]float64{1, 2})
		require.NoError(t, err)
		id1, err := c.Append([]float64{3, 4})
		require.NoError(t, err)

		assert.Equal(t, core.PointID(0), id0)
		assert.Equal(t, core.PointID(1), id1)
		assert.Equal(t, 2, c.Len())

		p, ok := c.Point(id1)
		require.True(t, ok)
		assert.Equal(t, []float64{3, 4}, p)
	})

	t.Run("SetLeavesHoles", func(t *testing.T) {
		c := New[float32](1)

		require.NoError(t, c.Set(5, []float32{1}))
		assert.Equal(t, 1, c.Len())

		_, ok := c.Point(2)
		assert.False(t, ok)

		// Append continues after the highest id in use.
		id, err := c.Append([]float32{2})
		require.NoError(t, err)
		assert.Equal(t, core.PointID(6), id)
	})

	t.Run("SetOverwriteKeepsCount", func(t *testing.T) {
		c := New[float64](1)
		require.NoError(t, c.Set(0, []float64{1}))
		require.NoError(t, c.Set(0, []float64{2}))

		assert.Equal(t, 1, c.Len())
		p, _ := c.Point(0)
		assert.Equal(t, []float64{2}, p)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		c := New[float64](3)

		_, err := c.Append([]float64{1, 2})
		assert.ErrorIs(t, err, ErrDimension)
		assert.ErrorIs(t, c.Set(0, []float64{1}), ErrDimension)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("IDOutOfRange", func(t *testing.T) {
		c := New[float64](1)

		assert.ErrorIs(t, c.Set(1<<40, []float64{1}), ErrIDOutOfRange)
		_, ok := c.Point(1 << 40)
		assert.False(t, ok)
	})

	t.Run("AllInIDOrder", func(t *testing.T) {
		c := New[float64](1, func(o *Options) { o.Capacity = 8 })
		require.NoError(t, c.Set(3, []float64{30}))
		require.NoError(t, c.Set(1, []float64{10}))
		_, err := c.Append([]float64{40})
		require.NoError(t, err)

		var ids []core.PointID
		var xs []float64
		for id, p := range c.All() {
			ids = append(ids, id)
			xs = append(xs, p[0])
		}
		assert.Equal(t, []core.PointID{1, 3, 4}, ids)
		assert.Equal(t, []float64{10, 30, 40}, xs)
	})
}

func TestFromPoints(t *testing.T) {
	c, err := FromPoints(2, [][]float64{{0, 0}, {1, 1}, {2, 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 2, c.Dimension())

	_, err = FromPoints(2, [][]float64{{0, 0}, {1}})
	assert.ErrorIs(t, err, ErrDimension)
}
