package bounds

import (
	"maps"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		minCorner := []float64{0, -1}
		b, err := New(minCorner, []float64{10, 1})
		require.NoError(t, err)
		assert.Equal(t, 2, b.Dimension())
		assert.Equal(t, []float64{10, 1}, b.Max)

		// New copies its input.
		minCorner[0] = 5
		assert.Equal(t, 0.0, b.Min[0])
	})

	t.Run("ZeroWidthAxisAllowed", func(t *testing.T) {
		b, err := New([]float32{1, 1}, []float32{1, 3})
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 1}, b.Min)
	})

	tests := []struct {
		name     string
		min, max []float64
	}{
		{"Inverted", []float64{1}, []float64{0}},
		{"LengthMismatch", []float64{0, 0}, []float64{1}},
		{"Empty", nil, nil},
		{"NaN", []float64{math.NaN()}, []float64{1}},
		{"Inf", []float64{0}, []float64{math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.min, tt.max)
			assert.ErrorIs(t, err, ErrInvalidBox)
		})
	}
}

func TestFromPoints(t *testing.T) {
	t.Run("Tight", func(t *testing.T) {
		pts := map[uint64][]float64{
			0: {1, 5},
			1: {-2, 3},
			2: {4, 4},
		}
		b, err := FromPoints(2, maps.All(pts))
		require.NoError(t, err)
		assert.Equal(t, []float64{-2, 3}, b.Min)
		assert.Equal(t, []float64{4, 5}, b.Max)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := FromPoints(2, maps.All(map[uint64][]float64{}))
		assert.ErrorIs(t, err, ErrNoPoints)
	})

	t.Run("WrongDimension", func(t *testing.T) {
		_, err := FromPoints(3, maps.All(map[uint64][]float64{0: {1, 2}}))
		assert.ErrorIs(t, err, ErrInvalidBox)
	})
}

func TestContains(t *testing.T) {
	b, err := New([]float64{0, 0}, []float64{10, 10})
	require.NoError(t, err)

	assert.True(t, b.Contains([]float64{0, 0}))
	assert.True(t, b.Contains([]float64{10, 10}))
	assert.True(t, b.Contains([]float64{5, 2}))
	assert.False(t, b.Contains([]float64{-0.1, 5}))
	assert.False(t, b.Contains([]float64{5, 10.1}))
}

func TestWidenedCorners(t *testing.T) {
	b, err := New([]float32{0.5, 1}, []float32{2, 3})
	require.NoError(t, err)

	assert.Equal(t, []float64{0.5, 1}, b.Lower())
	assert.Equal(t, []float64{2, 3}, b.Upper())

	c := b.Clone()
	c.Max[0] = 100
	assert.Equal(t, float32(2), b.Max[0])
	assert.Contains(t, b.String(), "min: [0.5 1]")
}

func TestDistance2(t *testing.T) {
	b, err := New([]float64{0, 0}, []float64{10, 10})
	require.NoError(t, err)

	assert.Zero(t, b.Distance2([]float64{3, 10}))
	assert.Equal(t, 4.0, b.Distance2([]float64{-2, 5}))
	assert.Equal(t, 2.0, b.Distance2([]float64{11, -1}))
}
