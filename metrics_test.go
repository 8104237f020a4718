package gridloc

import (
	"testing"

	"github.com/hupe1980/gridloc/pointstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicMetricsCollector(t *testing.T) {
	metrics := &BasicMetricsCollector{}

	loc, err := New[float64](2, WithDivisions(4, 4), WithMetricsCollector(metrics))
	require.NoError(t, err)

	// Failed build.
	require.Error(t, loc.InitIncrementalPointInsertion(pointstore.New[float64](2), nil, 0))

	require.NoError(t, loc.InitIncrementalPointInsertion(pointstore.New[float64](2), mustBox(t, []float64{0, 0}, []float64{1, 1}), 0))

	_, err = loc.InsertNextPoint([]float64{0.1, 0.1})
	require.NoError(t, err)
	_, err = loc.InsertNextPoint([]float64{0.9, 0.9})
	require.NoError(t, err)
	_, err = loc.InsertNextPoint([]float64{0.9})
	require.Error(t, err)

	_, err = loc.FindClosestPoint([]float64{0.2, 0.2})
	require.NoError(t, err)
	_, err = loc.FindClosestPoint([]float64{0.2})
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.BuildCount)
	assert.Equal(t, int64(1), stats.BuildErrors)
	assert.Equal(t, int64(0), stats.BuildPoints)
	assert.Equal(t, int64(3), stats.InsertCount)
	assert.Equal(t, int64(1), stats.InsertErrors)
	assert.Equal(t, int64(2), stats.SearchCount)
	assert.Equal(t, int64(1), stats.SearchErrors)
	assert.GreaterOrEqual(t, stats.SearchAvgBucketHit, int64(0))
}

func TestNoopMetricsCollector(t *testing.T) {
	var mc MetricsCollector = NoopMetricsCollector{}
	assert.NotPanics(t, func() {
		mc.RecordBuild(1, 1, 0, nil)
		mc.RecordInsert(0, nil)
		mc.RecordSearch(1, 0, nil)
	})
}
