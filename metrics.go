package gridloc

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see package
// promcollector for a Prometheus implementation.
//
// Implementations must be safe for concurrent use: read-only queries may run
// in parallel.
type MetricsCollector interface {
	// RecordBuild is called after each InitPointInsertion / InitIncrementalPointInsertion.
	// points is the number of points indexed by the build, buckets the table size.
	RecordBuild(points, buckets int, duration time.Duration, err error)

	// RecordInsert is called after each incremental insert operation.
	RecordInsert(duration time.Duration, err error)

	// RecordSearch is called after each proximity query.
	// bucketsVisited is the number of buckets whose points were scanned.
	RecordSearch(bucketsVisited int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordInsert(time.Duration, error)          {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount          atomic.Int64
	BuildErrors         atomic.Int64
	BuildPoints         atomic.Int64
	InsertCount         atomic.Int64
	InsertErrors        atomic.Int64
	InsertTotalNanos    atomic.Int64
	SearchCount         atomic.Int64
	SearchErrors        atomic.Int64
	SearchTotalNanos    atomic.Int64
	SearchBucketsVisits atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(points, buckets int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.BuildPoints.Add(int64(points))
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(bucketsVisited int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	b.SearchBucketsVisits.Add(int64(bucketsVisited))
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:         b.BuildCount.Load(),
		BuildErrors:        b.BuildErrors.Load(),
		BuildPoints:        b.BuildPoints.Load(),
		InsertCount:        b.InsertCount.Load(),
		InsertErrors:       b.InsertErrors.Load(),
		InsertAvgNanos:     avg(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		SearchCount:        b.SearchCount.Load(),
		SearchErrors:       b.SearchErrors.Load(),
		SearchAvgNanos:     avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		SearchAvgBucketHit: avg(b.SearchBucketsVisits.Load(), b.SearchCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount         int64
	BuildErrors        int64
	BuildPoints        int64
	InsertCount        int64
	InsertErrors       int64
	InsertAvgNanos     int64
	SearchCount        int64
	SearchErrors       int64
	SearchAvgNanos     int64
	SearchAvgBucketHit int64
}
