// Package promcollector exports locator metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc, err := promcollector.New(reg, "myapp")
//	loc, _ := gridloc.New[float64](3, gridloc.WithMetricsCollector(mc))
package promcollector

import (
	"time"

	"github.com/hupe1980/gridloc"
	"github.com/prometheus/client_golang/prometheus"
)

// Compile-time check to ensure Collector satisfies gridloc.MetricsCollector.
var _ gridloc.MetricsCollector = (*Collector)(nil)

// Collector implements gridloc.MetricsCollector on Prometheus metrics.
type Collector struct {
	opLatency      *prometheus.HistogramVec
	bucketsVisited prometheus.Histogram
	indexedPoints  prometheus.Gauge
	buckets        prometheus.Gauge
}

// New creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gridloc_operation_latency_seconds",
			Help:      "Latency of locator operations",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"op", "status"}),
		bucketsVisited: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gridloc_search_buckets_visited",
			Help:      "Number of non-empty buckets scanned per query",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		indexedPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gridloc_indexed_points",
			Help:      "Points indexed by the last successful build",
		}),
		buckets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gridloc_buckets",
			Help:      "Size of the bucket table of the last successful build",
		}),
	}

	for _, m := range []prometheus.Collector{c.opLatency, c.bucketsVisited, c.indexedPoints, c.buckets} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordBuild implements gridloc.MetricsCollector.
func (c *Collector) RecordBuild(points, buckets int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("build", status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.indexedPoints.Set(float64(points))
	c.buckets.Set(float64(buckets))
}

// RecordInsert implements gridloc.MetricsCollector.
func (c *Collector) RecordInsert(d time.Duration, err error) {
	c.opLatency.WithLabelValues("insert", status(err)).Observe(d.Seconds())
}

// RecordSearch implements gridloc.MetricsCollector.
func (c *Collector) RecordSearch(bucketsVisited int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("search", status(err)).Observe(d.Seconds())
	if err == nil {
		c.bucketsVisited.Observe(float64(bucketsVisited))
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
