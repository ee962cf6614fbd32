// Package promcollector exports index metrics to Prometheus.
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/smallworld"
)

const (
	opInsert      = "insert"
	opBatchInsert = "batch_insert"
	opSearch      = "search"

	statusOK    = "ok"
	statusError = "error"
)

// Options configures the metric names.
type Options struct {
	// Namespace prefixes every metric name. Default: "smallworld".
	Namespace string

	// ConstLabels are attached to every metric, e.g. an index name.
	ConstLabels prometheus.Labels

	// Buckets are the latency histogram buckets in seconds.
	Buckets []float64
}

// DefaultOptions covers microsecond searches up to slow batch inserts.
var DefaultOptions = Options{
	Namespace: "smallworld",
	Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
}

// Collector implements smallworld.MetricsCollector on top of Prometheus
// counters, histograms and a gauge.
type Collector struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	batchItems *prometheus.CounterVec
	searchK    prometheus.Histogram
	nodes      prometheus.Gauge
}

var _ smallworld.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg. A nil reg
// leaves the metrics unregistered.
func New(reg prometheus.Registerer, optFns ...func(o *Options)) *Collector {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	factory := promauto.With(reg)

	return &Collector{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "operations_total",
			Help:        "Total number of index operations",
			ConstLabels: opts.ConstLabels,
		}, []string{"op", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   opts.Namespace,
			Name:        "operation_duration_seconds",
			Help:        "Duration of index operations in seconds",
			ConstLabels: opts.ConstLabels,
			Buckets:     opts.Buckets,
		}, []string{"op"}),
		batchItems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "batch_items_total",
			Help:        "Total number of vectors submitted through batch inserts",
			ConstLabels: opts.ConstLabels,
		}, []string{"status"}),
		searchK: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   opts.Namespace,
			Name:        "search_k",
			Help:        "Number of neighbors requested per search",
			ConstLabels: opts.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 10),
		}),
		nodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   opts.Namespace,
			Name:        "nodes",
			Help:        "Number of vectors stored in the index",
			ConstLabels: opts.ConstLabels,
		}),
	}
}

// RecordInsert implements smallworld.MetricsCollector.
func (c *Collector) RecordInsert(duration time.Duration, err error) {
	c.operations.WithLabelValues(opInsert, status(err)).Inc()
	c.duration.WithLabelValues(opInsert).Observe(duration.Seconds())
}

// RecordBatchInsert implements smallworld.MetricsCollector.
func (c *Collector) RecordBatchInsert(count, failed int, duration time.Duration) {
	st := statusOK
	if failed > 0 {
		st = statusError
	}

	c.operations.WithLabelValues(opBatchInsert, st).Inc()
	c.duration.WithLabelValues(opBatchInsert).Observe(duration.Seconds())
	c.batchItems.WithLabelValues(statusOK).Add(float64(count - failed))
	c.batchItems.WithLabelValues(statusError).Add(float64(failed))
}

// RecordSearch implements smallworld.MetricsCollector.
func (c *Collector) RecordSearch(k int, duration time.Duration, err error) {
	c.operations.WithLabelValues(opSearch, status(err)).Inc()
	c.duration.WithLabelValues(opSearch).Observe(duration.Seconds())
	c.searchK.Observe(float64(k))
}

// RecordSize implements smallworld.MetricsCollector.
func (c *Collector) RecordSize(nodes int) {
	c.nodes.Set(float64(nodes))
}

func status(err error) string {
	if err != nil {
		return statusError
	}

	return statusOK
}
