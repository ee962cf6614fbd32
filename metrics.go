package smallworld

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// promcollector package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordInsert is called after each insert operation.
	// duration is the total time taken, err is nil if successful.
	RecordInsert(duration time.Duration, err error)

	// RecordBatchInsert is called after each batch insert operation.
	// count is the number of items attempted, failed is the number that failed,
	// duration is the total time taken.
	RecordBatchInsert(count, failed int, duration time.Duration)

	// RecordSearch is called after each search operation.
	// k is the number of neighbors requested, duration is the time taken,
	// err is nil if successful.
	RecordSearch(k int, duration time.Duration, err error)

	// RecordSize is called after every write with the current node count.
	RecordSize(nodes int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)         {}
func (NoopMetricsCollector) RecordBatchInsert(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordSize(int)                            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount       atomic.Int64
	InsertErrors      atomic.Int64
	InsertTotalNanos  atomic.Int64
	BatchInsertCount  atomic.Int64
	BatchInsertItems  atomic.Int64
	BatchInsertFailed atomic.Int64
	BatchTotalNanos   atomic.Int64
	SearchCount       atomic.Int64
	SearchErrors      atomic.Int64
	SearchTotalNanos  atomic.Int64
	SearchTotalK      atomic.Int64
	Nodes             atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())

	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordBatchInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchInsert(count, failed int, duration time.Duration) {
	b.BatchInsertCount.Add(1)
	b.BatchTotalNanos.Add(duration.Nanoseconds())
	b.BatchInsertItems.Add(int64(count))
	b.BatchInsertFailed.Add(int64(failed))
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(k int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	b.SearchTotalK.Add(int64(k))

	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordSize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSize(nodes int) {
	b.Nodes.Store(int64(nodes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:       b.InsertCount.Load(),
		InsertErrors:      b.InsertErrors.Load(),
		InsertAvgNanos:    average(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		BatchInsertCount:  b.BatchInsertCount.Load(),
		BatchInsertItems:  b.BatchInsertItems.Load(),
		BatchInsertFailed: b.BatchInsertFailed.Load(),
		BatchAvgNanos:     average(b.BatchTotalNanos.Load(), b.BatchInsertCount.Load()),
		SearchCount:       b.SearchCount.Load(),
		SearchErrors:      b.SearchErrors.Load(),
		SearchAvgNanos:    average(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		SearchAvgK:        average(b.SearchTotalK.Load(), b.SearchCount.Load()),
		Nodes:             b.Nodes.Load(),
	}
}

// average returns total/count, or 0 before the first sample.
func average(total, count int64) int64 {
	if count == 0 {
		return 0
	}

	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount       int64
	InsertErrors      int64
	InsertAvgNanos    int64
	BatchInsertCount  int64
	BatchInsertItems  int64
	BatchInsertFailed int64
	BatchAvgNanos     int64
	SearchCount       int64
	SearchErrors      int64
	SearchAvgNanos    int64
	SearchAvgK        int64
	Nodes             int64
}
