package smallworld

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/smallworld/hnsw"
)

type options struct {
	graphOptions      []func(o *hnsw.Options)
	metricsCollector  MetricsCollector
	logger            *Logger
	searchConcurrency int
}

// Option configures the Index constructor.
type Option func(*options)

// WithGraphOptions appends option functions applied to the hnsw.Options of
// the underlying graph.
func WithGraphOptions(optFns ...func(o *hnsw.Options)) Option {
	return func(o *options) {
		o.graphOptions = append(o.graphOptions, optFns...)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &smallworld.BasicMetricsCollector{}
//	idx, _ := smallworld.New(128, smallworld.WithMetricsCollector(metrics))
//	// ... use idx ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Avg latency: %dns\n", stats.InsertCount, stats.InsertAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}

		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := smallworld.NewJSONLogger(slog.LevelInfo)
//	idx, _ := smallworld.New(128, smallworld.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}

		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithSearchConcurrency limits the number of goroutines SearchBatch runs at
// once. Values <= 0 select runtime.GOMAXPROCS(0).
func WithSearchConcurrency(n int) Option {
	return func(o *options) {
		o.searchConcurrency = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}

	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.searchConcurrency <= 0 {
		o.searchConcurrency = runtime.GOMAXPROCS(0)
	}

	return o
}
