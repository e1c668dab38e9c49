package framemem

import (
	"log/slog"

	"github.com/hupe1980/framemem/arena"
)

type options struct {
	commitLimit      int64
	maxWorkers       int64
	snapshotRate     int64
	scratchDepth     int
	scratchCapacity  int
	retainCommitted  int
	source           arena.MemorySource
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a System.
type Option func(*options)

// WithCommitLimit caps the bytes committed across every arena of the System,
// scratch arenas included. A commit beyond the limit is fatal for the arena
// that attempts it. 0 means unlimited.
func WithCommitLimit(bytes int64) Option {
	return func(o *options) {
		o.commitLimit = bytes
	}
}

// WithMaxWorkers limits how many goroutines may hold a scratch pool at once.
// 0 means unlimited.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = int64(n)
	}
}

// WithScratchDepth sets the number of arenas per scratch pool.
func WithScratchDepth(depth int) Option {
	return func(o *options) {
		o.scratchDepth = depth
	}
}

// WithScratchCapacity sets the address space reserved per scratch arena.
func WithScratchCapacity(bytes int) Option {
	return func(o *options) {
		o.scratchCapacity = bytes
	}
}

// WithRetainCommitted keeps up to bytes committed in every arena when it is
// rewound, trading resident memory for fewer commit calls per frame.
func WithRetainCommitted(bytes int) Option {
	return func(o *options) {
		o.retainCommitted = bytes
	}
}

// WithSnapshotRate limits snapshot writes to bytes per second. 0 means unlimited.
func WithSnapshotRate(bytesPerSec int64) Option {
	return func(o *options) {
		o.snapshotRate = bytesPerSec
	}
}

// WithMemorySource sets where arenas get their memory.
// The default is the operating system's virtual memory.
func WithMemorySource(src arena.MemorySource) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &framemem.BasicMetricsCollector{}
//	sys, _ := framemem.New(framemem.WithMetricsCollector(metrics))
//	// ... use sys ...
//	stats := metrics.GetStats()
//	fmt.Printf("Committed: %d bytes\n", stats.CommittedBytes)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := framemem.NewJSONLogger(slog.LevelInfo)
//	sys, _ := framemem.New(framemem.WithLogger(logger))
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
	return o
}
