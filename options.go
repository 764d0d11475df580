package quiltarena

import (
	"time"

	"github.com/hupe1980/quiltarena/internal/fs"
	"github.com/hupe1980/quiltarena/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	controller       *resource.Controller
	budgetWait       time.Duration
	fs               fs.FileSystem
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		fs:               fs.Default,
	}
}

// Option configures an arena.
type Option func(*options)

// WithLogger configures structured logging of loads and teardown.
// Pass nil to disable logging.
//
// Example:
//
//	a := quiltarena.NewMmap(quiltarena.WithLogger(quiltarena.NewTextLogger(slog.LevelDebug)))
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring loads.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &quiltarena.BasicMetricsCollector{}
//	a := quiltarena.NewHeap(quiltarena.WithMetricsCollector(metrics))
//	// ... run
//	fmt.Println(metrics.GetStats().LoadCount)
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metricsCollector = m
	}
}

// WithResourceController charges every resource against rc's memory budget
// and routes copying reads through its IO limiter. The reservation is
// returned when the arena is closed.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithBudgetWait makes a load that does not fit the memory budget wait up
// to d for memory to be given back, typically by another arena sharing the
// same controller being closed. Without it such loads fail immediately.
func WithBudgetWait(d time.Duration) Option {
	return func(o *options) {
		o.budgetWait = d
	}
}

// withFileSystem swaps the filesystem (fault injection in tests).
func withFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fs = fsys
	}
}
