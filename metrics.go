package quiltarena

import (
	"sync/atomic"
	"time"
)

// Op identifies an arena operation in logs and metrics.
type Op uint8

const (
	OpLoadFile Op = iota
	OpLoadSymlinkTarget
	OpAdopt
)

func (o Op) String() string {
	switch o {
	case OpLoadFile:
		return "load_file"
	case OpLoadSymlinkTarget:
		return "load_symlink_target"
	case OpAdopt:
		return "adopt"
	default:
		return "unknown"
	}
}

// MetricsCollector defines an interface for collecting arena metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Implementations are called concurrently from every loading goroutine.
type MetricsCollector interface {
	// RecordLoad is called after each load or adopt.
	// bytes is the view length (0 on failure), err is nil if successful.
	RecordLoad(op Op, bytes int, duration time.Duration, err error)

	// RecordRelease is called once when an arena is closed.
	RecordRelease(count int, bytes int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(Op, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRelease(int, int64)                 {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount      atomic.Int64
	LoadErrors     atomic.Int64
	LoadBytes      atomic.Int64
	LoadTotalNanos atomic.Int64
	SymlinkCount   atomic.Int64
	AdoptCount     atomic.Int64
	ReleaseCount   atomic.Int64
	ReleasedBytes  atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(op Op, bytes int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(int64(bytes))
	switch op {
	case OpLoadSymlinkTarget:
		b.SymlinkCount.Add(1)
	case OpAdopt:
		b.AdoptCount.Add(1)
	}
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(count int, bytes int64) {
	b.ReleaseCount.Add(int64(count))
	b.ReleasedBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:     b.LoadCount.Load(),
		LoadErrors:    b.LoadErrors.Load(),
		LoadBytes:     b.LoadBytes.Load(),
		LoadAvgNanos:  b.getAvgLoadNanos(),
		SymlinkCount:  b.SymlinkCount.Load(),
		AdoptCount:    b.AdoptCount.Load(),
		ReleaseCount:  b.ReleaseCount.Load(),
		ReleasedBytes: b.ReleasedBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgLoadNanos() int64 {
	count := b.LoadCount.Load()
	if count == 0 {
		return 0
	}
	return b.LoadTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount     int64
	LoadErrors    int64
	LoadBytes     int64
	LoadAvgNanos  int64
	SymlinkCount  int64
	AdoptCount    int64
	ReleaseCount  int64
	ReleasedBytes int64
}
