package arraydb

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLink is called after each link operation. issued is the number
	// of forward keys issued.
	RecordLink(issued int, duration time.Duration, err error)

	// RecordWrite is called after each point write.
	RecordWrite(duration time.Duration, err error)

	// RecordRead is called after each point read.
	RecordRead(duration time.Duration, err error)

	// RecordStream is called after each stream read of n slots.
	RecordStream(n uint64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLink(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordWrite(time.Duration, error)           {}
func (NoopMetricsCollector) RecordRead(time.Duration, error)            {}
func (NoopMetricsCollector) RecordStream(uint64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	LinkCount       atomic.Int64
	LinkErrors      atomic.Int64
	KeysIssued      atomic.Int64
	WriteCount      atomic.Int64
	WriteErrors     atomic.Int64
	WriteTotalNanos atomic.Int64
	ReadCount       atomic.Int64
	ReadErrors      atomic.Int64
	ReadTotalNanos  atomic.Int64
	StreamCount     atomic.Int64
	StreamErrors    atomic.Int64
	StreamSlots     atomic.Int64
}

// RecordLink implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLink(issued int, _ time.Duration, err error) {
	b.LinkCount.Add(1)
	b.KeysIssued.Add(int64(issued))
	if err != nil {
		b.LinkErrors.Add(1)
	}
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(duration time.Duration, err error) {
	b.WriteCount.Add(1)
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WriteErrors.Add(1)
	}
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(duration time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReadErrors.Add(1)
	}
}

// RecordStream implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStream(n uint64, _ time.Duration, err error) {
	b.StreamCount.Add(1)
	if err != nil {
		b.StreamErrors.Add(1)
		return
	}
	b.StreamSlots.Add(int64(n))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LinkCount:     b.LinkCount.Load(),
		LinkErrors:    b.LinkErrors.Load(),
		KeysIssued:    b.KeysIssued.Load(),
		WriteCount:    b.WriteCount.Load(),
		WriteErrors:   b.WriteErrors.Load(),
		WriteAvgNanos: avg(b.WriteTotalNanos.Load(), b.WriteCount.Load()),
		ReadCount:     b.ReadCount.Load(),
		ReadErrors:    b.ReadErrors.Load(),
		ReadAvgNanos:  avg(b.ReadTotalNanos.Load(), b.ReadCount.Load()),
		StreamCount:   b.StreamCount.Load(),
		StreamErrors:  b.StreamErrors.Load(),
		StreamSlots:   b.StreamSlots.Load(),
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
	LinkCount     int64
	LinkErrors    int64
	KeysIssued    int64
	WriteCount    int64
	WriteErrors   int64
	WriteAvgNanos int64
	ReadCount     int64
	ReadErrors    int64
	ReadAvgNanos  int64
	StreamCount   int64
	StreamErrors  int64
	StreamSlots   int64
}
