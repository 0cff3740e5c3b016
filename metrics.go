package datafeed

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// EpochStats summarizes one epoch of the sample stream.
//
// Descriptors == Emitted + Dropped + Errored for a completed epoch, for any
// worker count.
type EpochStats struct {
	Epoch       int64
	Descriptors uint64 // sequence numbers assigned by the feeder
	Emitted     uint64 // samples delivered downstream
	Dropped     uint64 // samples over the frame-length limit
	Errored     uint64 // samples skipped after a load failure
	// DroppedSeqs holds the sequence numbers removed by the frame-length
	// policy, for replay diagnostics.
	DroppedSeqs *roaring64.Bitmap
	Duration    time.Duration
}

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordSample is called after each sample load (read+decode+transform).
	// duration is the total time taken, err is nil if successful.
	RecordSample(duration time.Duration, err error)

	// RecordBatch is called after each batch is assembled.
	RecordBatch(samples, rows int)

	// RecordEpoch is called once per completed epoch.
	RecordEpoch(stats EpochStats)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSample(time.Duration, error) {}
func (NoopMetricsCollector) RecordBatch(int, int)              {}
func (NoopMetricsCollector) RecordEpoch(EpochStats)            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SampleCount      atomic.Int64
	SampleErrors     atomic.Int64
	SampleTotalNanos atomic.Int64
	BatchCount       atomic.Int64
	BatchSamples     atomic.Int64
	BatchRows        atomic.Int64

	mu        sync.Mutex
	lastEpoch EpochStats
}

// RecordSample implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSample(duration time.Duration, err error) {
	b.SampleCount.Add(1)
	b.SampleTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SampleErrors.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(samples, rows int) {
	b.BatchCount.Add(1)
	b.BatchSamples.Add(int64(samples))
	b.BatchRows.Add(int64(rows))
}

// RecordEpoch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEpoch(stats EpochStats) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastEpoch = stats
}

// LastEpoch returns the stats of the most recently completed epoch.
func (b *BasicMetricsCollector) LastEpoch() EpochStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastEpoch
}

// SampleAvgNanos returns the mean per-sample load time.
func (b *BasicMetricsCollector) SampleAvgNanos() int64 {
	count := b.SampleCount.Load()
	if count == 0 {
		return 0
	}
	return b.SampleTotalNanos.Load() / count
}
