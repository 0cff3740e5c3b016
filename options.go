package datafeed

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/featio/datafeed/blobstore"
	"github.com/featio/datafeed/resource"
)

type options struct {
	dropFrameLen       int
	workerCount        int
	descriptorQueueCap int
	sampleQueueCap     int
	batchQueueCap      int
	blocksPerBucket    int
	seed               int64
	failFast           bool
	store              blobstore.Store
	transforms         []Transform
	logger             *Logger
	metrics            MetricsCollector
	controller         *resource.Controller
}

// Option configures Reader construction.
type Option func(*options)

// WithDropFrameLen drops samples whose feature frame count strictly
// exceeds n. A sample with exactly n frames is kept.
func WithDropFrameLen(n int) Option {
	return func(o *options) { o.dropFrameLen = n }
}

// WithWorkerCount sets the number of parallel sample-loading workers.
func WithWorkerCount(n int) Option {
	return func(o *options) { o.workerCount = n }
}

// WithDescriptorQueueCapacity bounds the feeder-to-worker queue. A full
// queue blocks the feeder (backpressure).
func WithDescriptorQueueCapacity(n int) Option {
	return func(o *options) { o.descriptorQueueCap = n }
}

// WithSampleQueueCapacity bounds the worker-to-assembler queues.
func WithSampleQueueCapacity(n int) Option {
	return func(o *options) { o.sampleQueueCap = n }
}

// WithBatchQueueCapacity bounds the assembler-to-consumer queue.
func WithBatchQueueCapacity(n int) Option {
	return func(o *options) { o.batchQueueCap = n }
}

// WithBlocksPerBucket sets the number of consecutive blocks grouped into
// one shuffle bucket. Larger buckets give finer-grained shuffling at the
// cost of a proportionally larger in-memory descriptor list.
func WithBlocksPerBucket(n int) Option {
	return func(o *options) { o.blocksPerBucket = n }
}

// WithRandomSeed seeds the generator driving block and sample shuffles.
// Two Readers with the same seed, input and worker count 1 produce
// identical batch sequences.
func WithRandomSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithFailFast makes background errors (bucket expansion, sample load)
// abort the epoch and surface through the iterator. By default such errors
// are logged and the affected bucket or sample is skipped, which can
// silently shorten an epoch.
func WithFailFast(v bool) Option {
	return func(o *options) { o.failFast = v }
}

// WithBlobStore sets the store dataset blobs are read from. Defaults to
// the local file system, resolving manifest lines as paths.
func WithBlobStore(store blobstore.Store) Option {
	return func(o *options) {
		if store != nil {
			o.store = store
		}
	}
}

// WithTransforms sets the ordered transformation chain workers apply to
// every decoded sample.
func WithTransforms(transforms ...Transform) Option {
	return func(o *options) { o.transforms = transforms }
}

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) { o.logger = NewTextLogger(level) }
}

// WithMetricsCollector configures a metrics collector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

// WithResourceController bounds worker I/O rate and in-flight decode
// memory. Optional; without it only the bounded queues limit memory.
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) { o.controller = c }
}

func applyOptions(optFns []Option) options {
	o := options{
		dropFrameLen:       512,
		workerCount:        runtime.GOMAXPROCS(0),
		descriptorQueueCap: 1024,
		sampleQueueCap:     1024,
		batchQueueCap:      8,
		blocksPerBucket:    1,
		store:              blobstore.NewLocalStore(""),
		logger:             NoopLogger(),
		metrics:            NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) validate() error {
	switch {
	case o.dropFrameLen <= 0:
		return fmt.Errorf("%w: drop frame length %d", ErrInvalidConfig, o.dropFrameLen)
	case o.workerCount <= 0:
		return fmt.Errorf("%w: worker count %d", ErrInvalidConfig, o.workerCount)
	case o.descriptorQueueCap <= 0:
		return fmt.Errorf("%w: descriptor queue capacity %d", ErrInvalidConfig, o.descriptorQueueCap)
	case o.sampleQueueCap <= 0:
		return fmt.Errorf("%w: sample queue capacity %d", ErrInvalidConfig, o.sampleQueueCap)
	case o.batchQueueCap <= 0:
		return fmt.Errorf("%w: batch queue capacity %d", ErrInvalidConfig, o.batchQueueCap)
	case o.blocksPerBucket <= 0:
		return fmt.Errorf("%w: blocks per bucket %d", ErrInvalidConfig, o.blocksPerBucket)
	}
	return nil
}
