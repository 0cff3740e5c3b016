package datafeed

import (
	"context"
	"fmt"
	"iter"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"golang.org/x/sync/errgroup"

	"github.com/featio/datafeed/index"
)

// Reader streams a dataset as per-epoch sample and batch iterators.
//
// A Reader is cheap to construct: manifests are read and validated up
// front, description files are parsed lazily per bucket during iteration.
// Epochs are meant to run one at a time; the shared shuffle generator makes
// concurrently running epochs order-dependent on each other.
type Reader struct {
	opts   options
	blocks []index.Block
	rng    *rng
	epoch  atomic.Int64
}

// New creates a Reader for the dataset described by the two manifest
// blobs. Malformed manifests fail here, synchronously; description files
// are validated later, when their bucket is first expanded.
func New(ctx context.Context, featManifest, labelManifest string, optFns ...Option) (*Reader, error) {
	o := applyOptions(optFns)
	if err := o.validate(); err != nil {
		return nil, err
	}

	blocks, err := index.LoadManifests(ctx, o.store, featManifest, labelManifest)
	if err != nil {
		return nil, err
	}

	return &Reader{
		opts:   o,
		blocks: blocks,
		rng:    newRNG(o.seed),
	}, nil
}

// Blocks returns the number of data blocks in the dataset.
func (r *Reader) Blocks() int { return len(r.blocks) }

// Samples iterates one epoch of decoded samples in global shuffle order,
// before batching. Intended for diagnostics; Batches is the canonical
// consumer surface. Breaking out of the loop cancels the epoch's pipeline.
func (r *Reader) Samples(ctx context.Context) iter.Seq2[*Sample, error] {
	return func(yield func(*Sample, error) bool) {
		ep := r.startEpoch(ctx)
		defer ep.cancel()

		for sample := range ep.samples {
			if !yield(sample, nil) {
				return
			}
		}
		if err := ep.g.Wait(); err != nil {
			yield(nil, err)
		}
	}
}

// Batches iterates one epoch of assembled batches. Each call starts a
// fresh epoch, reshuffling blocks and samples from the evolving generator
// state. Breaking out of the loop cancels the epoch's pipeline.
func (r *Reader) Batches(ctx context.Context, batchSize, minBatchSize int) iter.Seq2[*Batch, error] {
	return func(yield func(*Batch, error) bool) {
		if batchSize <= 0 || minBatchSize <= 0 || minBatchSize > batchSize {
			yield(nil, fmt.Errorf("%w: batch size %d, minimum %d", ErrInvalidConfig, batchSize, minBatchSize))
			return
		}

		ep := r.startEpoch(ctx)
		defer ep.cancel()

		batchCh := make(chan *Batch, r.opts.batchQueueCap)
		ep.g.Go(func() error {
			return ep.assemble(ep.ctx, ep.samples, batchCh, batchSize, minBatchSize)
		})

		for batch := range batchCh {
			if !yield(batch, nil) {
				return
			}
		}
		if err := ep.g.Wait(); err != nil {
			yield(nil, err)
		}
	}
}

// epoch is the per-epoch pipeline state: one feeder, a worker pool, one
// reorder merge and (for Batches) one assembler, all supervised by a
// single errgroup so a failure in any stage cancels the rest instead of
// hanging the fan-in.
type epoch struct {
	r       *Reader
	num     int64
	started time.Time

	ctx    context.Context
	cancel context.CancelFunc
	g      *errgroup.Group

	samples chan *Sample

	// Accounting. fed is written by the feeder; the remaining fields are
	// owned by the single merge goroutine.
	fed          atomic.Uint64
	emitted      uint64
	droppedCount uint64
	errored      uint64
	dropped      *roaring64.Bitmap
}

func (r *Reader) startEpoch(ctx context.Context) *epoch {
	num := r.epoch.Add(1)
	buckets := index.BuildBuckets(r.blocks, r.opts.blocksPerBucket, r.rng)
	r.opts.logger.LogEpochStart(num, len(buckets), r.opts.workerCount)

	epCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(epCtx)

	ep := &epoch{
		r:       r,
		num:     num,
		started: time.Now(),
		ctx:     gctx,
		cancel:  cancel,
		g:       g,
		samples: make(chan *Sample, r.opts.sampleQueueCap),
		dropped: roaring64.New(),
	}

	descCh := make(chan orderedUnit, r.opts.descriptorQueueCap)
	resCh := make(chan result, r.opts.sampleQueueCap)

	g.Go(func() error {
		return ep.feed(gctx, buckets, descCh)
	})

	// The last worker to exit closes the result channel, successful or
	// not, so the merge stage can never wait on a dead pool.
	var active atomic.Int32
	active.Store(int32(r.opts.workerCount))
	for i := 0; i < r.opts.workerCount; i++ {
		g.Go(func() error {
			defer func() {
				if active.Add(-1) == 0 {
					close(resCh)
				}
			}()
			return ep.worker(gctx, descCh, resCh)
		})
	}

	g.Go(func() error {
		return ep.merge(gctx, resCh, ep.samples)
	})

	return ep
}

// finish records epoch statistics once the merge stage has drained.
func (ep *epoch) finish(elapsed time.Duration) {
	stats := EpochStats{
		Epoch:       ep.num,
		Descriptors: ep.fed.Load(),
		Emitted:     ep.emitted,
		Dropped:     ep.droppedCount,
		Errored:     ep.errored,
		DroppedSeqs: ep.dropped,
		Duration:    elapsed,
	}
	ep.r.opts.metrics.RecordEpoch(stats)
	ep.r.opts.logger.LogEpochEnd(stats)
}
