package datafeed

import (
	"context"
	"time"

	"github.com/featio/datafeed/blobstore"
	"github.com/featio/datafeed/index"
)

// result is one unit of completed worker output. Exactly one result is
// produced per sequence number, successful or not, so the reorder stage
// always sees a contiguous sequence space.
type result struct {
	seq    uint64
	sample *Sample
	err    error
}

// worker drains the descriptor channel, loading samples in parallel with
// its siblings. Results go to the unordered result channel; ordering is
// restored downstream.
func (ep *epoch) worker(ctx context.Context, descCh <-chan orderedUnit, resCh chan<- result) error {
	r := ep.r
	for unit := range descCh {
		start := time.Now()
		sample, err := ep.loadSample(ctx, unit.info)
		r.opts.metrics.RecordSample(time.Since(start), err)

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			err = &SampleError{Seq: unit.seq, cause: err}
			if r.opts.failFast {
				return err
			}
			r.opts.logger.LogSampleError(unit.seq, err)
		} else {
			sample.Seq = unit.seq
		}

		select {
		case resCh <- result{seq: unit.seq, sample: sample, err: err}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// loadSample reads, decodes and transforms one sample. Blobs are opened and
// closed per access, so workers never share file handles or seek state.
func (ep *epoch) loadSample(ctx context.Context, info index.SampleInfo) (*Sample, error) {
	r := ep.r
	total := info.FeatureSize + info.LabelSize

	if c := r.opts.controller; c != nil {
		if err := c.WaitIO(ctx, total); err != nil {
			return nil, err
		}
		if err := c.AcquireMemory(ctx, total); err != nil {
			return nil, err
		}
		defer c.ReleaseMemory(total)
	}

	featBytes, err := blobstore.ReadRange(ctx, r.opts.store, info.FeatureBin, info.FeatureStart, info.FeatureSize)
	if err != nil {
		return nil, err
	}
	labelBytes, err := blobstore.ReadRange(ctx, r.opts.store, info.LabelBin, info.LabelStart, info.LabelSize)
	if err != nil {
		return nil, err
	}

	sample, err := decodeSample(info, featBytes, labelBytes)
	if err != nil {
		return nil, err
	}

	for _, tr := range r.opts.transforms {
		if err := tr.Apply(sample); err != nil {
			return nil, err
		}
	}
	return sample, nil
}
