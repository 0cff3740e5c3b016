package datafeed

import (
	"context"

	"github.com/featio/datafeed/index"
)

// orderedUnit is a sample descriptor tagged with its sequence number. The
// sequence number is the sole ordering key downstream.
type orderedUnit struct {
	seq  uint64
	info index.SampleInfo
}

// feed walks buckets in (shuffled) bucket order, expands each bucket
// lazily, shuffles its sample list and emits descriptors with contiguous
// sequence numbers starting at 0. Closing the descriptor channel signals
// end of epoch to the workers.
func (ep *epoch) feed(ctx context.Context, buckets []index.Bucket, descCh chan<- orderedUnit) error {
	defer close(descCh)
	r := ep.r

	var seq uint64
	defer func() { ep.fed.Store(seq) }()

	for i, bucket := range buckets {
		infos, err := bucket.Samples(ctx, r.opts.store)
		if err != nil {
			if r.opts.failFast {
				return err
			}
			// Skipping a whole bucket shortens the epoch; sequence
			// numbers stay contiguous because they are assigned on emit.
			r.opts.logger.LogBucketError(i, err)
			continue
		}

		r.rng.Shuffle(len(infos), func(a, b int) {
			infos[a], infos[b] = infos[b], infos[a]
		})

		for _, info := range infos {
			select {
			case descCh <- orderedUnit{seq: seq, info: info}:
				seq++
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}
