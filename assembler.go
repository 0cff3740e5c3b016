package datafeed

import (
	"context"
	"fmt"
)

// assemble concatenates the ordered sample stream into batches of
// batchSize samples. At end of stream a final partial batch is emitted only
// if it holds at least minBatchSize samples; a smaller remainder is
// discarded.
func (ep *epoch) assemble(ctx context.Context, sampleCh <-chan *Sample, batchCh chan<- *Batch, batchSize, minBatchSize int) error {
	defer close(batchCh)
	r := ep.r

	pending := make([]*Sample, 0, batchSize)
	lod := make([]int, 1, batchSize+1)

	flush := func() error {
		batch, err := buildBatch(pending, lod)
		if err != nil {
			return err
		}
		select {
		case batchCh <- batch:
		case <-ctx.Done():
			return ctx.Err()
		}
		r.opts.metrics.RecordBatch(batch.Samples(), batch.Rows())
		pending = pending[:0]
		lod = lod[:1]
		return nil
	}

	for sample := range sampleCh {
		pending = append(pending, sample)
		lod = append(lod, lod[len(lod)-1]+sample.Frames)
		if len(pending) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	// A cancelled epoch closes the sample channel early; its remainder is
	// not a real end-of-epoch flush.
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(pending) > 0 && len(pending) >= minBatchSize {
		return flush()
	}
	return nil
}

// buildBatch stacks samples row-major in arrival order. All samples in a
// batch must share one feature dimension.
func buildBatch(samples []*Sample, lod []int) (*Batch, error) {
	rows := lod[len(lod)-1]
	dim := samples[0].Dim

	features := make([]float32, rows*dim)
	labels := make([]int64, rows)

	for i, s := range samples {
		if s.Dim != dim {
			return nil, fmt.Errorf("datafeed: batch mixes feature dimensions %d and %d (sample %d)", dim, s.Dim, s.Seq)
		}
		start := lod[i]
		copy(features[start*dim:], s.Features)
		copy(labels[start:], s.Labels)
	}

	return &Batch{
		Features: features,
		Labels:   labels,
		Lod:      append([]int(nil), lod...),
		Dim:      dim,
	}, nil
}
