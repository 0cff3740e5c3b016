package datafeed

import (
	"context"
	"time"

	"github.com/featio/datafeed/internal/queue"
)

// merge restores strict feeder order from out-of-order worker completions.
//
// Workers emit exactly one result per sequence number, so a min-heap plus a
// next-expected counter suffices: buffered results are bounded by the
// worker count plus the result channel capacity, and every gap is
// guaranteed to fill. The frame-length drop policy applies here, after
// ordering, so a dropped sample still consumes its sequence slot and the
// relative order of survivors is preserved.
func (ep *epoch) merge(ctx context.Context, resCh <-chan result, sampleCh chan<- *Sample) error {
	defer close(sampleCh)
	r := ep.r

	pending := queue.NewReorder[result](r.opts.workerCount)
	next := uint64(0)

	deliver := func(res result) error {
		switch {
		case res.err != nil:
			// Already logged at the worker; keep the stream going.
			ep.errored++
		case res.sample.Frames > r.opts.dropFrameLen:
			ep.dropped.Add(res.seq)
			ep.droppedCount++
			r.opts.logger.LogDrop(res.seq, res.sample.Frames, r.opts.dropFrameLen)
		default:
			select {
			case sampleCh <- res.sample:
				ep.emitted++
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}

	for res := range resCh {
		if res.seq != next {
			pending.Push(queue.Item[result]{Seq: res.seq, Value: res})
			continue
		}
		if err := deliver(res); err != nil {
			return err
		}
		next++
		for {
			seq, ok := pending.Min()
			if !ok || seq != next {
				break
			}
			it, _ := pending.Pop()
			if err := deliver(it.Value); err != nil {
				return err
			}
			next++
		}
	}

	// The channel closed with results still buffered only if workers were
	// cancelled mid-sequence; emit what is contiguous and let the group
	// error surface.
	for {
		seq, ok := pending.Min()
		if !ok || seq != next {
			break
		}
		it, _ := pending.Pop()
		if err := deliver(it.Value); err != nil {
			return err
		}
		next++
	}

	ep.finish(time.Since(ep.started))
	return nil
}
