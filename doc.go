// Package datafeed streams large disk-resident sequence datasets into
// fixed-size mini-batches for iterative consumption, overlapping disk I/O,
// CPU-bound transformation and batch assembly across parallel workers.
//
// A dataset consists of blocks: binary feature/label files plus side-car
// description files locating each sample, listed by a pair of manifest
// files. Each epoch, block order is shuffled at bucket granularity and
// sample order within each bucket is shuffled again, so shuffle memory
// stays proportional to one bucket rather than the whole dataset.
//
// # Quick start
//
//	r, err := datafeed.New(ctx, "feat.list", "label.list",
//	    datafeed.WithWorkerCount(8),
//	    datafeed.WithDropFrameLen(512),
//	    datafeed.WithRandomSeed(42),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for batch, err := range r.Batches(ctx, 64, 16) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    train(batch.Features, batch.Labels, batch.Lod)
//	}
//
// Each call to Batches or Samples runs one epoch; call again for the next
// epoch, which reshuffles from the evolving seeded generator state.
//
// # Pipeline
//
// A feeder goroutine assigns every sample a contiguous sequence number and
// feeds descriptors to a pool of workers. Workers read byte ranges from the
// configured blob store, decode and transform samples in parallel, and a
// reorder stage reassembles strict feeder order before batch assembly. All
// stages communicate over bounded channels, so memory stays bounded
// regardless of dataset size.
//
// Datasets can live on local disk (optionally memory-mapped or
// zstd/lz4-compressed) or in object storage via the blobstore subpackages.
package datafeed
