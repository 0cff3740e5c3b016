package datafeed

// Sample is one decoded (features, labels) pair. Features hold Frames×Dim
// float32 values in row-major order; Labels hold one int64 per frame.
// Ownership transfers along the pipeline, a sample is never mutated after
// hand-off.
type Sample struct {
	// Seq is the sequence number assigned at feed time. It defines the
	// sample's position in the epoch's global order.
	Seq uint64

	Features []float32
	Labels   []int64
	Frames   int
	Dim      int
}

// Frame returns the feature row for one frame.
func (s *Sample) Frame(i int) []float32 {
	return s.Features[i*s.Dim : (i+1)*s.Dim]
}

// Transform is a pure per-sample transformation applied by workers after
// decoding, e.g. mean/variance normalization or delta augmentation. Apply
// may modify the sample in place or replace its buffers; it must not keep
// state across samples, since samples arrive on arbitrary workers in
// arbitrary order.
type Transform interface {
	Apply(s *Sample) error
}

// Batch is a group of samples concatenated row-wise. Lod holds cumulative
// frame offsets: len(Lod) == samples+1, Lod[0] == 0, and sample i occupies
// feature rows Lod[i]..Lod[i+1].
type Batch struct {
	Features []float32 // rows × Dim, row-major
	Labels   []int64   // one per row
	Lod      []int
	Dim      int
}

// Samples returns the number of samples in the batch.
func (b *Batch) Samples() int { return len(b.Lod) - 1 }

// Rows returns the total number of frames in the batch.
func (b *Batch) Rows() int { return b.Lod[len(b.Lod)-1] }

// FrameCount returns the frame count of the i-th sample.
func (b *Batch) FrameCount(i int) int { return b.Lod[i+1] - b.Lod[i] }
