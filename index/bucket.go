package index

import (
	"context"
	"fmt"

	"github.com/featio/datafeed/blobstore"
)

// Block names the four blobs one data block is made of.
type Block struct {
	FeatureBin  string
	FeatureDesc string
	LabelBin    string
	LabelDesc   string
}

// Bucket groups consecutive blocks. It is the unit of coarse-grained
// shuffling: block order is permuted before grouping, sample order within a
// bucket is shuffled by the feeder. Descriptors are expanded on demand so
// resident memory stays proportional to one bucket, not the dataset.
type Bucket struct {
	Blocks []Block
}

// Samples expands the bucket into sample descriptors by parsing the
// description files of every block, in block order.
func (b Bucket) Samples(ctx context.Context, store blobstore.Store) ([]SampleInfo, error) {
	var samples []SampleInfo
	for _, block := range b.Blocks {
		featDesc, err := blobstore.ReadAll(ctx, store, block.FeatureDesc)
		if err != nil {
			return nil, fmt.Errorf("index: read %s: %w", block.FeatureDesc, err)
		}
		labelDesc, err := blobstore.ReadAll(ctx, store, block.LabelDesc)
		if err != nil {
			return nil, fmt.Errorf("index: read %s: %w", block.LabelDesc, err)
		}
		parsed, err := ParseBlock(block, featDesc, labelDesc)
		if err != nil {
			return nil, err
		}
		samples = append(samples, parsed...)
	}
	return samples, nil
}

// Shuffler permutes n elements via swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// LoadManifests reads the feature and label manifest blobs and pairs them
// into blocks. Each manifest alternates a binary-file path and its matching
// description-file path, two lines per block; line counts must be even and
// equal across the two manifests.
func LoadManifests(ctx context.Context, store blobstore.Store, featManifest, labelManifest string) ([]Block, error) {
	featData, err := blobstore.ReadAll(ctx, store, featManifest)
	if err != nil {
		return nil, fmt.Errorf("index: read %s: %w", featManifest, err)
	}
	labelData, err := blobstore.ReadAll(ctx, store, labelManifest)
	if err != nil {
		return nil, fmt.Errorf("index: read %s: %w", labelManifest, err)
	}

	featLines := splitLines(featData)
	labelLines := splitLines(labelData)

	if len(featLines) != len(labelLines) {
		return nil, &FormatError{
			Path:   featManifest,
			Reason: fmt.Sprintf("%d lines but %s has %d", len(featLines), labelManifest, len(labelLines)),
		}
	}
	if len(featLines) == 0 {
		return nil, &FormatError{Path: featManifest, Reason: "empty manifest"}
	}
	if len(featLines)%2 != 0 {
		return nil, &FormatError{Path: featManifest, Reason: fmt.Sprintf("odd line count %d, expected (binary, description) pairs", len(featLines))}
	}

	blocks := make([]Block, 0, len(featLines)/2)
	for i := 0; i < len(featLines); i += 2 {
		blocks = append(blocks, Block{
			FeatureBin:  featLines[i],
			FeatureDesc: featLines[i+1],
			LabelBin:    labelLines[i],
			LabelDesc:   labelLines[i+1],
		})
	}
	return blocks, nil
}

// BuildBuckets permutes block order with the supplied shuffler, then groups
// consecutive runs of blocksPerBucket. The grouping itself is deterministic
// and order-preserving; only the block permutation varies per epoch. The
// input slice is not modified.
func BuildBuckets(blocks []Block, blocksPerBucket int, shuffler Shuffler) []Bucket {
	if blocksPerBucket <= 0 {
		blocksPerBucket = 1
	}

	shuffled := make([]Block, len(blocks))
	copy(shuffled, blocks)
	if shuffler != nil {
		shuffler.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	}

	buckets := make([]Bucket, 0, (len(shuffled)+blocksPerBucket-1)/blocksPerBucket)
	for i := 0; i < len(shuffled); i += blocksPerBucket {
		end := i + blocksPerBucket
		if end > len(shuffled) {
			end = len(shuffled)
		}
		buckets = append(buckets, Bucket{Blocks: shuffled[i:end]})
	}
	return buckets
}
