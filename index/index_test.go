package index

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/featio/datafeed/blobstore"
)

var testBlock = Block{
	FeatureBin:  "feat.bin",
	FeatureDesc: "feat.desc",
	LabelBin:    "label.bin",
	LabelDesc:   "label.desc",
}

func TestParseBlock(t *testing.T) {
	featDesc := []byte(
		"feature 2\n" +
			"0 utt0 0 80 10 2\n" +
			"1 utt1 80 160 20 2\n")
	labelDesc := []byte(
		"label 2\n" +
			"0 utt0 0 40 10\n" +
			"1 utt1 40 80 20\n")

	samples, err := ParseBlock(testBlock, featDesc, labelDesc)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	require.Equal(t, SampleInfo{
		FeatureBin:    "feat.bin",
		FeatureStart:  80,
		FeatureSize:   160,
		FeatureFrames: 20,
		FeatureDim:    2,
		LabelBin:      "label.bin",
		LabelStart:    40,
		LabelSize:     80,
		LabelFrames:   20,
	}, samples[1])

	require.Equal(t, int64(160), samples[1].ExpectedFeatureSize())
	require.Equal(t, int64(80), samples[1].ExpectedLabelSize())
}

func TestParseBlockErrors(t *testing.T) {
	tests := []struct {
		name      string
		featDesc  string
		labelDesc string
	}{
		{
			name:      "count mismatch",
			featDesc:  "feature 2\n0 u 0 8 1 2\n1 u 8 8 1 2\n",
			labelDesc: "label 1\n0 u 0 4 1\n",
		},
		{
			name:      "short feature line",
			featDesc:  "feature 1\n0 u 0 8\n",
			labelDesc: "label 1\n0 u 0 4 1\n",
		},
		{
			name:      "short label line",
			featDesc:  "feature 1\n0 u 0 8 1 2\n",
			labelDesc: "label 1\n0 u 0\n",
		},
		{
			name:      "bad header",
			featDesc:  "feature\n",
			labelDesc: "label 1\n0 u 0 4 1\n",
		},
		{
			name:      "non-integer field",
			featDesc:  "feature 1\n0 u zero 8 1 2\n",
			labelDesc: "label 1\n0 u 0 4 1\n",
		},
		{
			name:      "missing data lines",
			featDesc:  "feature 3\n0 u 0 8 1 2\n",
			labelDesc: "label 3\n0 u 0 4 1\n",
		},
		{
			name:      "empty file",
			featDesc:  "",
			labelDesc: "label 1\n0 u 0 4 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBlock(testBlock, []byte(tt.featDesc), []byte(tt.labelDesc))
			var fe *FormatError
			require.ErrorAs(t, err, &fe)
		})
	}
}

func TestLoadManifests(t *testing.T) {
	store := blobstore.NewMemoryStore()
	store.Put("feat.list", []byte("f0.bin\nf0.desc\nf1.bin\nf1.desc\n"))
	store.Put("label.list", []byte("l0.bin\nl0.desc\nl1.bin\nl1.desc\n"))

	blocks, err := LoadManifests(context.Background(), store, "feat.list", "label.list")
	require.NoError(t, err)
	require.Equal(t, []Block{
		{FeatureBin: "f0.bin", FeatureDesc: "f0.desc", LabelBin: "l0.bin", LabelDesc: "l0.desc"},
		{FeatureBin: "f1.bin", FeatureDesc: "f1.desc", LabelBin: "l1.bin", LabelDesc: "l1.desc"},
	}, blocks)
}

func TestLoadManifestsErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unequal line counts", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		store.Put("feat.list", []byte("f0.bin\nf0.desc\n"))
		store.Put("label.list", []byte("l0.bin\nl0.desc\nl1.bin\nl1.desc\n"))
		_, err := LoadManifests(ctx, store, "feat.list", "label.list")
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
	})

	t.Run("odd line count", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		store.Put("feat.list", []byte("f0.bin\nf0.desc\nf1.bin\n"))
		store.Put("label.list", []byte("l0.bin\nl0.desc\nl1.bin\n"))
		_, err := LoadManifests(ctx, store, "feat.list", "label.list")
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
	})

	t.Run("missing manifest", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		_, err := LoadManifests(ctx, store, "feat.list", "label.list")
		require.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}

func TestBuildBucketsGrouping(t *testing.T) {
	blocks := make([]Block, 7)
	for i := range blocks {
		blocks[i].FeatureBin = fmt.Sprintf("f%d.bin", i)
	}

	buckets := BuildBuckets(blocks, 3, nil)
	require.Len(t, buckets, 3)
	require.Len(t, buckets[0].Blocks, 3)
	require.Len(t, buckets[1].Blocks, 3)
	require.Len(t, buckets[2].Blocks, 1)

	// Without a shuffler the order is preserved.
	require.Equal(t, "f0.bin", buckets[0].Blocks[0].FeatureBin)
	require.Equal(t, "f6.bin", buckets[2].Blocks[0].FeatureBin)
}

func TestBuildBucketsShuffleDeterministic(t *testing.T) {
	blocks := make([]Block, 16)
	for i := range blocks {
		blocks[i].FeatureBin = fmt.Sprintf("f%d.bin", i)
	}

	a := BuildBuckets(blocks, 2, rand.New(rand.NewSource(7)))
	b := BuildBuckets(blocks, 2, rand.New(rand.NewSource(7)))
	require.Equal(t, a, b)

	c := BuildBuckets(blocks, 2, rand.New(rand.NewSource(8)))
	require.NotEqual(t, a, c)

	// The input slice stays untouched.
	require.Equal(t, "f0.bin", blocks[0].FeatureBin)
}

func TestBucketSamplesLazyExpansion(t *testing.T) {
	store := blobstore.NewMemoryStore()
	store.Put("f0.desc", []byte("feature 1\n0 u 0 8 1 2\n"))
	store.Put("l0.desc", []byte("label 1\n0 u 0 4 1\n"))
	store.Put("f1.desc", []byte("feature 2\n0 u 0 8 1 2\n1 u 8 8 1 2\n"))
	store.Put("l1.desc", []byte("label 2\n0 u 0 4 1\n1 u 4 4 1\n"))

	bucket := Bucket{Blocks: []Block{
		{FeatureBin: "f0.bin", FeatureDesc: "f0.desc", LabelBin: "l0.bin", LabelDesc: "l0.desc"},
		{FeatureBin: "f1.bin", FeatureDesc: "f1.desc", LabelBin: "l1.bin", LabelDesc: "l1.desc"},
	}}

	samples, err := bucket.Samples(context.Background(), store)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	require.Equal(t, "f0.bin", samples[0].FeatureBin)
	require.Equal(t, "f1.bin", samples[1].FeatureBin)
	require.Equal(t, int64(8), samples[2].FeatureStart)
}
