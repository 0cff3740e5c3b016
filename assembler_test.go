package datafeed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildBatch(t *testing.T) {
	samples := []*Sample{
		{Seq: 0, Features: []float32{1, 2, 3, 4}, Labels: []int64{10, 11}, Frames: 2, Dim: 2},
		{Seq: 1, Features: []float32{5, 6}, Labels: []int64{12}, Frames: 1, Dim: 2},
	}
	lod := []int{0, 2, 3}

	b, err := buildBatch(samples, lod)
	require.NoError(t, err)

	require.Equal(t, []float32{1, 2, 3, 4, 5, 6}, b.Features)
	require.Equal(t, []int64{10, 11, 12}, b.Labels)
	require.Equal(t, []int{0, 2, 3}, b.Lod)
	require.Equal(t, 2, b.Dim)
	require.Equal(t, 2, b.Samples())
	require.Equal(t, 3, b.Rows())
	require.Equal(t, 1, b.FrameCount(1))

	// The batch owns its lod; mutating the input must not alias.
	lod[1] = 99
	require.Equal(t, 2, b.Lod[1])
}

func TestBuildBatchMixedDimensions(t *testing.T) {
	samples := []*Sample{
		{Features: []float32{1, 2}, Labels: []int64{0}, Frames: 1, Dim: 2},
		{Features: []float32{3, 4, 5}, Labels: []int64{1}, Frames: 1, Dim: 3},
	}
	_, err := buildBatch(samples, []int{0, 1, 2})
	require.Error(t, err)
}
