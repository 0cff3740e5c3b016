// Package transform provides per-sample feature transformations for the
// loading pipeline: mean/variance normalization and delta-feature
// augmentation. All transforms are stateless across samples and therefore
// safe to run from any worker.
package transform

import (
	"errors"
	"fmt"

	"github.com/featio/datafeed"
)

// ErrDimensionMismatch is returned when a sample's feature dimension does
// not match the transform's configuration.
var ErrDimensionMismatch = errors.New("transform: feature dimension mismatch")

// MeanVarianceNorm normalizes each feature dimension to zero mean and unit
// variance using precomputed global statistics.
type MeanVarianceNorm struct {
	mean []float32
	istd []float32
}

// NewMeanVarianceNorm creates a MeanVarianceNorm from per-dimension mean
// and standard deviation. Dimensions with a near-zero deviation are left
// unscaled rather than exploding.
func NewMeanVarianceNorm(mean, std []float32) (*MeanVarianceNorm, error) {
	if len(mean) != len(std) {
		return nil, fmt.Errorf("transform: mean has %d dims, std has %d", len(mean), len(std))
	}
	const epsilon = 1e-8
	istd := make([]float32, len(std))
	for i, s := range std {
		if s > epsilon {
			istd[i] = 1 / s
		} else {
			istd[i] = 1
		}
	}
	return &MeanVarianceNorm{
		mean: append([]float32(nil), mean...),
		istd: istd,
	}, nil
}

// Apply implements datafeed.Transform.
func (t *MeanVarianceNorm) Apply(s *datafeed.Sample) error {
	if s.Dim != len(t.mean) {
		return fmt.Errorf("%w: have %d, want %d", ErrDimensionMismatch, s.Dim, len(t.mean))
	}
	for f := 0; f < s.Frames; f++ {
		row := s.Features[f*s.Dim : (f+1)*s.Dim]
		for d := range row {
			row[d] = (row[d] - t.mean[d]) * t.istd[d]
		}
	}
	return nil
}

// AddDelta appends first- and second-order delta features to each frame,
// tripling the feature dimension. Deltas use the standard regression
// formula over a window of regressionWindow frames each side, with edge
// frames replicated.
type AddDelta struct {
	window int
}

const defaultRegressionWindow = 2

// NewAddDelta creates an AddDelta with the default regression window of 2.
func NewAddDelta() *AddDelta {
	return &AddDelta{window: defaultRegressionWindow}
}

// NewAddDeltaWindow creates an AddDelta with a custom regression window.
func NewAddDeltaWindow(window int) (*AddDelta, error) {
	if window < 1 {
		return nil, fmt.Errorf("transform: regression window %d, must be >= 1", window)
	}
	return &AddDelta{window: window}, nil
}

// Apply implements datafeed.Transform.
func (t *AddDelta) Apply(s *datafeed.Sample) error {
	if s.Frames == 0 || s.Dim == 0 {
		return nil
	}

	dim := s.Dim
	outDim := dim * 3
	out := make([]float32, s.Frames*outDim)

	delta := t.regress(s.Features, s.Frames, dim)
	accel := t.regress(delta, s.Frames, dim)

	for f := 0; f < s.Frames; f++ {
		dst := out[f*outDim:]
		copy(dst[:dim], s.Features[f*dim:(f+1)*dim])
		copy(dst[dim:2*dim], delta[f*dim:(f+1)*dim])
		copy(dst[2*dim:3*dim], accel[f*dim:(f+1)*dim])
	}

	s.Features = out
	s.Dim = outDim
	return nil
}

// regress computes delta_t = Σ_n n·(c_{t+n} − c_{t−n}) / (2·Σ_n n²), with
// out-of-range frames clamped to the sequence edges.
func (t *AddDelta) regress(in []float32, frames, dim int) []float32 {
	out := make([]float32, frames*dim)

	var norm float32
	for n := 1; n <= t.window; n++ {
		norm += float32(n * n)
	}
	norm *= 2

	clamp := func(f int) int {
		if f < 0 {
			return 0
		}
		if f >= frames {
			return frames - 1
		}
		return f
	}

	for f := 0; f < frames; f++ {
		for d := 0; d < dim; d++ {
			var acc float32
			for n := 1; n <= t.window; n++ {
				fwd := in[clamp(f+n)*dim+d]
				bwd := in[clamp(f-n)*dim+d]
				acc += float32(n) * (fwd - bwd)
			}
			out[f*dim+d] = acc / norm
		}
	}
	return out
}
