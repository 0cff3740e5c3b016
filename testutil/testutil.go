// Package testutil synthesizes on-disk datasets for tests: binary
// feature/label files, their description files and the manifest pair.
package testutil

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// BlockSpec describes one synthetic block: per-sample frame counts and the
// feature dimension shared by all its samples.
type BlockSpec struct {
	Frames []int
	Dim    int
}

// Dataset points at a synthesized dataset on disk.
type Dataset struct {
	Dir             string
	FeatureManifest string // blob name relative to Dir
	LabelManifest   string
	TotalSamples    int
}

// FeatureValue returns the deterministic feature value written at the
// given position, so tests can verify decoded content without re-reading
// files.
func FeatureValue(block, sample, frame, dim int) float32 {
	return float32(block*100000+sample*1000+frame*10+dim) / 8
}

// LabelValue returns the deterministic label written for a frame.
func LabelValue(block, sample, frame int) uint32 {
	return uint32(block*1000 + sample*100 + frame)
}

// WriteDataset writes one binary/description file quartet per block plus
// the two manifests under dir. Blob names in the manifests are relative to
// dir, matching a blobstore rooted there.
func WriteDataset(dir string, blocks []BlockSpec) (*Dataset, error) {
	ds := &Dataset{
		Dir:             dir,
		FeatureManifest: "feat.list",
		LabelManifest:   "label.list",
	}

	var featManifest, labelManifest strings.Builder
	for b, spec := range blocks {
		featBin := fmt.Sprintf("feat%d.bin", b)
		featDesc := fmt.Sprintf("feat%d.desc", b)
		labelBin := fmt.Sprintf("label%d.bin", b)
		labelDesc := fmt.Sprintf("label%d.desc", b)

		if err := writeBlock(dir, b, spec, featBin, featDesc, labelBin, labelDesc); err != nil {
			return nil, err
		}

		fmt.Fprintf(&featManifest, "%s\n%s\n", featBin, featDesc)
		fmt.Fprintf(&labelManifest, "%s\n%s\n", labelBin, labelDesc)
		ds.TotalSamples += len(spec.Frames)
	}

	if err := os.WriteFile(filepath.Join(dir, ds.FeatureManifest), []byte(featManifest.String()), 0o644); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, ds.LabelManifest), []byte(labelManifest.String()), 0o644); err != nil {
		return nil, err
	}
	return ds, nil
}

func writeBlock(dir string, block int, spec BlockSpec, featBin, featDesc, labelBin, labelDesc string) error {
	var featBuf, labelBuf []byte
	var featDescBuf, labelDescBuf strings.Builder

	fmt.Fprintf(&featDescBuf, "feature %d\n", len(spec.Frames))
	fmt.Fprintf(&labelDescBuf, "label %d\n", len(spec.Frames))

	for s, frames := range spec.Frames {
		featStart := len(featBuf)
		for f := 0; f < frames; f++ {
			for d := 0; d < spec.Dim; d++ {
				featBuf = binary.LittleEndian.AppendUint32(featBuf, math.Float32bits(FeatureValue(block, s, f, d)))
			}
		}
		featSize := len(featBuf) - featStart
		fmt.Fprintf(&featDescBuf, "%d utt%d_%d %d %d %d %d\n", s, block, s, featStart, featSize, frames, spec.Dim)

		labelStart := len(labelBuf)
		for f := 0; f < frames; f++ {
			labelBuf = binary.LittleEndian.AppendUint32(labelBuf, LabelValue(block, s, f))
		}
		labelSize := len(labelBuf) - labelStart
		fmt.Fprintf(&labelDescBuf, "%d utt%d_%d %d %d %d\n", s, block, s, labelStart, labelSize, frames)
	}

	files := []struct {
		name string
		data []byte
	}{
		{featBin, featBuf},
		{featDesc, []byte(featDescBuf.String())},
		{labelBin, labelBuf},
		{labelDesc, []byte(labelDescBuf.String())},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), f.data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
