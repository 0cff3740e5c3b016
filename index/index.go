// Package index locates samples inside a dataset's binary files.
//
// A dataset is a set of blocks. Each block contributes four blobs: a binary
// feature file, a binary label file and one description file for each. A
// description file starts with a header line `<token> <sampleCount>`
// followed by one line per sample whose integer columns give the sample's
// byte range and shape inside the binary file.
package index

import (
	"fmt"
	"strconv"
	"strings"
)

// SampleInfo locates one sample's feature and label bytes.
// Immutable once parsed.
type SampleInfo struct {
	FeatureBin    string
	FeatureStart  int64
	FeatureSize   int64
	FeatureFrames int
	FeatureDim    int

	LabelBin    string
	LabelStart  int64
	LabelSize   int64
	LabelFrames int
}

// ExpectedFeatureSize returns the byte size implied by the declared shape:
// frames × dim × 4 (little-endian float32).
func (s SampleInfo) ExpectedFeatureSize() int64 {
	return int64(s.FeatureFrames) * int64(s.FeatureDim) * 4
}

// ExpectedLabelSize returns the byte size implied by the declared frame
// count: frames × 4 (little-endian uint32).
func (s SampleInfo) ExpectedLabelSize() int64 {
	return int64(s.LabelFrames) * 4
}

// FormatError reports a malformed manifest or description file.
type FormatError struct {
	Path   string
	Line   int // 1-based; 0 when the error is not tied to a line
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("index: %s:%d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("index: %s: %s", e.Path, e.Reason)
}

// Column positions within description lines. The leading columns carry
// sample identifiers the loader does not use.
const (
	colStart  = 2
	colSize   = 3
	colFrames = 4
	colDim    = 5

	featureFields = 6
	labelFields   = 5
)

// ParseBlock parses the feature and label description files of one block
// into sample descriptors referencing the block's binary files.
func ParseBlock(block Block, featDesc, labelDesc []byte) ([]SampleInfo, error) {
	featLines := splitLines(featDesc)
	labelLines := splitLines(labelDesc)

	featCount, err := parseHeader(block.FeatureDesc, featLines)
	if err != nil {
		return nil, err
	}
	labelCount, err := parseHeader(block.LabelDesc, labelLines)
	if err != nil {
		return nil, err
	}
	if featCount != labelCount {
		return nil, &FormatError{
			Path:   block.FeatureDesc,
			Reason: fmt.Sprintf("sample count %d disagrees with %s (%d)", featCount, block.LabelDesc, labelCount),
		}
	}
	if len(featLines) < featCount+1 {
		return nil, &FormatError{Path: block.FeatureDesc, Reason: fmt.Sprintf("declares %d samples but has %d data lines", featCount, len(featLines)-1)}
	}
	if len(labelLines) < labelCount+1 {
		return nil, &FormatError{Path: block.LabelDesc, Reason: fmt.Sprintf("declares %d samples but has %d data lines", labelCount, len(labelLines)-1)}
	}

	samples := make([]SampleInfo, 0, featCount)
	for i := 1; i <= featCount; i++ {
		ff, err := parseFields(block.FeatureDesc, i+1, featLines[i], featureFields)
		if err != nil {
			return nil, err
		}
		lf, err := parseFields(block.LabelDesc, i+1, labelLines[i], labelFields)
		if err != nil {
			return nil, err
		}
		samples = append(samples, SampleInfo{
			FeatureBin:    block.FeatureBin,
			FeatureStart:  ff[colStart],
			FeatureSize:   ff[colSize],
			FeatureFrames: int(ff[colFrames]),
			FeatureDim:    int(ff[colDim]),
			LabelBin:      block.LabelBin,
			LabelStart:    lf[colStart],
			LabelSize:     lf[colSize],
			LabelFrames:   int(lf[colFrames]),
		})
	}
	return samples, nil
}

// parseHeader reads the sample count from the first line.
func parseHeader(path string, lines []string) (int, error) {
	if len(lines) == 0 {
		return 0, &FormatError{Path: path, Reason: "empty description file"}
	}
	fields := strings.Fields(lines[0])
	if len(fields) < 2 {
		return 0, &FormatError{Path: path, Line: 1, Reason: "header needs `<token> <sampleCount>`"}
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return 0, &FormatError{Path: path, Line: 1, Reason: fmt.Sprintf("bad sample count %q", fields[1])}
	}
	return n, nil
}

// parseFields splits a data line and parses the integer columns from
// colStart up to `want` fields. The leading identifier columns are not
// interpreted.
func parseFields(path string, lineNo int, line string, want int) ([]int64, error) {
	fields := strings.Fields(line)
	if len(fields) < want {
		return nil, &FormatError{Path: path, Line: lineNo, Reason: fmt.Sprintf("expected %d fields, got %d", want, len(fields))}
	}
	out := make([]int64, want)
	for i := colStart; i < want; i++ {
		v, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			return nil, &FormatError{Path: path, Line: lineNo, Reason: fmt.Sprintf("bad integer field %q", fields[i])}
		}
		if v < 0 {
			return nil, &FormatError{Path: path, Line: lineNo, Reason: fmt.Sprintf("negative field %d", v)}
		}
		out[i] = v
	}
	return out, nil
}

func splitLines(data []byte) []string {
	raw := strings.Split(string(data), "\n")
	lines := raw[:0]
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
