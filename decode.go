package datafeed

import (
	"encoding/binary"
	"math"

	"github.com/featio/datafeed/index"
)

// decodeSample turns raw feature and label bytes into a Sample. Byte-size
// vs shape consistency is validated here rather than at index parse time,
// keeping parsing cheap.
func decodeSample(info index.SampleInfo, featBytes, labelBytes []byte) (*Sample, error) {
	if int64(len(featBytes)) != info.ExpectedFeatureSize() {
		return nil, &DecodeError{
			Blob: info.FeatureBin,
			What: "feature",
			Want: info.ExpectedFeatureSize(),
			Got:  int64(len(featBytes)),
		}
	}
	if int64(len(labelBytes)) != info.ExpectedLabelSize() {
		return nil, &DecodeError{
			Blob: info.LabelBin,
			What: "label",
			Want: info.ExpectedLabelSize(),
			Got:  int64(len(labelBytes)),
		}
	}

	features := make([]float32, info.FeatureFrames*info.FeatureDim)
	for i := range features {
		features[i] = math.Float32frombits(binary.LittleEndian.Uint32(featBytes[i*4:]))
	}

	labels := make([]int64, info.LabelFrames)
	for i := range labels {
		labels[i] = int64(binary.LittleEndian.Uint32(labelBytes[i*4:]))
	}

	return &Sample{
		Features: features,
		Labels:   labels,
		Frames:   info.FeatureFrames,
		Dim:      info.FeatureDim,
	}, nil
}
