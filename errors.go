package datafeed

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by New when an option value is out of range.
var ErrInvalidConfig = errors.New("datafeed: invalid configuration")

// DecodeError indicates that a sample's declared byte size is inconsistent
// with its declared shape, or that decoding produced the wrong number of
// elements. It is raised inside workers, not at index parse time.
type DecodeError struct {
	Blob string // binary file the sample lives in
	What string // "feature" or "label"
	Want int64  // bytes implied by the declared shape
	Got  int64  // declared or actual bytes
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("datafeed: decode %s %s: shape implies %d bytes, got %d", e.Blob, e.What, e.Want, e.Got)
}

// SampleError wraps a failure while loading one sample, carrying the
// sequence number for diagnostics.
//
// The underlying error can be accessed via errors.Unwrap.
type SampleError struct {
	Seq   uint64
	cause error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("datafeed: sample %d: %v", e.Seq, e.cause)
}

func (e *SampleError) Unwrap() error { return e.cause }
