package entity

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a missing input: the scan root, a video file, or a
// ledger row.
var ErrNotFound = errors.New("not found")

// ErrEmptyInput reports that a scan produced nothing to process.
var ErrEmptyInput = errors.New("no input to process")

// ExtractionError is a decode-tool failure for one video. Output carries the
// tool's combined stdout/stderr for diagnosis.
type ExtractionError struct {
	Video  string
	Output string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("extract frames from %s: %v", e.Video, e.Err)
	}
	return fmt.Sprintf("extract frames from %s: %v: %s", e.Video, e.Err, e.Output)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// RecognitionError is an OCR failure on one frame image.
type RecognitionError struct {
	Frame string
	Err   error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("recognize %s: %v", e.Frame, e.Err)
}

func (e *RecognitionError) Unwrap() error { return e.Err }
