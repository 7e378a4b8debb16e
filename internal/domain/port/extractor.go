package port

import "context"

// FrameSet is the outcome of sampling one video. FramePaths are in ascending
// frame-index order; an empty set (video shorter than one interval) is valid.
type FrameSet struct {
	Dir           string
	FramePaths    []string
	FrameCount    int
	VideoDuration float64
}

type FrameExtractor interface {
	ExtractFrames(ctx context.Context, videoPath string, framesDir string, interval float64) (*FrameSet, error)
}
