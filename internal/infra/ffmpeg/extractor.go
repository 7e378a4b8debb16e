package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/evany413/OCR-compare/internal/domain/entity"
	"github.com/evany413/OCR-compare/internal/domain/port"
	"go.uber.org/zap"
)

type Extractor struct {
	runner Runner
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{runner: execRunner{}, logger: logger}
}

// NewExtractorWithRunner substitutes the decoder, for tests.
func NewExtractorWithRunner(runner Runner, logger *zap.Logger) *Extractor {
	return &Extractor{runner: runner, logger: logger}
}

func (e *Extractor) ExtractFrames(ctx context.Context, videoPath string, framesDir string, interval float64) (*port.FrameSet, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("frame interval must be positive, got %g", interval)
	}
	if _, err := os.Stat(videoPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("video file %s: %w", videoPath, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("stat video file: %w", err)
	}

	duration, err := e.probeDuration(ctx, videoPath)
	if err != nil {
		return nil, err
	}

	totalFrames := int(duration / interval)
	digits := len(strconv.Itoa(totalFrames))

	// Recreate so stale frames from an earlier run cannot leak into the listing.
	if err := os.RemoveAll(framesDir); err != nil {
		return nil, fmt.Errorf("clear frames dir: %w", err)
	}
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create frames dir: %w", err)
	}

	if totalFrames == 0 {
		e.logger.Info("video shorter than one interval, nothing to sample",
			zap.String("video", videoPath),
			zap.Float64("video_duration", duration),
		)
		return &port.FrameSet{Dir: framesDir, VideoDuration: duration}, nil
	}

	spec := SampleSpec{
		Input:         videoPath,
		Interval:      interval,
		StartNumber:   0,
		MaxFrames:     totalFrames,
		OutputPattern: filepath.Join(framesDir, "%0"+strconv.Itoa(digits)+"d.jpg"),
	}
	output, err := e.runner.CombinedOutput(ctx, ffmpegBin, spec.Args()...)
	if err != nil {
		if rmErr := os.RemoveAll(framesDir); rmErr != nil {
			e.logger.Warn("could not remove frames dir after failed extraction",
				zap.String("dir", framesDir),
				zap.Error(rmErr),
			)
		}
		return nil, &entity.ExtractionError{Video: videoPath, Output: strings.TrimSpace(string(output)), Err: err}
	}

	frames, err := listFrames(framesDir)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}

	e.logger.Info("frames extracted",
		zap.String("video", videoPath),
		zap.Int("count", len(frames)),
		zap.Float64("video_duration", duration),
	)

	return &port.FrameSet{
		Dir:           framesDir,
		FramePaths:    frames,
		FrameCount:    len(frames),
		VideoDuration: duration,
	}, nil
}

func (e *Extractor) probeDuration(ctx context.Context, videoPath string) (float64, error) {
	output, err := e.runner.Output(ctx, ffprobeBin, ProbeSpec{Input: videoPath}.Args()...)
	if err != nil {
		out := strings.TrimSpace(string(output))
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out = strings.TrimSpace(string(exitErr.Stderr))
		}
		return 0, &entity.ExtractionError{Video: videoPath, Output: out, Err: fmt.Errorf("ffprobe: %w", err)}
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, &entity.ExtractionError{Video: videoPath, Err: fmt.Errorf("parse duration %q: %w", durationStr, err)}
	}
	return duration, nil
}

// listFrames returns the frame files in dir ordered by frame index.
func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type frame struct {
		index int
		path  string
	}
	frames := make([]frame, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ".jpg" {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSuffix(name, ".jpg"))
		if err != nil {
			continue
		}
		frames = append(frames, frame{index: index, path: filepath.Join(dir, name)})
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].index < frames[j].index })

	paths := make([]string, len(frames))
	for i, f := range frames {
		paths[i] = f.path
	}
	return paths, nil
}
