package ffmpeg

import (
	"context"
	"os/exec"
	"strconv"
)

const (
	ffmpegBin  = "ffmpeg"
	ffprobeBin = "ffprobe"
)

// ProbeSpec renders the ffprobe invocation that reports a container's
// duration in seconds on stdout.
type ProbeSpec struct {
	Input string
}

func (p ProbeSpec) Args() []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		p.Input,
	}
}

// SampleSpec renders the ffmpeg invocation that samples one frame every
// Interval seconds into OutputPattern. The scale filter applies the source's
// sample aspect ratio so anamorphic inputs come out with square pixels.
type SampleSpec struct {
	Input         string
	Interval      float64
	StartNumber   int
	MaxFrames     int
	OutputPattern string
}

func (s SampleSpec) Args() []string {
	interval := strconv.FormatFloat(s.Interval, 'f', -1, 64)
	return []string{
		"-i", s.Input,
		"-vf", "fps=1/" + interval + ",scale=iw*sar:ih",
		"-frames:v", strconv.Itoa(s.MaxFrames),
		"-start_number", strconv.Itoa(s.StartNumber),
		"-y",
		s.OutputPattern,
	}
}

// Runner executes decode-tool commands. Tests substitute a fake so the
// extractor can run without ffmpeg installed.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (execRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
