package entity

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusCreated     JobStatus = "CREATED"
	JobStatusExtracting  JobStatus = "EXTRACTING"
	JobStatusAggregating JobStatus = "AGGREGATING"
	JobStatusSucceeded   JobStatus = "SUCCEEDED"
	JobStatusFailed      JobStatus = "FAILED"
)

type Job struct {
	ID            uuid.UUID
	VideoPath     string
	Interval      float64
	Engine        string
	Debug         bool
	Status        JobStatus
	FrameCount    int
	UniqueStrings int
	VideoDuration float64
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

func NewJob(videoPath string, interval float64, engine string, debug bool) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        uuid.New(),
		VideoPath: videoPath,
		Interval:  interval,
		Engine:    engine,
		Debug:     debug,
		Status:    JobStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (j *Job) MarkExtracting() {
	j.Status = JobStatusExtracting
	j.UpdatedAt = time.Now().UTC()
}

func (j *Job) MarkAggregating(frameCount int, duration float64) {
	j.Status = JobStatusAggregating
	j.FrameCount = frameCount
	j.VideoDuration = duration
	j.UpdatedAt = time.Now().UTC()
}

func (j *Job) MarkSucceeded(uniqueStrings int) {
	now := time.Now().UTC()
	j.Status = JobStatusSucceeded
	j.UniqueStrings = uniqueStrings
	j.UpdatedAt = now
	j.CompletedAt = &now
}

func (j *Job) MarkFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMessage = errMsg
	j.UpdatedAt = time.Now().UTC()
}

// Stem is the video file name without its extension.
func (j *Job) Stem() string {
	base := filepath.Base(j.VideoPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputDir is the shared output directory next to the video.
func (j *Job) OutputDir() string {
	return filepath.Join(filepath.Dir(j.VideoPath), "ocr_output")
}

// FramesDir is the job's exclusive scratch directory for extracted frames.
func (j *Job) FramesDir() string {
	return filepath.Join(j.OutputDir(), "frames_"+j.Stem())
}

// ResultPath is where the aggregated text for the video lands.
func (j *Job) ResultPath() string {
	return filepath.Join(j.OutputDir(), "result_"+j.Stem()+".txt")
}
