package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ocrcompare_jobs_processed_total",
		Help: "Total number of video jobs processed, by status",
	}, []string{"status"})

	JobStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ocrcompare_job_stage_duration_seconds",
		Help:    "Duration of video job pipeline stages",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	FramesExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ocrcompare_frames_extracted_total",
		Help: "Total number of frames extracted across all jobs",
	})

	DetectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ocrcompare_detections_total",
		Help: "Total number of OCR detections, by threshold outcome",
	}, []string{"outcome"})

	RecognitionErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ocrcompare_recognition_errors_total",
		Help: "Total number of frames skipped due to recognition errors",
	})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ocrcompare_active_workers",
		Help: "Number of workers currently processing video jobs",
	})
)
