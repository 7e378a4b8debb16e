package usecase

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/evany413/OCR-compare/internal/domain/entity"
	"github.com/evany413/OCR-compare/internal/domain/port"
	"github.com/evany413/OCR-compare/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ProcessVideoUseCase struct {
	repo       port.JobRepository
	extractor  port.FrameExtractor
	aggregator *Aggregator
	logger     *zap.Logger
}

func NewProcessVideoUseCase(
	extractor port.FrameExtractor,
	aggregator *Aggregator,
	repo port.JobRepository,
	logger *zap.Logger,
) *ProcessVideoUseCase {
	return &ProcessVideoUseCase{
		repo:       repo,
		extractor:  extractor,
		aggregator: aggregator,
		logger:     logger,
	}
}

// Execute runs one video job through extraction and aggregation. The frames
// directory is removed on every outcome unless the job runs in debug mode;
// a result file, once written, always survives.
func (uc *ProcessVideoUseCase) Execute(ctx context.Context, job *entity.Job, engine port.Engine) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ProcessVideoUseCase.Execute")
	defer span.End()

	span.SetAttributes(
		attribute.String("job.id", job.ID.String()),
		attribute.String("job.video", job.VideoPath),
	)

	log := uc.logger.With(zap.String("job_id", job.ID.String()), zap.String("video", job.VideoPath))

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	totalTimer := time.Now()

	job.MarkExtracting()
	uc.saveJob(ctx, job, log)

	exStart := time.Now()
	ctxEx, spanEx := tracer.Start(ctx, "extract_frames")
	frames, err := uc.extractor.ExtractFrames(ctxEx, job.VideoPath, job.FramesDir(), job.Interval)
	spanEx.End()
	if err != nil {
		log.Error("frame extraction failed", zap.Error(err))
		return uc.handleFailure(ctx, job, "extract_frames: "+err.Error(), log)
	}
	metrics.JobStageDuration.WithLabelValues("extract").Observe(time.Since(exStart).Seconds())
	metrics.FramesExtractedTotal.Add(float64(frames.FrameCount))

	job.MarkAggregating(frames.FrameCount, frames.VideoDuration)
	uc.saveJob(ctx, job, log)

	agStart := time.Now()
	ctxAg, spanAg := tracer.Start(ctx, "aggregate_frames")
	rs, err := uc.aggregator.Aggregate(ctxAg, frames, engine, job.ResultPath())
	spanAg.End()
	if err != nil {
		log.Error("frame aggregation failed", zap.Error(err))
		return uc.handleFailure(ctx, job, "aggregate_frames: "+err.Error(), log)
	}
	metrics.JobStageDuration.WithLabelValues("aggregate").Observe(time.Since(agStart).Seconds())

	uc.cleanup(job, log)

	job.MarkSucceeded(rs.Len())
	uc.saveJob(ctx, job, log)

	metrics.JobsProcessedTotal.WithLabelValues("succeeded").Inc()
	metrics.JobStageDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	log.Info("job succeeded",
		zap.Int("frame_count", frames.FrameCount),
		zap.Int("unique_strings", rs.Len()),
		zap.Float64("duration_secs", frames.VideoDuration),
		zap.String("result", job.ResultPath()),
	)

	return nil
}

func (uc *ProcessVideoUseCase) handleFailure(ctx context.Context, job *entity.Job, errMsg string, log *zap.Logger) error {
	uc.cleanup(job, log)
	job.MarkFailed(errMsg)
	uc.saveJob(ctx, job, log)
	metrics.JobsProcessedTotal.WithLabelValues("failed").Inc()
	return errors.New(errMsg)
}

// cleanup removes the job's frames directory unless the job runs in debug
// mode. Removal failures are logged, never raised.
func (uc *ProcessVideoUseCase) cleanup(job *entity.Job, log *zap.Logger) {
	if job.Debug {
		log.Debug("debug mode, retaining frames directory", zap.String("dir", job.FramesDir()))
		return
	}
	if err := os.RemoveAll(job.FramesDir()); err != nil {
		log.Warn("could not remove frames directory",
			zap.String("dir", job.FramesDir()),
			zap.Error(err),
		)
	}
}

// saveJob persists the job's current state. The ledger is best-effort: a
// write failure is logged and the pipeline continues.
func (uc *ProcessVideoUseCase) saveJob(ctx context.Context, job *entity.Job, log *zap.Logger) {
	if uc.repo == nil {
		return
	}
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Warn("could not update job record", zap.Error(err))
	}
}
