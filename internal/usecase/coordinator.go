package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/evany413/OCR-compare/internal/domain/entity"
	"github.com/evany413/OCR-compare/internal/domain/port"
	"github.com/evany413/OCR-compare/internal/infra/discovery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Coordinator discovers videos under a root directory and processes them
// through a bounded worker pool. Each worker owns one OCR engine instance
// for its whole job stream.
type Coordinator struct {
	processor *ProcessVideoUseCase
	newEngine port.EngineFactory
	repo      port.JobRepository
	logger    *zap.Logger
	workers   int
}

func NewCoordinator(
	processor *ProcessVideoUseCase,
	newEngine port.EngineFactory,
	repo port.JobRepository,
	workers int,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		processor: processor,
		newEngine: newEngine,
		repo:      repo,
		logger:    logger,
		workers:   workers,
	}
}

// Run processes every video under root. A failed job is counted and logged
// without stopping its siblings; the error return is reserved for conditions
// that invalidate the whole run, such as a missing root, an engine that
// cannot be constructed, or cancellation.
func (c *Coordinator) Run(ctx context.Context, root string, interval float64, engineKind string, debug bool) (*entity.RunSummary, error) {
	videos, err := discovery.FindVideos(root, c.logger)
	if err != nil {
		if errors.Is(err, entity.ErrEmptyInput) {
			c.logger.Info("no video files found", zap.String("root", root))
			return &entity.RunSummary{}, nil
		}
		return nil, err
	}

	c.logger.Info("starting worker pool",
		zap.Int("workers", c.workers),
		zap.Int("videos", len(videos)),
		zap.String("root", root),
	)

	jobs := make(chan *entity.Job)
	var succeeded, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for _, video := range videos {
			job := entity.NewJob(video, interval, engineKind, debug)
			if c.repo != nil {
				if err := c.repo.Create(ctx, job); err != nil {
					c.logger.Warn("could not create job record",
						zap.String("video", video),
						zap.Error(err),
					)
				}
			}
			select {
			case jobs <- job:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < c.workers; i++ {
		workerID := i
		g.Go(func() error {
			engine, err := c.newEngine()
			if err != nil {
				return fmt.Errorf("construct ocr engine: %w", err)
			}
			defer engine.Close()

			log := c.logger.With(zap.Int("worker_id", workerID))
			log.Debug("worker started")

			for job := range jobs {
				if err := c.processor.Execute(ctx, job, engine); err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					failed.Add(1)
					log.Warn("job failed",
						zap.String("video", job.VideoPath),
						zap.Error(err),
					)
					continue
				}
				succeeded.Add(1)
			}
			return nil
		})
	}

	runErr := g.Wait()

	summary := &entity.RunSummary{
		Discovered: len(videos),
		Succeeded:  int(succeeded.Load()),
		Failed:     int(failed.Load()),
	}

	c.logger.Info("run finished",
		zap.Int("discovered", summary.Discovered),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)

	return summary, runErr
}
