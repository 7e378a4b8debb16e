package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/evany413/OCR-compare/internal/domain/entity"
	"github.com/evany413/OCR-compare/internal/domain/port"
	"github.com/evany413/OCR-compare/internal/infra/config"
	"github.com/evany413/OCR-compare/internal/infra/ffmpeg"
	"github.com/evany413/OCR-compare/internal/infra/fsutil"
	"github.com/evany413/OCR-compare/internal/infra/metrics"
	"github.com/evany413/OCR-compare/internal/infra/ocr"
	"github.com/evany413/OCR-compare/internal/infra/sqlite"
	"github.com/evany413/OCR-compare/internal/infra/tracing"
	"github.com/evany413/OCR-compare/internal/usecase"
	"github.com/evany413/OCR-compare/pkg/logger"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "ocr-compare",
		Usage: "Extract frames from every video under a directory and aggregate recognized text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Root directory to scan for videos",
				Value: ".",
			},
			&cli.Float64Flag{
				Name:    "frame_gap",
				Aliases: []string{"fg"},
				Usage:   "Seconds between sampled frames",
				Value:   5,
			},
			&cli.StringFlag{
				Name:  "ocr",
				Usage: "OCR backend: paddle or easyocr",
				Value: "paddle",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Retain frame directories and log at debug level",
			},
			&cli.IntFlag{
				Name:  "threads",
				Usage: "Number of videos processed concurrently",
				Value: 5,
			},
		},
		Action: run,
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		stdlog.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	interval := cmd.Float64("frame_gap")
	if interval <= 0 {
		return cli.Exit("frame_gap must be greater than zero", 1)
	}
	threads := int(cmd.Int("threads"))
	if threads <= 0 {
		return cli.Exit("threads must be greater than zero", 1)
	}
	engineKind := cmd.String("ocr")
	if err := ocr.ValidateKind(engineKind); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	root := cmd.String("dir")
	debug := cmd.Bool("debug")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log, sink, err := logger.NewQueued(os.Stderr, level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer sink.Close()

	log.Info("starting ocr-compare",
		zap.String("dir", root),
		zap.String("engine", engineKind),
		zap.Float64("frame_gap", interval),
		zap.Int("threads", threads),
	)

	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return cli.Exit("directory does not exist: "+root, 1)
		}
		return fmt.Errorf("stat dir: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	// Tracing (non-fatal if the collector is unavailable)
	if cfg.OTLPEndpoint != "" {
		tp, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint)
		if err != nil {
			log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
		} else {
			defer tp.Shutdown(context.Background())
		}
	}

	// Metrics server
	if cfg.MetricsAddr != "" {
		srv := metrics.StartMetricsServer(ctx, cfg.MetricsAddr, log)
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	// Job history ledger (best-effort)
	var repo port.JobRepository
	if cfg.HistoryEnabled {
		path := cfg.HistoryDB
		if path == "" {
			path = filepath.Join(root, "ocr_output", "history.db")
		}
		r, err := sqlite.NewJobRepository(path)
		if err != nil {
			log.Warn("history ledger unavailable, continuing without it", zap.Error(err))
		} else {
			defer r.Close()
			repo = r
		}
	}

	extractor := ffmpeg.NewExtractor(log)
	aggregator := usecase.NewAggregator(fsutil.NewResultWriter(), cfg.ConfidenceThreshold, log)
	processor := usecase.NewProcessVideoUseCase(extractor, aggregator, repo, log)
	factory := ocr.Factory(engineKind, ocr.Config{
		Languages:     cfg.OCRLanguages,
		AngleLanguage: cfg.OCRAngleLanguage,
	})
	coordinator := usecase.NewCoordinator(processor, factory, repo, threads, log)

	summary, err := coordinator.Run(ctx, root, interval, engineKind, debug)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return cli.Exit(err.Error(), 1)
		}
		return err
	}

	log.Info("ocr-compare finished",
		zap.Int("videos", summary.Discovered),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)
	return nil
}
