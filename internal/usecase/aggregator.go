package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/evany413/OCR-compare/internal/domain/entity"
	"github.com/evany413/OCR-compare/internal/domain/port"
	"github.com/evany413/OCR-compare/internal/infra/metrics"
	"go.uber.org/zap"
)

// Aggregator folds per-frame OCR detections into one deduplicated ResultSet
// per video and renders it to the result file.
type Aggregator struct {
	writer    port.ResultWriter
	threshold float64
	logger    *zap.Logger
}

func NewAggregator(writer port.ResultWriter, threshold float64, logger *zap.Logger) *Aggregator {
	return &Aggregator{writer: writer, threshold: threshold, logger: logger}
}

// Aggregate recognizes every frame in index order and admits detections
// strictly above the confidence threshold. A frame that fails recognition is
// logged and skipped; only cancellation or an unwritable result file fails
// the video. An empty FrameSet still produces an (empty) result file.
func (a *Aggregator) Aggregate(ctx context.Context, fs *port.FrameSet, engine port.Engine, resultPath string) (*entity.ResultSet, error) {
	rs := entity.NewResultSet()

	for _, frame := range orderByIndex(fs.FramePaths) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		detections, err := engine.Recognize(ctx, frame)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			a.logger.Warn("recognition failed, skipping frame",
				zap.String("frame", frame),
				zap.Error(err),
			)
			metrics.RecognitionErrorsTotal.Inc()
			continue
		}

		for _, d := range detections {
			if d.Confidence > a.threshold {
				rs.Add(d.Text)
				metrics.DetectionsTotal.WithLabelValues("admitted").Inc()
			} else {
				metrics.DetectionsTotal.WithLabelValues("rejected").Inc()
			}
		}
	}

	if err := a.writer.WriteResult(ctx, resultPath, rs); err != nil {
		return nil, fmt.Errorf("write result: %w", err)
	}
	return rs, nil
}

// orderByIndex sorts frame paths by the integer value of their base names,
// independent of zero-padding width.
func orderByIndex(paths []string) []string {
	ordered := make([]string, len(paths))
	copy(ordered, paths)
	sort.Slice(ordered, func(i, j int) bool {
		return frameIndex(ordered[i]) < frameIndex(ordered[j])
	})
	return ordered
}

func frameIndex(path string) int {
	base := filepath.Base(path)
	n, err := strconv.Atoi(strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return -1
	}
	return n
}
