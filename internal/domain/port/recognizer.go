package port

import (
	"context"

	"github.com/evany413/OCR-compare/internal/domain/entity"
)

// Engine recognizes text in one still image. No text in the image is an
// empty slice and a nil error, not a failure. Implementations are not
// required to be safe for concurrent use; callers own one Engine per
// goroutine and Close it when done.
type Engine interface {
	Recognize(ctx context.Context, imagePath string) ([]entity.Detection, error)
	Close() error
}

// EngineFactory builds a fresh Engine. Pool workers that cannot share a
// backend instance construct their own through the factory.
type EngineFactory func() (Engine, error)
