package port

import (
	"context"

	"github.com/evany413/OCR-compare/internal/domain/entity"
)

type ResultWriter interface {
	WriteResult(ctx context.Context, path string, rs *entity.ResultSet) error
}
