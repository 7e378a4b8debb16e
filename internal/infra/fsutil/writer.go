package fsutil

import (
	"bytes"
	"context"
	"fmt"

	"github.com/evany413/OCR-compare/internal/domain/entity"
)

// ResultWriter renders a ResultSet as newline-terminated UTF-8, one string
// per line in sorted order. The file appears atomically, so a crash mid-write
// leaves either no result or the previous valid one.
type ResultWriter struct{}

func NewResultWriter() *ResultWriter {
	return &ResultWriter{}
}

func (w *ResultWriter) WriteResult(ctx context.Context, path string, rs *entity.ResultSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, s := range rs.Strings() {
		buf.WriteString(s)
		buf.WriteByte('\n')
	}
	if err := WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write result file: %w", err)
	}
	return nil
}
