package ocr

import (
	"fmt"

	"github.com/evany413/OCR-compare/internal/domain/port"
)

const (
	// KindPaddle selects the angle-aware single-language backend.
	KindPaddle = "paddle"
	// KindEasyOCR selects the multilingual backend.
	KindEasyOCR = "easyocr"
)

// Config carries the language setup for both backend variants.
type Config struct {
	Languages     []string
	AngleLanguage string
}

// New builds the OCR backend selected by kind.
func New(kind string, cfg Config) (port.Engine, error) {
	switch kind {
	case KindPaddle, "":
		return NewAngleAware(cfg.AngleLanguage)
	case KindEasyOCR:
		return NewMultilingual(cfg.Languages...)
	default:
		return nil, fmt.Errorf("unknown ocr engine %q", kind)
	}
}

// ValidateKind rejects unknown backend selectors without paying for a client.
func ValidateKind(kind string) error {
	switch kind {
	case KindPaddle, KindEasyOCR, "":
		return nil
	default:
		return fmt.Errorf("unknown ocr engine %q", kind)
	}
}

// Factory returns a constructor for the selected backend. Each pool worker
// calls it once and owns the resulting instance.
func Factory(kind string, cfg Config) port.EngineFactory {
	return func() (port.Engine, error) {
		return New(kind, cfg)
	}
}
