package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/evany413/OCR-compare/internal/domain/entity"
	"github.com/evany413/OCR-compare/internal/domain/port"
	"github.com/otiai10/gosseract/v2"
)

// tesseractEngine adapts one gosseract client to the Engine port. Confidence
// comes back from Tesseract on a 0-100 scale and is normalized to 0.0-1.0.
type tesseractEngine struct {
	client *gosseract.Client
}

// NewMultilingual builds a backend recognizing a fixed set of languages at
// once, line by line in natural page order.
func NewMultilingual(languages ...string) (port.Engine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	return &tesseractEngine{client: client}, nil
}

// NewAngleAware builds a single-language backend with orientation and script
// detection enabled, so rotated text is read upright.
func NewAngleAware(language string) (port.Engine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO_OSD); err != nil {
		client.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	return &tesseractEngine{client: client}, nil
}

func (t *tesseractEngine) Recognize(ctx context.Context, imagePath string) ([]entity.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := t.client.SetImage(imagePath); err != nil {
		return nil, &entity.RecognitionError{Frame: imagePath, Err: err}
	}
	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, &entity.RecognitionError{Frame: imagePath, Err: err}
	}

	detections := make([]entity.Detection, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		detections = append(detections, entity.Detection{
			Text:       text,
			Confidence: box.Confidence / 100.0,
		})
	}
	return detections, nil
}

func (t *tesseractEngine) Close() error {
	return t.client.Close()
}
