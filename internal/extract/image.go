package extract

import (
	"context"
	"log/slog"
	"strings"

	"clinisum/internal/domain"
)

// PlaceholderNoImageText is substituted when OCR succeeds but finds nothing,
// so the summarizer can still produce a "nothing found" response.
const PlaceholderNoImageText = "No readable text found in this image."

// VisionModel describes a medical image as free-text findings. Treated as
// unreliable and optional.
type VisionModel interface {
	Describe(ctx context.Context, image []byte) (string, error)
}

// Recognizer runs optical character recognition over an image. Empty text is
// a valid result, distinct from failure.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// ImageExtractor is the two-stage fallback chain: the vision model first,
// OCR only after vision has concluded with failure or is unconfigured. A nil
// backend means unconfigured.
type ImageExtractor struct {
	vision VisionModel
	ocr    Recognizer
	log    *slog.Logger
}

func NewImageExtractor(vision VisionModel, ocr Recognizer, log *slog.Logger) *ImageExtractor {
	return &ImageExtractor{
		vision: vision,
		ocr:    ocr,
		log:    log,
	}
}

func (e *ImageExtractor) Extract(ctx context.Context, image []byte) (domain.ExtractedContent, error) {
	if e.vision != nil {
		findings, err := e.vision.Describe(ctx, image)
		if err != nil {
			e.log.WarnContext(ctx, "Vision model failed, degrading to OCR",
				"error", err)
		} else if findings = strings.TrimSpace(findings); findings == "" {
			e.log.WarnContext(ctx, "Vision model returned no usable content, degrading to OCR")
		} else {
			return domain.ExtractedContent{
				Text:         findings,
				SourceMethod: domain.SourceVision,
			}, nil
		}
	}

	if e.ocr == nil {
		return domain.ExtractedContent{}, domain.NewError(
			domain.ErrImageProcessingFailed,
			"no optical character recognition backend is configured for this image")
	}

	text, err := e.ocr.Recognize(ctx, image)
	if err != nil {
		return domain.ExtractedContent{}, domain.NewError(
			domain.ErrImageProcessingFailed,
			"optical character recognition failed: %v", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = PlaceholderNoImageText
	}

	return domain.ExtractedContent{
		Text:         text,
		SourceMethod: domain.SourceOCR,
	}, nil
}
