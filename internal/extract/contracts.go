package extract

import (
	"context"
)

// TextExtractor is the raw-text stage: PDF bytes -> text.
// Implementations: pdftext (embedded text layer) and ocr (rasterize + OCR).
type TextExtractor interface {
	Extract(ctx context.Context, content []byte) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text      string
	PageCount int
	CharCount int
}
