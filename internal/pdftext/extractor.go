// Package pdftext is the fast extraction path: it pulls the embedded text
// layer out of PDF bytes page by page, no rendering involved.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/medrec-tools/lab-extract/constants"
	"github.com/medrec-tools/lab-extract/internal/common"
	"github.com/medrec-tools/lab-extract/internal/extract"
)

type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract reads the text layer in page order, one empty string per page
// without one, pages joined with a newline. Same bytes, same output.
// Unreadable input reports common.ErrDocumentParse.
func (e *Extractor) Extract(_ context.Context, content []byte) (res extract.TextExtractionResult, err error) {
	if len(content) < len(constants.PDFMagic) || string(content[:len(constants.PDFMagic)]) != constants.PDFMagic {
		return extract.TextExtractionResult{}, fmt.Errorf("%w: missing %%PDF header", common.ErrDocumentParse)
	}

	// The reader panics on some malformed xref tables; fold those into the
	// same parse error as a bad header.
	defer func() {
		if r := recover(); r != nil {
			res = extract.TextExtractionResult{}
			err = fmt.Errorf("%w: %v", common.ErrDocumentParse, r)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return extract.TextExtractionResult{}, fmt.Errorf("%w: %v", common.ErrDocumentParse, err)
	}

	pageCount := doc.NumPage()
	parts := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			parts = append(parts, "")
			continue
		}
		pageText, perr := page.GetPlainText(nil)
		if perr != nil {
			e.logger.Debug("page has no extractable text", "page", i, "error", perr)
			parts = append(parts, "")
			continue
		}
		parts = append(parts, pageText)
	}

	text := strings.Join(parts, "\n")
	return extract.TextExtractionResult{
		Text:      text,
		PageCount: pageCount,
		CharCount: len(text),
	}, nil
}
