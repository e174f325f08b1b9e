package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/medrec-tools/lab-extract/internal/common"
	"github.com/medrec-tools/lab-extract/internal/extract"
)

// Extract rasterizes every page at the configured DPI in grayscale, reads
// each image with tesseract one at a time, and joins page texts with a
// newline. Page images live on disk in a per-call temp dir; only the page
// tesseract is consuming is ever held in memory.
func (e *Extractor) Extract(ctx context.Context, content []byte) (extract.TextExtractionResult, error) {
	if !e.Available(ctx) {
		return extract.TextExtractionResult{}, common.ErrOCRUnavailable
	}

	tmpDir, err := os.MkdirTemp("", "labextract-ocr-*")
	if err != nil {
		return extract.TextExtractionResult{}, fmt.Errorf("%w: create temp dir: %v", common.ErrOCRRuntime, err)
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rerr)
		}
	}()

	input := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(input, content, 0o600); err != nil {
		return extract.TextExtractionResult{}, fmt.Errorf("%w: write temp pdf: %v", common.ErrOCRRuntime, err)
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -gray -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", strconv.Itoa(e.cfg.DPI), "-gray", "-png", input, prefix)
	if err != nil {
		return extract.TextExtractionResult{}, fmt.Errorf("%w: pdftoppm: %v: %s", common.ErrOCRRuntime, err, truncate(string(errb), 512))
	}

	// pdftoppm zero-pads page numbers, so a string sort is page order
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return extract.TextExtractionResult{}, fmt.Errorf("%w: pdftoppm produced no page images", common.ErrOCRRuntime)
	}

	parts := make([]string, 0, len(matches))
	for i, img := range matches {
		pageText, oerr := e.tesseractOCR(ctx, img)
		if oerr != nil {
			return extract.TextExtractionResult{}, oerr
		}
		parts = append(parts, pageText)
		e.logger.Info("ocr page complete",
			"page", i+1,
			"pages", len(matches),
			"char_count", len(pageText),
		)
	}

	text := strings.Join(parts, "\n")
	return extract.TextExtractionResult{
		Text:      text,
		PageCount: len(matches),
		CharCount: len(text),
	}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <langs> --psm <mode>
	args := []string{path, "stdout", "-l", e.cfg.Languages, "--psm", strconv.Itoa(e.cfg.PSM)}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("%w: tesseract: %v: %s", common.ErrOCRRuntime, err, truncate(string(errb), 512))
	}
	return string(out), nil
}
