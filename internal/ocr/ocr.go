// Package ocr is the slow extraction path: rasterize PDF pages with pdftoppm
// and read them with tesseract. Both binaries run through a Runner so tests
// never need them installed.
package ocr

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Languages string // tesseract -l argument, default "ell+eng"
	DPI       int    // rasterization DPI, default 300
	PSM       int    // page segmentation mode, default 6 (uniform text block)

	TessdataDir string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger

	availOnce sync.Once
	available bool
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Languages == "" {
		cfg.Languages = "ell+eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Available probes the tesseract binary once per process and caches the
// answer. An engine installed or removed after the first call is not seen
// until restart.
func (e *Extractor) Available(ctx context.Context) bool {
	e.availOnce.Do(func() {
		out, _, err := e.runner.Run(ctx, e.cfg.Tesseract, "--version")
		if err != nil {
			e.logger.Warn("tesseract not found; ocr extraction disabled, only native text extraction is available",
				"binary", e.cfg.Tesseract,
				"error", err,
			)
			return
		}
		e.available = true
		e.logger.Info("tesseract ocr available",
			"binary", e.cfg.Tesseract,
			"version", firstLine(string(out)),
			"languages", e.cfg.Languages,
		)
	})
	return e.available
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
