package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/medrec-tools/lab-extract/internal/config"
	"github.com/medrec-tools/lab-extract/internal/extraction"
	"github.com/medrec-tools/lab-extract/internal/ocr"
	"github.com/medrec-tools/lab-extract/internal/pdftext"
)

// printError prints to stderr, falling back to stdout if stderr fails.
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		file   = flag.String("file", "", "PDF file to extract (required)")
		pretty = flag.Bool("pretty", false, "indent the JSON output")
	)
	flag.Parse()

	if *file == "" {
		printError("Error: -file is required\n")
		os.Exit(2)
	}

	// Diagnostics go to stderr; stdout carries only the result.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	content, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("failed to read file", "file", *file, "error", err)
		os.Exit(1)
	}

	svc := newExtractionService(cfg, logger)
	res := svc.Extract(context.Background(), content, filepath.Base(*file))

	var out []byte
	if *pretty {
		out, err = json.MarshalIndent(res, "", "  ")
	} else {
		out, err = json.Marshal(res)
	}
	if err != nil {
		logger.Error("failed to encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if res.Failed() {
		os.Exit(1)
	}
}

func newExtractionService(cfg *config.Config, logger *slog.Logger) *extraction.Service {
	native := pdftext.NewExtractor(logger)
	ocrx := ocr.NewExtractor(ocr.Config{
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		Languages:   cfg.OCR.Languages,
		DPI:         cfg.OCR.DPI,
		PSM:         cfg.OCR.PSM,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)
	return extraction.NewService(logger, extraction.Config{
		FallbackEnabled:  cfg.Extraction.FallbackEnabled,
		FallbackMinTests: cfg.Extraction.FallbackMinTests,
	}, native, ocrx, nil, nil)
}
