package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/medrec-tools/lab-extract/constants"
	"github.com/medrec-tools/lab-extract/internal/config"
	"github.com/medrec-tools/lab-extract/internal/export"
	"github.com/medrec-tools/lab-extract/internal/extraction"
	"github.com/medrec-tools/lab-extract/internal/ingest"
	"github.com/medrec-tools/lab-extract/internal/ocr"
	"github.com/medrec-tools/lab-extract/internal/pdftext"
	"github.com/medrec-tools/lab-extract/internal/schema"
)

// printError prints to stderr, falling back to stdout if stderr fails.
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory of lab report PDFs (required)")
		out     = flag.String("out", "", "output XLSX path (defaults to <dir>/../lab-results.xlsx)")
		workers = flag.Int("workers", 2, "concurrent extractions")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: -dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "lab-results.xlsx")
	}
	if *workers < 1 {
		*workers = 1
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	logger = logger.With("job_id", uuid.New().String())

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	discovered, stats, err := ingest.NewScanner(logger).ScanDirectory(context.Background(), *dir)
	if err != nil {
		logger.Error("failed to scan directory", "dir", *dir, "error", err)
		os.Exit(1)
	}

	var files []string
	for _, fr := range discovered {
		if fr.Err != "" {
			logger.Warn("skipping unreadable entry", "path", fr.Path, "error", fr.Err)
			continue
		}
		if fr.Deduplicated {
			continue
		}
		files = append(files, fr.Path)
	}
	if len(files) == 0 {
		logger.Error("no PDF files found", "dir", *dir)
		os.Exit(1)
	}
	logger.Info("starting batch extraction",
		"dir", *dir,
		"files", len(files),
		"duplicates_skipped", stats.Deduplicated,
		"workers", *workers)

	native := pdftext.NewExtractor(logger)
	ocrx := ocr.NewExtractor(ocr.Config{
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		Languages:   cfg.OCR.Languages,
		DPI:         cfg.OCR.DPI,
		PSM:         cfg.OCR.PSM,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)
	svc := extraction.NewService(logger, extraction.Config{
		FallbackEnabled:  cfg.Extraction.FallbackEnabled,
		FallbackMinTests: cfg.Extraction.FallbackMinTests,
	}, native, ocrx, nil, nil)

	start := time.Now()
	results := make([]extraction.Result, len(files))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*workers)
	for i, path := range files {
		g.Go(func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				logger.Error("failed to read file", "file", path, "error", err)
				msg := err.Error()
				results[i] = extraction.Result{
					Method:     constants.MethodFailed,
					Confidence: extraction.ConfidenceFailed,
					Filename:   filepath.Base(path),
					Error:      &msg,
				}
				return nil
			}
			results[i] = svc.Extract(ctx, content, filepath.Base(path))
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
		}
		if err := schema.ValidateRecord(res); err != nil {
			logger.Error("extraction result failed schema validation",
				"filename", res.Filename, "error", err)
		}
	}

	book, err := export.NewService(logger).BuildWorkbook(results)
	if err != nil {
		logger.Error("failed to build workbook", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, book, 0644); err != nil {
		logger.Error("failed to write output file", "file", *out, "error", err)
		os.Exit(1)
	}

	logger.Info("batch extraction complete",
		"files", len(files),
		"failed", failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
		"output_file", *out)

	fmt.Printf("Batch extraction complete!\n")
	fmt.Printf("- Files: %d\n", len(files))
	fmt.Printf("- Duplicates skipped: %d\n", stats.Deduplicated)
	fmt.Printf("- Extracted: %d\n", len(files)-failed)
	fmt.Printf("- Failed: %d\n", failed)
	fmt.Printf("- Output: %s\n", *out)
}
