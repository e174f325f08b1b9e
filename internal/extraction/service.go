package extraction

import (
	"context"
	"log/slog"

	"github.com/medrec-tools/lab-extract/constants"
	"github.com/medrec-tools/lab-extract/internal/extract"
	"github.com/medrec-tools/lab-extract/internal/labparse"
	"github.com/medrec-tools/lab-extract/internal/noise"
	"github.com/medrec-tools/lab-extract/internal/report"
)

const ocrMissingMsg = "Tesseract OCR is not installed. Cannot extract text from scanned PDFs. Please install Tesseract or provide a digital PDF."

// OCRExtractor is the OCR engine surface the orchestrator needs:
// extraction plus the once-per-process availability probe.
type OCRExtractor interface {
	extract.TextExtractor
	Available(ctx context.Context) bool
}

// Config carries the quality-gated fallback knobs.
type Config struct {
	// FallbackEnabled allows the OCR retry when a vendor parser
	// extracted fewer than FallbackMinTests rows from native text.
	FallbackEnabled  bool
	FallbackMinTests int
}

// Service orchestrates hybrid extraction over the injected extractors.
type Service struct {
	logger   *slog.Logger
	cfg      Config
	native   extract.TextExtractor
	ocr      OCRExtractor
	registry *labparse.Registry
	filter   *noise.Filter
}

// NewService wires the orchestrator. A nil registry or filter gets the
// package default.
func NewService(logger *slog.Logger, cfg Config, native extract.TextExtractor, ocr OCRExtractor, registry *labparse.Registry, filter *noise.Filter) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = labparse.NewRegistry(logger)
	}
	if filter == nil {
		filter = noise.NewFilter(logger)
	}
	return &Service{
		logger:   logger,
		cfg:      cfg,
		native:   native,
		ocr:      ocr,
		registry: registry,
		filter:   filter,
	}
}

// Extract runs the full flow on one PDF. It never returns an error:
// every failure mode is folded into a Result with method=failed so
// callers always get a complete record.
func (s *Service) Extract(ctx context.Context, pdfBytes []byte, filename string) Result {
	s.logger.Info("starting pdf text extraction", "filename", filename, "size_bytes", len(pdfBytes))

	nativeRes, err := s.native.Extract(ctx, pdfBytes)
	if err != nil {
		s.logger.Error("pdf extraction failed", "filename", filename, "error", err)
		return failedResult(filename, 0, err.Error())
	}

	if validText(nativeRes.Text) {
		if parsed, ok := s.tryLabParsing(nativeRes.Text, filename, false); ok {
			testCount := *parsed.TestCount
			if testCount < s.cfg.FallbackMinTests && s.cfg.FallbackEnabled && s.ocrAvailable(ctx) {
				if retry, ok := s.ocrRetry(ctx, pdfBytes, filename, testCount); ok {
					retry.FallbackTriggered = true
					retry.NativeTestCount = intptr(testCount)
					return retry
				}
				s.logger.Info("ocr fallback did not improve results, returning native extraction",
					"filename", filename, "test_count", testCount)
			}
			return parsed
		}

		cleaned := s.filter.Clean(nativeRes.Text)
		s.logger.Info("native extraction successful",
			"filename", filename,
			"char_count", nativeRes.CharCount,
			"cleaned_char_count", len(cleaned),
			"page_count", nativeRes.PageCount)
		return Result{
			Text:       cleaned,
			Method:     constants.MethodNative,
			Confidence: ConfidenceNative,
			PageCount:  nativeRes.PageCount,
			CharCount:  len(cleaned),
			Filename:   filename,
			LabName:    strptr("Unknown"),
		}
	}

	// Native text too thin to use; the document is likely scanned.
	if !s.ocrAvailable(ctx) {
		s.logger.Warn("native extraction insufficient and ocr unavailable",
			"filename", filename, "native_char_count", nativeRes.CharCount)
		return failedResult(filename, nativeRes.PageCount, ocrMissingMsg)
	}

	s.logger.Info("native extraction insufficient, falling back to ocr",
		"filename", filename, "native_char_count", nativeRes.CharCount)
	ocrRes, err := s.ocr.Extract(ctx, pdfBytes)
	if err != nil {
		s.logger.Error("pdf extraction failed", "filename", filename, "error", err)
		return failedResult(filename, 0, err.Error())
	}

	cleaned := s.filter.Clean(ocrRes.Text)
	return Result{
		Text:       cleaned,
		Method:     constants.MethodOCR,
		Confidence: ConfidenceOCR,
		PageCount:  ocrRes.PageCount,
		CharCount:  len(cleaned),
		Filename:   filename,
	}
}

// ocrRetry re-extracts with OCR and re-parses, adopting the OCR rows
// only when they strictly beat the native row count. Any failure along
// the way keeps the native result; nothing propagates.
func (s *Service) ocrRetry(ctx context.Context, pdfBytes []byte, filename string, nativeTestCount int) (Result, bool) {
	s.logger.Warn("native extraction yielded low test count, attempting ocr fallback",
		"filename", filename,
		"native_test_count", nativeTestCount,
		"fallback_threshold", s.cfg.FallbackMinTests)

	ocrRes, err := s.ocr.Extract(ctx, pdfBytes)
	if err != nil {
		s.logger.Error("ocr fallback failed", "filename", filename, "error", err)
		return Result{}, false
	}
	if ocrRes.Text == "" {
		s.logger.Warn("ocr fallback failed: no text extracted", "filename", filename)
		return Result{}, false
	}

	parsed, ok := s.tryLabParsing(ocrRes.Text, filename, true)
	if !ok {
		s.logger.Warn("ocr fallback failed: lab-specific parsing unsuccessful", "filename", filename)
		return Result{}, false
	}

	ocrTestCount := *parsed.TestCount
	if ocrTestCount <= nativeTestCount {
		s.logger.Warn("ocr fallback did not improve results",
			"filename", filename, "native_count", nativeTestCount, "ocr_count", ocrTestCount)
		return Result{}, false
	}

	s.logger.Info("ocr fallback successful",
		"filename", filename,
		"native_count", nativeTestCount,
		"ocr_count", ocrTestCount,
		"improvement", ocrTestCount-nativeTestCount)
	return parsed, true
}

// tryLabParsing runs the vendor registry and, on a match, assembles
// the structured result: formatted text, page count pinned to 1 (pages
// are not tracked through structured parsing), the document test date
// from the first row, and the method/confidence pair for the input
// kind.
func (s *Service) tryLabParsing(text, filename string, ocrInput bool) (Result, bool) {
	rows, vendor, ok := s.registry.Parse(text)
	if !ok {
		s.logger.Info("no lab-specific parser matched", "filename", filename)
		return Result{}, false
	}

	formatted := report.FormatResults(rows)
	testDate := rows[0].TestDate

	avg := 0.0
	for _, r := range rows {
		avg += r.Confidence
	}
	avg /= float64(len(rows))

	method := constants.ParserMethod(vendor, ocrInput)
	confidence := ConfidenceParserNative
	if ocrInput {
		confidence = ConfidenceParserOCR
	}

	s.logger.Info("lab-specific parsing successful",
		"filename", filename,
		"lab_name", vendor,
		"test_count", len(rows),
		"avg_confidence", avg,
		"test_date", strOrEmpty(testDate))

	return Result{
		Text:       formatted,
		Method:     method,
		Confidence: confidence,
		PageCount:  1,
		CharCount:  len(formatted),
		Filename:   filename,
		LabName:    strptr(vendor),
		TestCount:  intptr(len(rows)),
		TestDate:   testDate,
		Tests:      rows,
	}, true
}

func (s *Service) ocrAvailable(ctx context.Context) bool {
	return s.ocr != nil && s.ocr.Available(ctx)
}

func failedResult(filename string, pageCount int, msg string) Result {
	return Result{
		Method:     constants.MethodFailed,
		Confidence: ConfidenceFailed,
		PageCount:  pageCount,
		Filename:   filename,
		Error:      strptr(msg),
	}
}
