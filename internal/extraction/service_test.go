package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medrec-tools/lab-extract/constants"
	"github.com/medrec-tools/lab-extract/internal/extract"
)

type stubNative struct {
	res   extract.TextExtractionResult
	err   error
	calls int
}

func (s *stubNative) Extract(context.Context, []byte) (extract.TextExtractionResult, error) {
	s.calls++
	return s.res, s.err
}

type stubOCR struct {
	stubNative
	available bool
}

func (s *stubOCR) Available(context.Context) bool { return s.available }

func textResult(text string, pages int) extract.TextExtractionResult {
	return extract.TextExtractionResult{Text: text, PageCount: pages, CharCount: len(text)}
}

const nativeTwoRows = `LabCorp Patient Report
Date Collected: 04/17/2024
Glucose                   95                mg/dL      65-99
Sodium                    140               mmol/L     135-146
`

const ocrFourRows = `LabCorp Patient Report
Date Collected: 04/17/2024
Glucose                   95                mg/dL      65-99
Sodium                    140               mmol/L     135-146
Potassium                 4.2               mmol/L     3.5-5.3
Chloride                  102               mmol/L     98-110
`

const genericReport = `Community Hospital Chemistry Panel 04/17/2024
Glucose: 95 mg/dL
WBC 7.5
Hemoglobin  14.2 g/dL
`

func defaultCfg() Config {
	return Config{FallbackEnabled: true, FallbackMinTests: 3}
}

func TestExtractStructuredNativeAboveThreshold(t *testing.T) {
	native := &stubNative{res: textResult(ocrFourRows, 2)}
	ocr := &stubOCR{available: true}
	svc := NewService(nil, defaultCfg(), native, ocr, nil, nil)

	res := svc.Extract(context.Background(), []byte("%PDF"), "panel.pdf")

	assert.Equal(t, constants.Method("labcorp_parser"), res.Method)
	assert.InDelta(t, ConfidenceParserNative, res.Confidence, 0.0001)
	assert.Equal(t, 1, res.PageCount)
	assert.Equal(t, len(res.Text), res.CharCount)
	assert.Equal(t, "panel.pdf", res.Filename)
	require.NotNil(t, res.LabName)
	assert.Equal(t, "LabCorp", *res.LabName)
	require.NotNil(t, res.TestCount)
	assert.Equal(t, 4, *res.TestCount)
	require.NotNil(t, res.TestDate)
	assert.Equal(t, "2024-04-17", *res.TestDate)
	assert.False(t, res.FallbackTriggered)
	assert.Nil(t, res.NativeTestCount)
	assert.Nil(t, res.Error)
	assert.Len(t, res.Tests, 4)

	// Quality gate passed; OCR never invoked.
	assert.Zero(t, ocr.calls)
}

func TestExtractFallbackAdopted(t *testing.T) {
	native := &stubNative{res: textResult(nativeTwoRows, 2)}
	ocr := &stubOCR{stubNative: stubNative{res: textResult(ocrFourRows, 2)}, available: true}
	svc := NewService(nil, defaultCfg(), native, ocr, nil, nil)

	res := svc.Extract(context.Background(), []byte("%PDF"), "scan.pdf")

	assert.Equal(t, constants.Method("labcorp_parser_ocr"), res.Method)
	assert.InDelta(t, ConfidenceParserOCR, res.Confidence, 0.0001)
	assert.Equal(t, 1, res.PageCount)
	assert.True(t, res.FallbackTriggered)
	require.NotNil(t, res.NativeTestCount)
	assert.Equal(t, 2, *res.NativeTestCount)
	require.NotNil(t, res.TestCount)
	assert.Equal(t, 4, *res.TestCount)
	assert.Equal(t, 1, ocr.calls)
}

func TestExtractFallbackNoImprovementKeepsNative(t *testing.T) {
	native := &stubNative{res: textResult(nativeTwoRows, 2)}
	ocr := &stubOCR{stubNative: stubNative{res: textResult(nativeTwoRows, 2)}, available: true}
	svc := NewService(nil, defaultCfg(), native, ocr, nil, nil)

	res := svc.Extract(context.Background(), []byte("%PDF"), "scan.pdf")

	assert.Equal(t, constants.Method("labcorp_parser"), res.Method)
	assert.InDelta(t, ConfidenceParserNative, res.Confidence, 0.0001)
	assert.False(t, res.FallbackTriggered)
	assert.Nil(t, res.NativeTestCount)
	require.NotNil(t, res.TestCount)
	assert.Equal(t, 2, *res.TestCount)
	assert.Equal(t, 1, ocr.calls)
}

func TestExtractFallbackSwallowsOCRErrors(t *testing.T) {
	native := &stubNative{res: textResult(nativeTwoRows, 2)}
	ocr := &stubOCR{stubNative: stubNative{err: errors.New("tesseract crashed")}, available: true}
	svc := NewService(nil, defaultCfg(), native, ocr, nil, nil)

	res := svc.Extract(context.Background(), []byte("%PDF"), "scan.pdf")

	assert.Equal(t, constants.Method("labcorp_parser"), res.Method)
	assert.False(t, res.FallbackTriggered)
	assert.Nil(t, res.Error)
}

func TestExtractFallbackEmptyOCRTextKeepsNative(t *testing.T) {
	native := &stubNative{res: textResult(nativeTwoRows, 2)}
	ocr := &stubOCR{stubNative: stubNative{res: textResult("", 2)}, available: true}
	svc := NewService(nil, defaultCfg(), native, ocr, nil, nil)

	res := svc.Extract(context.Background(), []byte("%PDF"), "scan.pdf")

	assert.Equal(t, constants.Method("labcorp_parser"), res.Method)
	assert.False(t, res.FallbackTriggered)
}

func TestExtractFallbackIneligible(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ocr  *stubOCR
	}{
		{"disabled", Config{FallbackEnabled: false, FallbackMinTests: 3}, &stubOCR{available: true}},
		{"ocr unavailable", defaultCfg(), &stubOCR{available: false}},
		{"count at threshold", Config{FallbackEnabled: true, FallbackMinTests: 2}, &stubOCR{available: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			native := &stubNative{res: textResult(nativeTwoRows, 2)}
			svc := NewService(nil, tt.cfg, native, tt.ocr, nil, nil)

			res := svc.Extract(context.Background(), []byte("%PDF"), "panel.pdf")

			assert.Equal(t, constants.Method("labcorp_parser"), res.Method)
			assert.False(t, res.FallbackTriggered)
			assert.Zero(t, tt.ocr.calls)
		})
	}
}

func TestExtractGenericNative(t *testing.T) {
	native := &stubNative{res: textResult(genericReport, 3)}
	svc := NewService(nil, defaultCfg(), native, &stubOCR{available: true}, nil, nil)

	res := svc.Extract(context.Background(), []byte("%PDF"), "panel.pdf")

	assert.Equal(t, constants.MethodNative, res.Method)
	assert.InDelta(t, ConfidenceNative, res.Confidence, 0.0001)
	assert.Equal(t, 3, res.PageCount)
	assert.Equal(t, len(res.Text), res.CharCount)
	require.NotNil(t, res.LabName)
	assert.Equal(t, "Unknown", *res.LabName)
	assert.Nil(t, res.TestCount)
	assert.Nil(t, res.TestDate)
	assert.False(t, res.FallbackTriggered)
	assert.Contains(t, res.Text, "Glucose: 95 mg/dL")
}

func TestExtractFailsWithoutOCR(t *testing.T) {
	native := &stubNative{res: textResult("x", 3)}
	ocr := &stubOCR{available: false}
	svc := NewService(nil, defaultCfg(), native, ocr, nil, nil)

	res := svc.Extract(context.Background(), []byte("%PDF"), "scan.pdf")

	assert.True(t, res.Failed())
	assert.Equal(t, constants.MethodFailed, res.Method)
	assert.Zero(t, res.Confidence)
	assert.Empty(t, res.Text)
	assert.Zero(t, res.CharCount)
	assert.Equal(t, 3, res.PageCount)
	require.NotNil(t, res.Error)
	assert.Equal(t, ocrMissingMsg, *res.Error)
	assert.Nil(t, res.LabName)
	assert.False(t, res.FallbackTriggered)
	assert.Zero(t, ocr.calls)
}

func TestExtractGenericOCRSkipsParsers(t *testing.T) {
	native := &stubNative{res: textResult("", 2)}
	// OCR text carries a vendor signature, but this path never runs
	// the vendor registry; the generic cleaner applies.
	ocr := &stubOCR{stubNative: stubNative{res: textResult(ocrFourRows, 2)}, available: true}
	svc := NewService(nil, defaultCfg(), native, ocr, nil, nil)

	res := svc.Extract(context.Background(), []byte("%PDF"), "scan.pdf")

	assert.Equal(t, constants.MethodOCR, res.Method)
	assert.InDelta(t, ConfidenceOCR, res.Confidence, 0.0001)
	assert.Equal(t, 2, res.PageCount)
	assert.Equal(t, len(res.Text), res.CharCount)
	assert.Nil(t, res.LabName)
	assert.Nil(t, res.TestCount)
	assert.False(t, res.FallbackTriggered)
	assert.Nil(t, res.Error)
}

func TestExtractNativeFailure(t *testing.T) {
	native := &stubNative{err: errors.New("document parse failed: not a pdf")}
	svc := NewService(nil, defaultCfg(), native, &stubOCR{available: true}, nil, nil)

	res := svc.Extract(context.Background(), []byte("junk"), "broken.pdf")

	assert.True(t, res.Failed())
	assert.Zero(t, res.PageCount)
	assert.Zero(t, res.CharCount)
	require.NotNil(t, res.Error)
	assert.Equal(t, "document parse failed: not a pdf", *res.Error)
}

func TestExtractOCRPathFailure(t *testing.T) {
	native := &stubNative{res: textResult("", 2)}
	ocr := &stubOCR{stubNative: stubNative{err: errors.New("rasterization failed")}, available: true}
	svc := NewService(nil, defaultCfg(), native, ocr, nil, nil)

	res := svc.Extract(context.Background(), []byte("%PDF"), "scan.pdf")

	assert.True(t, res.Failed())
	assert.Zero(t, res.PageCount)
	require.NotNil(t, res.Error)
	assert.Equal(t, "rasterization failed", *res.Error)
}
