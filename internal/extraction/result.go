// Package extraction runs the hybrid text-extraction flow for lab
// report PDFs: native text first, vendor parsers on top, a
// quality-gated OCR retry, generic cleanup as the last resort.
package extraction

import (
	"github.com/medrec-tools/lab-extract/constants"
	"github.com/medrec-tools/lab-extract/internal/labparse"
)

// Confidence per extraction method. Fixed by provenance, never derived
// from content quality.
const (
	ConfidenceParserNative = 0.98
	ConfidenceParserOCR    = 0.85
	ConfidenceNative       = 0.95
	ConfidenceOCR          = 0.75
	ConfidenceFailed       = 0.0
)

// Result is the outcome of one extraction request. CharCount always
// equals len(Text); Error is set only when Method is failed.
type Result struct {
	Text              string           `json:"text"`
	Method            constants.Method `json:"method"`
	Confidence        float64          `json:"confidence"`
	PageCount         int              `json:"page_count"`
	CharCount         int              `json:"char_count"`
	Filename          string           `json:"filename"`
	Error             *string          `json:"error,omitempty"`
	LabName           *string          `json:"lab_name,omitempty"`
	TestCount         *int             `json:"test_count,omitempty"`
	TestDate          *string          `json:"test_date,omitempty"`
	FallbackTriggered bool             `json:"fallback_triggered"`
	NativeTestCount   *int             `json:"native_test_count,omitempty"`

	// Tests carries the structured rows behind a vendor-parser result
	// for in-process consumers (batch export); it is not part of the
	// serialized payload.
	Tests []labparse.TestResult `json:"-"`
}

// Failed reports whether this result records an extraction failure.
func (r Result) Failed() bool { return r.Method == constants.MethodFailed }

func strptr(s string) *string { return &s }

func intptr(i int) *int { return &i }

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
