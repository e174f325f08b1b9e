package extraction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medrec-tools/lab-extract/constants"
	"github.com/medrec-tools/lab-extract/internal/labparse"
)

func TestResultJSONOmitsAbsentFields(t *testing.T) {
	res := Result{
		Text:       "Glucose: 95",
		Method:     constants.MethodNative,
		Confidence: 0.95,
		PageCount:  2,
		CharCount:  11,
		Filename:   "panel.pdf",
		LabName:    strptr("Unknown"),
		Tests:      []labparse.TestResult{{TestName: "Glucose"}},
	}
	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"text": "Glucose: 95",
		"method": "native",
		"confidence": 0.95,
		"page_count": 2,
		"char_count": 11,
		"filename": "panel.pdf",
		"lab_name": "Unknown",
		"fallback_triggered": false
	}`, string(b))
}

func TestResultJSONFailedShape(t *testing.T) {
	res := failedResult("broken.pdf", 3, "bad xref")
	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"text": "",
		"method": "failed",
		"confidence": 0,
		"page_count": 3,
		"char_count": 0,
		"filename": "broken.pdf",
		"error": "bad xref",
		"fallback_triggered": false
	}`, string(b))
}

func TestResultJSONFallbackShape(t *testing.T) {
	res := Result{
		Text:              "Glucose: 95 mg/dL (65-99)",
		Method:            constants.ParserMethod("LabCorp", true),
		Confidence:        ConfidenceParserOCR,
		PageCount:         1,
		CharCount:         25,
		Filename:          "scan.pdf",
		LabName:           strptr("LabCorp"),
		TestCount:         intptr(4),
		TestDate:          strptr("2024-04-17"),
		FallbackTriggered: true,
		NativeTestCount:   intptr(2),
	}
	b, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "labcorp_parser_ocr", decoded["method"])
	assert.Equal(t, true, decoded["fallback_triggered"])
	assert.EqualValues(t, 2, decoded["native_test_count"])
	assert.EqualValues(t, 4, decoded["test_count"])
	assert.NotContains(t, decoded, "error")
}
