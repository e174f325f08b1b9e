package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParserMethod(t *testing.T) {
	cases := []struct {
		labName  string
		ocrInput bool
		want     Method
	}{
		{"LabCorp", false, "labcorp_parser"},
		{"LabCorp", true, "labcorp_parser_ocr"},
		{"Quest Diagnostics", false, "quest_parser"},
		{"Quest Diagnostics", true, "quest_parser_ocr"},
		{"  Quest Diagnostics  ", false, "quest_parser"},
		{"Mayo Clinic Labs", false, "mayo_clinic_labs_parser"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParserMethod(tc.labName, tc.ocrInput), "lab=%q ocr=%v", tc.labName, tc.ocrInput)
	}
}

func TestMethodPredicates(t *testing.T) {
	assert.True(t, IsVendorParser("labcorp_parser"))
	assert.True(t, IsVendorParser("quest_parser_ocr"))
	assert.False(t, IsVendorParser(MethodNative))
	assert.False(t, IsVendorParser(MethodOCR))
	assert.False(t, IsVendorParser(MethodFailed))

	assert.True(t, IsOCRInput("quest_parser_ocr"))
	assert.False(t, IsOCRInput("quest_parser"))
	assert.False(t, IsOCRInput(MethodOCR))
}

func TestIsAllowedFilename(t *testing.T) {
	assert.True(t, IsAllowedFilename("report.pdf"))
	assert.True(t, IsAllowedFilename("report.PDF"))
	assert.True(t, IsAllowedFilename("lab results 2024.pdf"))
	assert.False(t, IsAllowedFilename("report.txt"))
	assert.False(t, IsAllowedFilename("report"))
	assert.False(t, IsAllowedFilename(".pdf.exe"))
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "pdf", NormalizeExt(".PDF"))
	assert.Equal(t, "pdf", NormalizeExt("pdf"))
	assert.Equal(t, "", NormalizeExt("."))
}
