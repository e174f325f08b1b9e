package constants

import "strings"

// Method is the provenance tag on an extraction result. Fixed values plus
// vendor-derived parser variants built by ParserMethod.
type Method string

const (
	MethodNative Method = "native"
	MethodOCR    Method = "ocr"
	MethodFailed Method = "failed"
)

const (
	parserSuffix    = "_parser"
	parserOCRSuffix = "_parser_ocr"
)

// ParserMethod derives the method tag for a matched vendor parser from the
// vendor display name: lowercased, spaces to underscores, the word
// "diagnostics" dropped, underscore runs collapsed. "Quest Diagnostics"
// becomes quest_parser; with ocrInput, quest_parser_ocr.
func ParserMethod(labName string, ocrInput bool) Method {
	name := strings.ToLower(strings.TrimSpace(labName))
	name = strings.ReplaceAll(name, "diagnostics", "")
	name = strings.ReplaceAll(name, " ", "_")
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	name = strings.Trim(name, "_")
	if ocrInput {
		return Method(name + parserOCRSuffix)
	}
	return Method(name + parserSuffix)
}

// IsVendorParser reports whether m is a vendor parser variant.
func IsVendorParser(m Method) bool {
	return strings.HasSuffix(string(m), parserSuffix) || strings.HasSuffix(string(m), parserOCRSuffix)
}

// IsOCRInput reports whether m denotes a vendor parser fed with OCR text.
func IsOCRInput(m Method) bool {
	return strings.HasSuffix(string(m), parserOCRSuffix)
}
