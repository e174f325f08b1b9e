package extraction

// Thresholds for deciding whether native-extracted text is usable or
// the document is likely a scan with no real text layer.
const (
	MinTextLength = 50
	MinDigitRatio = 0.01
)

// validText reports whether text has at least MinTextLength bytes of
// which at least MinDigitRatio are ASCII digits, both bounds
// inclusive. Lab reports are digit-dense; image-only PDFs yield short
// or digit-free text layers.
func validText(text string) bool {
	if len(text) < MinTextLength {
		return false
	}
	digits := 0
	for i := 0; i < len(text); i++ {
		if text[i] >= '0' && text[i] <= '9' {
			digits++
		}
	}
	return float64(digits)/float64(len(text)) >= MinDigitRatio
}
