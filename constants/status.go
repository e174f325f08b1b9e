package constants

import "strings"

// ResultStatus is the canonical interpretation of one test component.
type ResultStatus string

// Stable values (downstream consumers store these exact strings).
const (
	StatusNormal     ResultStatus = "normal"
	StatusHigh       ResultStatus = "high"
	StatusLow        ResultStatus = "low"
	StatusCritical   ResultStatus = "critical"
	StatusAbnormal   ResultStatus = "abnormal"
	StatusBorderline ResultStatus = "borderline"
)

// CanonicalFlag maps a report flag column (H, LL, "High", ...) to a status.
func CanonicalFlag(flag string) (ResultStatus, bool) {
	if flag == "" {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(flag))

	synonyms := map[string]ResultStatus{
		"h":          StatusHigh,
		"hi":         StatusHigh,
		"high":       StatusHigh,
		"hh":         StatusCritical,
		"crit":       StatusCritical,
		"critical":   StatusCritical,
		"l":          StatusLow,
		"lo":         StatusLow,
		"low":        StatusLow,
		"ll":         StatusCritical,
		"a":          StatusAbnormal,
		"abn":        StatusAbnormal,
		"abnormal":   StatusAbnormal,
		"n":          StatusNormal,
		"normal":     StatusNormal,
		"borderline": StatusBorderline,
	}

	if st, ok := synonyms[normalized]; ok {
		return st, true
	}
	return "", false
}
