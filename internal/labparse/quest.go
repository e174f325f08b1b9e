package labparse

import (
	"regexp"
	"strings"

	"github.com/medrec-tools/lab-extract/internal/noise"
)

// Quest reports carry the reference range as its own column, with the
// unit printed after the range rather than in a separate column:
//
//	Test Name            In Range  Out of Range  Reference Range
//	GLUCOSE              85                      65-99 mg/dL
//	HEMOGLOBIN A1c                 6.1 H         <5.7 %
//
// Collapsed single-column text (common in OCR output) instead reads
// "Glucose 95 mg/dL (65-99)"; both shapes are recognized.
var (
	questColumnRe  = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 ,.\-/()]*?)\s{2,}([<>]?\d+(?:\.\d+)?)(?:\s+(HH|LL|H|L|A)\b)?\s{2,}([<>≤≥]=?\s?\d+\.?\d*|\d+\.?\d*\s?-\s?\d+\.?\d*)(?:\s+([A-Za-z%µ][A-Za-z0-9/%^.µ]*))?\s*$`)
	questCompactRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 ,.\-/]*?)\s+([<>]?\d+(?:\.\d+)?)\s+([A-Za-z%µ][A-Za-z0-9/%^.µ]*)\s+\((\d+\.?\d*\s?-\s?\d+\.?\d*|[<>≤≥]=?\s?\d+\.?\d*)\)(?:\s+(HH|LL|H|L|A)\b)?\s*$`)
)

var questSignatures = []string{
	"quest diagnostics",
	"questdiagnostics.com",
}

type QuestParser struct{}

func (QuestParser) Name() string { return "Quest Diagnostics" }

func (p QuestParser) TryParse(text string) ([]TestResult, error) {
	lower := strings.ToLower(text)
	if !containsAny(lower, questSignatures) {
		return nil, ErrNoMatch
	}
	date := findTestDate(text)
	var results []TestResult
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" || noise.IsNoise(line) {
			continue
		}
		if m := questColumnRe.FindStringSubmatch(line); m != nil {
			results = append(results, newRow(m[1], m[2], m[3], m[5], m[4], date))
			continue
		}
		if m := questCompactRe.FindStringSubmatch(line); m != nil {
			results = append(results, newRow(m[1], m[2], m[5], m[3], m[4], date))
		}
	}
	return results, nil
}
