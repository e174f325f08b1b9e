package labparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/medrec-tools/lab-extract/internal/noise"
)

// LabCorp prints results in aligned columns:
//
//	Test                 Result  Flag  Units      Reference Interval
//	Glucose              95            mg/dL      65-99
//	Cholesterol, Total   210     H     mg/dL      100-199
//
// Columns are separated by runs of two or more spaces; flag, unit and
// reference interval are each optional on a given row.
var labcorpRowRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 ,.\-/()]*?)\s{2,}([<>]?\d+(?:\.\d+)?)(?:\s+(HH|LL|H|L|A)\b)?(?:\s+([A-Za-z%µ][A-Za-z0-9/%^.µ]*))?(?:\s+([<>≤≥]=?\s?\d+\.?\d*|\d+\.?\d*\s?-\s?\d+\.?\d*))?\s*(?:\d{2})?\s*$`)

var labcorpSignatures = []string{
	"labcorp",
	"laboratory corporation of america",
}

type LabCorpParser struct{}

func (LabCorpParser) Name() string { return "LabCorp" }

func (p LabCorpParser) TryParse(text string) ([]TestResult, error) {
	lower := strings.ToLower(text)
	if !containsAny(lower, labcorpSignatures) {
		return nil, ErrNoMatch
	}
	date := findTestDate(text)
	var results []TestResult
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" || noise.IsNoise(line) {
			continue
		}
		m := labcorpRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		results = append(results, newRow(m[1], m[2], m[3], m[4], m[5], date))
	}
	return results, nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// newRow assembles a TestResult from regex captures. Empty captures
// become nil fields; per-row confidence starts at 1.0 and loses 0.1
// for each of unit and reference range that the row lacked.
func newRow(name, value, flag, unit, refRange string, date *string) TestResult {
	row := TestResult{
		TestName:   strings.TrimRight(strings.TrimSpace(name), " ,."),
		TestDate:   date,
		Confidence: 1.0,
	}
	if v, err := strconv.ParseFloat(strings.TrimLeft(value, "<>"), 64); err == nil {
		row.Value = f64ptr(v)
	}
	if flag != "" {
		row.Flag = strptr(flag)
	}
	if unit != "" {
		row.Unit = strptr(unit)
	} else {
		row.Confidence -= 0.1
	}
	if refRange != "" {
		row.ReferenceRange = strptr(strings.TrimSpace(refRange))
	} else {
		row.Confidence -= 0.1
	}
	return row
}
