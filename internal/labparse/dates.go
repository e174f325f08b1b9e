package labparse

import (
	"regexp"
	"strings"
	"time"
)

// Date tokens seen on US lab reports: 04/17/2024, 2024-04-17,
// Apr 17, 2024, April 17 2024.
var dateTokenRe = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4}|\d{4}-\d{2}-\d{2}|[A-Za-z]{3,9}\.?\s+\d{1,2},?\s+\d{4})\b`)

var dateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
}

// Label keywords in priority order. The collection date is the
// clinically meaningful one; reported/received dates are fallbacks.
var dateLabelPriority = [][]string{
	{"collected", "collection", "drawn"},
	{"reported", "received", "report date"},
}

// findTestDate scans report text for the document's test date and
// returns it as ISO YYYY-MM-DD, or nil when no date token parses.
// A date on a line labeled "collected"/"drawn" wins over one labeled
// "reported"/"received", which wins over any other date in the text.
func findTestDate(text string) *string {
	lines := strings.Split(text, "\n")
	for _, labels := range dateLabelPriority {
		for _, line := range lines {
			lower := strings.ToLower(line)
			for _, label := range labels {
				if !strings.Contains(lower, label) {
					continue
				}
				if iso := parseDateToken(dateTokenRe.FindString(line)); iso != nil {
					return iso
				}
			}
		}
	}
	for _, tok := range dateTokenRe.FindAllString(text, -1) {
		if iso := parseDateToken(tok); iso != nil {
			return iso
		}
	}
	return nil
}

func parseDateToken(tok string) *string {
	if tok == "" {
		return nil
	}
	tok = strings.TrimSpace(strings.ReplaceAll(tok, ".", ""))
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, tok); err == nil {
			return strptr(t.Format("2006-01-02"))
		}
	}
	return nil
}
