// Package noise classifies raw lab-report lines, rejecting demographics,
// headers, footers and legal boilerplate so only candidate result lines
// survive generic cleaning.
package noise

import (
	"log/slog"
	"regexp"
	"strings"
)

// Line-anchored rejection patterns, applied case-insensitively to each
// trimmed line. Order matters only for short-circuiting, not semantics.
var noisePatterns = []*regexp.Regexp{
	// patient demographics
	regexp.MustCompile(`(?i)^patient\s*(name|id|dob|date of birth|age|gender|sex)[:|\s].*$`),
	regexp.MustCompile(`(?i)^(mr\.|mrs\.|ms\.|dr\.|doctor|physician)[\s.].*$`),
	regexp.MustCompile(`(?i)^(address|street|city|state|zip|phone|fax|email)[:|\s].*$`),
	regexp.MustCompile(`(?i)^ordering\s+physician`),
	regexp.MustCompile(`(?i)^(ssn|mrn|account|acct|member|insurance)\s*(#|no\.?|number)?[:|\s]`),

	// lab and clinic headers
	regexp.MustCompile(`(?i)^(lab|laboratory|clinic|hospital|medical center)[\s:].*$`),
	regexp.MustCompile(`(?i)^(collected|received|reported|ordered|test)\s*(date|time|on|by)[:|\s].*$`),
	regexp.MustCompile(`(?i)^specimen\s+(id|details)`),
	regexp.MustCompile(`(?i)^clia\s*(#|no\.?|id)?[:|\s]`),
	regexp.MustCompile(`(?i)^(accession|requisition)\s*(#|no\.?|number)?[:|\s]`),

	// report structure
	regexp.MustCompile(`(?i)^(page|test|result|value|unit|reference|range|status|flag)\s*(name)?[:|\s]*$`),
	regexp.MustCompile(`^\s*-+\s*$`),
	regexp.MustCompile(`^\s*=+\s*$`),
	regexp.MustCompile(`^\*+\s*$`),
	regexp.MustCompile(`(?i)^(results|report|summary|interpretation|comment|note)[:|\s]*$`),
	regexp.MustCompile(`(?i)^(normal|abnormal|critical|high|low)\s*$`),
	regexp.MustCompile(`(?i)^(continued|end\s+of\s+report)`),

	// footers and disclaimers
	regexp.MustCompile(`(?i)^date\s+(created|issued|reported|stored)`),
	regexp.MustCompile(`(?i)^final\s+report`),
	regexp.MustCompile(`(?i)^page\s+\d+\s+of\s+\d+`),
	regexp.MustCompile(`(?i)^©\s*\d{4}`),
	regexp.MustCompile(`(?i)^all\s+rights\s+reserved`),
	regexp.MustCompile(`(?i)^enterprise\s+report\s+version`),
	regexp.MustCompile(`(?i)^confidential.*health.*information`),
	regexp.MustCompile(`(?i)^received.*in\s+error`),
	regexp.MustCompile(`(?i)^intended\s+(solely\s+)?for`),
	regexp.MustCompile(`(?i)^(electronically\s+signed|verified\s+by|performed\s+at|reviewed\s+by)`),

	// references and citations
	regexp.MustCompile(`(?i)^pmid[:\s]*\d+`),
	regexp.MustCompile(`(?i)^et\.?\s*al\.?`),
	regexp.MustCompile(`(?i)^\d{4}[;,]\s*\d+`),
	regexp.MustCompile(`(?i)^reference\s+(range|interval)[:\s]*$`),

	// notes and explanations
	regexp.MustCompile(`(?i)^please\s+note`),
	regexp.MustCompile(`(?i)^note[:\s]*$`),
	regexp.MustCompile(`(?i)^\*+please`),
	regexp.MustCompile(`(?i)^bmi\s*[<>]`),
	regexp.MustCompile(`(?i)^this\s+test\s+was\s+developed`),
	regexp.MustCompile(`(?i)^fda`),
	regexp.MustCompile(`(?i)^\(.*\)\s*$`),

	// demographic reference text
	regexp.MustCompile(`(?i)^(male|female)s?\s*[:.]`),
	regexp.MustCompile(`(?i)^(adult|child|pediatric)\s+(male|female)`),
	regexp.MustCompile(`(?i)^\d+\s+years`),
}

var (
	digitRe = regexp.MustCompile(`\d`)
	unitRe  = regexp.MustCompile(`(?i)\b(mg/dL|mmol/L|g/dL|%|IU/L|U/L|ng/mL|pg/mL|µg/L|mEq/L|k/µL|10\^3/µL|cells/µL)\b`)
	// 2-5 uppercase letters, optionally followed by a digit. Case-sensitive:
	// lowercase words are names, not panel abbreviations.
	abbrevRe     = regexp.MustCompile(`\b[A-Z]{2,5}\d?\b`)
	namedValueRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9\s\-/]*[\s:]+\d+\.?\d*`)
)

// IsNoise reports whether a single trimmed line is extraction noise.
func IsNoise(line string) bool {
	for _, re := range noisePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// Filter strips noise lines from extracted text.
type Filter struct {
	logger *slog.Logger
}

func NewFilter(logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{logger: logger}
}

// Clean keeps only lines that look like lab results: non-noise, containing a
// digit, and showing at least one result shape (field separator, unit token,
// uppercase panel abbreviation, or name-then-number).
func (f *Filter) Clean(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || IsNoise(line) {
			continue
		}
		if !digitRe.MatchString(line) {
			continue
		}

		hasSeparator := strings.ContainsAny(line, ":\t") || strings.Contains(line, "  ")
		if hasSeparator || unitRe.MatchString(line) || abbrevRe.MatchString(line) || namedValueRe.MatchString(line) {
			kept = append(kept, line)
		}
	}

	f.logger.Debug("text cleaning complete",
		"original_lines", len(lines),
		"cleaned_lines", len(kept),
	)
	return strings.Join(kept, "\n")
}
