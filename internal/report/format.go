// Package report renders structured lab rows as text and interprets
// values against their reference intervals.
package report

import (
	"strconv"
	"strings"

	"github.com/medrec-tools/lab-extract/constants"
	"github.com/medrec-tools/lab-extract/internal/labparse"
)

// FormatResults renders rows as one line per test, absent parts omitted:
//
//	Glucose: 95 mg/dL (65-99)
//	Cholesterol, Total: 210 mg/dL (100-199) [H]
//
// The bracket slot carries the report's own flag when present, else the
// computed status when the value falls outside its reference interval.
func FormatResults(results []labparse.TestResult) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		parts := []string{r.TestName + ":"}
		if r.Value != nil {
			parts = append(parts, FormatValue(*r.Value))
		}
		if r.Unit != nil {
			parts = append(parts, *r.Unit)
		}
		if r.ReferenceRange != nil {
			parts = append(parts, "("+*r.ReferenceRange+")")
		}
		if r.Flag != nil {
			parts = append(parts, "["+*r.Flag+"]")
		} else if st := ResolveStatus(r.Value, r.ReferenceRange, nil); st != nil && *st != constants.StatusNormal {
			parts = append(parts, "["+string(*st)+"]")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}

// FormatValue renders a value with the fewest digits that round-trip.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
