// Package labparse extracts structured test results from the text of
// known lab vendors' reports. Each vendor parser recognizes its own
// report format via header/footer signatures and yields one TestResult
// per result row; the Registry tries parsers in priority order.
package labparse

import "errors"

// ErrNoMatch reports that a parser did not recognize the input text as
// one of its vendor's reports. The registry treats it as "try the next
// parser", never as a failure.
var ErrNoMatch = errors.New("labparse: no vendor signature matched")

// TestResult is one structured row extracted from a lab report.
// Optional columns are nil when the source row did not carry them.
type TestResult struct {
	TestName       string
	Value          *float64
	Unit           *string
	ReferenceRange *string
	Flag           *string
	TestDate       *string // ISO YYYY-MM-DD, shared across the document
	Confidence     float64
}

// Parser recognizes and extracts results for a single lab vendor.
type Parser interface {
	// Name returns the vendor display name, e.g. "Quest Diagnostics".
	Name() string
	// TryParse returns ErrNoMatch when the text does not carry the
	// vendor's signature. A recognized report may still yield zero
	// rows; the registry then falls through to the next parser.
	TryParse(text string) ([]TestResult, error)
}

func strptr(s string) *string { return &s }

func f64ptr(f float64) *float64 { return &f }
