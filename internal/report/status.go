package report

import "github.com/medrec-tools/lab-extract/constants"

// ResolveStatus interprets one row. An explicit flag always wins; with
// no flag the value is compared against the reference interval, bounds
// inclusive on both sides. Returns nil when neither signal is present.
func ResolveStatus(value *float64, refRange *string, flag *string) *constants.ResultStatus {
	if flag != nil {
		if st, ok := constants.CanonicalFlag(*flag); ok {
			return &st
		}
	}
	if value == nil || refRange == nil {
		return nil
	}
	b := ParseBounds(*refRange)
	if b.Min == nil && b.Max == nil {
		return nil
	}
	st := constants.StatusNormal
	switch {
	case b.Min != nil && *value < *b.Min:
		st = constants.StatusLow
	case b.Max != nil && *value > *b.Max:
		st = constants.StatusHigh
	}
	return &st
}
