package report

import (
	"regexp"
	"strconv"
	"strings"
)

// Bounds is a numeric reference interval; either side may be open.
type Bounds struct {
	Min *float64
	Max *float64
}

var (
	rangePairRe  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)$`)
	rangeBoundRe = regexp.MustCompile(`^([<>≤≥])\s*=?\s*(\d+(?:\.\d+)?)$`)
)

// ParseBounds reads interval notations seen on reports: "3.5-5.0",
// "< 0.41", ">= 39", "≤ 5". Unrecognized text yields open bounds.
func ParseBounds(refRange string) Bounds {
	s := strings.TrimSpace(refRange)
	if s == "" {
		return Bounds{}
	}
	if m := rangePairRe.FindStringSubmatch(s); m != nil {
		lo, errLo := strconv.ParseFloat(m[1], 64)
		hi, errHi := strconv.ParseFloat(m[2], 64)
		if errLo != nil || errHi != nil {
			return Bounds{}
		}
		return Bounds{Min: &lo, Max: &hi}
	}
	if m := rangeBoundRe.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return Bounds{}
		}
		if m[1] == "<" || m[1] == "≤" {
			return Bounds{Max: &v}
		}
		return Bounds{Min: &v}
	}
	return Bounds{}
}
