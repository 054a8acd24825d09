package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var nonDigit = regexp.MustCompile(`\D`)

// Age extracts the numeric part of a raw age cell ("62 Yrs" → 62).
// Returns ok=false when no digits remain.
func Age(raw string) (int64, bool) {
	s := nonDigit.ReplaceAllString(strings.TrimSpace(raw), "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Age bands mandated by the accreditation report format.
const (
	BandUnder18 = "Less than 18 years"
	BandUnder65 = "Less than 65 years"
	Band65Plus  = "Greater than equal 65 years"
	BandUnknown = "Unknown"
)

// AgeBand places an age into the accreditation bands. A nil age is Unknown.
func AgeBand(age *int64) string {
	if age == nil {
		return BandUnknown
	}
	switch {
	case *age < 18:
		return BandUnder18
	case *age < 65:
		return BandUnder65
	default:
		return Band65Plus
	}
}

// BandOf bands a raw age cell directly: the value is parsed as a float and
// banded, with anything non-numeric reported as Unknown.
func BandOf(raw string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return BandUnknown
	}
	return AgeBandFloat(f)
}

// AgeBandFloat is AgeBand for ages that arrive as floating point (e.g. from
// the cache files).
func AgeBandFloat(age float64) string {
	switch {
	case age < 18:
		return BandUnder18
	case age < 65:
		return BandUnder65
	default:
		return Band65Plus
	}
}
