package normalize

import (
	"regexp"
	"strings"
	"time"
)

// Day-first formats seen across the HIS CSV exports. Exports are
// inconsistent about separators and two- vs four-digit years.
var dateFormats = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate attempts to parse a day-first date string in multiple common
// formats. Dash separators are folded to slashes first. Returns nil if the
// input is empty or unparseable.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, fmt := range dateFormats {
		if t, err := time.Parse(fmt, s); err == nil {
			return &t
		}
	}
	folded := strings.ReplaceAll(s, "-", "/")
	if folded != s {
		for _, fmt := range dateFormats {
			if t, err := time.Parse(fmt, folded); err == nil {
				return &t
			}
		}
	}
	return nil
}

var embeddedDate = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{2,4})`)

// ExtractDate recovers a day-first date embedded in free text, e.g.
// "Admission Date : 05/03/2024". Returns nil when no date-shaped token is
// present or the token does not parse.
func ExtractDate(s string) *time.Time {
	m := embeddedDate.FindString(s)
	if m == "" {
		return nil
	}
	return ParseDate(m)
}
