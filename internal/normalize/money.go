package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var amountJunk = regexp.MustCompile(`[(),]`)

// Amount parses a raw numeric cell: parentheses, commas and surrounding
// whitespace are stripped before conversion. Unparsable values report
// ok=false with a zero amount; they never fail the batch.
func Amount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(amountJunk.ReplaceAllString(raw, ""))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Float parses a raw numeric cell into a float64 using the same junk
// stripping as Amount. Used for unit counts where decimal precision is not
// needed.
func Float(raw string) (float64, bool) {
	s := strings.TrimSpace(amountJunk.ReplaceAllString(raw, ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int parses a raw integer cell (charge codes, bed numbers). Fractional
// values are truncated toward zero.
func Int(raw string) (int64, bool) {
	f, ok := Float(raw)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
