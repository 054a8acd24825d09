package normalize

import (
	"regexp"
	"strings"
)

var (
	honorific  = regexp.MustCompile(`(?i)\b(Dr|Mr|Mrs)\.?\b`)
	namePunct  = regexp.MustCompile(`[().]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Key collapses a free-text provider or company name to the canonical join
// key: honorific prefixes (Dr/Mr/Mrs), parentheses, dots and all whitespace
// removed, result upper-cased. Idempotent, so already-cleaned values pass
// through unchanged. Returns "" for empty input.
func Key(name string) string {
	s := honorific.ReplaceAllString(name, "")
	s = namePunct.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "")
	return strings.ToUpper(strings.TrimSpace(s))
}

// CreditCompany extracts the company name from a discharge register cell of
// the form "Credit Company : NAME". The text after the first colon is
// trimmed and upper-cased; cells without a colon yield the not-found marker.
func CreditCompany(raw, notFound string) string {
	_, after, ok := strings.Cut(raw, ":")
	if !ok {
		return notFound
	}
	s := strings.ToUpper(strings.TrimSpace(after))
	if s == "" {
		return notFound
	}
	return s
}

var opCreditPrefix = regexp.MustCompile(`^Credit Company:-\s*\d+\s*`)

// OPCreditCompany strips the "Credit Company:- N" prefix used by the OP
// discharge export and upper-cases the remainder.
func OPCreditCompany(raw string) string {
	return strings.ToUpper(strings.TrimSpace(opCreditPrefix.ReplaceAllString(raw, "")))
}

var nonASCII = regexp.MustCompile(`[^\x00-\x7F]+`)

// ID trims an identifier cell and strips non-ASCII bytes that leak out of
// the HIS exports.
func ID(raw string) string {
	return strings.TrimSpace(nonASCII.ReplaceAllString(raw, ""))
}
