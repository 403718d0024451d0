package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Patterns over-capture a trailing date or channel clause more often
// than not; "SWIGGY on 01-Jan-26" should come out as "SWIGGY".
var trailingClause = regexp.MustCompile(`(?i)\s+(?:on|at|via|using)\s+.*$`)

// CleanMerchant trims and de-noises a raw merchant capture. It returns
// "" when the remainder is too short or purely numeric to be a name.
// Best effort only; callers must treat the merchant as optional.
func CleanMerchant(raw string) string {
	m := strings.TrimSpace(raw)
	m = trailingClause.ReplaceAllString(m, "")
	m = whitespaceRun.ReplaceAllString(m, " ")
	m = strings.TrimSpace(m)

	if utf8.RuneCountInString(m) < 2 || isAllDigits(m) {
		return ""
	}
	return m
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
