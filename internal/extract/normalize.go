package extract

import (
	"regexp"
	"strings"
)

var (
	commaBetweenDigits = regexp.MustCompile(`(\d),(\d)`)
	whitespaceRun      = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes raw email text before matching: thousands
// separators between digits are removed (so "1,234.50" parses as a
// number) and whitespace runs collapse to single spaces. Commas outside
// numerals are left alone. Idempotent.
func Normalize(text string) string {
	text = commaBetweenDigits.ReplaceAllString(text, "$1$2")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
