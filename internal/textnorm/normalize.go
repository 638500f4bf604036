// Package textnorm turns extracted document text into the canonical form
// the vectorizer was fitted on.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	// Case-insensitive so a second pass over lower-cased output finds nothing new.
	urlPattern        = regexp.MustCompile(`(?i)http\S+`)
	controlPattern    = regexp.MustCompile(`[\r\n\t]+`)
	nonLetterPattern  = regexp.MustCompile(`[^a-zA-Z ]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize strips URLs, control runs and non-letters, collapses whitespace
// and lower-cases. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = urlPattern.ReplaceAllString(s, " ")
	s = controlPattern.ReplaceAllString(s, " ")
	s = nonLetterPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}
