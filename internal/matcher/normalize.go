package matcher

import (
	"regexp"
	"strings"
)

var (
	parenRe      = regexp.MustCompile(`\([^)]*\)`)
	bracketRe    = regexp.MustCompile(`\[[^\]]*\]`)
	featRe       = regexp.MustCompile(`feat\..*$`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes a free-text track title for comparison.
//
// The pipeline runs in order; later steps assume earlier cleanup:
// lowercase, drop "(...)" and "[...]" qualifiers, drop a trailing
// "feat. ..." clause, drop everything outside [a-z0-9\s], collapse
// whitespace. Empty input normalizes to the empty string.
func Normalize(title string) string {
	s := strings.ToLower(title)
	s = parenRe.ReplaceAllString(s, "")
	s = bracketRe.ReplaceAllString(s, "")
	s = featRe.ReplaceAllString(s, "")
	s = nonAlnumRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
