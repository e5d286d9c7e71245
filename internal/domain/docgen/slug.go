package docgen

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackName is used when slugification of a legacy token leaves nothing.
const fallbackName = "campo"

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes free legacy-token text (spaces, accents, punctuation)
// into a safe snake_case variable name.
// "Cidade de residência" -> "cidade_de_residencia".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = stripAccents(s)
	s = nonAlnumRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return fallbackName
	}
	return s
}

// stripAccents decomposes characters and drops combining marks, folding
// "ção" to "cao". Input that cannot be transformed is returned as-is.
func stripAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
