// Package titles derives slugs, sort keys and display titles from
// user-supplied titles and file names.
package titles

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold removes diacritics: "Amélie" becomes "Amelie".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// CleanTitle normalizes a title for matching.
// Lowercases, folds accents, drops a leading article and punctuation, and
// collapses whitespace.
func CleanTitle(title string) string {
	s := Fold(strings.ToLower(title))

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "'", "")
	for _, sep := range []string{"-", ".", "_"} {
		s = strings.ReplaceAll(s, sep, " ")
	}

	parts := strings.Split(s, ":")
	for i, part := range parts {
		parts[i] = stripLeadingArticle(strings.TrimSpace(part))
	}
	s = strings.Join(parts, " ")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func stripLeadingArticle(s string) string {
	for _, art := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(s, art) {
			return strings.TrimPrefix(s, art)
		}
	}
	return s
}
