package titles

import (
	"strings"
	"unicode"
)

// Slugify turns a title into a directory name: lowercase ASCII-folded
// letters and digits joined by single hyphens.
// Returns "untitled" when nothing usable remains.
func Slugify(title string) string {
	s := Fold(strings.ToLower(strings.TrimSpace(title)))

	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingDash = true
		}
		// Anything else is dropped without separating words.
	}

	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}
