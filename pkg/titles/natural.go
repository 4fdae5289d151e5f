package titles

import (
	"path/filepath"
	"sort"
	"strings"
)

// NaturalLess orders strings with embedded numbers numerically and the rest
// ignoring case, so "Episode 2" sorts before "Episode 10".
func NaturalLess(a, b string) bool {
	ca, cb := chunks(a), chunks(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		x, y := ca[i], cb[i]
		if x == y {
			continue
		}
		if isDigits(x) && isDigits(y) {
			if c := compareNumeric(x, y); c != 0 {
				return c < 0
			}
			continue
		}
		lx, ly := strings.ToLower(x), strings.ToLower(y)
		if lx != ly {
			return lx < ly
		}
	}
	return len(ca) < len(cb)
}

// SortPaths sorts file paths by natural order of their base names.
func SortPaths(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return NaturalLess(filepath.Base(paths[i]), filepath.Base(paths[j]))
	})
}

// chunks splits s into alternating runs of digits and non-digits.
func chunks(s string) []string {
	var out []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[start]) {
			out = append(out, s[start:i])
			start = i
		}
	}
	return out
}

// compareNumeric compares two digit strings of any length by value.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDigits(s string) bool {
	return s != "" && isDigit(s[0])
}
