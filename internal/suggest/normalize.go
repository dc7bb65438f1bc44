package suggest

import "strings"

// Normalize lowercases a query and collapses internal whitespace runs to a
// single space, so "  Mechanical   KEYBOARDS " and "mechanical keyboards"
// index identically. The result is trimmed; an all-whitespace input yields "".
func Normalize(q string) string {
	var b strings.Builder
	b.Grow(len(q))
	prevSpace := false
	for _, r := range strings.ToLower(q) {
		switch r {
		case ' ', '\t', '\n', '\r':
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
		default:
			prevSpace = false
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
