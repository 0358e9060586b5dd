package matching

import (
	"strings"
	"unicode"
)

// NormalizeName canonicalizes a channel name for comparison: lowercase,
// drop everything that is not an ASCII letter, digit or whitespace, collapse
// whitespace runs to a single space and trim. Idempotent.
func NormalizeName(name string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}
	return b.String()
}
