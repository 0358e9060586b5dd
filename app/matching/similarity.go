package matching

import (
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio returns a 0-100 similarity score between a and b, derived from
// their Levenshtein distance normalized by the longer length. 100 means
// identical.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}

	longest := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 100
	}

	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(longest))))
}
