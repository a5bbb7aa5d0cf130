package reconcile

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the comparison key used by the normalized and fuzzy
// passes: NFC, case-folded, with every run of whitespace or punctuation
// collapsed to a single "-" and trimmed from both ends.
func Normalize(s string) string {
	// Casers are stateful; one per call keeps Normalize safe for the pool.
	folded := cases.Fold().String(norm.NFC.String(s))

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
