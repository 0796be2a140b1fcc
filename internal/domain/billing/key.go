package billing

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldKey normalizes a natural key (client name, item description) for
// case-insensitive comparison: trimmed, then case-folded.
func FoldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// SameKey reports whether two natural keys are equal under fold comparison.
func SameKey(a, b string) bool {
	return FoldKey(a) == FoldKey(b)
}
