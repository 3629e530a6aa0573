package answer

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes free text so that answer statements and weight
// feature keys compare equal regardless of case and whitespace noise.
// The text is NFC-composed, lower-cased, trimmed and internal whitespace
// runs are collapsed to a single space.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// CollapseSpace trims s and collapses internal whitespace runs without
// changing case.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
