package titles

import "strings"

// CanonicalKey derives the primary matching key for a discovered title:
// the lowercased mechanism tag joined to the sanitized mechanism identifier
// (or the title when no identifier exists). Two candidates with equal
// canonical keys are the same title.
func CanonicalKey(mechanism, identifierOrTitle string) string {
	return strings.ToLower(strings.TrimSpace(mechanism)) + "_" + sanitizeKey(identifierOrTitle)
}

// sanitizeKey keeps lowercase ASCII letters and digits only.
func sanitizeKey(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
