package titles

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// editionSuffixes are stripped from the end of a normalized title so that
// storefront edition variants collapse onto the same comparison key.
var editionSuffixes = []string{
	"edition",
	"remastered",
	"definitive",
	"goty",
	"complete",
}

var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize reduces a display title to its canonical comparison key:
// accented letters fold to their ASCII base, everything outside [a-z0-9]
// is dropped, and trailing edition suffixes are removed. Normalize is pure
// and total; empty input yields the empty string. It is idempotent.
func Normalize(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	if folded, _, err := transform.String(asciiFold, title); err == nil {
		title = folded
	}
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	out := b.String()
	for {
		trimmed := out
		for _, suffix := range editionSuffixes {
			if len(trimmed) > len(suffix) && strings.HasSuffix(trimmed, suffix) {
				trimmed = trimmed[:len(trimmed)-len(suffix)]
			}
		}
		if trimmed == out {
			return out
		}
		out = trimmed
	}
}

// editionDecorations match trailing edition markers on display titles, e.g.
// "Deluxe Edition" or "Game of the Year". Used to clean search queries.
var editionDecorations = []string{
	"standard edition",
	"deluxe edition",
	"ultimate edition",
	"definitive edition",
	"complete edition",
	"game of the year edition",
	"game of the year",
	"goty edition",
	"goty",
	"edition",
	"remastered",
}

// CleanSearchTitle strips trailing edition decorations and separator
// punctuation from a display title before it is submitted to an external
// search endpoint. The visible casing of the remaining words is preserved.
func CleanSearchTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	lower := strings.ToLower(title)
	for _, dec := range editionDecorations {
		if !strings.HasSuffix(lower, dec) {
			continue
		}
		cut := len(title) - len(dec)
		title = strings.TrimRight(strings.TrimSpace(title[:cut]), ":-–—")
		title = strings.TrimSpace(title)
		lower = strings.ToLower(title)
	}
	return title
}
