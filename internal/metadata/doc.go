// Package metadata enriches discovered games with cover art, summary
// text, and developer credits.
//
// Resolution is tiered: cache, known-catalog-ID lookup, Steam storefront,
// fuzzy catalog search, hardcoded fallback, generic default. Resolve
// never fails; every network or decode error degrades to the next tier
// and the final tier always produces a usable record.
package metadata
