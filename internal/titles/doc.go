// Package titles provides the title normalization and matching primitives
// used across the scan pipeline.
//
// The primary use cases are:
//   - Reducing display titles to normalized comparison keys for
//     cross-source deduplication and ignore-list matching
//   - Deriving canonical keys that combine a distribution mechanism with
//     its mechanism-specific identifier
//   - Scoring name similarity for fuzzy catalog matches
//
// Normalization folds Unicode letters to their ASCII base via NFKD
// decomposition, lowercases, strips everything outside [a-z0-9], and
// removes a fixed set of edition suffixes from the end. The result is
// deterministic and locale-independent.
package titles
