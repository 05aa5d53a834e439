// Package scanner discovers installed games across distribution channels.
//
// Each channel is an Adapter that reads its own on-disk layout (Steam ACF
// manifests, Epic .item manifests, Riot client installs, Battle.net
// product folders, OS installation records) and emits Candidates. The
// Aggregator runs candidates through a priority-ordered dedup so the same
// game discovered by two channels yields a single candidate.
//
// Adapters never fail a scan outright: unreadable roots produce an empty
// result and a warning, malformed per-game records are skipped.
package scanner
