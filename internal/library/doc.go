// Package library persists the game catalog in SQLite.
//
// The store holds two tables: entries (the durable catalog, including
// user-owned fields such as favorite and play time that scans must never
// clobber) and ignored_titles (titles the user has suppressed; the scan
// pipeline drops matching candidates before they reach the merge step).
//
// Save is an idempotent upsert keyed by canonical key. Deletion is always
// an explicit user action or the stale-entry prune, which exempts
// manually created entries.
package library
