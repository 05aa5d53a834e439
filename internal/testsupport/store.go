package testsupport

import (
	"context"
	"testing"
	"time"

	"nexus/internal/config"
	"nexus/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SaveEntry persists an entry for tests using the provided store.
func SaveEntry(t testing.TB, store *library.Store, entry *library.Entry) *library.Entry {
	t.Helper()

	if err := store.Save(context.Background(), entry); err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return entry
}

// FixedTime returns a stable timestamp for deterministic assertions.
func FixedTime() time.Time {
	return time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)
}
