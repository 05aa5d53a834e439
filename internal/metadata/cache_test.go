package metadata

import (
	"path/filepath"
	"testing"
	"time"
)

func TestCacheLookupHonorsTTL(t *testing.T) {
	now := time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	cache := NewCache("", nil, WithTTL(time.Hour), WithClock(clock))
	record := Record{Description: "cached", Source: "test"}
	if err := cache.Store("steam_220", record); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if got, ok := cache.Lookup("steam_220"); !ok || got.Description != "cached" {
		t.Fatalf("expected fresh hit, got ok=%v record=%#v", ok, got)
	}

	// Just inside the window.
	now = now.Add(time.Hour)
	if _, ok := cache.Lookup("steam_220"); !ok {
		t.Fatal("expected hit at exactly the TTL boundary")
	}

	// Just past the window.
	now = now.Add(time.Nanosecond)
	if _, ok := cache.Lookup("steam_220"); ok {
		t.Fatal("expected miss after expiry")
	}
}

func TestCacheMissingKey(t *testing.T) {
	cache := NewCache("", nil)
	if _, ok := cache.Lookup("absent"); ok {
		t.Fatal("expected miss for absent key")
	}
	if _, ok := cache.Lookup(""); ok {
		t.Fatal("expected miss for empty key")
	}
}

func TestCacheStoreRejectsEmptyKey(t *testing.T) {
	cache := NewCache("", nil)
	if err := cache.Store("  ", Record{}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestCachePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")

	first := NewCache(path, nil)
	if err := first.Store("title_celeste", Record{Developer: "EXOK", Source: "test"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	second := NewCache(path, nil)
	got, ok := second.Lookup("title_celeste")
	if !ok {
		t.Fatal("expected persisted entry in new instance")
	}
	if got.Developer != "EXOK" {
		t.Errorf("developer = %q", got.Developer)
	}
}

func TestCacheClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	cache := NewCache(path, nil)
	if err := cache.Store("a", Record{}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if cache.Count() != 0 {
		t.Fatalf("expected empty cache, got %d entries", cache.Count())
	}

	reloaded := NewCache(path, nil)
	if reloaded.Count() != 0 {
		t.Fatalf("expected cleared cache on disk, got %d entries", reloaded.Count())
	}
}
