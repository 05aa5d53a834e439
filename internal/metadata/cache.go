package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"nexus/internal/logging"
)

// DefaultTTL is how long a resolved record stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// CachedRecord is one resolved metadata record with its resolution time.
type CachedRecord struct {
	Key      string    `json:"key"`
	Record   Record    `json:"record"`
	CachedAt time.Time `json:"cached_at"`
}

// Cache provides thread-safe, TTL-bounded access to resolved metadata.
// When a path is configured entries persist across runs as a JSON file;
// with an empty path the cache is memory-only.
type Cache struct {
	path    string
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]CachedRecord
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL overrides the default expiry window.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects the time source used for expiry checks.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCache creates a cache backed by the given file path. An empty path
// keeps the cache memory-only.
func NewCache(path string, logger *slog.Logger, opts ...CacheOption) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Cache{
		path:    path,
		ttl:     DefaultTTL,
		now:     time.Now,
		logger:  logging.NewComponentLogger(logger, "metadata-cache"),
		entries: make(map[string]CachedRecord),
	}
	for _, opt := range opts {
		opt(c)
	}

	if path != "" {
		if err := c.load(); err != nil {
			c.logger.Warn("failed to load metadata cache", logging.Error(err))
		}
	}
	return c
}

// Lookup returns the cached record for a key when present and unexpired.
func (c *Cache) Lookup(key string) (Record, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Record{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[key]
	if !found {
		return Record{}, false
	}
	if c.now().Sub(entry.CachedAt) > c.ttl {
		return Record{}, false
	}
	return entry.Record, true
}

// Store adds or refreshes a record and persists the cache when backed by
// a file.
func (c *Cache) Store(key string, record Record) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("cache key cannot be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = CachedRecord{Key: key, Record: record, CachedAt: c.now()}

	if c.path == "" {
		return nil
	}
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

// Count returns the number of cached entries, expired ones included.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops all entries and persists the empty cache.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]CachedRecord)
	if c.path == "" {
		return nil
	}
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []CachedRecord
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]CachedRecord, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Key) != "" {
			c.entries[entry.Key] = entry
		}
	}
	return nil
}

// save writes the cache to disk atomically. Caller holds the lock.
func (c *Cache) save() error {
	entries := make([]CachedRecord, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CachedAt.After(entries[j].CachedAt)
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
