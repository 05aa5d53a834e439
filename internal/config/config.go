package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
	CacheDir string `toml:"cache_dir"`
}

// Sources contains per-mechanism discovery roots. Empty values fall back to
// the well-known locations for the platform; set them to point scans at
// non-standard installs or test fixtures.
type Sources struct {
	SteamRoot         string   `toml:"steam_root"`
	EpicManifestDir   string   `toml:"epic_manifest_dir"`
	RiotRoots         []string `toml:"riot_roots"`
	BattleNetRoots    []string `toml:"battlenet_roots"`
	InstallRecordsDir string   `toml:"install_records_dir"`
	// Priority is the adapter tie-break order for deduplication. Earlier
	// mechanisms win when two sources report the same title.
	Priority []string `toml:"priority"`
}

// Catalog contains configuration for the external game catalog API.
type Catalog struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// SteamStore contains configuration for first-party Steam metadata.
type SteamStore struct {
	StoreBaseURL string `toml:"store_base_url"`
	CDNBaseURL   string `toml:"cdn_base_url"`
}

// Metadata contains resolver tuning.
type Metadata struct {
	CacheTTLHours         int     `toml:"cache_ttl_hours"`
	SimilarityThreshold   float64 `toml:"similarity_threshold"`
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"`
	LookupConcurrency     int     `toml:"lookup_concurrency"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for nexus.
//
// Configuration sections by subsystem:
//   - Paths: data, log, and cache directories
//   - Sources: discovery roots and adapter priority order
//   - Catalog: external catalog API (search + by-ID lookups)
//   - SteamStore: first-party storefront endpoints and artwork CDN
//   - Metadata: resolver cache TTL, similarity threshold, concurrency
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Sources    Sources    `toml:"sources"`
	Catalog    Catalog    `toml:"catalog"`
	SteamStore SteamStore `toml:"steam_store"`
	Metadata   Metadata   `toml:"metadata"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/nexus/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("nexus.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	for _, field := range []*string{&c.Sources.SteamRoot, &c.Sources.EpicManifestDir, &c.Sources.InstallRecordsDir} {
		if strings.TrimSpace(*field) == "" {
			continue
		}
		if *field, err = expandPath(*field); err != nil {
			return fmt.Errorf("sources: %w", err)
		}
	}
	for i, root := range c.Sources.RiotRoots {
		if c.Sources.RiotRoots[i], err = expandPath(root); err != nil {
			return fmt.Errorf("sources.riot_roots: %w", err)
		}
	}
	for i, root := range c.Sources.BattleNetRoots {
		if c.Sources.BattleNetRoots[i], err = expandPath(root); err != nil {
			return fmt.Errorf("sources.battlenet_roots: %w", err)
		}
	}
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	c.SteamStore.StoreBaseURL = strings.TrimRight(strings.TrimSpace(c.SteamStore.StoreBaseURL), "/")
	c.SteamStore.CDNBaseURL = strings.TrimRight(strings.TrimSpace(c.SteamStore.CDNBaseURL), "/")
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// EnsureDirectories creates required directories for operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.CacheDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
