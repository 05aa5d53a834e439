package testsupport

import (
	"path/filepath"
	"testing"

	"nexus/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Catalog.APIKey = "test"
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Sources.SteamRoot = filepath.Join(base, "steam")
	cfgVal.Sources.EpicManifestDir = filepath.Join(base, "epic", "Manifests")
	cfgVal.Sources.RiotRoots = []string{filepath.Join(base, "riot")}
	cfgVal.Sources.BattleNetRoots = []string{filepath.Join(base, "battlenet")}
	cfgVal.Sources.InstallRecordsDir = filepath.Join(base, "installrecords")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCatalogBaseURL points the catalog client at a test server.
func WithCatalogBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.BaseURL = url
	}
}

// WithStoreBaseURL points the storefront client at a test server.
func WithStoreBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.SteamStore.StoreBaseURL = url
	}
}

// WithPriority overrides the source priority order on the test config.
func WithPriority(priority ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sources.Priority = priority
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
