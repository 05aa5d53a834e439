package config

const (
	defaultDataDir  = "~/.local/share/nexus"
	defaultLogDir   = "~/.local/share/nexus/logs"
	defaultCacheDir = "~/.cache/nexus"

	defaultCatalogBaseURL = "https://api.rawg.io/api"

	defaultStoreBaseURL = "https://store.steampowered.com/api"
	defaultCDNBaseURL   = "https://steamcdn-a.akamaihd.net/steam/apps"

	// The source revisions disagreed on cache lifetime (24h vs 7 days);
	// 7 days is the documented constant here.
	defaultCacheTTLHours         = 7 * 24
	defaultSimilarityThreshold   = 0.7
	defaultRequestTimeoutSeconds = 5
	defaultLookupConcurrency     = 4

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// defaultPriority is the adapter tie-break order: storefront mechanisms
// with stable identifiers come before whitelist-based detection.
var defaultPriority = []string{"steam", "epic", "riot", "battlenet", "standalone"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			CacheDir: defaultCacheDir,
		},
		Sources: Sources{
			Priority: append([]string(nil), defaultPriority...),
		},
		Catalog: Catalog{
			BaseURL: defaultCatalogBaseURL,
		},
		SteamStore: SteamStore{
			StoreBaseURL: defaultStoreBaseURL,
			CDNBaseURL:   defaultCDNBaseURL,
		},
		Metadata: Metadata{
			CacheTTLHours:         defaultCacheTTLHours,
			SimilarityThreshold:   defaultSimilarityThreshold,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
			LookupConcurrency:     defaultLookupConcurrency,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
