package metadata

import (
	"context"
	"log/slog"
	"strings"

	"nexus/internal/library"
	"nexus/internal/logging"
	"nexus/internal/metadata/rawg"
	"nexus/internal/metadata/steamstore"
	"nexus/internal/scanner"
	"nexus/internal/titles"
)

// Generic defaults applied when every lookup tier comes up empty.
const (
	DefaultDescription = "No description available."
	DefaultDeveloper   = "Unknown Developer"
)

// DefaultSimilarityThreshold gates fuzzy search acceptance.
const DefaultSimilarityThreshold = 0.70

// Record is resolved descriptive metadata for one title.
type Record struct {
	CoverURL    string `json:"cover_url"`
	HeroURL     string `json:"hero_url"`
	Description string `json:"description"`
	Developer   string `json:"developer"`
	Source      string `json:"source"`
}

// Resolver performs tiered metadata lookups. Both clients are optional;
// a nil client skips its tiers.
type Resolver struct {
	catalog    rawg.Searcher
	storefront steamstore.Storefront
	cache      *Cache
	threshold  float64
	logger     *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithSimilarityThreshold overrides the fuzzy acceptance threshold.
func WithSimilarityThreshold(threshold float64) ResolverOption {
	return func(r *Resolver) {
		if threshold > 0 && threshold <= 1 {
			r.threshold = threshold
		}
	}
}

// NewResolver builds a resolver over the given clients and cache.
func NewResolver(catalog rawg.Searcher, storefront steamstore.Storefront, cache *Cache, logger *slog.Logger, opts ...ResolverOption) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cache == nil {
		cache = NewCache("", nil)
	}
	r := &Resolver{
		catalog:    catalog,
		storefront: storefront,
		cache:      cache,
		threshold:  DefaultSimilarityThreshold,
		logger:     logging.NewComponentLogger(logger, "metadata"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces metadata for a candidate. It never fails: lookup
// errors degrade to the next tier and the result always carries at
// least the generic defaults.
func (r *Resolver) Resolve(ctx context.Context, candidate scanner.Candidate) Record {
	key := cacheKey(candidate)
	if record, ok := r.cache.Lookup(key); ok {
		return record
	}

	record := r.resolveUncached(ctx, candidate)
	r.applyDefaults(&record, candidate)

	if err := r.cache.Store(key, record); err != nil {
		r.logger.Warn("failed to cache metadata",
			logging.String(logging.FieldTitle, candidate.Title),
			logging.Error(err))
	}
	return record
}

func (r *Resolver) resolveUncached(ctx context.Context, candidate scanner.Candidate) Record {
	if record, ok := r.resolveKnownID(ctx, candidate); ok {
		return record
	}
	if record, ok := r.resolveStorefront(ctx, candidate); ok {
		return record
	}
	if record, ok := r.resolveSearch(ctx, candidate); ok {
		return record
	}
	if record, ok := lookupFallback(candidate.Title); ok {
		record.Source = "fallback"
		return record
	}
	return Record{Source: "default"}
}

func (r *Resolver) resolveKnownID(ctx context.Context, candidate scanner.Candidate) (Record, bool) {
	if r.catalog == nil {
		return Record{}, false
	}
	id, ok := lookupKnownID(candidate.Title)
	if !ok {
		return Record{}, false
	}
	game, err := r.catalog.GetByID(ctx, id)
	if err != nil {
		r.logger.Warn("catalog id lookup failed",
			logging.String(logging.FieldTitle, candidate.Title),
			logging.Int64("catalog_id", id),
			logging.Error(err))
		return Record{}, false
	}
	if game == nil {
		return Record{}, false
	}
	return recordFromCatalog(game, "catalog-id"), true
}

func (r *Resolver) resolveStorefront(ctx context.Context, candidate scanner.Candidate) (Record, bool) {
	if r.storefront == nil || candidate.Mechanism != library.MechanismSteam || candidate.MechanismID == "" {
		return Record{}, false
	}

	// The CDN artwork URLs are deterministic per app ID; they are set
	// even when the appdetails call fails.
	record := Record{
		CoverURL: r.storefront.CoverURL(candidate.MechanismID),
		HeroURL:  r.storefront.HeroURL(candidate.MechanismID),
		Source:   "steam-store",
	}

	details, err := r.storefront.AppDetails(ctx, candidate.MechanismID)
	if err != nil {
		r.logger.Warn("storefront lookup failed",
			logging.String(logging.FieldTitle, candidate.Title),
			logging.String("app_id", candidate.MechanismID),
			logging.Error(err))
		return record, true
	}
	if details != nil {
		record.Description = details.ShortDescription
		record.Developer = details.PrimaryDeveloper()
	}
	return record, true
}

func (r *Resolver) resolveSearch(ctx context.Context, candidate scanner.Candidate) (Record, bool) {
	if r.catalog == nil {
		return Record{}, false
	}
	query := titles.CleanSearchTitle(candidate.Title)
	if query == "" {
		return Record{}, false
	}
	game, err := r.catalog.Search(ctx, query)
	if err != nil {
		r.logger.Warn("catalog search failed",
			logging.String(logging.FieldTitle, candidate.Title),
			logging.Error(err))
		return Record{}, false
	}
	if game == nil {
		return Record{}, false
	}

	wanted := titles.Normalize(query)
	got := titles.Normalize(game.Name)
	similarity := titles.Similarity(wanted, got)
	contained := strings.Contains(got, wanted) || strings.Contains(wanted, got)
	if similarity <= r.threshold && !contained {
		r.logger.Debug("rejecting low-confidence search match",
			logging.String(logging.FieldTitle, candidate.Title),
			logging.String("matched", game.Name),
			logging.Float64("similarity", similarity))
		return Record{}, false
	}
	return recordFromCatalog(game, "catalog-search"), true
}

// applyDefaults fills whatever the lookup tiers left empty.
func (r *Resolver) applyDefaults(record *Record, candidate scanner.Candidate) {
	if r.storefront != nil && candidate.Mechanism == library.MechanismSteam && candidate.MechanismID != "" {
		if record.CoverURL == "" {
			record.CoverURL = r.storefront.CoverURL(candidate.MechanismID)
		}
		if record.HeroURL == "" {
			record.HeroURL = r.storefront.HeroURL(candidate.MechanismID)
		}
	}
	if record.Description == "" {
		record.Description = DefaultDescription
	}
	if record.Developer == "" {
		record.Developer = DefaultDeveloper
	}
}

func recordFromCatalog(game *rawg.Game, source string) Record {
	return Record{
		CoverURL:    game.BackgroundImage,
		HeroURL:     game.BackgroundImage,
		Description: game.Description,
		Developer:   game.PrimaryDeveloper(),
		Source:      source,
	}
}

// cacheKey prefers the stable mechanism identifier, falling back to the
// normalized title for channels without one.
func cacheKey(candidate scanner.Candidate) string {
	if candidate.MechanismID != "" {
		return string(candidate.Mechanism) + "_" + candidate.MechanismID
	}
	return "title_" + candidate.NormalizedTitle()
}
