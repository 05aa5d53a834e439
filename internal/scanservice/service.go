package scanservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"nexus/internal/config"
	"nexus/internal/library"
	"nexus/internal/logging"
	"nexus/internal/metadata"
	"nexus/internal/metadata/rawg"
	"nexus/internal/metadata/steamstore"
	"nexus/internal/scanner"
)

// ErrScanInProgress is returned when a scan is requested while another
// one is still running.
var ErrScanInProgress = errors.New("scan already in progress")

// Stage identifies a scan phase for progress reporting.
type Stage string

const (
	StageDiscovery   Stage = "discovery"
	StageAggregation Stage = "aggregation"
	StageEnrichment  Stage = "enrichment"
	StageMerge       Stage = "merge"
	StagePrune       Stage = "prune"
	StageComplete    Stage = "complete"
)

// Progress describes how far a scan has advanced. Percent spans the
// whole scan, not the current stage.
type Progress struct {
	Stage   Stage
	Percent float64
	Message string
}

// ProgressFunc receives progress updates during a scan. Callbacks run on
// the scanning goroutine and must return promptly.
type ProgressFunc func(Progress)

// Resolver produces descriptive metadata for one discovered candidate.
type Resolver interface {
	Resolve(ctx context.Context, candidate scanner.Candidate) metadata.Record
}

// Service runs scans end to end. At most one scan executes at a time.
type Service struct {
	cfg        *config.Config
	store      *library.Store
	adapters   []scanner.Adapter
	aggregator *scanner.Aggregator
	resolver   Resolver
	workers    int
	logger     *slog.Logger

	mu      sync.Mutex
	running bool
}

// Option configures optional Service behavior.
type Option func(*Service)

// WithAdapters replaces the adapter set built from configuration.
func WithAdapters(adapters ...scanner.Adapter) Option {
	return func(s *Service) {
		s.adapters = adapters
	}
}

// WithResolver replaces the metadata resolver.
func WithResolver(resolver Resolver) Option {
	return func(s *Service) {
		if resolver != nil {
			s.resolver = resolver
		}
	}
}

// New builds a scan service from configuration. Adapters and the
// metadata resolver are assembled from the config unless overridden.
func New(cfg *config.Config, store *library.Store, logger *slog.Logger, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	priority, err := priorityFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:        cfg,
		store:      store,
		aggregator: scanner.NewAggregator(priority, logger),
		workers:    cfg.Metadata.LookupConcurrency,
		logger:     logging.NewComponentLogger(logger, "scanservice"),
	}
	if s.workers < 1 {
		s.workers = 1
	}
	s.adapters = buildAdapters(cfg, priority, logger)

	for _, opt := range opts {
		opt(s)
	}

	if s.resolver == nil {
		resolver, err := buildResolver(cfg, logger)
		if err != nil {
			return nil, err
		}
		s.resolver = resolver
	}
	return s, nil
}

// priorityFromConfig converts the configured source order to mechanisms.
func priorityFromConfig(cfg *config.Config) ([]library.Mechanism, error) {
	priority := make([]library.Mechanism, 0, len(cfg.Sources.Priority))
	for _, name := range cfg.Sources.Priority {
		mechanism, ok := library.ParseMechanism(name)
		if !ok {
			return nil, fmt.Errorf("unknown source %q in priority", name)
		}
		priority = append(priority, mechanism)
	}
	return priority, nil
}

func buildAdapters(cfg *config.Config, priority []library.Mechanism, logger *slog.Logger) []scanner.Adapter {
	adapters := make([]scanner.Adapter, 0, len(priority))
	for _, mechanism := range priority {
		switch mechanism {
		case library.MechanismSteam:
			adapters = append(adapters, scanner.NewSteam(cfg, logger))
		case library.MechanismEpic:
			adapters = append(adapters, scanner.NewEpic(cfg, logger))
		case library.MechanismRiot:
			adapters = append(adapters, scanner.NewRiot(cfg, logger))
		case library.MechanismBattleNet:
			adapters = append(adapters, scanner.NewBattleNet(cfg, logger))
		case library.MechanismStandalone:
			adapters = append(adapters, scanner.NewStandalone(cfg, logger))
		}
	}
	return adapters
}

func buildResolver(cfg *config.Config, logger *slog.Logger) (*metadata.Resolver, error) {
	timeout := time.Duration(cfg.Metadata.RequestTimeoutSeconds) * time.Second

	var catalog rawg.Searcher
	if cfg.Catalog.APIKey != "" {
		client, err := rawg.New(cfg.Catalog.APIKey, cfg.Catalog.BaseURL, rawg.WithTimeout(timeout))
		if err != nil {
			return nil, fmt.Errorf("catalog client: %w", err)
		}
		catalog = client
	}

	storefront, err := steamstore.New(cfg.SteamStore.StoreBaseURL, cfg.SteamStore.CDNBaseURL, steamstore.WithTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("storefront client: %w", err)
	}

	cachePath := filepath.Join(cfg.Paths.CacheDir, "metadata.json")
	cache := metadata.NewCache(cachePath, logger,
		metadata.WithTTL(time.Duration(cfg.Metadata.CacheTTLHours)*time.Hour))

	return metadata.NewResolver(catalog, storefront, cache, logger,
		metadata.WithSimilarityThreshold(cfg.Metadata.SimilarityThreshold)), nil
}

// ScanAll runs a full scan across every configured adapter, then prunes
// entries whose titles were not rediscovered. Manual entries are never
// pruned.
func (s *Service) ScanAll(ctx context.Context, progress ProgressFunc) ([]*library.Entry, error) {
	return s.scan(ctx, s.adapters, true, progress)
}

// ScanSource scans a single mechanism. No pruning happens: absence from
// one source says nothing about the rest of the library.
func (s *Service) ScanSource(ctx context.Context, mechanism library.Mechanism, progress ProgressFunc) ([]*library.Entry, error) {
	for _, adapter := range s.adapters {
		if adapter.Mechanism() == mechanism {
			return s.scan(ctx, []scanner.Adapter{adapter}, false, progress)
		}
	}
	return nil, fmt.Errorf("no adapter for mechanism %q", mechanism)
}

func (s *Service) scan(ctx context.Context, adapters []scanner.Adapter, prune bool, progress ProgressFunc) ([]*library.Entry, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	scanID := uuid.NewString()
	logger := s.logger.With(logging.String(logging.FieldScanID, scanID))
	started := time.Now()
	report := func(stage Stage, percent float64, message string) {
		if progress != nil {
			progress(Progress{Stage: stage, Percent: percent, Message: message})
		}
	}

	logger.Info("scan started", logging.Int("adapters", len(adapters)))
	report(StageDiscovery, 0, "discovering installed titles")

	results := s.discover(ctx, adapters, logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report(StageAggregation, 25, "deduplicating results")
	ignored, err := s.store.IgnoredSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ignored titles: %w", err)
	}
	candidates, err := s.aggregator.Aggregate(ctx, results, ignored)
	if err != nil {
		return nil, err
	}
	logger.Info("aggregation complete", logging.Int("candidates", len(candidates)))

	report(StageEnrichment, 35, fmt.Sprintf("enriching %d titles", len(candidates)))
	records := s.enrich(ctx, candidates, progress)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report(StageMerge, 80, "merging into library")
	entries := s.merge(ctx, candidates, records, logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if prune {
		report(StagePrune, 95, "pruning missing titles")
		pruned, err := s.pruneMissing(ctx, entries)
		if err != nil {
			return nil, err
		}
		if pruned > 0 {
			logger.Info("pruned missing entries", logging.Int64("removed", pruned))
		}
	}

	logger.Info("scan complete",
		logging.Int("entries", len(entries)),
		logging.Duration("elapsed", time.Since(started)))
	report(StageComplete, 100, fmt.Sprintf("found %d titles", len(entries)))
	return entries, nil
}

func (s *Service) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrScanInProgress
	}
	s.running = true
	return nil
}

func (s *Service) end() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// Running reports whether a scan is currently executing.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// discover runs every adapter concurrently. An adapter failure drops
// that source from the run instead of failing the scan.
func (s *Service) discover(ctx context.Context, adapters []scanner.Adapter, logger *slog.Logger) map[library.Mechanism][]scanner.Candidate {
	results := make(map[library.Mechanism][]scanner.Candidate, len(adapters))

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, adapter := range adapters {
		wg.Add(1)
		go func(adapter scanner.Adapter) {
			defer wg.Done()
			candidates, err := adapter.Scan(ctx)
			if err != nil {
				logger.Warn("source scan failed",
					logging.String(logging.FieldMechanism, string(adapter.Mechanism())),
					logging.Error(err))
				return
			}
			logger.Info("source scan complete",
				logging.String(logging.FieldMechanism, string(adapter.Mechanism())),
				logging.Int("candidates", len(candidates)))
			mu.Lock()
			results[adapter.Mechanism()] = candidates
			mu.Unlock()
		}(adapter)
	}
	wg.Wait()

	return results
}

// enrich resolves metadata for every candidate with a bounded worker
// pool. Results line up with the candidates slice by index.
func (s *Service) enrich(ctx context.Context, candidates []scanner.Candidate, progress ProgressFunc) []metadata.Record {
	records := make([]metadata.Record, len(candidates))
	if len(candidates) == 0 {
		return records
	}

	indexes := make(chan int)
	var done int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := s.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				records[i] = s.resolver.Resolve(ctx, candidates[i])
				if progress != nil {
					mu.Lock()
					done++
					percent := 35 + 45*float64(done)/float64(len(candidates))
					message := fmt.Sprintf("enriched %s", candidates[i].Title)
					mu.Unlock()
					progress(Progress{Stage: StageEnrichment, Percent: percent, Message: message})
				}
			}
		}()
	}

	for i := range candidates {
		select {
		case indexes <- i:
		case <-ctx.Done():
			close(indexes)
			wg.Wait()
			return records
		}
	}
	close(indexes)
	wg.Wait()
	return records
}

// pruneMissing removes entries whose canonical keys were absent from a
// full scan. The store exempts manual entries.
func (s *Service) pruneMissing(ctx context.Context, entries []*library.Entry) (int64, error) {
	present := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		present[entry.CanonicalKey] = struct{}{}
	}
	return s.store.PruneMissing(ctx, present)
}
