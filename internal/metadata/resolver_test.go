package metadata

import (
	"context"
	"errors"
	"testing"

	"nexus/internal/library"
	"nexus/internal/metadata/rawg"
	"nexus/internal/metadata/steamstore"
	"nexus/internal/scanner"
)

type fakeCatalog struct {
	searchResult *rawg.Game
	searchErr    error
	byIDResult   *rawg.Game
	byIDErr      error

	searchCalls int
	byIDCalls   int
	lastQuery   string
	lastID      int64
}

func (f *fakeCatalog) Search(_ context.Context, query string) (*rawg.Game, error) {
	f.searchCalls++
	f.lastQuery = query
	return f.searchResult, f.searchErr
}

func (f *fakeCatalog) GetByID(_ context.Context, id int64) (*rawg.Game, error) {
	f.byIDCalls++
	f.lastID = id
	return f.byIDResult, f.byIDErr
}

type fakeStorefront struct {
	details    *steamstore.Details
	detailsErr error

	detailsCalls int
}

func (f *fakeStorefront) AppDetails(_ context.Context, _ string) (*steamstore.Details, error) {
	f.detailsCalls++
	return f.details, f.detailsErr
}

func (f *fakeStorefront) CoverURL(appID string) string { return "https://cdn.test/" + appID + "/cover" }
func (f *fakeStorefront) HeroURL(appID string) string  { return "https://cdn.test/" + appID + "/hero" }

func newTestResolver(catalog rawg.Searcher, storefront steamstore.Storefront, opts ...ResolverOption) *Resolver {
	return NewResolver(catalog, storefront, NewCache("", nil), nil, opts...)
}

func TestResolveKnownIDBeforeSearch(t *testing.T) {
	catalog := &fakeCatalog{
		byIDResult: &rawg.Game{
			ID:              115,
			Name:            "League of Legends",
			Description:     "A MOBA.",
			BackgroundImage: "https://img.test/lol.jpg",
			Developers:      []rawg.Developer{{Name: "Riot Games"}},
		},
	}
	resolver := newTestResolver(catalog, nil)

	record := resolver.Resolve(context.Background(), scanner.Candidate{
		Title:     "League of Legends",
		Mechanism: library.MechanismRiot,
	})

	if record.Source != "catalog-id" {
		t.Fatalf("source = %q, want catalog-id", record.Source)
	}
	if catalog.lastID != 115 {
		t.Errorf("looked up id %d, want 115", catalog.lastID)
	}
	if catalog.searchCalls != 0 {
		t.Errorf("search called %d times, want 0", catalog.searchCalls)
	}
	if record.Developer != "Riot Games" {
		t.Errorf("developer = %q", record.Developer)
	}
}

func TestResolveStorefrontBeforeSearch(t *testing.T) {
	catalog := &fakeCatalog{}
	storefront := &fakeStorefront{
		details: &steamstore.Details{
			Name:             "Half-Life 2",
			ShortDescription: "The sequel.",
			Developers:       []string{"Valve"},
		},
	}
	resolver := newTestResolver(catalog, storefront)

	record := resolver.Resolve(context.Background(), scanner.Candidate{
		Title:       "Half-Life 2",
		Mechanism:   library.MechanismSteam,
		MechanismID: "220",
	})

	if record.Source != "steam-store" {
		t.Fatalf("source = %q, want steam-store", record.Source)
	}
	if record.CoverURL != "https://cdn.test/220/cover" {
		t.Errorf("cover = %q", record.CoverURL)
	}
	if record.Description != "The sequel." || record.Developer != "Valve" {
		t.Errorf("record = %#v", record)
	}
	if catalog.searchCalls != 0 {
		t.Errorf("search called %d times, want 0", catalog.searchCalls)
	}
}

func TestResolveStorefrontErrorStillYieldsArtwork(t *testing.T) {
	storefront := &fakeStorefront{detailsErr: errors.New("status 500")}
	resolver := newTestResolver(nil, storefront)

	record := resolver.Resolve(context.Background(), scanner.Candidate{
		Title:       "Half-Life 2",
		Mechanism:   library.MechanismSteam,
		MechanismID: "220",
	})

	if record.CoverURL != "https://cdn.test/220/cover" || record.HeroURL != "https://cdn.test/220/hero" {
		t.Errorf("artwork missing: %#v", record)
	}
	if record.Description != DefaultDescription {
		t.Errorf("description = %q, want default", record.Description)
	}
}

func TestResolveSearchAcceptsCloseMatch(t *testing.T) {
	catalog := &fakeCatalog{
		searchResult: &rawg.Game{
			Name:            "Hades",
			Description:     "Defy the god of the dead.",
			BackgroundImage: "https://img.test/hades.jpg",
			Developers:      []rawg.Developer{{Name: "Supergiant Games"}},
		},
	}
	resolver := newTestResolver(catalog, nil)

	record := resolver.Resolve(context.Background(), scanner.Candidate{
		Title:     "Hades",
		Mechanism: library.MechanismEpic,
	})

	if record.Source != "catalog-search" {
		t.Fatalf("source = %q, want catalog-search", record.Source)
	}
	if record.Developer != "Supergiant Games" {
		t.Errorf("developer = %q", record.Developer)
	}
}

func TestResolveSearchRejectsWeakMatch(t *testing.T) {
	catalog := &fakeCatalog{
		searchResult: &rawg.Game{Name: "Completely Different Title"},
	}
	resolver := newTestResolver(catalog, nil)

	record := resolver.Resolve(context.Background(), scanner.Candidate{
		Title:     "Obscure Indie Thing",
		Mechanism: library.MechanismEpic,
	})

	if record.Source != "default" {
		t.Fatalf("source = %q, want default", record.Source)
	}
	if record.Description != DefaultDescription || record.Developer != DefaultDeveloper {
		t.Errorf("record = %#v", record)
	}
}

func TestResolveSearchAcceptsContainment(t *testing.T) {
	catalog := &fakeCatalog{
		searchResult: &rawg.Game{
			Name:        "DOOM Eternal Deluxe Edition",
			Description: "Rip and tear.",
		},
	}
	resolver := newTestResolver(catalog, nil)

	record := resolver.Resolve(context.Background(), scanner.Candidate{
		Title:     "DOOM Eternal",
		Mechanism: library.MechanismEpic,
	})

	if record.Source != "catalog-search" {
		t.Fatalf("source = %q, want catalog-search", record.Source)
	}
}

func TestResolveFallbackTable(t *testing.T) {
	// Search fails and there is no known-ID client, but the title lives
	// in the hardcoded fallback table.
	catalog := &fakeCatalog{searchErr: errors.New("status 503"), byIDErr: errors.New("status 503")}
	resolver := newTestResolver(catalog, nil)

	record := resolver.Resolve(context.Background(), scanner.Candidate{
		Title:     "VALORANT",
		Mechanism: library.MechanismRiot,
	})

	if record.Source != "fallback" {
		t.Fatalf("source = %q, want fallback", record.Source)
	}
	if record.Developer != "Riot Games" {
		t.Errorf("developer = %q", record.Developer)
	}
}

func TestResolveNeverFails(t *testing.T) {
	resolver := newTestResolver(nil, nil)

	record := resolver.Resolve(context.Background(), scanner.Candidate{
		Title:     "Totally Unknown Game",
		Mechanism: library.MechanismStandalone,
	})

	if record.Description != DefaultDescription {
		t.Errorf("description = %q", record.Description)
	}
	if record.Developer != DefaultDeveloper {
		t.Errorf("developer = %q", record.Developer)
	}
	if record.Source != "default" {
		t.Errorf("source = %q", record.Source)
	}
}

func TestResolveUsesCacheOnSecondCall(t *testing.T) {
	storefront := &fakeStorefront{
		details: &steamstore.Details{ShortDescription: "Cached once.", Developers: []string{"Valve"}},
	}
	resolver := newTestResolver(nil, storefront)

	candidate := scanner.Candidate{
		Title:       "Portal 2",
		Mechanism:   library.MechanismSteam,
		MechanismID: "620",
	}
	first := resolver.Resolve(context.Background(), candidate)
	second := resolver.Resolve(context.Background(), candidate)

	if storefront.detailsCalls != 1 {
		t.Fatalf("appdetails called %d times, want 1", storefront.detailsCalls)
	}
	if first != second {
		t.Errorf("cached record differs: %#v vs %#v", first, second)
	}
}

func TestResolveSearchQueryCleaned(t *testing.T) {
	catalog := &fakeCatalog{
		searchResult: &rawg.Game{Name: "Celeste", Description: "Climb the mountain."},
	}
	resolver := newTestResolver(catalog, nil)

	resolver.Resolve(context.Background(), scanner.Candidate{
		Title:     "Celeste: Deluxe Edition",
		Mechanism: library.MechanismEpic,
	})

	if catalog.lastQuery != "Celeste" {
		t.Errorf("query = %q, want edition decoration stripped", catalog.lastQuery)
	}
}
