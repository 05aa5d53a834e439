package scanservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"nexus/internal/library"
	"nexus/internal/metadata"
	"nexus/internal/scanner"
	"nexus/internal/scanservice"
	"nexus/internal/testsupport"
)

type fakeAdapter struct {
	mechanism  library.Mechanism
	candidates []scanner.Candidate
	err        error
	block      chan struct{}
}

func (f *fakeAdapter) Name() string                 { return string(f.mechanism) }
func (f *fakeAdapter) Mechanism() library.Mechanism { return f.mechanism }

func (f *fakeAdapter) Scan(ctx context.Context) ([]scanner.Candidate, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.candidates, f.err
}

type fakeResolver struct {
	records map[string]metadata.Record
}

func (f *fakeResolver) Resolve(_ context.Context, candidate scanner.Candidate) metadata.Record {
	if record, ok := f.records[candidate.Title]; ok {
		return record
	}
	return metadata.Record{
		Description: metadata.DefaultDescription,
		Developer:   metadata.DefaultDeveloper,
		Source:      "default",
	}
}

func steamCandidate(title, appID string) scanner.Candidate {
	return scanner.Candidate{
		Title:       title,
		Mechanism:   library.MechanismSteam,
		MechanismID: appID,
		InstallPath: "/games/" + appID,
		Readiness:   library.ReadinessReady,
	}
}

func newService(t *testing.T, store *library.Store, resolver scanservice.Resolver, adapters ...scanner.Adapter) *scanservice.Service {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if resolver == nil {
		resolver = &fakeResolver{}
	}
	service, err := scanservice.New(cfg, store, nil,
		scanservice.WithAdapters(adapters...),
		scanservice.WithResolver(resolver))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return service
}

func TestScanAllDiscoversEnrichesAndMerges(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	steam := &fakeAdapter{
		mechanism: library.MechanismSteam,
		candidates: []scanner.Candidate{
			steamCandidate("Half-Life 2", "220"),
			steamCandidate("Portal 2", "620"),
		},
	}
	epic := &fakeAdapter{
		mechanism: library.MechanismEpic,
		candidates: []scanner.Candidate{
			{Title: "Hades", Mechanism: library.MechanismEpic, MechanismID: "min"},
			// Same title as the Steam copy; priority says Steam wins.
			{Title: "Portal 2", Mechanism: library.MechanismEpic, MechanismID: "p2"},
		},
	}
	resolver := &fakeResolver{records: map[string]metadata.Record{
		"Half-Life 2": {Description: "The sequel.", Developer: "Valve", Source: "steam-store"},
	}}

	service := newService(t, store, resolver, steam, epic)

	entries, err := service.ScanAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	saved, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(saved) != 3 {
		t.Fatalf("store holds %d entries, want 3", len(saved))
	}

	hl2, err := store.FindByCanonicalKey(context.Background(), "steam_220")
	if err != nil || hl2 == nil {
		t.Fatalf("missing steam_220: %v", err)
	}
	if hl2.Description != "The sequel." || hl2.Developer != "Valve" {
		t.Errorf("metadata not applied: %#v", hl2)
	}

	portal, err := store.FindByNormalizedTitle(context.Background(), "portal2")
	if err != nil || portal == nil {
		t.Fatalf("missing portal 2: %v", err)
	}
	if portal.Mechanism != library.MechanismSteam {
		t.Errorf("duplicate resolved to %q, want steam", portal.Mechanism)
	}
}

func TestScanAllIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	steam := &fakeAdapter{
		mechanism:  library.MechanismSteam,
		candidates: []scanner.Candidate{steamCandidate("Half-Life 2", "220")},
	}
	service := newService(t, store, nil, steam)

	first, err := service.ScanAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("first scan failed: %v", err)
	}
	second, err := service.ScanAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("second scan failed: %v", err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("entry counts: %d then %d, want 1 and 1", len(first), len(second))
	}
	if first[0].ID != second[0].ID {
		t.Errorf("entry identity changed across rescans: %d vs %d", first[0].ID, second[0].ID)
	}
}

func TestRescanPreservesUserEdits(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	steam := &fakeAdapter{
		mechanism:  library.MechanismSteam,
		candidates: []scanner.Candidate{steamCandidate("Half-Life 2", "220")},
	}
	service := newService(t, store, nil, steam)

	entries, err := service.ScanAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("initial scan failed: %v", err)
	}
	id := entries[0].ID

	// User edits after the first scan.
	edited := entries[0]
	edited.Description = "My notes."
	edited.CoverURL = "https://example.test/custom.jpg"
	if err := store.Update(context.Background(), edited); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := store.SetFavorite(context.Background(), id, true); err != nil {
		t.Fatalf("SetFavorite failed: %v", err)
	}

	// Resolver now has real metadata; it must not clobber the edits.
	service = newService(t, store, &fakeResolver{records: map[string]metadata.Record{
		"Half-Life 2": {Description: "The sequel.", Developer: "Valve"},
	}}, steam)
	if _, err := service.ScanAll(context.Background(), nil); err != nil {
		t.Fatalf("rescan failed: %v", err)
	}

	after, err := store.GetByID(context.Background(), id)
	if err != nil || after == nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if after.Description != "My notes." {
		t.Errorf("description = %q, want user edit preserved", after.Description)
	}
	if after.CoverURL != "https://example.test/custom.jpg" {
		t.Errorf("cover = %q, want user edit preserved", after.CoverURL)
	}
	if !after.Favorite {
		t.Error("favorite flag lost on rescan")
	}
	if after.Developer != "Valve" {
		t.Errorf("developer = %q, want empty field filled", after.Developer)
	}
}

func TestScanAllPrunesMissingButNotManual(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	steam := &fakeAdapter{
		mechanism: library.MechanismSteam,
		candidates: []scanner.Candidate{
			steamCandidate("Half-Life 2", "220"),
			steamCandidate("Portal 2", "620"),
		},
	}
	service := newService(t, store, nil, steam)
	if _, err := service.ScanAll(context.Background(), nil); err != nil {
		t.Fatalf("initial scan failed: %v", err)
	}

	manual := testsupport.SaveEntry(t, store, &library.Entry{
		Title:           "My Mod",
		CanonicalKey:    "manual_mymod",
		NormalizedTitle: "mymod",
		Mechanism:       library.MechanismManual,
		Readiness:       library.ReadinessReady,
	})

	// Portal 2 disappears from the source.
	steam.candidates = steam.candidates[:1]
	if _, err := service.ScanAll(context.Background(), nil); err != nil {
		t.Fatalf("rescan failed: %v", err)
	}

	if entry, err := store.FindByCanonicalKey(context.Background(), "steam_620"); err != nil || entry != nil {
		t.Errorf("expected steam_620 pruned, got %#v err=%v", entry, err)
	}
	if entry, err := store.GetByID(context.Background(), manual.ID); err != nil || entry == nil {
		t.Errorf("manual entry pruned: %#v err=%v", entry, err)
	}
}

func TestScanSourceDoesNotPrune(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	steam := &fakeAdapter{
		mechanism:  library.MechanismSteam,
		candidates: []scanner.Candidate{steamCandidate("Half-Life 2", "220")},
	}
	epic := &fakeAdapter{
		mechanism:  library.MechanismEpic,
		candidates: []scanner.Candidate{{Title: "Hades", Mechanism: library.MechanismEpic, MechanismID: "min"}},
	}
	service := newService(t, store, nil, steam, epic)
	if _, err := service.ScanAll(context.Background(), nil); err != nil {
		t.Fatalf("full scan failed: %v", err)
	}

	entries, err := service.ScanSource(context.Background(), library.MechanismEpic, nil)
	if err != nil {
		t.Fatalf("ScanSource failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	// The Steam entry was absent from the single-source scan yet stays.
	if entry, err := store.FindByCanonicalKey(context.Background(), "steam_220"); err != nil || entry == nil {
		t.Errorf("steam entry removed by single-source scan: %#v err=%v", entry, err)
	}
}

func TestScanSourceUnknownMechanism(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	service := newService(t, store, nil, &fakeAdapter{mechanism: library.MechanismSteam})

	if _, err := service.ScanSource(context.Background(), library.MechanismRiot, nil); err == nil {
		t.Fatal("expected error for mechanism without adapter")
	}
}

func TestScanRejectsConcurrentRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	block := make(chan struct{})
	steam := &fakeAdapter{
		mechanism:  library.MechanismSteam,
		candidates: []scanner.Candidate{steamCandidate("Half-Life 2", "220")},
		block:      block,
	}
	service := newService(t, store, nil, steam)

	errCh := make(chan error, 1)
	go func() {
		_, err := service.ScanAll(context.Background(), nil)
		errCh <- err
	}()

	for !service.Running() {
		time.Sleep(time.Millisecond)
	}
	if _, err := service.ScanAll(context.Background(), nil); !errors.Is(err, scanservice.ErrScanInProgress) {
		t.Fatalf("err = %v, want ErrScanInProgress", err)
	}

	close(block)
	if err := <-errCh; err != nil {
		t.Fatalf("blocked scan failed: %v", err)
	}
	if service.Running() {
		t.Error("service still reports running after scan completed")
	}
}

func TestScanSkipsIgnoredTitles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if err := store.AddIgnored(context.Background(), "Half-Life 2", "halflife2", "steam_220"); err != nil {
		t.Fatalf("AddIgnored failed: %v", err)
	}

	steam := &fakeAdapter{
		mechanism: library.MechanismSteam,
		candidates: []scanner.Candidate{
			steamCandidate("Half-Life 2", "220"),
			steamCandidate("Portal 2", "620"),
		},
	}
	service := newService(t, store, nil, steam)

	entries, err := service.ScanAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].CanonicalKey != "steam_620" {
		t.Errorf("kept %q, want steam_620", entries[0].CanonicalKey)
	}
}

func TestScanToleratesAdapterFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	broken := &fakeAdapter{mechanism: library.MechanismEpic, err: errors.New("manifest dir unreadable")}
	steam := &fakeAdapter{
		mechanism:  library.MechanismSteam,
		candidates: []scanner.Candidate{steamCandidate("Half-Life 2", "220")},
	}
	service := newService(t, store, nil, steam, broken)

	entries, err := service.ScanAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
}

func TestScanReportsProgress(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	steam := &fakeAdapter{
		mechanism:  library.MechanismSteam,
		candidates: []scanner.Candidate{steamCandidate("Half-Life 2", "220")},
	}
	service := newService(t, store, nil, steam)

	seen := make(map[scanservice.Stage]bool)
	var last scanservice.Progress
	_, err := service.ScanAll(context.Background(), func(p scanservice.Progress) {
		seen[p.Stage] = true
		last = p
	})
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}

	for _, stage := range []scanservice.Stage{
		scanservice.StageDiscovery,
		scanservice.StageAggregation,
		scanservice.StageEnrichment,
		scanservice.StageMerge,
		scanservice.StagePrune,
		scanservice.StageComplete,
	} {
		if !seen[stage] {
			t.Errorf("stage %q never reported", stage)
		}
	}
	if last.Stage != scanservice.StageComplete || last.Percent != 100 {
		t.Errorf("final progress = %#v", last)
	}
}

func TestRescanRekeysTitleThatChangedChannel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	epic := &fakeAdapter{
		mechanism:  library.MechanismEpic,
		candidates: []scanner.Candidate{{Title: "Hades", Mechanism: library.MechanismEpic, MechanismID: "min"}},
	}
	service := newService(t, store, nil, epic)
	entries, err := service.ScanAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("initial scan failed: %v", err)
	}
	id := entries[0].ID
	if _, err := store.SetFavorite(context.Background(), id, true); err != nil {
		t.Fatalf("SetFavorite failed: %v", err)
	}

	steam := &fakeAdapter{
		mechanism:  library.MechanismSteam,
		candidates: []scanner.Candidate{steamCandidate("Hades", "1145360")},
	}
	service = newService(t, store, nil, steam)
	if _, err := service.ScanAll(context.Background(), nil); err != nil {
		t.Fatalf("rescan failed: %v", err)
	}

	all, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("store holds %d entries, want 1", len(all))
	}
	entry := all[0]
	if entry.ID != id {
		t.Errorf("identity changed on rekey: %d vs %d", entry.ID, id)
	}
	if entry.Mechanism != library.MechanismSteam || entry.CanonicalKey != "steam_1145360" {
		t.Errorf("entry not rekeyed: %#v", entry)
	}
	if !entry.Favorite {
		t.Error("favorite flag lost on rekey")
	}
}
