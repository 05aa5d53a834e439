package scanner_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"nexus/internal/library"
	"nexus/internal/scanner"
	"nexus/internal/testsupport"
)

func writeACF(t *testing.T, steamapps, appID, name, installDir string) {
	t.Helper()
	content := fmt.Sprintf(`"AppState"
{
	"appid"		"%s"
	"name"		"%s"
	"installdir"		"%s"
}
`, appID, name, installDir)
	testsupport.WriteFile(t, filepath.Join(steamapps, "appmanifest_"+appID+".acf"), content)
}

func TestSteamScanFindsInstalledGames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	steamapps := filepath.Join(cfg.Sources.SteamRoot, "steamapps")

	writeACF(t, steamapps, "220", "Half-Life 2", "Half-Life 2")
	writeACF(t, steamapps, "620", "Portal 2", "Portal 2")
	testsupport.MkdirAll(t, filepath.Join(steamapps, "common", "Half-Life 2"))

	adapter := scanner.NewSteam(cfg, nil)
	candidates, err := adapter.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	byID := make(map[string]scanner.Candidate)
	for _, c := range candidates {
		byID[c.MechanismID] = c
	}
	hl2 := byID["220"]
	if hl2.Title != "Half-Life 2" {
		t.Errorf("title = %q", hl2.Title)
	}
	if hl2.Readiness != library.ReadinessReady {
		t.Errorf("expected installed game ready, got %q", hl2.Readiness)
	}
	if hl2.CanonicalKey() != "steam_220" {
		t.Errorf("canonical key = %q", hl2.CanonicalKey())
	}
	if portal := byID["620"]; portal.Readiness != library.ReadinessMissing {
		t.Errorf("expected missing install dir to report missing, got %q", portal.Readiness)
	}
}

func TestSteamScanExcludesTooling(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	steamapps := filepath.Join(cfg.Sources.SteamRoot, "steamapps")

	writeACF(t, steamapps, "1493710", "Proton Experimental", "Proton - Experimental")
	writeACF(t, steamapps, "228980", "Steamworks Common Redistributables", "Steamworks Shared")
	writeACF(t, steamapps, "1070560", "Steam Linux Runtime", "SteamLinuxRuntime")
	writeACF(t, steamapps, "504230", "Celeste", "Celeste")

	adapter := scanner.NewSteam(cfg, nil)
	candidates, err := adapter.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Title != "Celeste" {
		t.Fatalf("expected only Celeste to survive exclusions, got %#v", candidates)
	}
}

func TestSteamScanReadsAdditionalLibraries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	steamapps := filepath.Join(cfg.Sources.SteamRoot, "steamapps")
	secondLibrary := filepath.Join(testsupport.BaseDir(cfg), "SteamLibrary")

	writeACF(t, steamapps, "220", "Half-Life 2", "Half-Life 2")
	testsupport.WriteFile(t, filepath.Join(steamapps, "libraryfolders.vdf"), fmt.Sprintf(`"libraryfolders"
{
	"0"
	{
		"path"		"%s"
	}
	"1"
	{
		"path"		"%s"
	}
}
`, cfg.Sources.SteamRoot, secondLibrary))
	writeACF(t, filepath.Join(secondLibrary, "steamapps"), "620", "Portal 2", "Portal 2")
	// Same app in two libraries resolves to one candidate.
	writeACF(t, filepath.Join(secondLibrary, "steamapps"), "220", "Half-Life 2", "Half-Life 2")

	adapter := scanner.NewSteam(cfg, nil)
	candidates, err := adapter.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates across libraries, got %d", len(candidates))
	}
}

func TestSteamScanMissingRootIsEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	// Steam root directory is never created.

	adapter := scanner.NewSteam(cfg, nil)
	candidates, err := adapter.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(candidates))
	}
}
