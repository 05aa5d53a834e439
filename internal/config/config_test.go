package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"nexus/internal/config"
)

func TestLoadDefaultsWhenFileAbsent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd returned error: %v", err)
	}
	if err := os.Chdir(tempHome); err != nil {
		t.Fatalf("Chdir returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("Chdir returned error: %v", err)
		}
	})

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "nexus")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Catalog.BaseURL != config.Default().Catalog.BaseURL {
		t.Fatalf("unexpected catalog base url: %q", cfg.Catalog.BaseURL)
	}
	if cfg.Metadata.CacheTTLHours != 168 {
		t.Fatalf("unexpected cache ttl: %d", cfg.Metadata.CacheTTLHours)
	}
	if cfg.Metadata.SimilarityThreshold != 0.7 {
		t.Fatalf("unexpected similarity threshold: %v", cfg.Metadata.SimilarityThreshold)
	}
	if got := cfg.Sources.Priority; len(got) != 5 || got[0] != "steam" {
		t.Fatalf("unexpected priority order: %v", got)
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
data_dir = "~/nexus-data"

[sources]
steam_root = "~/steam"
priority = ["epic", "steam"]

[metadata]
cache_ttl_hours = 24
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "nexus-data") {
		t.Fatalf("expected tilde expansion, got %q", cfg.Paths.DataDir)
	}
	if cfg.Sources.SteamRoot != filepath.Join(tempHome, "steam") {
		t.Fatalf("expected steam root expansion, got %q", cfg.Sources.SteamRoot)
	}
	if cfg.Metadata.CacheTTLHours != 24 {
		t.Fatalf("expected ttl override, got %d", cfg.Metadata.CacheTTLHours)
	}
	if len(cfg.Sources.Priority) != 2 || cfg.Sources.Priority[0] != "epic" {
		t.Fatalf("expected priority override, got %v", cfg.Sources.Priority)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown mechanism", func(c *config.Config) { c.Sources.Priority = []string{"gog"} }},
		{"duplicate mechanism", func(c *config.Config) { c.Sources.Priority = []string{"steam", "steam"} }},
		{"zero ttl", func(c *config.Config) { c.Metadata.CacheTTLHours = 0 }},
		{"threshold out of range", func(c *config.Config) { c.Metadata.SimilarityThreshold = 1.5 }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
