package scanner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"nexus/internal/config"
	"nexus/internal/library"
	"nexus/internal/logging"
	"nexus/internal/scanner/installrecords"
)

// standaloneGame pairs a whitelisted title with the executable name
// fragment that identifies its install.
type standaloneGame struct {
	title      string
	executable string
}

// Whitelist of actual games that appear in installation records. Store
// clients and tooling are handled by the exclusion vocabulary instead.
var standaloneWhitelist = []standaloneGame{
	{"Minecraft", "MinecraftLauncher"},
	{"League of Legends", "LeagueClient"},
	{"VALORANT", "VALORANT"},
	{"Genshin Impact", "GenshinImpact"},
	{"Honkai", "StarRail"},
	{"Zenless Zone Zero", "ZenlessZoneZero"},
	{"Osu!", "osu!"},
	{"Roblox", "RobloxPlayer"},
}

// Standalone discovers whitelisted games from OS installation records
// plus a few well-known filesystem locations.
type Standalone struct {
	records    installrecords.Enumerator
	extraRoots []string
	logger     *slog.Logger
}

// NewStandalone builds the standalone adapter from configuration.
func NewStandalone(cfg *config.Config, logger *slog.Logger) *Standalone {
	return NewStandaloneWithEnumerator(
		installrecords.NewDirEnumerator(cfg.Sources.InstallRecordsDir),
		nil,
		logger,
	)
}

// NewStandaloneWithEnumerator is the injectable constructor used by tests
// and platform-specific wiring.
func NewStandaloneWithEnumerator(records installrecords.Enumerator, extraRoots []string, logger *slog.Logger) *Standalone {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Standalone{
		records:    records,
		extraRoots: extraRoots,
		logger:     logging.NewComponentLogger(logger, "standalone-scan"),
	}
}

func (a *Standalone) Name() string { return "standalone" }

func (a *Standalone) Mechanism() library.Mechanism { return library.MechanismStandalone }

func (a *Standalone) Scan(ctx context.Context) ([]Candidate, error) {
	found := make(map[string]struct{})
	var candidates []Candidate

	records, err := a.records.Enumerate(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		a.logger.Warn("install records unavailable", logging.Error(err))
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isExcludedRecordTitle(record.DisplayName) {
			continue
		}
		game, ok := matchWhitelist(record.DisplayName)
		if !ok {
			continue
		}
		key := strings.ToLower(game.title)
		if _, dup := found[key]; dup {
			continue
		}
		found[key] = struct{}{}
		candidates = append(candidates, a.buildCandidate(game, record))
	}

	for _, candidate := range a.scanExtraRoots(ctx, found) {
		candidates = append(candidates, candidate)
	}

	a.logger.Info("standalone scan complete", logging.Int("games", len(candidates)))
	return candidates, nil
}

func matchWhitelist(displayName string) (standaloneGame, bool) {
	lower := strings.ToLower(displayName)
	for _, game := range standaloneWhitelist {
		if strings.Contains(lower, strings.ToLower(game.title)) {
			return game, true
		}
	}
	return standaloneGame{}, false
}

func (a *Standalone) buildCandidate(game standaloneGame, record installrecords.Record) Candidate {
	candidate := Candidate{
		Title:       game.title,
		Mechanism:   library.MechanismStandalone,
		InstallPath: record.InstallLocation,
		Readiness:   library.ReadinessMissing,
	}

	// The display icon often points straight at the executable.
	if icon := strings.Trim(strings.SplitN(record.DisplayIcon, ",", 2)[0], `" `); icon != "" {
		if strings.HasSuffix(strings.ToLower(icon), ".exe") {
			if _, err := os.Stat(icon); err == nil {
				candidate.ExecutablePath = icon
				candidate.Readiness = library.ReadinessReady
				return candidate
			}
		}
	}

	if record.InstallLocation != "" {
		if executable := findExecutableContaining(record.InstallLocation, game.executable, 2); executable != "" {
			candidate.ExecutablePath = executable
			candidate.Readiness = library.ReadinessReady
		}
	}
	return candidate
}

// scanExtraRoots checks well-known filesystem locations for games that
// never write installation records.
func (a *Standalone) scanExtraRoots(ctx context.Context, found map[string]struct{}) []Candidate {
	var candidates []Candidate
	for _, root := range a.extraRoots {
		if ctx.Err() != nil {
			return candidates
		}
		if root == "" {
			continue
		}
		base := filepath.Base(root)
		title := strings.TrimPrefix(base, ".")
		key := strings.ToLower(title)
		if _, dup := found[key]; dup {
			continue
		}
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			continue
		}
		found[key] = struct{}{}
		candidates = append(candidates, Candidate{
			Title:       title,
			Mechanism:   library.MechanismStandalone,
			InstallPath: root,
			Readiness:   library.ReadinessReady,
		})
	}
	return candidates
}

// findExecutableContaining walks root up to maxDepth for an executable
// whose name contains the given fragment.
func findExecutableContaining(root, fragment string, maxDepth int) string {
	fragment = strings.ToLower(fragment)
	var match string
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if depth := pathDepth(root, path); depth > maxDepth {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		lower := strings.ToLower(info.Name())
		if strings.HasSuffix(lower, ".exe") && strings.Contains(lower, fragment) {
			match = path
			return filepath.SkipAll
		}
		return nil
	})
	return match
}
