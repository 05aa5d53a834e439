package scanner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"nexus/internal/config"
	"nexus/internal/library"
	"nexus/internal/logging"
)

// Steam discovers installed games by walking Steam library folders and
// parsing their appmanifest_*.acf files.
type Steam struct {
	root   string
	logger *slog.Logger
}

// NewSteam builds the Steam adapter from configuration.
func NewSteam(cfg *config.Config, logger *slog.Logger) *Steam {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Steam{
		root:   cfg.Sources.SteamRoot,
		logger: logging.NewComponentLogger(logger, "steam-scan"),
	}
}

func (s *Steam) Name() string { return "steam" }

func (s *Steam) Mechanism() library.Mechanism { return library.MechanismSteam }

// Scan parses every library folder's manifests. The first manifest wins
// when the same app ID appears in multiple libraries.
func (s *Steam) Scan(ctx context.Context) ([]Candidate, error) {
	if s.root == "" {
		return nil, nil
	}
	if _, err := os.Stat(s.root); err != nil {
		s.logger.Warn("steam root not accessible", logging.String("path", s.root), logging.Error(err))
		return nil, nil
	}

	roots := s.libraryRoots()
	seenAppIDs := make(map[string]struct{})
	var candidates []Candidate

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		steamapps := filepath.Join(root, "steamapps")
		manifests, err := filepath.Glob(filepath.Join(steamapps, "appmanifest_*.acf"))
		if err != nil {
			continue
		}
		sort.Strings(manifests)
		for _, manifest := range manifests {
			candidate, ok := s.parseManifest(steamapps, manifest)
			if !ok {
				continue
			}
			if _, dup := seenAppIDs[candidate.MechanismID]; dup {
				continue
			}
			seenAppIDs[candidate.MechanismID] = struct{}{}
			candidates = append(candidates, candidate)
		}
	}

	s.logger.Info("steam scan complete",
		logging.Int("libraries", len(roots)),
		logging.Int("games", len(candidates)))
	return candidates, nil
}

// libraryRoots returns the client root plus any additional libraries
// declared in libraryfolders.vdf.
func (s *Steam) libraryRoots() []string {
	roots := []string{s.root}
	seen := map[string]struct{}{s.root: {}}

	path := filepath.Join(s.root, "steamapps", "libraryfolders.vdf")
	f, err := os.Open(path)
	if err != nil {
		return roots
	}
	defer f.Close()

	node, err := parseVDF(f)
	if err != nil {
		s.logger.Warn("malformed libraryfolders.vdf", logging.String("path", path), logging.Error(err))
		return roots
	}

	for _, key := range node.childKeys() {
		folder := node.child(key)
		libraryPath := folder.value("path")
		if libraryPath == "" {
			continue
		}
		if _, dup := seen[libraryPath]; dup {
			continue
		}
		seen[libraryPath] = struct{}{}
		roots = append(roots, libraryPath)
	}
	return roots
}

func (s *Steam) parseManifest(steamapps, manifest string) (Candidate, bool) {
	f, err := os.Open(manifest)
	if err != nil {
		s.logger.Warn("unreadable manifest", logging.String("path", manifest), logging.Error(err))
		return Candidate{}, false
	}
	defer f.Close()

	node, err := parseVDF(f)
	if err != nil {
		s.logger.Warn("malformed manifest", logging.String("path", manifest), logging.Error(err))
		return Candidate{}, false
	}

	appID := node.value("appid")
	name := node.value("name")
	installDir := node.value("installdir")
	if appID == "" || name == "" || installDir == "" {
		return Candidate{}, false
	}
	if isExcludedSteamTitle(name) {
		return Candidate{}, false
	}

	installPath := filepath.Join(steamapps, "common", installDir)
	readiness := library.ReadinessMissing
	if info, err := os.Stat(installPath); err == nil && info.IsDir() {
		readiness = library.ReadinessReady
	}

	return Candidate{
		Title:       name,
		Mechanism:   library.MechanismSteam,
		MechanismID: appID,
		InstallPath: installPath,
		Readiness:   readiness,
	}, true
}
