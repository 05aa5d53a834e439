package scanner

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"nexus/internal/config"
	"nexus/internal/library"
	"nexus/internal/logging"
)

// epicManifest is the subset of an Epic Games Launcher .item manifest
// the scan needs.
type epicManifest struct {
	DisplayName      string `json:"DisplayName"`
	AppName          string `json:"AppName"`
	InstallLocation  string `json:"InstallLocation"`
	LaunchExecutable string `json:"LaunchExecutable"`
}

// Epic discovers installed games from the launcher's .item manifests.
type Epic struct {
	manifestDir string
	logger      *slog.Logger
}

// NewEpic builds the Epic adapter from configuration.
func NewEpic(cfg *config.Config, logger *slog.Logger) *Epic {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Epic{
		manifestDir: cfg.Sources.EpicManifestDir,
		logger:      logging.NewComponentLogger(logger, "epic-scan"),
	}
}

func (e *Epic) Name() string { return "epic" }

func (e *Epic) Mechanism() library.Mechanism { return library.MechanismEpic }

func (e *Epic) Scan(ctx context.Context) ([]Candidate, error) {
	if e.manifestDir == "" {
		return nil, nil
	}
	manifests, err := filepath.Glob(filepath.Join(e.manifestDir, "*.item"))
	if err != nil || len(manifests) == 0 {
		return nil, nil
	}
	sort.Strings(manifests)

	var candidates []Candidate
	for _, path := range manifests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		candidate, ok := e.parseManifest(path)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate)
	}

	e.logger.Info("epic scan complete", logging.Int("games", len(candidates)))
	return candidates, nil
}

func (e *Epic) parseManifest(path string) (Candidate, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.Warn("unreadable manifest", logging.String("path", path), logging.Error(err))
		return Candidate{}, false
	}

	var manifest epicManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		e.logger.Warn("malformed manifest", logging.String("path", path), logging.Error(err))
		return Candidate{}, false
	}
	if manifest.DisplayName == "" {
		return Candidate{}, false
	}
	if isExcludedEpicTitle(manifest.DisplayName) {
		return Candidate{}, false
	}

	identifier := manifest.AppName
	if identifier == "" {
		identifier = manifest.DisplayName
	}

	candidate := Candidate{
		Title:       manifest.DisplayName,
		Mechanism:   library.MechanismEpic,
		MechanismID: identifier,
		InstallPath: manifest.InstallLocation,
		Readiness:   library.ReadinessMissing,
	}

	if manifest.InstallLocation != "" && manifest.LaunchExecutable != "" {
		executable := filepath.Join(manifest.InstallLocation, manifest.LaunchExecutable)
		candidate.ExecutablePath = executable
		if _, err := os.Stat(executable); err == nil {
			candidate.Readiness = library.ReadinessReady
		}
	}

	return candidate, true
}
