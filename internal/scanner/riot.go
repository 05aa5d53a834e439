package scanner

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"nexus/internal/config"
	"nexus/internal/library"
	"nexus/internal/logging"
)

// riotProduct maps a Riot product token to its display title and the
// executables that identify a playable install.
type riotProduct struct {
	token       string
	title       string
	folder      string
	executables []string
}

// bacon is the internal code name for Legends of Runeterra.
var riotProducts = []riotProduct{
	{
		token:       "league_of_legends",
		title:       "League of Legends",
		folder:      "League of Legends",
		executables: []string{"LeagueClient.exe", "League of Legends.exe", "LeagueClientUx.exe"},
	},
	{
		token:       "valorant",
		title:       "VALORANT",
		folder:      "VALORANT",
		executables: []string{"VALORANT.exe", "ShooterGame.exe", "Valorant.exe"},
	},
	{
		token:       "bacon",
		title:       "Legends of Runeterra",
		folder:      "LoR",
		executables: []string{"LoR.exe", "Legends of Runeterra.exe"},
	},
	{
		token:       "tft",
		title:       "Teamfight Tactics",
		folder:      "Teamfight Tactics",
		executables: []string{"TFT.exe"},
	},
}

// riotClientInstalls mirrors RiotClientInstalls.json. The associated
// client map is keyed by product install path.
type riotClientInstalls struct {
	AssociatedClient map[string]string `json:"associated_client"`
}

// Riot discovers Riot titles from the client install registry file and
// from folder conventions under the configured roots.
type Riot struct {
	roots  []string
	logger *slog.Logger
}

// NewRiot builds the Riot adapter from configuration.
func NewRiot(cfg *config.Config, logger *slog.Logger) *Riot {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Riot{
		roots:  cfg.Sources.RiotRoots,
		logger: logging.NewComponentLogger(logger, "riot-scan"),
	}
}

func (r *Riot) Name() string { return "riot" }

func (r *Riot) Mechanism() library.Mechanism { return library.MechanismRiot }

func (r *Riot) Scan(ctx context.Context) ([]Candidate, error) {
	found := make(map[string]struct{})
	var candidates []Candidate

	for _, root := range r.roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if root == "" {
			continue
		}

		for _, candidate := range r.scanClientInstalls(root) {
			if _, dup := found[candidate.MechanismID]; dup {
				continue
			}
			found[candidate.MechanismID] = struct{}{}
			candidates = append(candidates, candidate)
		}

		for _, product := range riotProducts {
			if _, dup := found[product.token]; dup {
				continue
			}
			installPath := filepath.Join(root, product.folder)
			if info, err := os.Stat(installPath); err != nil || !info.IsDir() {
				continue
			}
			found[product.token] = struct{}{}
			candidates = append(candidates, r.buildCandidate(product, installPath))
		}
	}

	r.logger.Info("riot scan complete", logging.Int("games", len(candidates)))
	return candidates, nil
}

// scanClientInstalls reads RiotClientInstalls.json when the root carries
// one and maps its associated client paths back to products.
func (r *Riot) scanClientInstalls(root string) []Candidate {
	path := filepath.Join(root, "RiotClientInstalls.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var installs riotClientInstalls
	if err := json.Unmarshal(data, &installs); err != nil {
		r.logger.Warn("malformed client installs file", logging.String("path", path), logging.Error(err))
		return nil
	}

	var candidates []Candidate
	for installPath := range installs.AssociatedClient {
		lower := strings.ToLower(installPath)
		for _, product := range riotProducts {
			if !strings.Contains(lower, product.token) &&
				!strings.Contains(lower, strings.ToLower(product.folder)) {
				continue
			}
			cleaned := filepath.Clean(installPath)
			if info, err := os.Stat(cleaned); err != nil || !info.IsDir() {
				continue
			}
			candidates = append(candidates, r.buildCandidate(product, cleaned))
			break
		}
	}
	return candidates
}

func (r *Riot) buildCandidate(product riotProduct, installPath string) Candidate {
	candidate := Candidate{
		Title:       product.title,
		Mechanism:   library.MechanismRiot,
		MechanismID: product.token,
		InstallPath: installPath,
		Readiness:   library.ReadinessMissing,
	}
	if executable := findExecutable(installPath, product.executables, 4); executable != "" {
		candidate.ExecutablePath = executable
		candidate.Readiness = library.ReadinessReady
	}
	return candidate
}

// findExecutable walks installPath up to maxDepth looking for one of the
// named executables, falling back to any executable that is not an
// uninstaller, crash handler, or updater.
func findExecutable(installPath string, names []string, maxDepth int) string {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[strings.ToLower(name)] = struct{}{}
	}

	var match, fallback string
	_ = filepath.WalkDir(installPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if depth := pathDepth(installPath, path); depth > maxDepth {
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		lower := strings.ToLower(entry.Name())
		if !strings.HasSuffix(lower, ".exe") {
			return nil
		}
		if _, ok := wanted[lower]; ok {
			match = path
			return fs.SkipAll
		}
		if fallback == "" &&
			!strings.Contains(lower, "unins") &&
			!strings.Contains(lower, "crash") &&
			!strings.Contains(lower, "update") {
			fallback = path
		}
		return nil
	})

	if match != "" {
		return match
	}
	return fallback
}

func pathDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
