package scanner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"nexus/internal/config"
	"nexus/internal/library"
	"nexus/internal/logging"
)

// battleNetProduct pairs a Battle.net product code with its title.
// Folder names under an install root match either the code or the
// title with spaces and colons removed.
type battleNetProduct struct {
	code  string
	title string
}

var battleNetProducts = []battleNetProduct{
	{"wow", "World of Warcraft"},
	{"wow_classic", "World of Warcraft Classic"},
	{"d3", "Diablo III"},
	{"fenris", "Diablo IV"},
	{"anbs", "Diablo Immortal"},
	{"pro", "Overwatch 2"},
	{"heroes", "Heroes of the Storm"},
	{"hs", "Hearthstone"},
	{"s2", "StarCraft II"},
	{"s1", "StarCraft Remastered"},
	{"w3", "Warcraft III: Reforged"},
	{"viper", "Call of Duty: Black Ops Cold War"},
	{"fore", "Call of Duty: Vanguard"},
	{"zeus", "Call of Duty: Modern Warfare II"},
	{"rtro", "Blizzard Arcade Collection"},
	{"wlby", "Crash Bandicoot 4"},
}

// BattleNet discovers Blizzard titles by matching folders under the
// configured install roots against the product table.
type BattleNet struct {
	roots  []string
	logger *slog.Logger
}

// NewBattleNet builds the Battle.net adapter from configuration.
func NewBattleNet(cfg *config.Config, logger *slog.Logger) *BattleNet {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &BattleNet{
		roots:  cfg.Sources.BattleNetRoots,
		logger: logging.NewComponentLogger(logger, "battlenet-scan"),
	}
}

func (b *BattleNet) Name() string { return "battlenet" }

func (b *BattleNet) Mechanism() library.Mechanism { return library.MechanismBattleNet }

func (b *BattleNet) Scan(ctx context.Context) ([]Candidate, error) {
	found := make(map[string]struct{})
	var candidates []Candidate

	for _, root := range b.roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if root == "" {
			continue
		}
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() {
				names = append(names, entry.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			product, ok := matchBattleNetFolder(name)
			if !ok {
				continue
			}
			if _, dup := found[product.code]; dup {
				continue
			}
			found[product.code] = struct{}{}
			candidates = append(candidates, b.buildCandidate(product, filepath.Join(root, name)))
		}
	}

	b.logger.Info("battlenet scan complete", logging.Int("games", len(candidates)))
	return candidates, nil
}

func matchBattleNetFolder(folder string) (battleNetProduct, bool) {
	lower := strings.ToLower(folder)
	for _, product := range battleNetProducts {
		compact := strings.ReplaceAll(strings.ReplaceAll(strings.ToLower(product.title), " ", ""), ":", "")
		if strings.Contains(strings.ReplaceAll(lower, " ", ""), compact) || lower == product.code {
			return product, true
		}
	}
	return battleNetProduct{}, false
}

func (b *BattleNet) buildCandidate(product battleNetProduct, installPath string) Candidate {
	candidate := Candidate{
		Title:       product.title,
		Mechanism:   library.MechanismBattleNet,
		MechanismID: product.code,
		InstallPath: installPath,
		Readiness:   library.ReadinessMissing,
	}
	if executable := findExecutable(installPath, nil, 2); executable != "" {
		candidate.ExecutablePath = executable
		candidate.Readiness = library.ReadinessReady
	}
	return candidate
}
