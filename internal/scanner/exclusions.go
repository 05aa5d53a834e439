package scanner

import "strings"

// steamExclusions filters Steam library entries that are tooling rather
// than games: compatibility layers, redistributables, SDKs, media.
var steamExclusions = []string{
	"proton",
	"steamworks",
	"redistributable",
	"dedicated server",
	"sdk",
	"directx",
	"vcredist",
	"runtime",
	"tool",
	"benchmark",
	"soundtrack",
	"artbook",
	"wallpaper",
	" demo",
	"playtest",
	"trailer",
	"video",
}

// launcherExclusions filters store clients, drivers, and peripheral
// software that show up in installation records alongside games.
var launcherExclusions = []string{
	"discord",
	"battle.net",
	"blizzard",
	"ubisoft connect",
	"uplay",
	"origin",
	"ea app",
	"ea desktop",
	"gog galaxy",
	"steam",
	"epic games launcher",
	"riot client",
	"rockstar games launcher",
	"bethesda.net launcher",
	"amazon games",
	"xbox",
	"nvidia",
	"geforce",
	"amd software",
	"razer",
	"logitech",
	"steelseries",
	"corsair",
	"overwolf",
}

// epicExclusions filters Epic manifests for non-game content.
var epicExclusions = []string{
	"launcher",
	"plugin",
	"unreal engine",
	"editor",
}

func isExcludedSteamTitle(title string) bool {
	lower := strings.ToLower(title)
	if lower == "demo" {
		return true
	}
	return containsAny(lower, steamExclusions)
}

func isExcludedEpicTitle(title string) bool {
	lower := strings.ToLower(title)
	return containsAny(lower, launcherExclusions) || containsAny(lower, epicExclusions)
}

func isExcludedRecordTitle(title string) bool {
	return containsAny(strings.ToLower(title), launcherExclusions)
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
