package library

import (
	"strings"
	"time"
)

// Mechanism identifies the distribution channel a title was discovered
// through. Manual entries carry MechanismManual and are exempt from all
// scan-driven removal.
type Mechanism string

const (
	MechanismSteam      Mechanism = "steam"
	MechanismEpic       Mechanism = "epic"
	MechanismRiot       Mechanism = "riot"
	MechanismBattleNet  Mechanism = "battlenet"
	MechanismStandalone Mechanism = "standalone"
	MechanismManual     Mechanism = "manual"
)

var allMechanisms = []Mechanism{
	MechanismSteam,
	MechanismEpic,
	MechanismRiot,
	MechanismBattleNet,
	MechanismStandalone,
	MechanismManual,
}

// ParseMechanism maps a string to a known Mechanism.
func ParseMechanism(value string) (Mechanism, bool) {
	needle := Mechanism(strings.ToLower(strings.TrimSpace(value)))
	for _, m := range allMechanisms {
		if m == needle {
			return m, true
		}
	}
	return "", false
}

// IsManual reports whether the mechanism marks a user-created entry.
func (m Mechanism) IsManual() bool {
	return m == MechanismManual
}

// Readiness reports whether a title's install is present on disk.
type Readiness string

const (
	ReadinessReady   Readiness = "ready"
	ReadinessMissing Readiness = "missing"
)

// Entry is the durable catalog record for one title.
//
// InstallPath, ExecutablePath, and Readiness are refreshed on every scan.
// CoverURL, HeroURL, Description, and Developer are only filled when empty,
// so user edits survive rescans. Favorite, LastPlayed, and PlaySeconds are
// exclusively user-owned.
type Entry struct {
	ID              int64
	Title           string
	CanonicalKey    string
	NormalizedTitle string
	Mechanism       Mechanism
	MechanismID     string
	InstallPath     string
	ExecutablePath  string
	Readiness       Readiness
	CoverURL        string
	HeroURL         string
	Description     string
	Developer       string
	Favorite        bool
	LastPlayed      *time.Time
	PlaySeconds     int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IgnoredTitle is a user-suppressed title. Candidates whose normalized
// title matches are dropped during aggregation regardless of mechanism.
type IgnoredTitle struct {
	ID              int64
	Title           string
	NormalizedTitle string
	CanonicalKey    string
	IgnoredAt       time.Time
}
