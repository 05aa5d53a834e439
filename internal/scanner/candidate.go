package scanner

import (
	"context"

	"nexus/internal/library"
	"nexus/internal/titles"
)

// Candidate is one discovered installation before it reaches the catalog.
type Candidate struct {
	Title          string
	Mechanism      library.Mechanism
	MechanismID    string
	InstallPath    string
	ExecutablePath string
	Readiness      library.Readiness
}

// CanonicalKey derives the candidate's stable identity. The mechanism
// identifier is preferred; title-derived keys are the fallback for
// channels without stable IDs.
func (c Candidate) CanonicalKey() string {
	identifier := c.MechanismID
	if identifier == "" {
		identifier = c.Title
	}
	return titles.CanonicalKey(string(c.Mechanism), identifier)
}

// NormalizedTitle returns the candidate's title in comparison form.
func (c Candidate) NormalizedTitle() string {
	return titles.Normalize(c.Title)
}

// Adapter discovers installations for one distribution channel.
type Adapter interface {
	// Name identifies the adapter in logs.
	Name() string
	// Mechanism reports which channel the adapter covers.
	Mechanism() library.Mechanism
	// Scan enumerates installed games. A missing or unreadable channel
	// root returns an empty slice, not an error.
	Scan(ctx context.Context) ([]Candidate, error)
}
