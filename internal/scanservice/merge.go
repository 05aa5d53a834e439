package scanservice

import (
	"context"
	"log/slog"

	"nexus/internal/library"
	"nexus/internal/logging"
	"nexus/internal/metadata"
	"nexus/internal/scanner"
)

// merge writes candidates into the library in aggregation order. A
// failure on one entry is logged and the rest of the batch continues.
func (s *Service) merge(ctx context.Context, candidates []scanner.Candidate, records []metadata.Record, logger *slog.Logger) []*library.Entry {
	entries := make([]*library.Entry, 0, len(candidates))
	for i, candidate := range candidates {
		if ctx.Err() != nil {
			return entries
		}
		entry, err := s.mergeCandidate(ctx, candidate, records[i])
		if err != nil {
			logger.Warn("failed to merge entry",
				logging.String(logging.FieldTitle, candidate.Title),
				logging.String(logging.FieldKey, candidate.CanonicalKey()),
				logging.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// mergeCandidate reconciles one discovered title with the store.
//
// Matching is two-phase: by canonical key first, then by normalized
// title so a title that moved between channels rekeys instead of
// duplicating. Location fields are always refreshed; descriptive fields
// only fill gaps, so user edits survive rescans.
func (s *Service) mergeCandidate(ctx context.Context, candidate scanner.Candidate, record metadata.Record) (*library.Entry, error) {
	incoming := entryFromCandidate(candidate, record)

	existing, err := s.store.FindByCanonicalKey(ctx, incoming.CanonicalKey)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing, err = s.store.FindByNormalizedTitle(ctx, incoming.NormalizedTitle)
		if err != nil {
			return nil, err
		}
	}

	if existing == nil {
		if err := s.store.Save(ctx, incoming); err != nil {
			return nil, err
		}
		return incoming, nil
	}

	existing.Title = incoming.Title
	existing.CanonicalKey = incoming.CanonicalKey
	existing.NormalizedTitle = incoming.NormalizedTitle
	existing.Mechanism = incoming.Mechanism
	existing.MechanismID = incoming.MechanismID
	existing.InstallPath = incoming.InstallPath
	existing.ExecutablePath = incoming.ExecutablePath
	existing.Readiness = incoming.Readiness
	fillDescriptive(existing, incoming)

	if err := s.store.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// fillDescriptive copies descriptive metadata only into empty fields.
func fillDescriptive(dst, src *library.Entry) {
	if dst.CoverURL == "" {
		dst.CoverURL = src.CoverURL
	}
	if dst.HeroURL == "" {
		dst.HeroURL = src.HeroURL
	}
	if dst.Description == "" || dst.Description == metadata.DefaultDescription {
		dst.Description = src.Description
	}
	if dst.Developer == "" || dst.Developer == metadata.DefaultDeveloper {
		dst.Developer = src.Developer
	}
}

func entryFromCandidate(candidate scanner.Candidate, record metadata.Record) *library.Entry {
	return &library.Entry{
		Title:           candidate.Title,
		CanonicalKey:    candidate.CanonicalKey(),
		NormalizedTitle: candidate.NormalizedTitle(),
		Mechanism:       candidate.Mechanism,
		MechanismID:     candidate.MechanismID,
		InstallPath:     candidate.InstallPath,
		ExecutablePath:  candidate.ExecutablePath,
		Readiness:       candidate.Readiness,
		CoverURL:        record.CoverURL,
		HeroURL:         record.HeroURL,
		Description:     record.Description,
		Developer:       record.Developer,
	}
}
