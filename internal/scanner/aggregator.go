package scanner

import (
	"context"
	"log/slog"

	"nexus/internal/library"
	"nexus/internal/logging"
)

// Aggregator merges per-adapter results into one deduplicated candidate
// list. Mechanisms earlier in the priority order win: a title already
// accepted from Steam suppresses the same title found by Epic.
type Aggregator struct {
	priority []library.Mechanism
	logger   *slog.Logger
}

// NewAggregator builds an aggregator with the given mechanism priority.
func NewAggregator(priority []library.Mechanism, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Aggregator{
		priority: priority,
		logger:   logging.NewComponentLogger(logger, "aggregator"),
	}
}

// Priority returns the mechanism order the aggregator applies.
func (a *Aggregator) Priority() []library.Mechanism {
	return a.priority
}

// Aggregate walks results in priority order, dropping ignored titles and
// accepting a candidate only when both its canonical key and normalized
// title are unseen. Insertion order is preserved.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	results map[library.Mechanism][]Candidate,
	ignored map[string]struct{},
) ([]Candidate, error) {
	seenKeys := make(map[string]struct{})
	seenTitles := make(map[string]struct{})
	var accepted []Candidate

	for _, mechanism := range a.priority {
		for _, candidate := range results[mechanism] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			normalized := candidate.NormalizedTitle()
			if normalized == "" {
				continue
			}
			if _, skip := ignored[normalized]; skip {
				a.logger.Debug("dropping ignored title",
					logging.String(logging.FieldTitle, candidate.Title),
					logging.String(logging.FieldMechanism, string(candidate.Mechanism)))
				continue
			}
			key := candidate.CanonicalKey()
			if _, dup := seenKeys[key]; dup {
				continue
			}
			if _, dup := seenTitles[normalized]; dup {
				a.logger.Debug("dropping cross-channel duplicate",
					logging.String(logging.FieldTitle, candidate.Title),
					logging.String(logging.FieldMechanism, string(candidate.Mechanism)))
				continue
			}
			seenKeys[key] = struct{}{}
			seenTitles[normalized] = struct{}{}
			accepted = append(accepted, candidate)
		}
	}

	return accepted, nil
}
