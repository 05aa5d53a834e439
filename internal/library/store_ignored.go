package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AddIgnored records a suppressed title. Adding the same normalized title
// twice is a no-op.
func (s *Store) AddIgnored(ctx context.Context, title, normalized, canonicalKey string) error {
	if strings.TrimSpace(normalized) == "" {
		return errors.New("normalized title is empty")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO ignored_titles (title, normalized_title, canonical_key, ignored_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(normalized_title) DO NOTHING`,
		title,
		normalized,
		canonicalKey,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("add ignored title: %w", err)
	}
	return nil
}

// RemoveIgnored deletes a suppressed title by its normalized form.
func (s *Store) RemoveIgnored(ctx context.Context, normalized string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ignored_titles WHERE normalized_title = ?`, normalized)
	if err != nil {
		return false, fmt.Errorf("remove ignored title: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListIgnored returns all suppressed titles ordered by the time they were added.
func (s *Store) ListIgnored(ctx context.Context) ([]*IgnoredTitle, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, title, normalized_title, canonical_key, ignored_at FROM ignored_titles ORDER BY ignored_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list ignored titles: %w", err)
	}
	defer rows.Close()

	var ignored []*IgnoredTitle
	for rows.Next() {
		var (
			item         IgnoredTitle
			canonicalKey sql.NullString
			ignoredRaw   string
		)
		if err := rows.Scan(&item.ID, &item.Title, &item.NormalizedTitle, &canonicalKey, &ignoredRaw); err != nil {
			return nil, err
		}
		item.CanonicalKey = canonicalKey.String
		if at, err := parseTimeString(ignoredRaw); err == nil {
			item.IgnoredAt = at
		}
		ignored = append(ignored, &item)
	}
	return ignored, rows.Err()
}

// IgnoredSet returns the normalized titles of all suppressed entries for
// fast membership checks during aggregation.
func (s *Store) IgnoredSet(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT normalized_title FROM ignored_titles`)
	if err != nil {
		return nil, fmt.Errorf("load ignored set: %w", err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var normalized string
		if err := rows.Scan(&normalized); err != nil {
			return nil, err
		}
		set[normalized] = struct{}{}
	}
	return set, rows.Err()
}

// IsIgnored reports whether a normalized title has been suppressed.
func (s *Store) IsIgnored(ctx context.Context, normalized string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM ignored_titles WHERE normalized_title = ?`,
		normalized,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check ignored title: %w", err)
	}
	return count > 0, nil
}
