package library

import (
	"database/sql"
	"errors"
	"time"
)

const entryColumns = "id, title, canonical_key, normalized_title, mechanism, mechanism_id, install_path, executable_path, readiness, cover_url, hero_url, description, developer, favorite, last_played, play_seconds, created_at, updated_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id            int64
		title         string
		canonicalKey  string
		normalized    string
		mechanism     string
		mechanismID   sql.NullString
		installPath   sql.NullString
		execPath      sql.NullString
		readiness     sql.NullString
		coverURL      sql.NullString
		heroURL       sql.NullString
		description   sql.NullString
		developer     sql.NullString
		favorite      sql.NullInt64
		lastPlayedRaw sql.NullString
		playSeconds   sql.NullInt64
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&title,
		&canonicalKey,
		&normalized,
		&mechanism,
		&mechanismID,
		&installPath,
		&execPath,
		&readiness,
		&coverURL,
		&heroURL,
		&description,
		&developer,
		&favorite,
		&lastPlayedRaw,
		&playSeconds,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:              id,
		Title:           title,
		CanonicalKey:    canonicalKey,
		NormalizedTitle: normalized,
		Mechanism:       Mechanism(mechanism),
		MechanismID:     mechanismID.String,
		InstallPath:     installPath.String,
		ExecutablePath:  execPath.String,
		Readiness:       Readiness(readiness.String),
		CoverURL:        coverURL.String,
		HeroURL:         heroURL.String,
		Description:     description.String,
		Developer:       developer.String,
		PlaySeconds:     playSeconds.Int64,
	}
	if favorite.Valid {
		entry.Favorite = favorite.Int64 != 0
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		entry.UpdatedAt = updated
	}
	if lastPlayedRaw.Valid {
		if played, err := parseTimeString(lastPlayedRaw.String); err == nil {
			entry.LastPlayed = &played
		}
	}
	return entry, nil
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	v := value.UTC().Format(time.RFC3339Nano)
	return v
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
