package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"nexus/internal/config"
)

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "nexus.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	return s.path
}

// Save upserts an entry keyed by canonical key. When a row with the same
// canonical key already exists its identity and user-owned fields are kept
// and the entry's ID is backfilled; otherwise a new row is inserted.
func (s *Store) Save(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	if entry.CanonicalKey == "" {
		return errors.New("entry has empty canonical key")
	}

	now := time.Now().UTC()
	entry.UpdatedAt = now

	existing, err := s.FindByCanonicalKey(ctx, entry.CanonicalKey)
	if err != nil {
		return err
	}

	if existing == nil {
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
		res, err := s.db.ExecContext(
			ctx,
			`INSERT INTO entries (
                title, canonical_key, normalized_title, mechanism, mechanism_id,
                install_path, executable_path, readiness, cover_url, hero_url,
                description, developer, favorite, last_played, play_seconds,
                created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.Title,
			entry.CanonicalKey,
			entry.NormalizedTitle,
			string(entry.Mechanism),
			entry.MechanismID,
			entry.InstallPath,
			entry.ExecutablePath,
			string(entry.Readiness),
			entry.CoverURL,
			entry.HeroURL,
			entry.Description,
			entry.Developer,
			boolToInt(entry.Favorite),
			nullableTime(entry.LastPlayed),
			entry.PlaySeconds,
			entry.CreatedAt.Format(time.RFC3339Nano),
			entry.UpdatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		entry.ID = id
		return nil
	}

	entry.ID = existing.ID
	entry.CreatedAt = existing.CreatedAt
	entry.Favorite = existing.Favorite
	entry.LastPlayed = existing.LastPlayed
	entry.PlaySeconds = existing.PlaySeconds

	return s.Update(ctx, entry)
}

// Update persists all fields of an existing entry.
func (s *Store) Update(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	entry.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE entries
         SET title = ?, canonical_key = ?, normalized_title = ?, mechanism = ?,
             mechanism_id = ?, install_path = ?, executable_path = ?, readiness = ?,
             cover_url = ?, hero_url = ?, description = ?, developer = ?,
             favorite = ?, last_played = ?, play_seconds = ?, updated_at = ?
         WHERE id = ?`,
		entry.Title,
		entry.CanonicalKey,
		entry.NormalizedTitle,
		string(entry.Mechanism),
		entry.MechanismID,
		entry.InstallPath,
		entry.ExecutablePath,
		string(entry.Readiness),
		entry.CoverURL,
		entry.HeroURL,
		entry.Description,
		entry.Developer,
		boolToInt(entry.Favorite),
		nullableTime(entry.LastPlayed),
		entry.PlaySeconds,
		entry.UpdatedAt.Format(time.RFC3339Nano),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return nil
}

// GetByID fetches an entry by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// FindByCanonicalKey returns the entry matching a canonical key, or nil.
func (s *Store) FindByCanonicalKey(ctx context.Context, key string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE canonical_key = ?`, key)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by canonical key: %w", err)
	}
	return entry, nil
}

// FindByNormalizedTitle returns the first entry with a matching normalized title.
func (s *Store) FindByNormalizedTitle(ctx context.Context, normalized string) (*Entry, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+entryColumns+` FROM entries WHERE normalized_title = ? ORDER BY id LIMIT 1`,
		normalized,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by normalized title: %w", err)
	}
	return entry, nil
}

// List returns catalog entries filtered by mechanism set (or all entries
// when no mechanism is provided), ordered by title.
func (s *Store) List(ctx context.Context, mechanisms ...Mechanism) ([]*Entry, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + entryColumns + ` FROM entries`
	orderClause := ` ORDER BY title COLLATE NOCASE`

	if len(mechanisms) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(mechanisms))
		args := make([]any, len(mechanisms))
		for i, mechanism := range mechanisms {
			args[i] = string(mechanism)
		}
		query := baseQuery + ` WHERE mechanism IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Favorites returns favorited entries ordered by title.
func (s *Store) Favorites(ctx context.Context) ([]*Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+entryColumns+` FROM entries WHERE favorite = 1 ORDER BY title COLLATE NOCASE`,
	)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SetFavorite toggles the favorite flag for an entry.
func (s *Store) SetFavorite(ctx context.Context, id int64, favorite bool) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE entries SET favorite = ?, updated_at = ? WHERE id = ?`,
		boolToInt(favorite),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("set favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// RecordLaunch stamps the last-played time and accumulates play time.
func (s *Store) RecordLaunch(ctx context.Context, id int64, playedFor time.Duration) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE entries
         SET last_played = ?, play_seconds = play_seconds + ?, updated_at = ?
         WHERE id = ?`,
		now.Format(time.RFC3339Nano),
		int64(playedFor.Seconds()),
		now.Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("record launch: %w", err)
	}
	return nil
}

// Remove deletes an entry by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// PruneMissing deletes scan-owned entries whose canonical keys were not
// observed by the latest scan. Manual entries are never pruned.
func (s *Store) PruneMissing(ctx context.Context, presentKeys map[string]struct{}) (int64, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, canonical_key FROM entries WHERE mechanism != ?`,
		string(MechanismManual),
	)
	if err != nil {
		return 0, fmt.Errorf("query prunable entries: %w", err)
	}

	var stale []int64
	for rows.Next() {
		var (
			id  int64
			key string
		)
		if err := rows.Scan(&id, &key); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan prunable entry: %w", err)
		}
		if _, ok := presentKeys[key]; !ok {
			stale = append(stale, id)
		}
	}
	closeErr := rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate prunable entries: %w", err)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("close prunable rows: %w", closeErr)
	}

	if len(stale) == 0 {
		return 0, nil
	}

	placeholders := makePlaceholders(len(stale))
	args := make([]any, len(stale))
	for i, id := range stale {
		args[i] = id
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("prune stale entries: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all scan-owned entries. Manual entries survive.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM entries WHERE mechanism != ?`,
		string(MechanismManual),
	)
	if err != nil {
		return 0, fmt.Errorf("clear entries: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns a count of entries grouped by mechanism.
func (s *Store) Stats(ctx context.Context) (map[Mechanism]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT mechanism, COUNT(1) FROM entries GROUP BY mechanism`)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Mechanism]int)
	for rows.Next() {
		var mechanism string
		var count int
		if err := rows.Scan(&mechanism, &count); err != nil {
			return nil, err
		}
		stats[Mechanism(mechanism)] = count
	}
	return stats, rows.Err()
}
