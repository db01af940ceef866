package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/starford/stenomix/internal/models"
)

// SourceRow represents a row in the sources table.
type SourceRow struct {
	Path        string    `json:"path"`
	Checksum    string    `json:"checksum"`
	Entries     int       `json:"entries"`
	Diagnostics int       `json:"diagnostics"`
	CompiledAt  time.Time `json:"compiled_at"`
}

// SearchResult represents one search hit.
type SearchResult struct {
	Source      string `json:"source"`
	Strokes     string `json:"strokes"`
	Translation string `json:"translation"`
}

// UpsertSource replaces a source's compiled entries within a transaction.
func (db *DB) UpsertSource(s SourceRow, entries []models.CompiledEntry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if s.CompiledAt.IsZero() {
		s.CompiledAt = time.Now()
	}
	_, err = tx.Exec(`
		INSERT INTO sources (path, checksum, entries, diagnostics, compiled_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum    = excluded.checksum,
			entries     = excluded.entries,
			diagnostics = excluded.diagnostics,
			compiled_at = excluded.compiled_at
	`, s.Path, s.Checksum, len(entries), s.Diagnostics, s.CompiledAt)
	if err != nil {
		return fmt.Errorf("index: upsert source: %w", err)
	}

	if err := ftsDelete(tx, s.Path); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM entries WHERE source = ?`, s.Path); err != nil {
		return fmt.Errorf("index: clear entries: %w", err)
	}

	if len(entries) > 0 {
		stmt, err := tx.Prepare(`INSERT OR REPLACE INTO entries (source, position, strokes, translation) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare entry insert: %w", err)
		}
		defer stmt.Close()
		for i, e := range entries {
			if _, err := stmt.Exec(s.Path, i, e.Strokes, e.Translation); err != nil {
				return fmt.Errorf("index: insert entry: %w", err)
			}
		}
		if err := ftsInsert(tx, s.Path, entries); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteSource removes a source and its entries.
func (db *DB) DeleteSource(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := ftsDelete(tx, path); err != nil {
		return err
	}
	_, _ = tx.Exec(`DELETE FROM entries WHERE source = ?`, path)
	_, _ = tx.Exec(`DELETE FROM sources WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a source, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM sources WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns the stored checksum of every indexed source.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM sources`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// ListSources returns every indexed source ordered by path.
func (db *DB) ListSources() ([]SourceRow, error) {
	query, args, err := sq.Select("path", "checksum", "entries", "diagnostics", "compiled_at").
		From("sources").
		OrderBy("path").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("index: build query: %w", err)
	}
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("index: list sources: %w", err)
	}
	defer rows.Close()

	out := []SourceRow{}
	for rows.Next() {
		var r SourceRow
		if err := rows.Scan(&r.Path, &r.Checksum, &r.Entries, &r.Diagnostics, &r.CompiledAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Lookup returns the translation of strokes in every source that defines it.
func (db *DB) Lookup(strokes string) ([]models.CompiledEntry, error) {
	query, args, err := sq.Select("source", "strokes", "translation").
		From("entries").
		Where(sq.Eq{"strokes": strokes}).
		OrderBy("source").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("index: build query: %w", err)
	}
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("index: lookup: %w", err)
	}
	defer rows.Close()

	out := []models.CompiledEntry{}
	for rows.Next() {
		var e models.CompiledEntry
		if err := rows.Scan(&e.Source, &e.Strokes, &e.Translation); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
