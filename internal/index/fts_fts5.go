//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"

	"github.com/starford/stenomix/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			source UNINDEXED,
			strokes UNINDEXED,
			translation,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsInsert(tx *sql.Tx, source string, entries []models.CompiledEntry) error {
	stmt, err := tx.Prepare(`INSERT INTO entries_fts (source, strokes, translation) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare fts insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.Exec(source, e.Strokes, e.Translation); err != nil {
			return fmt.Errorf("index: insert fts: %w", err)
		}
	}
	return nil
}

func ftsDelete(tx *sql.Tx, source string) error {
	if _, err := tx.Exec(`DELETE FROM entries_fts WHERE source = ?`, source); err != nil {
		return fmt.Errorf("index: delete fts: %w", err)
	}
	return nil
}

// Search performs an FTS5 full-text search over translations.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT source, strokes, translation
		FROM entries_fts
		WHERE entries_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	out := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Source, &r.Strokes, &r.Translation); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
