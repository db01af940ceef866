//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/starford/stenomix/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE on the entries table.
	return nil
}

func ftsInsert(_ *sql.Tx, _ string, _ []models.CompiledEntry) error {
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) error { return nil }

// Search performs a LIKE-based search over translations (fallback when FTS5
// is not compiled in).
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	stmt, args, err := sq.Select("source", "strokes", "translation").
		From("entries").
		Where(sq.Like{"translation": "%" + query + "%"}).
		OrderBy("length(translation)", "source", "position").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("index: build query: %w", err)
	}
	rows, err := db.conn.Query(stmt, args...)
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
