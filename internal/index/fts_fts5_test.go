//go:build sqlite_fts5

package index

import (
	"testing"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM entries_fts`).Scan(&count); err != nil {
		t.Fatalf("entries_fts table missing: %v", err)
	}
}

func TestFTS5_SearchMatchesWords(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertSource(SourceRow{Path: "fts.json", Checksum: "f1"},
		compiled("fts.json", "PWOER", "powerful", "PWOER/-FL", "powerful search")); err != nil {
		t.Fatalf("UpsertSource: %v", err)
	}

	results, err := db.Search("search", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Strokes != "PWOER/-FL" {
		t.Errorf("strokes = %q", results[0].Strokes)
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertSource(SourceRow{Path: "gone.json", Checksum: "g"}, compiled("gone.json", "SRA*PB", "vanishing"))
	_ = db.DeleteSource("gone.json")

	results, _ := db.Search("vanishing", 10)
	for _, r := range results {
		if r.Source == "gone.json" {
			t.Error("deleted source still in FTS index")
		}
	}
}

func TestFTS5_UpsertReplacesContent(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertSource(SourceRow{Path: "evo.json", Checksum: "1"}, compiled("evo.json", "O", "original"))
	_ = db.UpsertSource(SourceRow{Path: "evo.json", Checksum: "2"}, compiled("evo.json", "R", "replacement"))

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 || results[0].Strokes != "R" {
		t.Errorf("FTS not updated: %+v", results)
	}
}
