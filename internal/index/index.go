package index

import "github.com/starford/stenomix/internal/models"

// DictionaryIndex defines the interface for compiled-dictionary indexing.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type DictionaryIndex interface {
	UpsertSource(s SourceRow, entries []models.CompiledEntry) error
	DeleteSource(path string) error
	GetChecksum(path string) (string, error)
	ListSources() ([]SourceRow, error)
	Lookup(strokes string) ([]models.CompiledEntry, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies DictionaryIndex at compile time.
var _ DictionaryIndex = (*DB)(nil)
