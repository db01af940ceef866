package index

import (
	"log/slog"

	"github.com/starford/stenomix/internal/models"
	"github.com/starford/stenomix/internal/storage"
)

// Indexer compiles one source document and records the result. It is
// implemented by the compiler service.
type Indexer interface {
	IndexSource(path string, data []byte) error
	RemoveSource(path string) error
}

// Plan compares the sources on disk with the index and returns the
// documents that are new or changed and the indexed paths that no longer
// exist on disk.
func Plan(db DictionaryIndex, store storage.Provider) (changed []models.SourceMetadata, removed []string, err error) {
	metas, err := store.List("")
	if err != nil {
		return nil, nil, err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return nil, nil, err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}
		if checksums[m.Path] != m.Checksum {
			changed = append(changed, m)
		}
	}
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			removed = append(removed, p)
		}
	}
	return changed, removed, nil
}

// Sync brings the index up to date one document at a time:
//   - new/changed sources are compiled and indexed
//   - sources removed from disk are dropped from the index
//
// cb (if non-nil) is called after every successful change.
func Sync(db DictionaryIndex, store storage.Provider, ix Indexer, logger *slog.Logger, cb EventCallback) error {
	changed, removed, err := Plan(db, store)
	if err != nil {
		return err
	}

	for _, m := range changed {
		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := ix.IndexSource(m.Path, data); err != nil {
			logger.Warn("sync: compile failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: compiled", slog.String("path", m.Path))
		if cb != nil {
			cb(EventCompiled, m.Path)
		}
	}

	for _, p := range removed {
		if err := ix.RemoveSource(p); err != nil {
			logger.Warn("sync: remove failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: removed stale", slog.String("path", p))
		if cb != nil {
			cb(EventRemoved, p)
		}
	}

	return nil
}
