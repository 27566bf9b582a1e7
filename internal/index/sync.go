package index

import (
	"log/slog"
	"time"

	"github.com/starford/scratch/internal/checksum"
	"github.com/starford/scratch/internal/storage"
)

// Sync walks the vault and brings the index up to date:
//   - new/changed files are upserted
//   - files removed from disk are deleted from the index
func Sync(db NoteIndex, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.ID] = struct{}{}

		if checksums[m.ID] == m.Checksum {
			continue
		}

		data, err := store.Read(m.ID)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("id", m.ID), slog.String("error", err.Error()))
			continue
		}
		if err := IndexFile(db, m.ID, data, m.UpdatedAt); err != nil {
			logger.Warn("sync: index failed", slog.String("id", m.ID), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("id", m.ID))
		}
	}

	// Remove stale entries.
	for id := range checksums {
		if _, ok := disk[id]; !ok {
			if err := db.DeleteNote(id); err != nil {
				logger.Warn("sync: delete failed", slog.String("id", id), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("id", id))
			}
		}
	}

	return nil
}

// IndexFile upserts the note body. seen is used as the creation time when
// the note is new to the index.
func IndexFile(db NoteIndex, id string, data []byte, seen time.Time) error {
	now := time.Now().UTC()
	if seen.IsZero() {
		seen = now
	}
	return db.UpsertNote(NoteRow{
		ID:        id,
		Checksum:  checksum.Sum(data),
		Body:      string(data),
		CreatedAt: seen,
		UpdatedAt: now,
	})
}
