package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/scratch/internal/apperr"
)

// NoteRow represents a row in the notes table.
type NoteRow struct {
	ID        string
	Checksum  string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertNote inserts or replaces a note. The creation time of an existing
// row is never overwritten.
func (db *DB) UpsertNote(n NoteRow) error {
	now := time.Now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = now
	}
	_, err := db.conn.Exec(`
		INSERT INTO notes (id, checksum, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			checksum   = excluded.checksum,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, n.ID, n.Checksum, n.Body, n.CreatedAt.UTC(), n.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}
	return nil
}

// DeleteNote removes a note from the index.
func (db *DB) DeleteNote(id string) error {
	if _, err := db.conn.Exec(`DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("index: delete note: %w", err)
	}
	return nil
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(id string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE id = ?`, id).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// GetNote returns a single indexed note.
func (db *DB) GetNote(id string) (*NoteRow, error) {
	var n NoteRow
	err := db.conn.QueryRow(`
		SELECT id, checksum, body, created_at, updated_at
		FROM notes WHERE id = ?
	`, id).Scan(&n.ID, &n.Checksum, &n.Body, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get note: %w", err)
	}
	return &n, nil
}

// ListNotes returns notes ordered by creation time, oldest first, together
// with the total number of indexed notes. A non-positive limit returns
// everything.
func (db *DB) ListNotes(limit, offset int) ([]NoteRow, int, error) {
	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count notes: %w", err)
	}
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := db.conn.Query(`
		SELECT id, checksum, body, created_at, updated_at
		FROM notes
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list notes: %w", err)
	}
	defer rows.Close()

	var out []NoteRow
	for rows.Next() {
		var n NoteRow
		if err := rows.Scan(&n.ID, &n.Checksum, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

// AllChecksums returns every indexed note id mapped to its checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}
