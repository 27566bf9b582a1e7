// Package noteservice coordinates the vault and the index behind the note
// store API.
package noteservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/starford/scratch/internal/apperr"
	"github.com/starford/scratch/internal/checksum"
	"github.com/starford/scratch/internal/index"
	"github.com/starford/scratch/internal/models"
	"github.com/starford/scratch/internal/storage"
	"github.com/starford/scratch/internal/textmatch"
)

// Service coordinates storage and index operations.
type Service struct {
	store storage.Provider
	db    index.NoteIndex
}

// NewService creates a new note service.
func NewService(store storage.Provider, db index.NoteIndex) *Service {
	return &Service{store: store, db: db}
}

// GetNote returns a single note.
func (s *Service) GetNote(_ context.Context, id string) (*models.Note, error) {
	row, err := s.db.GetNote(id)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		// The watcher may not have caught up with a file written out of band.
		data, readErr := s.store.Read(id)
		if readErr != nil {
			return nil, readErr
		}
		if err := index.IndexFile(s.db, id, data, time.Time{}); err != nil {
			return nil, err
		}
		if row, err = s.db.GetNote(id); err != nil {
			return nil, err
		}
	}
	return toNote(*row), nil
}

// CreateNote stores a new note under a fresh id.
func (s *Service) CreateNote(ctx context.Context, content []byte) (*models.Note, error) {
	id := uuid.NewString()
	if _, err := s.store.Read(id); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Write(id, content); err != nil {
		return nil, err
	}
	if err := index.IndexFile(s.db, id, content, time.Time{}); err != nil {
		return nil, err
	}
	return s.GetNote(ctx, id)
}

// UpdateNote overwrites a note's content with optimistic concurrency:
// a non-empty ifMatch must equal the current checksum.
func (s *Service) UpdateNote(ctx context.Context, id string, content []byte, ifMatch string) (*models.Note, error) {
	existing, err := s.store.Read(id)
	if err != nil {
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.store.Write(id, content); err != nil {
		return nil, err
	}
	if err := index.IndexFile(s.db, id, content, time.Time{}); err != nil {
		return nil, err
	}
	return s.GetNote(ctx, id)
}

// DeleteNote removes a note from storage and index.
func (s *Service) DeleteNote(_ context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	return s.db.DeleteNote(id)
}

// ListNotes returns notes in creation order. A non-empty query keeps only
// notes whose content contains it (case-sensitive), and paging applies to
// the filtered set.
func (s *Service) ListNotes(_ context.Context, limit, offset int, query string) ([]models.Note, int, error) {
	if query == "" {
		rows, total, err := s.db.ListNotes(limit, offset)
		if err != nil {
			return nil, 0, err
		}
		return toNotes(rows), total, nil
	}

	rows, _, err := s.db.ListNotes(0, 0)
	if err != nil {
		return nil, 0, err
	}
	matched := make([]models.Note, 0, len(rows))
	for _, r := range rows {
		if textmatch.Matches(r.Body, query) {
			matched = append(matched, *toNote(r))
		}
	}
	return page(matched, limit, offset), len(matched), nil
}

// AllNotes returns every note in creation order.
func (s *Service) AllNotes(ctx context.Context) ([]models.Note, error) {
	notes, _, err := s.ListNotes(ctx, 0, 0, "")
	return notes, err
}

func page(notes []models.Note, limit, offset int) []models.Note {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(notes) {
		return []models.Note{}
	}
	notes = notes[offset:]
	if limit > 0 && limit < len(notes) {
		notes = notes[:limit]
	}
	return notes
}

func toNote(r index.NoteRow) *models.Note {
	return &models.Note{
		ID:        r.ID,
		Content:   r.Body,
		Checksum:  r.Checksum,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toNotes(rows []index.NoteRow) []models.Note {
	out := make([]models.Note, len(rows))
	for i, r := range rows {
		out[i] = *toNote(r)
	}
	return out
}
