package noteservice

import (
	"context"

	"github.com/starford/scratch/internal/models"
)

// LocalStore exposes the service through the two calls the bulk replace
// controller needs, without going over HTTP.
type LocalStore struct {
	svc *Service
}

// Local returns a LocalStore backed by s.
func (s *Service) Local() *LocalStore {
	return &LocalStore{svc: s}
}

// ListNotes returns every note.
func (l *LocalStore) ListNotes(ctx context.Context) ([]models.Note, error) {
	return l.svc.AllNotes(ctx)
}

// UpdateNote overwrites a note's content unconditionally.
func (l *LocalStore) UpdateNote(ctx context.Context, id, content string) error {
	_, err := l.svc.UpdateNote(ctx, id, []byte(content), "")
	return err
}
