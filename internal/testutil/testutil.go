// Package testutil provides shared test helpers for vaults, indexes, and
// seeded note services.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/starford/scratch/internal/index"
	"github.com/starford/scratch/internal/models"
	"github.com/starford/scratch/internal/noteservice"
	"github.com/starford/scratch/internal/storage"
)

// TestDB opens an index in a temporary directory. It is closed on cleanup.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// TestService wires a temporary vault and index into a note service.
func TestService(t *testing.T) *noteservice.Service {
	t.Helper()
	_, store := TestVault(t)
	return noteservice.NewService(store, TestDB(t))
}

// SeedNotes creates one note per content string, in order, so creation
// order matches argument order.
func SeedNotes(t *testing.T, svc *noteservice.Service, contents ...string) []*models.Note {
	t.Helper()
	notes := make([]*models.Note, 0, len(contents))
	for _, c := range contents {
		n, err := svc.CreateNote(context.Background(), []byte(c))
		if err != nil {
			t.Fatalf("seed %q: %v", c, err)
		}
		notes = append(notes, n)
	}
	return notes
}
