// Package storage defines the vault abstraction that holds note bodies.
package storage

import "github.com/starford/scratch/internal/models"

// Provider is the interface for key-based note file operations.
type Provider interface {
	// List returns metadata for every note file in the vault.
	List() ([]models.NoteMetadata, error)
	// Read returns the raw content of the note with the given id.
	Read(id string) ([]byte, error)
	// Write atomically replaces the content of the note with the given id.
	Write(id string, content []byte) error
	// Delete removes the note with the given id.
	Delete(id string) error
}
