// Package models defines the domain types for Scratch.
package models

import "time"

// Note is a persisted unit of user content.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteMetadata is a lightweight representation returned by vault listings.
type NoteMetadata struct {
	ID        string    `json:"id"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
