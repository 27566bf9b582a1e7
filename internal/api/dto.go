package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/scratch/internal/models"
)

// maxContentBytes bounds a single note body.
const maxContentBytes = 1 << 20

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Content string `json:"content" example:"Buy milk\nand eggs" validate:"required"`
}

// Validate validates the create request.
func (r CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.Length(1, maxContentBytes)),
	)
}

// UpdateNoteRequest is the request body for updating a note. Empty content
// is accepted so that a bulk rewrite never fails on an empty note.
type UpdateNoteRequest struct {
	Content *string `json:"content" example:"Buy bread\nand eggs" validate:"required"`
}

// Validate validates the update request.
func (r UpdateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.NotNil, validation.Length(0, maxContentBytes)),
	)
}

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []models.Note `json:"notes" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// SessionResponse reports whether the request carried valid credentials.
type SessionResponse struct {
	Authenticated bool `json:"authenticated" validate:"required"`
}
