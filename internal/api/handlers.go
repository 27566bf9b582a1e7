package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/scratch/internal/apperr"
	"github.com/starford/scratch/internal/checksum"
	"github.com/starford/scratch/internal/models"
	"github.com/starford/scratch/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// Session handles GET /api/session.
//
//	@Summary		Report whether the caller is authenticated
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	SessionResponse
//	@Failure		401	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/session [get]
func (h *Handler) Session(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SessionResponse{Authenticated: true})
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes in creation order with optional filtering and pagination
//	@Tags			notes
//	@Produce		json
//	@Param			q		query		string	false	"Keep notes whose content contains q (case-sensitive)"
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	notes, total, err := h.svc.ListNotes(r.Context(), limit, offset, q.Get("q"))
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: total})
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a single note by id
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	models.Note
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.svc.GetNote(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "get note failed", id, err)
		return
	}
	writeNote(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	note, err := h.svc.CreateNote(r.Context(), []byte(req.Content))
	if err != nil {
		h.writeServiceError(w, "create note failed", "", err)
		return
	}
	writeNote(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes/{id}.
//
//	@Summary		Overwrite a note's content with optional optimistic concurrency
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id			path	string				true	"Note id"
//	@Param			If-Match	header	string				false	"Entity tag from a previous read"
//	@Param			body		body	UpdateNoteRequest	true	"Updated content"
//	@Success		200		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	ifMatch := checksum.FromIfMatch(r.Header.Get("If-Match"))
	note, err := h.svc.UpdateNote(r.Context(), id, []byte(*req.Content), ifMatch)
	if err != nil {
		h.writeServiceError(w, "update note failed", id, err)
		return
	}
	writeNote(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteNote(r.Context(), id); err != nil {
		h.writeServiceError(w, "delete note failed", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeNote writes a note with its checksum as the entity tag.
func writeNote(w http.ResponseWriter, status int, note *models.Note) {
	w.Header().Set("ETag", checksum.ETag(note.Checksum))
	writeJSON(w, status, note)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, msg, id string, err error) {
	status := apperr.HTTPStatus(err)
	var body string
	switch {
	case status == http.StatusInternalServerError:
		slog.Error(msg, slog.String("id", id), slog.String("error", err.Error()))
		body = "internal error"
	case errors.Is(err, apperr.ErrConflict):
		body = "checksum mismatch"
	case errors.Is(err, apperr.ErrAlreadyExists):
		body = "note already exists"
	case errors.Is(err, apperr.ErrInvalidID):
		body = "invalid note id"
	default:
		body = strings.ToLower(http.StatusText(status))
	}
	writeJSON(w, status, errorBody(body))
}
