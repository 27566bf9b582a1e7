// Package apperr holds the sentinel errors shared by the store, API, and client.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidID     = errors.New("invalid note id")
)

// statuses pairs each sentinel with the HTTP status the API answers with.
// Order matters for FromStatus: the first sentinel for a status wins.
var statuses = []struct {
	err    error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrConflict, http.StatusConflict},
	{ErrAlreadyExists, http.StatusConflict},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrInvalidID, http.StatusBadRequest},
}

// HTTPStatus returns the status for err, or 500 when err wraps no sentinel.
func HTTPStatus(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

// FromStatus returns the sentinel a client should surface for an error
// status, or nil when the status has none. 400 is left to the caller since
// it covers more than a bad id.
func FromStatus(status int) error {
	if status == http.StatusBadRequest {
		return nil
	}
	for _, s := range statuses {
		if s.status == status {
			return s.err
		}
	}
	return nil
}
