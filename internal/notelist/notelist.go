// Package notelist implements the note list screen's state: the cached notes,
// the search and replace fields, the loading state, and the bulk replace
// operation that rewrites every cached note.
//
// A Controller is safe for concurrent use. Network calls are never made while
// its lock is held.
package notelist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/starford/scratch/internal/models"
	"github.com/starford/scratch/internal/textmatch"
)

// Field names accepted by UpdateField and ClearField.
const (
	FieldSearch  = "search"
	FieldReplace = "replace"
)

var (
	ErrBusy             = errors.New("notelist: busy")
	ErrSubmitDisabled   = errors.New("notelist: search and replace must both be set")
	ErrNotAuthenticated = errors.New("notelist: not authenticated")
	ErrUnknownField     = errors.New("notelist: unknown field")
)

// NoteStore is the remote note store.
type NoteStore interface {
	// ListNotes fetches every note of the current session.
	ListNotes(ctx context.Context) ([]models.Note, error)
	// UpdateNote overwrites one note's content.
	UpdateNote(ctx context.Context, id, content string) error
}

// Session reports whether the user is signed in.
type Session interface {
	IsAuthenticated() bool
}

// StaticSession is a Session with a fixed answer.
type StaticSession bool

// IsAuthenticated implements Session.
func (s StaticSession) IsAuthenticated() bool { return bool(s) }

// Reporter surfaces failures to the user. Implementations must not block.
type Reporter interface {
	ReportError(err error)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(err error)

// ReportError implements Reporter.
func (f ReporterFunc) ReportError(err error) { f(err) }

// State gates input and list rendering.
type State int

const (
	StateLoading State = iota
	StateIdle
	StateReplacing
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateIdle:
		return "idle"
	case StateReplacing:
		return "replacing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Fields holds the search and replace inputs.
type Fields struct {
	Search  string `json:"search"`
	Replace string `json:"replace"`
}

// Complete reports whether both fields are set, the precondition for a
// replace.
func (f Fields) Complete() bool {
	return f.Search != "" && f.Replace != ""
}

// Item is one row of the rendered note list.
type Item struct {
	ID        string
	FirstLine string
	CreatedAt time.Time

	term string
}

// Segments returns the first line split around case-insensitive matches of
// the search term the item was produced under.
func (i Item) Segments() []textmatch.Segment {
	return textmatch.Highlight(i.FirstLine, i.term)
}

// ReplaceResult summarizes a finished replace batch.
type ReplaceResult struct {
	Total   int      `json:"total"`
	Updated int      `json:"updated"`
	Failed  []string `json:"failed,omitempty"`
}

// ReplaceError reports the notes a replace batch could not persist.
type ReplaceError struct {
	Failed []string
	Total  int
	Err    error
}

func (e *ReplaceError) Error() string {
	return fmt.Sprintf("notelist: %d of %d notes failed to update", len(e.Failed), e.Total)
}

func (e *ReplaceError) Unwrap() error {
	return e.Err
}
