package notelist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starford/scratch/internal/models"
	"github.com/starford/scratch/internal/textmatch"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger. Logs are discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAutoReload controls whether a finished replace batch reloads the note
// set from the store. Enabled by default.
func WithAutoReload(enabled bool) Option {
	return func(c *Controller) {
		c.autoReload = enabled
	}
}

// Controller owns the note list screen state.
type Controller struct {
	store      NoteStore
	session    Session
	reporter   Reporter
	logger     *slog.Logger
	autoReload bool

	mu     sync.Mutex
	cache  noteCache
	fields Fields
	state  State
	gen    uint64 // bumped by every Load; older responses are dropped
}

// New creates a controller in the loading state with empty fields.
func New(store NoteStore, session Session, reporter Reporter, opts ...Option) *Controller {
	c := &Controller{
		store:      store,
		session:    session,
		reporter:   reporter,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		autoReload: true,
		state:      StateLoading,
	}
	for _, o := range opts {
		o(c)
	}
	if c.reporter == nil {
		c.reporter = ReporterFunc(func(error) {})
	}
	return c
}

// Load fetches the current note set and replaces the cache with it. A
// failure leaves the cache untouched and is passed to the reporter. In both
// cases a loading state settles to idle. A response that arrives after a
// newer Load was started is discarded.
func (c *Controller) Load(ctx context.Context) error {
	if !c.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	notes, err := c.store.ListNotes(ctx)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug("discarding stale note list", slog.Uint64("generation", gen))
		return nil
	}
	if err == nil {
		c.cache.ReplaceAll(notes)
	}
	if c.state == StateLoading {
		c.state = StateIdle
	}
	c.mu.Unlock()

	if err != nil {
		err = fmt.Errorf("notelist: load notes: %w", err)
		c.logger.Error("load notes", slog.String("error", err.Error()))
		c.reporter.ReportError(err)
		return err
	}
	c.logger.Debug("notes loaded", slog.Int("count", len(notes)))
	return nil
}

// UpdateField sets the named field. Input is refused while a load or a
// replace is in flight.
func (c *Controller) UpdateField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return ErrBusy
	}
	switch name {
	case FieldSearch:
		c.fields.Search = value
	case FieldReplace:
		c.fields.Replace = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// ClearField empties the named field.
func (c *Controller) ClearField(name string) error {
	return c.UpdateField(name, "")
}

// ResetFields empties both fields.
func (c *Controller) ResetFields() {
	c.mu.Lock()
	c.fields = Fields{}
	c.mu.Unlock()
}

// Fields returns the current field values.
func (c *Controller) Fields() Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CanSubmit reports whether a replace would currently be accepted.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateIdle && c.fields.Complete()
}

// Visible reports whether the note list is rendered. It is hidden while the
// controller is loading or replacing.
func (c *Controller) Visible() bool {
	return c.State() == StateIdle
}

// Notes returns a copy of the cached note set.
func (c *Controller) Notes() []models.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Get()
}

// View returns the rendered list: the cached notes containing the current
// search term, in cache order. It is empty unless the list is visible.
func (c *Controller) View() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return nil
	}
	notes := c.cache.ApplyFilter(c.fields.Search)
	items := make([]Item, 0, len(notes))
	for _, n := range notes {
		items = append(items, Item{
			ID:        n.ID,
			FirstLine: textmatch.FirstLine(n.Content),
			CreatedAt: n.CreatedAt,
			term:      c.fields.Search,
		})
	}
	return items
}

// SubmitReplace replaces every occurrence of fields.Search with
// fields.Replace in every cached note and persists each changed note.
//
// Updates run concurrently and independently; one failure does not stop the
// others. Once all of them have finished the fields are reset, the state
// returns to idle and, if any update failed, a *ReplaceError naming the
// failed notes is reported and returned. With auto reload enabled the note
// set is then fetched again.
//
// The whole cache is processed, not just the notes the search filter shows.
// Notes without an occurrence are written back unchanged.
func (c *Controller) SubmitReplace(ctx context.Context, fields Fields) (ReplaceResult, error) {
	if !fields.Complete() {
		return ReplaceResult{}, ErrSubmitDisabled
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ReplaceResult{}, ErrBusy
	}
	notes := c.cache.Get()
	if len(notes) == 0 {
		c.mu.Unlock()
		return ReplaceResult{}, nil
	}
	c.state = StateReplacing
	c.mu.Unlock()

	c.logger.Info("replace started",
		slog.Int("notes", len(notes)),
		slog.String("search", fields.Search),
	)

	errs := make([]error, len(notes))
	var g errgroup.Group
	for i, n := range notes {
		g.Go(func() error {
			content := textmatch.ReplaceAll(n.Content, fields.Search, fields.Replace)
			if err := c.store.UpdateNote(ctx, n.ID, content); err != nil {
				errs[i] = fmt.Errorf("note %s: %w", n.ID, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := ReplaceResult{Total: len(notes)}
	for i, err := range errs {
		if err != nil {
			result.Failed = append(result.Failed, notes[i].ID)
			continue
		}
		result.Updated++
	}

	c.mu.Lock()
	c.fields = Fields{}
	c.state = StateIdle
	c.mu.Unlock()

	c.logger.Info("replace finished",
		slog.Int("updated", result.Updated),
		slog.Int("failed", len(result.Failed)),
	)

	var replaceErr error
	if len(result.Failed) > 0 {
		replaceErr = &ReplaceError{
			Failed: result.Failed,
			Total:  result.Total,
			Err:    errors.Join(errs...),
		}
		c.reporter.ReportError(replaceErr)
	}

	if c.autoReload {
		// Load reports its own failure.
		_ = c.Load(ctx)
	}
	return result, replaceErr
}
