package notelist

import (
	"context"
	"slices"
	"sync"

	"github.com/starford/scratch/internal/models"
)

// memStore is an in-memory NoteStore. Updates to ids with a gate block until
// the gate is closed.
type memStore struct {
	mu        sync.Mutex
	notes     []models.Note
	listErr   error
	updateErr map[string]error
	gates     map[string]chan struct{}
	updates   []update
	lists     int

	started chan string
}

type update struct {
	ID      string
	Content string
}

func newMemStore(notes ...models.Note) *memStore {
	return &memStore{
		notes:     notes,
		updateErr: map[string]error{},
		gates:     map[string]chan struct{}{},
		started:   make(chan string, 16),
	}
}

func (s *memStore) ListNotes(context.Context) ([]models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return slices.Clone(s.notes), nil
}

func (s *memStore) UpdateNote(ctx context.Context, id, content string) error {
	s.started <- id
	s.mu.Lock()
	gate := s.gates[id]
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updateErr[id]; err != nil {
		return err
	}
	s.updates = append(s.updates, update{ID: id, Content: content})
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes[i].Content = content
		}
	}
	return nil
}

func (s *memStore) gate(id string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.gates[id] = ch
	return ch
}

func (s *memStore) setListErr(err error) {
	s.mu.Lock()
	s.listErr = err
	s.mu.Unlock()
}

func (s *memStore) recorded() []update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.updates)
}

func (s *memStore) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

func (s *memStore) updated(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.updates, func(u update) bool { return u.ID == id })
}

// seqStore answers each ListNotes call from its own channel, in call order.
type seqStore struct {
	mu        sync.Mutex
	calls     int
	responses []chan listResult
	entered   chan int
}

type listResult struct {
	notes []models.Note
	err   error
}

func newSeqStore(n int) *seqStore {
	s := &seqStore{entered: make(chan int, n)}
	for range n {
		s.responses = append(s.responses, make(chan listResult, 1))
	}
	return s
}

func (s *seqStore) ListNotes(ctx context.Context) ([]models.Note, error) {
	s.mu.Lock()
	i := s.calls
	s.calls++
	s.mu.Unlock()
	s.entered <- i
	select {
	case r := <-s.responses[i]:
		return r.notes, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *seqStore) UpdateNote(context.Context, string, string) error { return nil }

// errSink collects reported errors.
type errSink struct {
	mu   sync.Mutex
	errs []error
}

func (r *errSink) ReportError(err error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func (r *errSink) all() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.errs)
}
