package client_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/scratch/internal/apperr"
	"github.com/starford/scratch/internal/client"
)

func TestEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": ping\n\n")
		fmt.Fprint(w, "id: 1\nevent: note.updated\ndata: {\"id\":\"a\"}\n\n")
		fmt.Fprint(w, "id: 2\nevent: notes.changed\ndata: {\"changes\":1}\n\n")
	}))
	defer srv.Close()

	c, err := client.New(srv.URL, "tok")
	require.NoError(t, err)

	var got []client.Event
	require.NoError(t, c.Events(context.Background(), func(ev client.Event) {
		got = append(got, ev)
	}))
	assert.Equal(t, []client.Event{
		{ID: "1", Type: "note.updated", Data: `{"id":"a"}`},
		{ID: "2", Type: "notes.changed", Data: `{"changes":1}`},
	}, got)
}

func TestEventsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := client.New(srv.URL, "tok")
	require.NoError(t, err)
	err = c.Events(context.Background(), func(client.Event) {})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
