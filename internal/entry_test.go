package internal

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/scratch/internal/apperr"
	"github.com/starford/scratch/internal/notelist"
	"github.com/starford/scratch/internal/noteservice"
	"github.com/starford/scratch/internal/testutil"
)

// testServer serves a fresh note store over HTTP and returns a config whose
// client section points at it.
func testServer(t *testing.T, token string) (*noteservice.Service, *Config) {
	t.Helper()
	cfg := NewDefaultConfig()
	if token != "" {
		cfg.Auth = AuthConfig{Mode: AuthModeToken, Token: token}
	}
	svc := testutil.TestService(t)
	srv := httptest.NewServer(newHTTPHandler(cfg, svc, nil))
	t.Cleanup(srv.Close)

	cfg.Client.BaseURL = srv.URL + "/api"
	cfg.Client.Token = token
	return svc, cfg
}

func TestRunRequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
	if err := RunReplace(context.Background(), ReplaceParams{Search: "a", Replace: "b"}); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestHTTPHandlerHealth(t *testing.T) {
	_, cfg := testServer(t, "")
	h := newHTTPHandler(cfg, testutil.TestService(t), nil)

	for _, path := range []string{"/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
			t.Errorf("%s: status %d body %q", path, w.Code, w.Body.String())
		}
	}
}

func TestHTTPHandlerMountsEvents(t *testing.T) {
	cfg := NewDefaultConfig()
	called := false
	events := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})
	h := newHTTPHandler(cfg, testutil.TestService(t), events)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	if !called || w.Code != http.StatusNoContent {
		t.Errorf("events handler not mounted: called=%v status=%d", called, w.Code)
	}
}

func TestRunReplace(t *testing.T) {
	svc, cfg := testServer(t, "secret")
	notes := testutil.SeedNotes(t, svc, "Buy milk\nand eggs", "Call mom")

	var out bytes.Buffer
	err := RunReplace(context.Background(),
		ReplaceParams{Search: "milk", Replace: "bread"},
		WithConfig(cfg), WithOutput(&out, &bytes.Buffer{}),
	)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, notes[0].ID+"\tBuy milk\t(1)") {
		t.Errorf("missing match line in %q", got)
	}
	if strings.Contains(got, notes[1].ID) {
		t.Errorf("non-matching note listed in %q", got)
	}
	if !strings.Contains(got, "updated 2 of 2") {
		t.Errorf("missing summary in %q", got)
	}

	n, err := svc.GetNote(context.Background(), notes[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if n.Content != "Buy bread\nand eggs" {
		t.Errorf("content = %q", n.Content)
	}
}

func TestRunReplaceDryRun(t *testing.T) {
	svc, cfg := testServer(t, "")
	notes := testutil.SeedNotes(t, svc, "milk, milk")

	var out bytes.Buffer
	err := RunReplace(context.Background(),
		ReplaceParams{Search: "milk", DryRun: true},
		WithConfig(cfg), WithOutput(&out, &bytes.Buffer{}),
	)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !strings.Contains(out.String(), notes[0].ID+"\tmilk, milk\t(2)") {
		t.Errorf("unexpected output %q", out.String())
	}
	if strings.Contains(out.String(), "updated") {
		t.Errorf("dry run replaced: %q", out.String())
	}

	n, err := svc.GetNote(context.Background(), notes[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if n.Content != "milk, milk" {
		t.Errorf("dry run wrote %q", n.Content)
	}
}

func TestRunReplaceNoMatches(t *testing.T) {
	svc, cfg := testServer(t, "")
	testutil.SeedNotes(t, svc, "Call mom")

	var out bytes.Buffer
	err := RunReplace(context.Background(),
		ReplaceParams{Search: "milk", Replace: "bread"},
		WithConfig(cfg), WithOutput(&out, &bytes.Buffer{}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `no notes contain "milk"`) {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRunReplaceRejectsEmptyFields(t *testing.T) {
	_, cfg := testServer(t, "")
	err := RunReplace(context.Background(),
		ReplaceParams{Search: "milk"},
		WithConfig(cfg), WithOutput(&bytes.Buffer{}, &bytes.Buffer{}),
	)
	if !errors.Is(err, notelist.ErrSubmitDisabled) {
		t.Fatalf("err = %v, want ErrSubmitDisabled", err)
	}
}

func TestRunReplaceBadToken(t *testing.T) {
	_, cfg := testServer(t, "secret")
	cfg.Client.Token = "wrong"
	err := RunReplace(context.Background(),
		ReplaceParams{Search: "milk", Replace: "bread"},
		WithConfig(cfg), WithOutput(&bytes.Buffer{}, &bytes.Buffer{}),
	)
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
