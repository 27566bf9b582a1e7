// Package client talks to the note store REST API. A Client serves as the
// note list controller's NoteStore and Session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/starford/scratch/internal/apperr"
	"github.com/starford/scratch/internal/models"
)

const maxBody = 10 << 20

// StatusError is returned for responses the client has no sentinel for.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// Client is an HTTP client for the note store.
type Client struct {
	baseURL  *url.URL
	token    string
	http     *http.Client
	limiter  *rate.Limiter
	backoffs []time.Duration
	logger   *slog.Logger

	authenticated atomic.Bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit caps outgoing requests per second. Zero or less disables
// limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBackoff sets the waits between retries of a request that failed with
// 429 or a 5xx status. One retry per entry.
func WithBackoff(backoffs ...time.Duration) Option {
	return func(c *Client) { c.backoffs = backoffs }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the API mounted at baseURL, for example
// "http://localhost:8080/api".
func New(baseURL, token string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:  u,
		token:    token,
		http:     &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Inf, 0),
		backoffs: []time.Duration{250 * time.Millisecond, time.Second},
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// IsAuthenticated reports the outcome of the last Verify, downgraded by any
// later 401.
func (c *Client) IsAuthenticated() bool {
	return c.authenticated.Load()
}

// Verify checks the session against GET /session and records the result.
// A rejected token yields apperr.ErrUnauthorized.
func (c *Client) Verify(ctx context.Context) error {
	var resp struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := c.do(ctx, http.MethodGet, "/session", nil, &resp); err != nil {
		return err
	}
	c.authenticated.Store(resp.Authenticated)
	if !resp.Authenticated {
		return fmt.Errorf("client: verify session: %w", apperr.ErrUnauthorized)
	}
	return nil
}

// ListNotes fetches every note in creation order.
func (c *Client) ListNotes(ctx context.Context) ([]models.Note, error) {
	return c.SearchNotes(ctx, "")
}

// SearchNotes fetches the notes whose content contains q. An empty q
// returns every note.
func (c *Client) SearchNotes(ctx context.Context, q string) ([]models.Note, error) {
	path := "/notes"
	if q != "" {
		path += "?" + url.Values{"q": {q}}.Encode()
	}
	var resp struct {
		Notes []models.Note `json:"notes"`
		Total int           `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notes, nil
}

// GetNote fetches one note.
func (c *Client) GetNote(ctx context.Context, id string) (models.Note, error) {
	var note models.Note
	err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), nil, &note)
	return note, err
}

// UpdateNote overwrites a note's content.
func (c *Client) UpdateNote(ctx context.Context, id, content string) error {
	body := struct {
		Content string `json:"content"`
	}{Content: content}
	return c.do(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), body, nil)
}

// CreateNote stores a new note.
func (c *Client) CreateNote(ctx context.Context, content string) (models.Note, error) {
	body := struct {
		Content string `json:"content"`
	}{Content: content}
	var note models.Note
	err := c.do(ctx, http.MethodPost, "/notes", body, &note)
	return note, err
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends one request, retrying 429 and 5xx responses, and decodes a 2xx
// body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("client: %s %s: marshal: %w", method, path, err)
		}
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("client: %s %s: rate limiter: %w", method, path, err)
		}
		req, err := c.newRequest(ctx, method, path, payload)
		if err != nil {
			return fmt.Errorf("client: %s %s: %w", method, path, err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("client: %s %s: %w", method, path, err)
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("client: %s %s: read body: %w", method, path, err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out == nil || len(body) == 0 {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("client: %s %s: decode: %w", method, path, err)
			}
			return nil
		}

		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if retryable && attempt < len(c.backoffs) {
			c.logger.Warn("client: retrying request",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
				slog.Int("attempt", attempt+1),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("client: %s %s: %w", method, path, ctx.Err())
			case <-time.After(c.backoffs[attempt]):
			}
			continue
		}

		return fmt.Errorf("client: %s %s: %w", method, path, c.statusError(resp.StatusCode, body))
	}
}

func (c *Client) statusError(code int, body []byte) error {
	var e struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &e)

	if code == http.StatusUnauthorized {
		c.authenticated.Store(false)
	}
	if err := apperr.FromStatus(code); err != nil {
		return err
	}
	return &StatusError{Code: code, Message: e.Error}
}

// IsStatus reports whether err carries a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
