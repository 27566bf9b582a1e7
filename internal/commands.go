package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/scratch/internal/client"
	"github.com/starford/scratch/internal/mcpserver"
	"github.com/starford/scratch/internal/notelist"
	"github.com/starford/scratch/internal/sse"
	"github.com/starford/scratch/internal/textmatch"
	"github.com/starford/scratch/internal/tui"
)

func newClient(cfg *ClientConfig, logger *slog.Logger) (*client.Client, error) {
	return client.New(cfg.BaseURL, cfg.Token,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		client.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
		client.WithLogger(logger),
	)
}

// RunTUI runs the terminal note list against the configured server.
func RunTUI(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logOut := io.Discard
	if cfg.App.LogFile != "" {
		f, err := os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, cfg.App.LogLevel)
	slog.SetDefault(logger)

	c, err := newClient(&cfg.Client, logger)
	if err != nil {
		return err
	}

	reports := make(tui.ChanReporter, 16)
	ctrl := notelist.New(c, c, reports,
		notelist.WithLogger(logger),
		notelist.WithAutoReload(cfg.Client.AutoReload),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.New(ctx, tui.Config{
		Controller: ctrl,
		Session:    c,
		Verify:     c.Verify,
		Reports:    reports,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	go followEvents(ctx, c, logger, func() { p.Send(tui.NotesChangedMsg{}) })

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// followEvents calls onChange for every notes.changed event, reconnecting
// until ctx is done.
func followEvents(ctx context.Context, c *client.Client, logger *slog.Logger, onChange func()) {
	const retry = 5 * time.Second
	for {
		err := c.Events(ctx, func(ev client.Event) {
			if ev.Type == sse.TypeNotesChanged {
				onChange()
			}
		})
		if err != nil {
			logger.Debug("event stream ended", slog.String("error", err.Error()))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(retry):
		}
	}
}

// ReplaceParams are the arguments of the replace command.
type ReplaceParams struct {
	Search  string
	Replace string
	DryRun  bool
}

// RunReplace replaces text in every note on the configured server and
// prints a summary. With DryRun set it only lists the notes that match.
func RunReplace(ctx context.Context, params ReplaceParams, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := newLogger(app.stderr, cfg.App.LogLevel)
	out := app.stdout

	fields := notelist.Fields{Search: params.Search, Replace: params.Replace}
	if params.Search == "" || (!params.DryRun && !fields.Complete()) {
		return notelist.ErrSubmitDisabled
	}

	c, err := newClient(&cfg.Client, logger)
	if err != nil {
		return err
	}
	if err := c.Verify(ctx); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	reporter := notelist.ReporterFunc(func(err error) {
		logger.Error("replace", slog.String("error", err.Error()))
	})
	ctrl := notelist.New(c, c, reporter,
		notelist.WithLogger(logger),
		notelist.WithAutoReload(false),
	)
	if err := ctrl.Load(ctx); err != nil {
		return err
	}

	matched := 0
	for _, n := range ctrl.Notes() {
		count := textmatch.Count(n.Content, params.Search)
		if count == 0 {
			continue
		}
		matched++
		fmt.Fprintf(out, "%s\t%s\t(%d)\n", n.ID, textmatch.FirstLine(n.Content), count)
	}
	if matched == 0 {
		fmt.Fprintf(out, "no notes contain %q\n", params.Search)
	}
	if params.DryRun {
		return nil
	}

	res, err := ctrl.SubmitReplace(ctx, fields)
	fmt.Fprintf(out, "updated %d of %d\n", res.Updated, res.Total)
	for _, id := range res.Failed {
		fmt.Fprintf(out, "failed\t%s\n", id)
	}
	return err
}

// RunMCP serves the local note store as MCP tools over stdio.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// stdout carries the protocol.
	logger := newLogger(app.stderr, cfg.App.LogLevel)
	slog.SetDefault(logger)

	be, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer be.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("MCP server starting", slog.String("vault_path", cfg.Vault.Path))
	if err := mcpserver.New(be.svc, logger).Serve(ctx, app.stdin, app.stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp: %w", err)
	}
	return nil
}
