// Package mcpserver exposes the note store to LLM clients as MCP tools over
// stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/scratch/internal/apperr"
	"github.com/starford/scratch/internal/notelist"
	"github.com/starford/scratch/internal/noteservice"
	"github.com/starford/scratch/internal/textmatch"
)

// Server wraps the MCP server with the note tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *noteservice.Service
	logger *slog.Logger
}

// noteSummary is one entry of list_notes and search_notes output.
type noteSummary struct {
	ID        string    `json:"id"`
	FirstLine string    `json:"first_line"`
	CreatedAt time.Time `json:"created_at"`
	Matches   int       `json:"matches,omitempty"`
}

// New creates an MCP server with all note tools registered.
func New(svc *noteservice.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{svc: svc, logger: logger}

	s.mcp = server.NewMCPServer(
		"Scratch",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List every note, oldest first, with its id, first line and creation time."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new plain text note. The first line is shown as its title."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note content")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Find notes whose content contains the term (case-sensitive, literal). "+
			"Occurrences in each first line are marked **like this**."),
		mcp.WithString("term", mcp.Required(), mcp.Description("Literal text to look for")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("replace_text",
		mcp.WithDescription("Replace every occurrence of search with replace in every note. "+
			"Matching is case-sensitive and literal. Returns how many notes were updated."),
		mcp.WithString("search", mcp.Required(), mcp.Description("Literal text to replace")),
		mcp.WithString("replace", mcp.Required(), mcp.Description("Replacement text")),
		mcp.WithBoolean("dry_run", mcp.Description("Only count occurrences, write nothing")),
	), s.replaceText)

	return s
}

// Serve speaks MCP over in and out until ctx is done or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// markMatches renders highlight segments with matches wrapped in **.
func markMatches(segs []textmatch.Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		if seg.Matched {
			b.WriteString("**" + seg.Text + "**")
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := s.svc.AllNotes(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := make([]noteSummary, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteSummary{ID: n.ID, FirstLine: textmatch.FirstLine(n.Content), CreatedAt: n.CreatedAt})
	}
	return jsonResult(out)
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.GetNote(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalidID) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(note.Content), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if content == "" {
		return mcp.NewToolResultError("content must not be empty"), nil
	}
	note, err := s.svc.CreateNote(ctx, []byte(content))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Info("mcp: note created", slog.String("id", note.ID))
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", note.ID)), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := req.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, _, err := s.svc.ListNotes(ctx, 0, 0, term)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(notes) == 0 {
		return mcp.NewToolResultText("no notes found"), nil
	}
	out := make([]noteSummary, 0, len(notes))
	for _, n := range notes {
		first := textmatch.FirstLine(n.Content)
		out = append(out, noteSummary{
			ID:        n.ID,
			FirstLine: markMatches(textmatch.Highlight(first, term)),
			CreatedAt: n.CreatedAt,
			Matches:   textmatch.Count(n.Content, term),
		})
	}
	return jsonResult(out)
}

func (s *Server) replaceText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	search, err := req.RequireString("search")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	replace, err := req.RequireString("replace")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fields := notelist.Fields{Search: search, Replace: replace}
	if !fields.Complete() {
		return mcp.NewToolResultError("search and replace must both be non-empty"), nil
	}

	ctrl := notelist.New(s.svc.Local(), notelist.StaticSession(true), nil,
		notelist.WithLogger(s.logger),
		notelist.WithAutoReload(false),
	)
	if err := ctrl.Load(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if req.GetBool("dry_run", false) {
		var out []noteSummary
		for _, n := range ctrl.Notes() {
			if c := textmatch.Count(n.Content, search); c > 0 {
				out = append(out, noteSummary{ID: n.ID, FirstLine: textmatch.FirstLine(n.Content), CreatedAt: n.CreatedAt, Matches: c})
			}
		}
		if len(out) == 0 {
			return mcp.NewToolResultText("no notes contain the search text"), nil
		}
		return jsonResult(out)
	}

	res, err := ctrl.SubmitReplace(ctx, fields)
	var rerr *notelist.ReplaceError
	if errors.As(err, &rerr) {
		return mcp.NewToolResultError(fmt.Sprintf("updated %d of %d notes; failed: %s",
			res.Updated, res.Total, strings.Join(res.Failed, ", "))), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}
