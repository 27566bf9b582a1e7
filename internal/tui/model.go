// Package tui is the terminal note list screen: a search field that filters
// the notes, a replace field, and a bulk replace action over every note.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/scratch/internal/notelist"
)

const (
	inputSearch = iota
	inputReplace
)

var fieldNames = [...]string{
	inputSearch:  notelist.FieldSearch,
	inputReplace: notelist.FieldReplace,
}

// Config wires a Model to its collaborators.
type Config struct {
	Controller *notelist.Controller
	Session    notelist.Session
	// Verify checks the session before the first load. Optional.
	Verify func(context.Context) error
	// Reports receives the errors the controller reports. Optional.
	Reports <-chan error
}

// Model is the bubbletea model of the note list screen.
type Model struct {
	ctx     context.Context
	ctrl    *notelist.Controller
	session notelist.Session
	verify  func(context.Context) error
	reports <-chan error

	inputs  [2]textinput.Model
	focus   int
	spinner spinner.Model
	help    help.Model
	keys    KeyMap

	verified bool
	authErr  error
	errMsg   string
	status   string
	width    int
	height   int
}

// New creates the screen model. ctx bounds every request it issues.
func New(ctx context.Context, cfg Config) Model {
	search := textinput.New()
	search.Placeholder = "Search Notes"
	search.Prompt = ""
	search.CharLimit = 256
	search.Cursor.SetMode(cursor.CursorStatic)
	search.Focus()

	replace := textinput.New()
	replace.Placeholder = "Replace Text"
	replace.Prompt = ""
	replace.CharLimit = 256
	replace.Cursor.SetMode(cursor.CursorStatic)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = metaStyle

	return Model{
		ctx:     ctx,
		ctrl:    cfg.Controller,
		session: cfg.Session,
		verify:  cfg.Verify,
		reports: cfg.Reports,
		inputs:  [2]textinput.Model{search, replace},
		spinner: sp,
		help:    help.New(),
		keys:    keys,
	}
}

// Init verifies the session and starts listening for reported errors.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		verifyCmd(m.ctx, m.verify),
		waitForReport(m.reports),
	)
}

func (m Model) authenticated() bool {
	return m.session != nil && m.session.IsAuthenticated()
}

// syncInputs copies the controller's fields into the inputs.
func (m *Model) syncInputs() {
	f := m.ctrl.Fields()
	if m.inputs[inputSearch].Value() != f.Search {
		m.inputs[inputSearch].SetValue(f.Search)
	}
	if m.inputs[inputReplace].Value() != f.Replace {
		m.inputs[inputReplace].SetValue(f.Replace)
	}
}

func (m *Model) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
			continue
		}
		m.inputs[j].Blur()
	}
}
