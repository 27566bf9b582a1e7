package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/scratch/internal/notelist"
)

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionMsg:
		m.verified = true
		m.authErr = msg.err
		if !m.authenticated() {
			return m, nil
		}
		return m, loadCmd(m.ctx, m.ctrl)

	case loadedMsg:
		if errors.Is(msg.err, notelist.ErrNotAuthenticated) {
			m.authErr = msg.err
		}
		return m, nil

	case replacedMsg:
		m.syncInputs()
		m.setFocus(inputSearch)
		var rerr *notelist.ReplaceError
		// Batch failures arrive through the reporter.
		if msg.err != nil && !errors.As(msg.err, &rerr) {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Updated %d of %d notes", msg.res.Updated, msg.res.Total)
		return m, nil

	case reportMsg:
		m.errMsg = msg.err.Error()
		return m, waitForReport(m.reports)

	case NotesChangedMsg:
		if !m.authenticated() || m.ctrl.State() == notelist.StateReplacing {
			return m, nil
		}
		return m, loadCmd(m.ctx, m.ctrl)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if !m.authenticated() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.SwitchInput):
		m.setFocus((m.focus + 1) % len(m.inputs))
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		m.status = ""
		return m, loadCmd(m.ctx, m.ctrl)

	case key.Matches(msg, m.keys.ClearField):
		if err := m.ctrl.ClearField(fieldNames[m.focus]); err != nil {
			return m, nil
		}
		m.syncInputs()
		if m.focus == inputSearch {
			return m, loadCmd(m.ctx, m.ctrl)
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if !m.ctrl.CanSubmit() {
			m.status = "Enter both search and replacement text"
			return m, nil
		}
		m.status = "Replacing..."
		m.errMsg = ""
		return m, replaceCmd(m.ctx, m.ctrl, m.ctrl.Fields())
	}

	return m.updateInput(msg)
}

// updateInput feeds a key to the focused input and mirrors the new value
// into the controller. Edits the controller refuses are rolled back.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	after := m.inputs[m.focus].Value()
	if after == before {
		return m, cmd
	}

	if err := m.ctrl.UpdateField(fieldNames[m.focus], after); err != nil {
		m.inputs[m.focus].SetValue(before)
		return m, cmd
	}
	if m.focus == inputSearch {
		return m, tea.Batch(cmd, loadCmd(m.ctx, m.ctrl))
	}
	return m, cmd
}
