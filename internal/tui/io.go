package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/scratch/internal/notelist"
)

type sessionMsg struct {
	err error
}

type loadedMsg struct {
	err error
}

type replacedMsg struct {
	res notelist.ReplaceResult
	err error
}

type reportMsg struct {
	err error
}

// NotesChangedMsg tells the model the server's note set changed. Send it
// with tea.Program.Send when a notes.changed event arrives.
type NotesChangedMsg struct{}

// ChanReporter delivers controller errors to the model. Reports are dropped
// when the buffer is full.
type ChanReporter chan error

// ReportError implements notelist.Reporter.
func (c ChanReporter) ReportError(err error) {
	select {
	case c <- err:
	default:
	}
}

func verifyCmd(ctx context.Context, verify func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if verify == nil {
			return sessionMsg{}
		}
		return sessionMsg{err: verify(ctx)}
	}
}

func loadCmd(ctx context.Context, ctrl *notelist.Controller) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: ctrl.Load(ctx)}
	}
}

func replaceCmd(ctx context.Context, ctrl *notelist.Controller, fields notelist.Fields) tea.Cmd {
	return func() tea.Msg {
		res, err := ctrl.SubmitReplace(ctx, fields)
		return replacedMsg{res: res, err: err}
	}
}

// waitForReport blocks until the controller reports an error.
func waitForReport(ch <-chan error) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return reportMsg{err: err}
	}
}
