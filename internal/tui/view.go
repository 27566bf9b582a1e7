package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/starford/scratch/internal/notelist"
	"github.com/starford/scratch/internal/textmatch"
)

const createdLayout = "Jan 2, 2006 3:04 PM"

// View renders the screen.
func (m Model) View() string {
	if !m.verified {
		return m.spinner.View() + " Connecting..."
	}
	if !m.authenticated() {
		return m.landingView()
	}
	return m.listView()
}

func (m Model) landingView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Scratch"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("A simple note taking app"))
	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render("Set client.token in the config file to sign in."))
	if m.authErr != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.authErr.Error()))
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.Quit}))
	return b.String()
}

func (m Model) listView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Your Notes"))
	b.WriteString("\n")

	inputs := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		style := inputStyle
		if i == m.focus {
			style = focusedInputStyle
		}
		inputs[i] = style.Width(32).Render(in.View())
	}
	button := disabledButtonStyle.Render("Replace")
	if m.ctrl.CanSubmit() {
		button = buttonStyle.Render("Replace")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, inputs[0], " ", inputs[1], " ", button))
	b.WriteString("\n\n")

	switch state := m.ctrl.State(); state {
	case notelist.StateLoading:
		b.WriteString(m.spinner.View() + " Loading notes...")
	case notelist.StateReplacing:
		b.WriteString(m.spinner.View() + " Replacing...")
	default:
		b.WriteString(renderItems(m.ctrl.View()))
	}
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderItems(items []notelist.Item) string {
	if len(items) == 0 {
		return metaStyle.Render("No notes")
	}
	rows := make([]string, 0, len(items))
	for _, it := range items {
		line := renderSegments(it.Segments())
		meta := metaStyle.Render("Created: " + it.CreatedAt.Local().Format(createdLayout))
		rows = append(rows, itemStyle.Render(line+"\n"+meta))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderSegments(segs []textmatch.Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		if seg.Matched {
			b.WriteString(matchStyle.Render(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
