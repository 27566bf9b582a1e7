package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the note list key bindings.
type KeyMap struct {
	SwitchInput key.Binding
	ClearField  key.Binding
	Submit      key.Binding
	Reload      key.Binding
	Quit        key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchInput, k.ClearField, k.Submit, k.Reload, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = KeyMap{
	SwitchInput: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "switch field"),
	),
	ClearField: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "replace"),
	),
	Reload: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}
