package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	All     key.Binding
	Theme   key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Next:    key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab/→", "next category")),
	Prev:    key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("⇧tab/←", "previous")),
	All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
	Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.All, k.Theme, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
