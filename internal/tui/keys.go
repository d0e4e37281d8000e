package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the picker key bindings with built-in help text. Plain
// characters stay free for the sequence input field, so commands live on
// control keys.
type KeyMap struct {
	Quit   key.Binding
	Help   key.Binding
	Escape key.Binding
	Enter  key.Binding
	Up     key.Binding
	Down   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "ctrl+_"),
			key.WithHelp("f1", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("escape", "esc"),
			key.WithHelp("esc", "clear input"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "record pick"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "next sequence"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "previous sequence"),
		),
	}
}
