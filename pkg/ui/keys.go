// Package ui provides the Bubble Tea dashboard for the scanner.
package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the dashboard.
type KeyMap struct {
	Quit       key.Binding
	Pause      key.Binding
	Clear      key.Binding
	ProfitOnly key.Binding
	Help       key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		ProfitOnly: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "profitable only"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp returns keybindings shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Pause, k.ProfitOnly, k.Help}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Pause, k.Clear},
		{k.ProfitOnly, k.Help},
	}
}
