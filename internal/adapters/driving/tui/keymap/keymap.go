// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the checklist or cancels an edit.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Complete completes the selected item.
	Complete key.Binding

	// Edit starts editing the selected item.
	Edit key.Binding

	// Confirm saves an edit.
	Confirm key.Binding

	// Refresh reloads the checklist.
	Refresh key.Binding

	// Document opens the document and its versions.
	Document key.Binding

	// PrevVersion shows the previous document version.
	PrevVersion key.Binding

	// NextVersion shows the next document version.
	NextVersion key.Binding

	// Revert drops the versions after the one shown.
	Revert key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Complete: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x", "complete"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Document: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "document"),
		),
		PrevVersion: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "older"),
		),
		NextVersion: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "newer"),
		),
		Revert: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "revert to shown"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// TodoHelp returns keybindings for the checklist.
func (k *KeyMap) TodoHelp() []key.Binding {
	return []key.Binding{k.Complete, k.Edit, k.Document, k.Help, k.Quit}
}

// EditHelp returns keybindings while editing.
func (k *KeyMap) EditHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Back}
}

// DocumentHelp returns keybindings for the document view.
func (k *KeyMap) DocumentHelp() []key.Binding {
	return []key.Binding{k.PrevVersion, k.NextVersion, k.Revert, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Complete, k.Edit, k.Refresh},
		{k.Confirm, k.Back},
		{k.Document, k.PrevVersion, k.NextVersion, k.Revert},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
