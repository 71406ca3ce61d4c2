// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/habitplan/internal/core/domain"
)

// TodosLoaded carries the parsed checklist back to the model.
type TodosLoaded struct {
	Items []domain.TodoItem
	Err   error
}

// TodoCompleted reports the result of completing an item.
type TodoCompleted struct {
	Text     string
	Document *domain.Document
	Err      error
}

// TodoEdited reports the result of editing an item.
type TodoEdited struct {
	Text     string
	Document *domain.Document
	Err      error
}

// DocumentLoaded carries the versions of the chat's document, oldest first.
type DocumentLoaded struct {
	Versions []domain.Document
	Err      error
}

// DocumentReverted reports how many versions a revert removed.
type DocumentReverted struct {
	Version int
	Removed int
	Err     error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewTodos is the checklist.
	ViewTodos ViewType = iota
	// ViewDocument shows the document and its versions.
	ViewDocument
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewTodos:
		return "todos"
	case ViewDocument:
		return "document"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred is sent when an operation fails.
type ErrorOccurred struct {
	Err error
}

// Quit is sent to request application exit.
type Quit struct{}
