// Package tui provides an interactive terminal checklist for a chat's todo
// document. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI uses.
type Ports struct {
	// Todo lists, completes and edits checklist items.
	Todo driving.TodoService

	// Document shows the document and its versions. Optional.
	Document driving.DocumentService
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Todo == nil {
		return ErrMissingTodoService
	}
	return nil
}
