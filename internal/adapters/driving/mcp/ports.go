package mcp

import (
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server exposes.
// Tools and resources are registered only for the ports that are set.
type Ports struct {
	// Todo lists, completes and edits todo items.
	Todo driving.TodoService

	// Vote records upvotes that feed the todo document.
	Vote driving.VoteService

	// Document reads documents and their versions.
	Document driving.DocumentService

	// Message adds replies that can then be upvoted.
	Message driving.MessageService

	// Plan runs the extractor without storage.
	Plan driving.PlanService

	// Coach asks the language model. Registered only when available.
	Coach driving.CoachService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Todo == nil {
		return ErrMissingTodoService
	}
	return nil
}
