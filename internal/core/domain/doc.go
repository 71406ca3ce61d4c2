// Package domain defines the core business entities for habitplan.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A versioned markdown todo document owned by a chat
//   - HabitSection: One habit block split out of an assistant response
//   - PlanItem: The actionable lines extracted from a habit section
//   - TodoItem: A checkable item re-derived from document content
//   - Chat, Message, Vote: The conversation records an upvote refers to
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
