package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrForbidden indicates the user does not own the requested entity.
	ErrForbidden = errors.New("forbidden")

	// ErrVersionConflict indicates a document write was based on a stale version.
	// Another writer saved a newer version in between the read and the write.
	ErrVersionConflict = errors.New("document version conflict")

	// ErrTodoNotFound indicates a todo id (or its text) could not be located
	// in the current document content.
	ErrTodoNotFound = errors.New("todo item not found")

	// ErrNotAssistantMessage indicates a vote targeted a message that
	// cannot carry a plan.
	ErrNotAssistantMessage = errors.New("message is not an assistant message")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
