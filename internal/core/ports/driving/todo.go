package driving

import (
	"context"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

// TodoService exposes the chat document as a checklist.
type TodoService interface {
	// List parses the latest document of a chat into todo items.
	// A chat without a document has no items.
	List(ctx context.Context, userID, chatID string) ([]domain.TodoItem, error)

	// Complete removes an item from the document and saves a new version.
	// Returns domain.ErrTodoNotFound when the id is not present.
	Complete(ctx context.Context, userID, chatID, todoID string) (*domain.Document, error)

	// Edit rewrites the text of an item and saves a new version.
	// Returns domain.ErrTodoNotFound when the item cannot be located and
	// domain.ErrInvalidInput when the new text is blank.
	Edit(ctx context.Context, userID, chatID string, edit TodoEdit) (*domain.Document, error)
}

// TodoEdit identifies an item and its replacement text.
type TodoEdit struct {
	// ID is the item id from the last listing.
	ID string `json:"id"`

	// OriginalText is the item's LineText from the last listing. It locates
	// the item when the id went stale.
	OriginalText string `json:"originalText"`

	// NewText replaces the action line's text. Continuation lines are kept.
	NewText string `json:"newText"`
}

// PlanService exposes the plan extractor without touching storage.
type PlanService interface {
	// Extract returns the plan items found in an assistant response.
	Extract(text string) []domain.PlanItem

	// Merge extracts plans from text and merges them into existing.
	Merge(text, existing string) domain.MergeResult
}
