package driving

import (
	"context"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

// MessageService manages chats and their messages.
type MessageService interface {
	// Add appends a message to a chat, creating the chat for userID when
	// it does not exist. Returns domain.ErrForbidden when the chat belongs
	// to someone else.
	Add(ctx context.Context, userID, chatID, role, content string) (*domain.Message, error)

	// Get returns a message of a chat owned by userID.
	Get(ctx context.Context, userID, chatID, messageID string) (*domain.Message, error)

	// AssistantText returns the text of an assistant message.
	// Returns domain.ErrNotAssistantMessage for other roles.
	AssistantText(ctx context.Context, chatID, messageID string) (string, error)

	// List returns the messages of a chat owned by userID, oldest first.
	List(ctx context.Context, userID, chatID string) ([]domain.Message, error)
}

// CoachService asks the language model for a seven-habit plan.
type CoachService interface {
	// Ask records question as a user message, asks the model with the
	// chat history and records the reply as an assistant message.
	// Returns domain.ErrLLMUnavailable when no model is configured.
	Ask(ctx context.Context, userID, chatID, question string) (*domain.Message, error)

	// Available reports whether a model is configured.
	Available() bool
}
