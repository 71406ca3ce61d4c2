package driven

import (
	"context"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

// MessageStore persists chat messages.
type MessageStore interface {
	// Save stores or replaces a message.
	Save(ctx context.Context, msg *domain.Message) error

	// Get retrieves a message of a chat.
	// Returns domain.ErrNotFound when it does not exist.
	Get(ctx context.Context, chatID, messageID string) (*domain.Message, error)

	// ListByChat returns the messages of a chat, oldest first.
	ListByChat(ctx context.Context, chatID string) ([]domain.Message, error)
}

// ChatStore persists chats and their owners.
type ChatStore interface {
	// Save stores or replaces a chat.
	Save(ctx context.Context, chat *domain.Chat) error

	// Get retrieves a chat by ID.
	// Returns domain.ErrNotFound when it does not exist.
	Get(ctx context.Context, id string) (*domain.Chat, error)
}

// VoteStore persists votes. There is at most one vote per message.
type VoteStore interface {
	// Save stores a vote, replacing any previous vote on the same message.
	Save(ctx context.Context, vote domain.Vote) error

	// ListByChat returns the votes of a chat.
	ListByChat(ctx context.Context, chatID string) ([]domain.Vote, error)
}
