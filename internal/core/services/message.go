package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driven"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
)

// Ensure MessageService implements the interface.
var _ driving.MessageService = (*MessageService)(nil)

// chatTitleLength is the number of characters of the first message used
// as the title of a new chat.
const chatTitleLength = 80

// MessageService manages chats and their messages.
type MessageService struct {
	messageStore driven.MessageStore
	chats        *chatGuard
}

// NewMessageService creates a new message service.
func NewMessageService(messageStore driven.MessageStore, chatStore driven.ChatStore) *MessageService {
	return &MessageService{
		messageStore: messageStore,
		chats:        &chatGuard{store: chatStore},
	}
}

// Add appends a message to a chat, creating the chat when needed.
func (s *MessageService) Add(ctx context.Context, userID, chatID, role, content string) (*domain.Message, error) {
	if s.messageStore == nil {
		return nil, domain.ErrNotImplemented
	}
	if role != domain.RoleUser && role != domain.RoleAssistant {
		return nil, fmt.Errorf("%w: role %q", domain.ErrInvalidInput, role)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message content is empty", domain.ErrInvalidInput)
	}
	if chatID == "" {
		chatID = uuid.NewString()
	}
	if err := s.chats.ensure(ctx, userID, chatID, chatTitle(content)); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messageStore.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	return msg, nil
}

// Get returns a message of a chat owned by userID.
func (s *MessageService) Get(ctx context.Context, userID, chatID, messageID string) (*domain.Message, error) {
	if s.messageStore == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := s.chats.authorize(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return s.messageStore.Get(ctx, chatID, messageID)
}

// AssistantText returns the text of an assistant message.
func (s *MessageService) AssistantText(ctx context.Context, chatID, messageID string) (string, error) {
	if s.messageStore == nil {
		return "", domain.ErrNotImplemented
	}
	msg, err := s.messageStore.Get(ctx, chatID, messageID)
	if err != nil {
		return "", err
	}
	if msg.Role != domain.RoleAssistant {
		return "", domain.ErrNotAssistantMessage
	}
	return msg.Content, nil
}

// List returns the messages of a chat, oldest first.
func (s *MessageService) List(ctx context.Context, userID, chatID string) ([]domain.Message, error) {
	if s.messageStore == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := s.chats.authorize(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return s.messageStore.ListByChat(ctx, chatID)
}

func chatTitle(content string) string {
	title := strings.Join(strings.Fields(content), " ")
	runes := []rune(title)
	if len(runes) > chatTitleLength {
		return string(runes[:chatTitleLength])
	}
	return title
}
