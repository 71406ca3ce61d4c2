package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driven"
)

// Ensure the chat stores implement the interfaces.
var (
	_ driven.ChatStore    = (*ChatStore)(nil)
	_ driven.MessageStore = (*MessageStore)(nil)
	_ driven.VoteStore    = (*VoteStore)(nil)
)

// ChatStore is an in-memory implementation of driven.ChatStore.
type ChatStore struct {
	mu    sync.RWMutex
	chats map[string]domain.Chat
}

// NewChatStore creates a new in-memory chat store.
func NewChatStore() *ChatStore {
	return &ChatStore{chats: make(map[string]domain.Chat)}
}

// Save stores or replaces a chat.
func (s *ChatStore) Save(_ context.Context, chat *domain.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[chat.ID] = *chat
	return nil
}

// Get retrieves a chat by ID.
func (s *ChatStore) Get(_ context.Context, id string) (*domain.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chat, ok := s.chats[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &chat, nil
}

// MessageStore is an in-memory implementation of driven.MessageStore.
type MessageStore struct {
	mu       sync.RWMutex
	messages map[string]domain.Message
	seq      map[string]int
	next     int
}

// NewMessageStore creates a new in-memory message store.
func NewMessageStore() *MessageStore {
	return &MessageStore{
		messages: make(map[string]domain.Message),
		seq:      make(map[string]int),
	}
}

// Save stores or replaces a message.
func (s *MessageStore) Save(_ context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.seq[msg.ID]; !exists {
		s.seq[msg.ID] = s.next
		s.next++
	}
	s.messages[msg.ID] = *msg
	return nil
}

// Get retrieves a message of a chat.
func (s *MessageStore) Get(_ context.Context, chatID, messageID string) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.messages[messageID]
	if !ok || msg.ChatID != chatID {
		return nil, domain.ErrNotFound
	}
	return &msg, nil
}

// ListByChat returns the messages of a chat in insertion order.
func (s *MessageStore) ListByChat(_ context.Context, chatID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Message
	for _, msg := range s.messages {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.seq[out[i].ID] < s.seq[out[j].ID]
	})
	return out, nil
}

// VoteStore is an in-memory implementation of driven.VoteStore.
type VoteStore struct {
	mu    sync.RWMutex
	votes map[string]map[string]domain.Vote
}

// NewVoteStore creates a new in-memory vote store.
func NewVoteStore() *VoteStore {
	return &VoteStore{votes: make(map[string]map[string]domain.Vote)}
}

// Save stores a vote, replacing any previous vote on the same message.
func (s *VoteStore) Save(_ context.Context, vote domain.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byMessage, ok := s.votes[vote.ChatID]
	if !ok {
		byMessage = make(map[string]domain.Vote)
		s.votes[vote.ChatID] = byMessage
	}
	byMessage[vote.MessageID] = vote
	return nil
}

// ListByChat returns the votes of a chat ordered by message id.
func (s *VoteStore) ListByChat(_ context.Context, chatID string) ([]domain.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Vote, 0, len(s.votes[chatID]))
	for _, vote := range s.votes[chatID] {
		out = append(out, vote)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MessageID < out[j].MessageID
	})
	return out, nil
}
