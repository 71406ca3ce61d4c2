package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driven"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
	"github.com/custodia-labs/habitplan/internal/logger"
)

// Ensure CoachService implements the interface.
var _ driving.CoachService = (*CoachService)(nil)

// historyLimit bounds the number of earlier messages sent to the model.
const historyLimit = 20

// CoachService asks the language model for seven-habit plans.
type CoachService struct {
	llm         driven.LLMService
	prompts     driven.PromptStore
	messages    driving.MessageService
	chatOptions driven.ChatOptions
}

// NewCoachService creates a new coach service. llm may be nil.
func NewCoachService(llm driven.LLMService, prompts driven.PromptStore, messages driving.MessageService) *CoachService {
	return &CoachService{
		llm:      llm,
		prompts:  prompts,
		messages: messages,
		chatOptions: driven.ChatOptions{
			MaxTokens:   4096,
			Temperature: 0.7,
		},
	}
}

// Available reports whether a model is configured.
func (s *CoachService) Available() bool {
	return s.llm != nil
}

// Ask records the question, asks the model and records the reply.
func (s *CoachService) Ask(ctx context.Context, userID, chatID, question string) (*domain.Message, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if s.messages == nil {
		return nil, domain.ErrNotImplemented
	}

	asked, err := s.messages.Add(ctx, userID, chatID, domain.RoleUser, question)
	if err != nil {
		return nil, err
	}

	history, err := s.messages.List(ctx, userID, asked.ChatID)
	if err != nil {
		return nil, err
	}
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	conversation := make([]driven.ChatMessage, 0, len(history)+1)
	if system := s.systemPrompt(); system != "" {
		conversation = append(conversation, driven.ChatMessage{Role: "system", Content: system})
	}
	for _, msg := range history {
		conversation = append(conversation, driven.ChatMessage{Role: msg.Role, Content: msg.Content})
	}

	logger.Debug("ask %s: sending %d message(s) to %s", asked.ChatID, len(conversation), s.llm.ModelName())
	reply, err := s.llm.Chat(ctx, conversation, s.chatOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, fmt.Errorf("%w: empty reply", domain.ErrLLMUnavailable)
	}

	return s.messages.Add(ctx, userID, asked.ChatID, domain.RoleAssistant, reply)
}

func (s *CoachService) systemPrompt() string {
	if s.prompts == nil {
		return ""
	}
	prompt, err := s.prompts.Load(driven.PromptCoachSystem)
	if err != nil {
		logger.Warn("load coach prompt: %v", err)
		return ""
	}
	return prompt
}
