package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driven"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
	"github.com/custodia-labs/habitplan/internal/logger"
	"github.com/custodia-labs/habitplan/internal/planner"
)

// Ensure VoteService implements the interface.
var _ driving.VoteService = (*VoteService)(nil)

// VoteService records votes and runs the upvote flow.
type VoteService struct {
	voteStore driven.VoteStore
	chats     *chatGuard
	messages  driving.MessageService
	writer    *documentWriter
}

// NewVoteService creates a new vote service.
func NewVoteService(
	voteStore driven.VoteStore,
	chatStore driven.ChatStore,
	messages driving.MessageService,
	docStore driven.DocumentStore,
	settings domain.DocumentSettings,
) *VoteService {
	return &VoteService{
		voteStore: voteStore,
		chats:     &chatGuard{store: chatStore},
		messages:  messages,
		writer:    newDocumentWriter(docStore, settings),
	}
}

// Vote records a vote. Upvotes run the upvote flow.
func (s *VoteService) Vote(
	ctx context.Context,
	userID, chatID, messageID string,
	voteType domain.VoteType,
) (*domain.UpvoteResult, error) {
	if !voteType.Valid() {
		return nil, fmt.Errorf("%w: vote type %q", domain.ErrInvalidInput, voteType)
	}
	if voteType == domain.VoteUp {
		return s.Upvote(ctx, userID, chatID, messageID)
	}

	vote, err := s.record(ctx, userID, chatID, messageID, voteType)
	if err != nil {
		return nil, err
	}
	return &domain.UpvoteResult{Vote: vote}, nil
}

// Upvote records an upvote and appends the message's plan to the chat's
// document. Only recording the vote can fail the call; every document
// failure is logged and reported in UpvoteResult.DocumentErr.
func (s *VoteService) Upvote(ctx context.Context, userID, chatID, messageID string) (*domain.UpvoteResult, error) {
	logger.Section("Upvote")

	vote, err := s.record(ctx, userID, chatID, messageID, domain.VoteUp)
	if err != nil {
		return nil, err
	}
	result := &domain.UpvoteResult{Vote: vote}

	doc, merge, err := s.appendPlan(ctx, userID, chatID, messageID)
	if err != nil {
		logger.Warn("upvote %s/%s: document not updated: %v", chatID, messageID, err)
		result.DocumentErr = err
		return result, nil
	}

	result.Document = doc
	result.Merge = merge
	logger.Debug("upvote %s/%s: appended %d, skipped %d, fallback %t",
		chatID, messageID, merge.AppendedCount, merge.Skipped, merge.Fallback)
	return result, nil
}

// List returns the votes of a chat.
func (s *VoteService) List(ctx context.Context, userID, chatID string) ([]domain.Vote, error) {
	if s.voteStore == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := s.chats.authorize(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return s.voteStore.ListByChat(ctx, chatID)
}

func (s *VoteService) record(
	ctx context.Context,
	userID, chatID, messageID string,
	voteType domain.VoteType,
) (domain.Vote, error) {
	if s.voteStore == nil {
		return domain.Vote{}, domain.ErrNotImplemented
	}
	if chatID == "" || messageID == "" {
		return domain.Vote{}, fmt.Errorf("%w: chat id and message id are required", domain.ErrInvalidInput)
	}
	if err := s.chats.authorize(ctx, userID, chatID); err != nil {
		return domain.Vote{}, err
	}

	vote := domain.Vote{
		ChatID:    chatID,
		MessageID: messageID,
		Type:      voteType,
		IsUpvoted: voteType == domain.VoteUp,
	}
	if err := s.voteStore.Save(ctx, vote); err != nil {
		return domain.Vote{}, fmt.Errorf("save vote: %w", err)
	}
	logger.Debug("recorded %s vote on %s/%s", voteType, chatID, messageID)
	return vote, nil
}

// appendPlan extracts the message's plan and merges it into the chat's
// document, creating the document on first use.
func (s *VoteService) appendPlan(
	ctx context.Context,
	userID, chatID, messageID string,
) (*domain.Document, domain.MergeResult, error) {
	if s.messages == nil {
		return nil, domain.MergeResult{}, domain.ErrNotImplemented
	}
	text, err := s.messages.AssistantText(ctx, chatID, messageID)
	if err != nil {
		return nil, domain.MergeResult{}, fmt.Errorf("load message: %w", err)
	}

	plans := planner.ExtractPlans(text)
	logger.Debug("upvote %s/%s: extracted %d plan(s)", chatID, messageID, len(plans))

	opts := planner.MergeOptions{FallbackText: s.writer.settings.FallbackText}
	var merge domain.MergeResult
	doc, err := s.writer.update(ctx, userID, chatID, true, func(current *domain.Document) (*domain.Document, bool, error) {
		merge = planner.MergePlans(plans, current.Content, opts)
		current.Content = merge.NewContent
		return current, merge.Changed(), nil
	})
	if err != nil {
		return nil, domain.MergeResult{}, err
	}
	return doc, merge, nil
}
