package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driven"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
	"github.com/custodia-labs/habitplan/internal/planner"
)

// Ensure TodoService and PlanService implement the interfaces.
var (
	_ driving.TodoService = (*TodoService)(nil)
	_ driving.PlanService = (*PlanService)(nil)
)

// TodoService exposes a chat's document as a checklist.
type TodoService struct {
	docStore driven.DocumentStore
	writer   *documentWriter
}

// NewTodoService creates a new todo service.
func NewTodoService(docStore driven.DocumentStore, settings domain.DocumentSettings) *TodoService {
	return &TodoService{
		docStore: docStore,
		writer:   newDocumentWriter(docStore, settings),
	}
}

// List parses the latest document of a chat into todo items.
func (s *TodoService) List(ctx context.Context, userID, chatID string) ([]domain.TodoItem, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	doc, err := s.docStore.GetLatestByChat(ctx, chatID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.TodoItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	items := planner.ParseTodos(doc.Content, nil)
	if items == nil {
		items = []domain.TodoItem{}
	}
	return items, nil
}

// Complete removes an item from the document.
func (s *TodoService) Complete(ctx context.Context, userID, chatID, todoID string) (*domain.Document, error) {
	if todoID == "" {
		return nil, fmt.Errorf("%w: todo id is required", domain.ErrInvalidInput)
	}
	return s.writer.update(ctx, userID, chatID, false, func(current *domain.Document) (*domain.Document, bool, error) {
		result := planner.CompleteTodo(current.Content, todoID)
		if !result.Found {
			return nil, false, fmt.Errorf("%w: %s", domain.ErrTodoNotFound, todoID)
		}
		current.Content = result.NewContent
		return current, true, nil
	})
}

// Edit rewrites the text of an item.
func (s *TodoService) Edit(
	ctx context.Context,
	userID, chatID string,
	edit driving.TodoEdit,
) (*domain.Document, error) {
	if strings.TrimSpace(edit.NewText) == "" {
		return nil, fmt.Errorf("%w: new text is empty", domain.ErrInvalidInput)
	}
	return s.writer.update(ctx, userID, chatID, false, func(current *domain.Document) (*domain.Document, bool, error) {
		result := planner.EditTodo(current.Content, edit.ID, edit.OriginalText, edit.NewText)
		if !result.Found {
			return nil, false, fmt.Errorf("%w: %s", domain.ErrTodoNotFound, edit.ID)
		}
		current.Content = result.NewContent
		return current, true, nil
	})
}

// PlanService runs the extractor and merger on text without storage.
type PlanService struct {
	opts planner.MergeOptions
}

// NewPlanService creates a new plan service.
func NewPlanService(settings domain.DocumentSettings) *PlanService {
	return &PlanService{opts: planner.MergeOptions{FallbackText: settings.FallbackText}}
}

// Extract returns the plan items found in text.
func (s *PlanService) Extract(text string) []domain.PlanItem {
	return planner.ExtractPlans(text)
}

// Merge extracts plans from text and merges them into existing.
func (s *PlanService) Merge(text, existing string) domain.MergeResult {
	return planner.MergePlans(planner.ExtractPlans(text), existing, s.opts)
}
