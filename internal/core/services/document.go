package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driven"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
	"github.com/custodia-labs/habitplan/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages versioned todo documents.
type DocumentService struct {
	docStore driven.DocumentStore
	writer   *documentWriter
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore, settings domain.DocumentSettings) *DocumentService {
	return &DocumentService{
		docStore: docStore,
		writer:   newDocumentWriter(docStore, settings),
	}
}

// Latest returns the latest document version of a chat.
func (s *DocumentService) Latest(ctx context.Context, userID, chatID string) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.GetLatestByChat(ctx, chatID, userID)
}

// Get returns the latest version of a document by id.
func (s *DocumentService) Get(ctx context.Context, userID, id string) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	doc, err := s.docStore.GetLatest(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return doc, nil
}

// Versions returns all versions of a document, oldest first.
func (s *DocumentService) Versions(ctx context.Context, userID, id string) ([]domain.Document, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.docStore.ListVersions(ctx, id)
}

// Save creates a document or appends a new version to an existing one.
func (s *DocumentService) Save(
	ctx context.Context,
	userID string,
	req driving.SaveDocumentRequest,
) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}

	switch {
	case req.ID != "":
		return s.saveByID(ctx, userID, req)
	case req.ChatID != "":
		return s.writer.update(ctx, userID, req.ChatID, true, func(*domain.Document) (*domain.Document, bool, error) {
			return &domain.Document{Title: req.Title, Kind: req.Kind, Content: req.Content}, true, nil
		})
	default:
		return nil, fmt.Errorf("%w: document id or chat id is required", domain.ErrInvalidInput)
	}
}

func (s *DocumentService) saveByID(
	ctx context.Context,
	userID string,
	req driving.SaveDocumentRequest,
) (*domain.Document, error) {
	current, err := s.docStore.GetLatest(ctx, req.ID)
	if errors.Is(err, domain.ErrNotFound) {
		doc := &domain.Document{
			ID:      req.ID,
			ChatID:  req.ChatID,
			UserID:  userID,
			Title:   valueOr(req.Title, s.writer.settings.Title),
			Kind:    valueOr(req.Kind, s.writer.settings.Kind),
			Content: req.Content,
		}
		if err := s.docStore.Create(ctx, doc); err != nil {
			return nil, fmt.Errorf("create document: %w", err)
		}
		return doc, nil
	}
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, domain.ErrForbidden
	}

	// An explicit save is a whole-content overwrite, so the latest version
	// read here is the only precondition.
	next := current.Clone()
	next.Title = valueOr(req.Title, current.Title)
	next.Kind = valueOr(req.Kind, current.Kind)
	next.Content = req.Content
	if err := s.docStore.SaveVersion(ctx, next, current.Version); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	return next, nil
}

// Revert deletes the versions created after ts.
func (s *DocumentService) Revert(ctx context.Context, userID, id string, ts time.Time) (int, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return 0, err
	}
	n, err := s.docStore.DeleteVersionsAfter(ctx, id, ts)
	if err != nil {
		return 0, fmt.Errorf("revert document: %w", err)
	}
	logger.Info("document %s: removed %d version(s) after %s", id, n, ts.Format(time.RFC3339Nano))
	return n, nil
}

// documentWriter applies read-modify-write changes to a chat's document.
// Every write carries the version it was computed from; when another
// writer got there first the change is recomputed on the fresh content.
type documentWriter struct {
	store    driven.DocumentStore
	settings domain.DocumentSettings
}

// mutateFunc derives the next document from the current one. current is
// nil when the chat has no document yet. Returning false skips the write.
type mutateFunc func(current *domain.Document) (next *domain.Document, changed bool, err error)

func newDocumentWriter(store driven.DocumentStore, settings domain.DocumentSettings) *documentWriter {
	defaults := domain.DefaultSettings().Document
	settings.Title = valueOr(settings.Title, defaults.Title)
	settings.Kind = valueOr(settings.Kind, defaults.Kind)
	settings.FallbackText = valueOr(settings.FallbackText, defaults.FallbackText)
	if settings.MaxRetries < 0 {
		settings.MaxRetries = 0
	}
	return &documentWriter{store: store, settings: settings}
}

// update runs mutate against the latest document of a chat and saves the
// result as a new version. When create is set and the chat has no
// document, one is created from the initial content.
func (w *documentWriter) update(
	ctx context.Context,
	userID, chatID string,
	create bool,
	mutate mutateFunc,
) (*domain.Document, error) {
	if w.store == nil {
		return nil, domain.ErrNotImplemented
	}

	var lastErr error
	for attempt := 0; attempt <= w.settings.MaxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug("document for chat %s: retry %d after %v", chatID, attempt, lastErr)
		}

		current, err := w.store.GetLatestByChat(ctx, chatID, userID)
		switch {
		case errors.Is(err, domain.ErrNotFound) && create:
			current = nil
		case err != nil:
			return nil, err
		}

		base := current
		if base == nil {
			base = &domain.Document{Content: w.settings.InitialContent}
		}
		next, changed, err := mutate(base.Clone())
		if err != nil {
			return nil, err
		}

		if current == nil {
			doc := w.newDocument(userID, chatID, next)
			err = w.store.Create(ctx, doc)
			if errors.Is(err, domain.ErrAlreadyExists) {
				// Another writer created the chat's document first.
				lastErr = domain.ErrVersionConflict
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("create document: %w", err)
			}
			logger.Info("created document %s for chat %s", doc.ID, chatID)
			return doc, nil
		}

		if !changed {
			return current, nil
		}

		doc := current.Clone()
		doc.Title = valueOr(next.Title, current.Title)
		doc.Kind = valueOr(next.Kind, current.Kind)
		doc.Content = next.Content
		err = w.store.SaveVersion(ctx, doc, current.Version)
		if errors.Is(err, domain.ErrVersionConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("save document: %w", err)
		}
		logger.Debug("document %s: saved version %d", doc.ID, doc.Version)
		return doc, nil
	}
	return nil, lastErr
}

func (w *documentWriter) newDocument(userID, chatID string, next *domain.Document) *domain.Document {
	return &domain.Document{
		ID:      uuid.NewString(),
		ChatID:  chatID,
		UserID:  userID,
		Title:   valueOr(next.Title, w.settings.Title),
		Kind:    valueOr(next.Kind, w.settings.Kind),
		Content: next.Content,
	}
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
