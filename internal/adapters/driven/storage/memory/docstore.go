package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu       sync.RWMutex
	versions map[string][]domain.Document
	now      func() time.Time
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		versions: make(map[string][]domain.Document),
		now:      time.Now,
	}
}

// GetLatestByChat returns the latest version of a chat's document.
func (s *DocumentStore) GetLatestByChat(_ context.Context, chatID, userID string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.Document
	for _, versions := range s.versions {
		doc := versions[len(versions)-1]
		if doc.ChatID != chatID || doc.UserID != userID {
			continue
		}
		if latest == nil || doc.CreatedAt.After(latest.CreatedAt) {
			latest = doc.Clone()
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

// GetLatest returns the latest version of a document.
func (s *DocumentStore) GetLatest(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions, ok := s.versions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := versions[len(versions)-1]
	return &doc, nil
}

// ListVersions returns all versions of a document, oldest first.
func (s *DocumentStore) ListVersions(_ context.Context, id string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions, ok := s.versions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]domain.Document, len(versions))
	copy(out, versions)
	return out, nil
}

// Create stores the first version of a new document.
// A chat holds at most one document per user.
func (s *DocumentStore) Create(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.versions[doc.ID]; exists {
		return domain.ErrAlreadyExists
	}
	if doc.ChatID != "" {
		for _, versions := range s.versions {
			if versions[0].ChatID == doc.ChatID && versions[0].UserID == doc.UserID {
				return domain.ErrAlreadyExists
			}
		}
	}

	doc.Version = 1
	doc.CreatedAt = s.now().UTC()
	s.versions[doc.ID] = []domain.Document{*doc}
	return nil
}

// SaveVersion appends a version when expectedVersion is still the latest.
func (s *DocumentStore) SaveVersion(_ context.Context, doc *domain.Document, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, ok := s.versions[doc.ID]
	if !ok {
		return domain.ErrNotFound
	}
	latest := versions[len(versions)-1]
	if latest.Version != expectedVersion {
		return domain.ErrVersionConflict
	}

	doc.Version = latest.Version + 1
	doc.CreatedAt = nextTimestamp(s.now().UTC(), latest.CreatedAt)
	s.versions[doc.ID] = append(versions, *doc)
	return nil
}

// DeleteVersionsAfter removes every version created after ts.
// Removing all versions removes the document.
func (s *DocumentStore) DeleteVersionsAfter(_ context.Context, id string, ts time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, ok := s.versions[id]
	if !ok {
		return 0, domain.ErrNotFound
	}

	keep := sort.Search(len(versions), func(i int) bool {
		return versions[i].CreatedAt.After(ts)
	})
	removed := len(versions) - keep
	if keep == 0 {
		delete(s.versions, id)
	} else {
		s.versions[id] = versions[:keep]
	}
	return removed, nil
}

// nextTimestamp keeps version timestamps strictly increasing even when the
// clock does not advance between two saves.
func nextTimestamp(now, previous time.Time) time.Time {
	if !now.After(previous) {
		return previous.Add(time.Microsecond)
	}
	return now
}
