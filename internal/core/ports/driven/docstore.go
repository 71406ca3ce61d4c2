package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

// DocumentStore persists versioned todo documents.
// Every save appends a new version; older versions stay readable.
type DocumentStore interface {
	// GetLatestByChat returns the most recent version of the document
	// attached to a chat and owned by userID.
	// Returns domain.ErrNotFound when the chat has no document.
	GetLatestByChat(ctx context.Context, chatID, userID string) (*domain.Document, error)

	// GetLatest returns the most recent version of a document.
	GetLatest(ctx context.Context, id string) (*domain.Document, error)

	// ListVersions returns all versions of a document, oldest first.
	ListVersions(ctx context.Context, id string) ([]domain.Document, error)

	// Create stores the first version of a new document.
	// doc.Version is set to 1. Returns domain.ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, doc *domain.Document) error

	// SaveVersion appends a new version of an existing document.
	// expectedVersion is the version the caller read; when a newer version
	// has been saved since, domain.ErrVersionConflict is returned and
	// nothing is written. On success doc.Version and doc.CreatedAt are set.
	SaveVersion(ctx context.Context, doc *domain.Document, expectedVersion int) error

	// DeleteVersionsAfter removes every version created after ts and
	// returns how many were removed.
	DeleteVersionsAfter(ctx context.Context, id string, ts time.Time) (int, error)
}
