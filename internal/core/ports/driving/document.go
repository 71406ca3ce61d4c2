package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

// DocumentService manages versioned todo documents.
type DocumentService interface {
	// Latest returns the latest document version of a chat.
	Latest(ctx context.Context, userID, chatID string) (*domain.Document, error)

	// Get returns the latest version of a document by id.
	Get(ctx context.Context, userID, id string) (*domain.Document, error)

	// Versions returns all versions of a document, oldest first.
	Versions(ctx context.Context, userID, id string) ([]domain.Document, error)

	// Save creates a document or appends a new version to an existing one.
	Save(ctx context.Context, userID string, req SaveDocumentRequest) (*domain.Document, error)

	// Revert deletes the versions created after ts and returns the number
	// of versions removed.
	Revert(ctx context.Context, userID, id string, ts time.Time) (int, error)
}

// SaveDocumentRequest describes a document write.
// Either ID or ChatID must be set. When ID is empty, the chat's document is
// used, and created when it does not exist yet.
type SaveDocumentRequest struct {
	ID      string `json:"id,omitempty"`
	ChatID  string `json:"chatId,omitempty"`
	Title   string `json:"title,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Content string `json:"content"`
}
