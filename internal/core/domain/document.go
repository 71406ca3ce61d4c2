package domain

import "time"

// Document kinds.
const (
	// DocumentKindText is the plain markdown kind used for todo documents.
	DocumentKindText = "text"
)

// Document is one version of a chat's todo document.
// Content is the single source of truth; todo items and plan items are
// projections recomputed from it on demand.
type Document struct {
	// ID is the document identifier shared by all versions.
	ID string `json:"id"`

	// ChatID links the document to the chat it was created for.
	ChatID string `json:"chatId"`

	// UserID is the owner of the document.
	UserID string `json:"userId"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// Kind is the artifact kind (e.g., "text").
	Kind string `json:"kind"`

	// Content is the markdown body the planner operates on.
	Content string `json:"content"`

	// Version increases by one with every saved version.
	// It is also the optimistic concurrency token for writes.
	Version int `json:"version"`

	// CreatedAt is when this version was written.
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
