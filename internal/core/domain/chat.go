package domain

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// VoteType is the direction of a vote on a message.
type VoteType string

// Vote directions.
const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// Valid reports whether the vote type is known.
func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Chat is a conversation owned by a single user.
type Chat struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message is one turn of a chat. Content is already flattened to text.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Vote records a user's verdict on a message.
type Vote struct {
	ChatID    string   `json:"chatId"`
	MessageID string   `json:"messageId"`
	Type      VoteType `json:"type"`
	IsUpvoted bool     `json:"isUpvoted"`
}

// UpvoteResult describes what an upvote did to the chat's document.
type UpvoteResult struct {
	// Vote is the recorded vote.
	Vote Vote

	// Document is the latest document version after the upvote, if any.
	Document *Document

	// Merge is the merge outcome; zero when extraction did not run.
	Merge MergeResult

	// DocumentErr is the error that kept the document from being updated.
	// The vote itself is recorded regardless.
	DocumentErr error
}
