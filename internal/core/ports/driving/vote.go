package driving

import (
	"context"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

// VoteService records votes and turns upvotes into todo document entries.
type VoteService interface {
	// Vote records a vote on a message of a chat owned by userID.
	// An upvote also runs the upvote flow; see Upvote.
	Vote(ctx context.Context, userID, chatID, messageID string, voteType domain.VoteType) (*domain.UpvoteResult, error)

	// Upvote records an upvote and, best effort, extracts the plan of the
	// message into the chat's document. Document failures are reported in
	// UpvoteResult.DocumentErr and never fail the vote.
	Upvote(ctx context.Context, userID, chatID, messageID string) (*domain.UpvoteResult, error)

	// List returns the votes of a chat owned by userID.
	List(ctx context.Context, userID, chatID string) ([]domain.Vote, error)
}
