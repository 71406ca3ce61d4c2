package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

func TestChatStore(t *testing.T) {
	ctx := context.Background()
	store := NewChatStore()

	require.NoError(t, store.Save(ctx, &domain.Chat{ID: "c1", UserID: "u1", Title: "Plan"}))

	chat, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "u1", chat.UserID)

	_, err = store.Get(ctx, "c2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMessageStore(t *testing.T) {
	ctx := context.Background()
	store := NewMessageStore()

	require.NoError(t, store.Save(ctx, &domain.Message{ID: "m2", ChatID: "c1", Role: domain.RoleUser, Content: "q"}))
	require.NoError(t, store.Save(ctx, &domain.Message{ID: "m1", ChatID: "c1", Role: domain.RoleAssistant, Content: "a"}))
	require.NoError(t, store.Save(ctx, &domain.Message{ID: "m3", ChatID: "c2", Role: domain.RoleUser, Content: "x"}))

	msg, err := store.Get(ctx, "c1", "m1")
	require.NoError(t, err)
	assert.Equal(t, "a", msg.Content)

	_, err = store.Get(ctx, "c2", "m1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := store.ListByChat(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m2", list[0].ID)
	assert.Equal(t, "m1", list[1].ID)
}

func TestVoteStore_ReplacesVote(t *testing.T) {
	ctx := context.Background()
	store := NewVoteStore()

	require.NoError(t, store.Save(ctx, domain.Vote{ChatID: "c1", MessageID: "m1", Type: domain.VoteUp, IsUpvoted: true}))
	require.NoError(t, store.Save(ctx, domain.Vote{ChatID: "c1", MessageID: "m1", Type: domain.VoteDown}))
	require.NoError(t, store.Save(ctx, domain.Vote{ChatID: "c1", MessageID: "m0", Type: domain.VoteUp, IsUpvoted: true}))

	votes, err := store.ListByChat(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, votes, 2)
	assert.Equal(t, "m0", votes[0].MessageID)
	assert.False(t, votes[1].IsUpvoted)

	empty, err := store.ListByChat(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
