package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driven"
)

// chatGuard enforces chat ownership.
type chatGuard struct {
	store driven.ChatStore
}

// authorize returns domain.ErrNotFound for unknown chats and
// domain.ErrForbidden for chats owned by someone else.
func (g *chatGuard) authorize(ctx context.Context, userID, chatID string) error {
	if g.store == nil {
		return nil
	}
	chat, err := g.store.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if chat.UserID != userID {
		return domain.ErrForbidden
	}
	return nil
}

// ensure creates the chat for userID when it does not exist yet.
func (g *chatGuard) ensure(ctx context.Context, userID, chatID, title string) error {
	if g.store == nil {
		return nil
	}
	err := g.authorize(ctx, userID, chatID)
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	chat := &domain.Chat{ID: chatID, UserID: userID, Title: title, CreatedAt: time.Now().UTC()}
	if err := g.store.Save(ctx, chat); err != nil {
		return fmt.Errorf("create chat: %w", err)
	}
	return nil
}
