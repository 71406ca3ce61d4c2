package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/habitplan/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/habitplan/internal/core/domain"
)

const (
	testUser = "alice"

	sampleReply = "## 基于\"高效能人士的七个习惯\"框架的分析：\n" +
		"### 1. 积极主动：\n" +
		"积极主动：\n" +
		"1. 写下三个目标\n" +
		"2. 每周复盘一次\n" +
		"- **思路链：** 先明确责任\n" +
		"### 2. 以终为始：\n" +
		"- 写使命宣言\n" +
		"- **洞察：** 目标驱动行动\n"
)

var errStorage = errors.New("disk on fire")

// testDocSettings returns document settings with a small retry budget.
func testDocSettings() domain.DocumentSettings {
	s := domain.DefaultSettings().Document
	s.MaxRetries = 2
	return s
}

// racingDocStore lets another writer save a version right before the
// first conflicts SaveVersion calls, so those calls hit a stale version.
type racingDocStore struct {
	*memory.DocumentStore

	conflicts  int
	competitor func(content string) string
	saves      atomic.Int32
}

func (s *racingDocStore) SaveVersion(ctx context.Context, doc *domain.Document, expectedVersion int) error {
	if n := int(s.saves.Add(1)); n <= s.conflicts {
		latest, err := s.DocumentStore.GetLatest(ctx, doc.ID)
		if err != nil {
			return err
		}
		next := latest.Clone()
		next.Content = s.competitor(latest.Content)
		if err := s.DocumentStore.SaveVersion(ctx, next, latest.Version); err != nil {
			return err
		}
	}
	return s.DocumentStore.SaveVersion(ctx, doc, expectedVersion)
}

// failingDocStore fails every write.
type failingDocStore struct {
	*memory.DocumentStore
}

func (failingDocStore) Create(context.Context, *domain.Document) error { return errStorage }

func (failingDocStore) SaveVersion(context.Context, *domain.Document, int) error { return errStorage }

// stores bundles the in-memory adapters used by service tests.
type stores struct {
	docs     *memory.DocumentStore
	chats    *memory.ChatStore
	messages *memory.MessageStore
	votes    *memory.VoteStore
}

func newStores() stores {
	return stores{
		docs:     memory.NewDocumentStore(),
		chats:    memory.NewChatStore(),
		messages: memory.NewMessageStore(),
		votes:    memory.NewVoteStore(),
	}
}

func (s stores) messageService() *MessageService {
	return NewMessageService(s.messages, s.chats)
}

// addReply creates a chat for testUser holding a question and an assistant
// reply, returning the chat and reply ids.
func addReply(t *testing.T, msgs *MessageService, reply string) (chatID, messageID string) {
	t.Helper()
	ctx := context.Background()

	q, err := msgs.Add(ctx, testUser, "", domain.RoleUser, "How do I get organised?")
	require.NoError(t, err)
	a, err := msgs.Add(ctx, testUser, q.ChatID, domain.RoleAssistant, reply)
	require.NoError(t, err)
	return q.ChatID, a.ID
}
