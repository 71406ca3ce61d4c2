package mcp

import (
	"context"

	"github.com/custodia-labs/habitplan/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
	"github.com/custodia-labs/habitplan/internal/core/services"
)

const testUser = "alice"

const reply = "### 1. 积极主动：\n1. 写下三个目标\n2. 每周复盘一次\n- **洞察：** 责任在我\n" +
	"### 2. 以终为始：\n- 写使命宣言"

// mockTodoService is a mock implementation of driving.TodoService.
type mockTodoService struct {
	items []domain.TodoItem
	doc   *domain.Document
	err   error
}

func (m *mockTodoService) List(_ context.Context, _, _ string) ([]domain.TodoItem, error) {
	return m.items, m.err
}

func (m *mockTodoService) Complete(_ context.Context, _, _, _ string) (*domain.Document, error) {
	return m.doc, m.err
}

func (m *mockTodoService) Edit(_ context.Context, _, _ string, _ driving.TodoEdit) (*domain.Document, error) {
	return m.doc, m.err
}

// mockCoachService is a mock implementation of driving.CoachService.
type mockCoachService struct {
	available bool
	reply     *domain.Message
	err       error
}

func (m *mockCoachService) Ask(_ context.Context, _, _, _ string) (*domain.Message, error) {
	return m.reply, m.err
}

func (m *mockCoachService) Available() bool { return m.available }

// newTestPorts wires real services over in-memory stores.
func newTestPorts() (*Ports, driving.MessageService) {
	docs := memory.NewDocumentStore()
	chats := memory.NewChatStore()
	settings := domain.DefaultSettings().Document

	messages := services.NewMessageService(memory.NewMessageStore(), chats)
	return &Ports{
		Todo:     services.NewTodoService(docs, settings),
		Vote:     services.NewVoteService(memory.NewVoteStore(), chats, messages, docs, settings),
		Document: services.NewDocumentService(docs, settings),
		Message:  messages,
		Plan:     services.NewPlanService(settings),
	}, messages
}
