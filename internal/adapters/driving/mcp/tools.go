package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
)

// ChatInput identifies a chat.
type ChatInput struct {
	ChatID string `json:"chat_id" jsonschema:"the chat whose todo list to use"`
}

// TodoOutput is a single todo item.
type TodoOutput struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	LineText string `json:"line_text" jsonschema:"the action line alone, which edit_todo replaces"`
	Tag      string `json:"tag,omitempty"`
}

// ListTodosOutput is the output schema for the list_todos tool.
type ListTodosOutput struct {
	Todos []TodoOutput `json:"todos"`
	Count int          `json:"count"`
}

// CompleteTodoInput is the input schema for the complete_todo tool.
type CompleteTodoInput struct {
	ChatID string `json:"chat_id" jsonschema:"the chat whose todo list to use"`
	ID     string `json:"id" jsonschema:"the todo id from the last list_todos call"`
}

// EditTodoInput is the input schema for the edit_todo tool.
type EditTodoInput struct {
	ChatID       string `json:"chat_id" jsonschema:"the chat whose todo list to use"`
	ID           string `json:"id" jsonschema:"the todo id from the last list_todos call"`
	OriginalText string `json:"original_text,omitempty" jsonschema:"the item line_text, used when the id is stale"`
	NewText      string `json:"new_text" jsonschema:"replacement for the action line; continuation lines are kept"`
}

// DocumentOutput describes a document version.
type DocumentOutput struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Version    int    `json:"version"`
	Content    string `json:"content"`
}

// UpvoteInput is the input schema for the upvote tool.
type UpvoteInput struct {
	ChatID    string `json:"chat_id" jsonschema:"the chat of the message"`
	MessageID string `json:"message_id" jsonschema:"the assistant message to upvote"`
}

// UpvoteOutput is the output schema for the upvote tool.
type UpvoteOutput struct {
	Appended      int    `json:"appended"`
	Skipped       int    `json:"skipped"`
	Fallback      bool   `json:"fallback"`
	DocumentID    string `json:"document_id,omitempty"`
	Version       int    `json:"version,omitempty"`
	DocumentError string `json:"document_error,omitempty"`
}

// ExtractInput is the input schema for the extract_plans tool.
type ExtractInput struct {
	Text     string `json:"text" jsonschema:"a coaching reply in markdown"`
	Existing string `json:"existing,omitempty" jsonschema:"document content to merge the plans into"`
}

// ExtractOutput is the output schema for the extract_plans tool.
type ExtractOutput struct {
	Plans    []string `json:"plans"`
	Merged   string   `json:"merged,omitempty"`
	Appended int      `json:"appended"`
	Skipped  int      `json:"skipped"`
	Fallback bool     `json:"fallback"`
}

// AddMessageInput is the input schema for the add_message tool.
type AddMessageInput struct {
	ChatID  string `json:"chat_id,omitempty" jsonschema:"the chat to add to, a new chat when empty"`
	Role    string `json:"role,omitempty" jsonschema:"user or assistant (default assistant)"`
	Content string `json:"content" jsonschema:"the message text"`
}

// MessageOutput identifies a stored message.
type MessageOutput struct {
	ChatID    string `json:"chat_id"`
	MessageID string `json:"message_id"`
	Content   string `json:"content,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	ChatID   string `json:"chat_id,omitempty" jsonschema:"the chat to continue, a new chat when empty"`
	Question string `json:"question" jsonschema:"the goal or problem to get a seven-habit plan for"`
}

// registerTools registers a tool for every configured port.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_todos",
		Description: "List the todo items of a chat's document",
	}, s.handleListTodos)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "complete_todo",
		Description: "Complete a todo item, removing it from the document",
	}, s.handleCompleteTodo)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "edit_todo",
		Description: "Rewrite the action line of a todo item",
	}, s.handleEditTodo)

	if s.ports.Vote != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "upvote",
			Description: "Upvote an assistant reply and append its plans to the chat's todo list",
		}, s.handleUpvote)
	}
	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "get_document",
			Description: "Get the latest todo document of a chat",
		}, s.handleGetDocument)
	}
	if s.ports.Plan != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "extract_plans",
			Description: "Extract the per-habit plans from a coaching reply without saving anything",
		}, s.handleExtractPlans)
	}
	if s.ports.Message != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "add_message",
			Description: "Store a message in a chat so it can be upvoted",
		}, s.handleAddMessage)
	}
	if s.ports.Coach != nil && s.ports.Coach.Available() {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Ask the coach for a seven-habit plan and store the reply",
		}, s.handleAsk)
	}
}

func (s *Server) handleListTodos(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, ListTodosOutput, error) {
	items, err := s.ports.Todo.List(ctx, s.userID, input.ChatID)
	if err != nil {
		return nil, ListTodosOutput{}, err
	}

	output := ListTodosOutput{
		Todos: make([]TodoOutput, len(items)),
		Count: len(items),
	}
	for i, item := range items {
		output.Todos[i] = TodoOutput{ID: item.ID, Text: item.Text, LineText: item.LineText, Tag: item.Tag}
	}
	return nil, output, nil
}

func (s *Server) handleCompleteTodo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompleteTodoInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Todo.Complete(ctx, s.userID, input.ChatID, input.ID)
	if err != nil {
		return nil, DocumentOutput{}, toolError(err)
	}
	return nil, documentOutput(doc), nil
}

func (s *Server) handleEditTodo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EditTodoInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Todo.Edit(ctx, s.userID, input.ChatID, driving.TodoEdit{
		ID:           input.ID,
		OriginalText: input.OriginalText,
		NewText:      input.NewText,
	})
	if err != nil {
		return nil, DocumentOutput{}, toolError(err)
	}
	return nil, documentOutput(doc), nil
}

func (s *Server) handleUpvote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpvoteInput,
) (*mcp.CallToolResult, UpvoteOutput, error) {
	result, err := s.ports.Vote.Upvote(ctx, s.userID, input.ChatID, input.MessageID)
	if err != nil {
		return nil, UpvoteOutput{}, err
	}

	output := UpvoteOutput{
		Appended: result.Merge.AppendedCount,
		Skipped:  result.Merge.Skipped,
		Fallback: result.Merge.Fallback,
	}
	if result.Document != nil {
		output.DocumentID = result.Document.ID
		output.Version = result.Document.Version
	}
	if result.DocumentErr != nil {
		output.DocumentError = result.DocumentErr.Error()
	}
	return nil, output, nil
}

func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Document.Latest(ctx, s.userID, input.ChatID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, documentOutput(doc), nil
}

func (s *Server) handleExtractPlans(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	plans := s.ports.Plan.Extract(input.Text)
	output := ExtractOutput{Plans: make([]string, len(plans))}
	for i, p := range plans {
		output.Plans[i] = p.String()
	}

	if input.Existing != "" {
		merged := s.ports.Plan.Merge(input.Text, input.Existing)
		output.Merged = merged.NewContent
		output.Appended = merged.AppendedCount
		output.Skipped = merged.Skipped
		output.Fallback = merged.Fallback
	}
	return nil, output, nil
}

func (s *Server) handleAddMessage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddMessageInput,
) (*mcp.CallToolResult, MessageOutput, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleAssistant
	}
	msg, err := s.ports.Message.Add(ctx, s.userID, input.ChatID, role, input.Content)
	if err != nil {
		return nil, MessageOutput{}, err
	}
	return nil, MessageOutput{ChatID: msg.ChatID, MessageID: msg.ID}, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, MessageOutput, error) {
	msg, err := s.ports.Coach.Ask(ctx, s.userID, input.ChatID, input.Question)
	if err != nil {
		return nil, MessageOutput{}, err
	}
	return nil, MessageOutput{ChatID: msg.ChatID, MessageID: msg.ID, Content: msg.Content}, nil
}

func documentOutput(doc *domain.Document) DocumentOutput {
	return DocumentOutput{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Version:    doc.Version,
		Content:    doc.Content,
	}
}

// errStaleTodo tells the assistant how to recover from a stale id.
var errStaleTodo = errors.New("todo not found: call list_todos again, ids change when the list changes")

func toolError(err error) error {
	if errors.Is(err, domain.ErrTodoNotFound) {
		return errStaleTodo
	}
	return err
}
