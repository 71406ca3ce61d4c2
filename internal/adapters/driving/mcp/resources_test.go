package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

func TestExtractChatID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		suffix   string
		expected string
	}{
		{"todos URI", "habitplan://chats/c-123/todos", "/todos", "c-123"},
		{"document URI", "habitplan://chats/c-123/document", "/document", "c-123"},
		{"wrong suffix", "habitplan://chats/c-123/document", "/todos", ""},
		{"invalid prefix", "file://chats/c-123/todos", "/todos", ""},
		{"nested path", "habitplan://chats/a/b/todos", "/todos", ""},
		{"no id", "habitplan://chats/todos", "/todos", ""},
		{"empty URI", "", "/todos", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractChatID(tt.uri, tt.suffix))
		})
	}
}

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid versions URI", "habitplan://documents/doc-456/versions", "doc-456"},
		{"missing suffix", "habitplan://documents/doc-456", ""},
		{"invalid prefix", "file://documents/doc-456/versions", ""},
		{"empty id", "habitplan://documents//versions", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDocumentID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

// seededServer returns a server whose chat has an upvoted reply.
func seededServer(t *testing.T) (*Server, string, string) {
	t.Helper()
	ctx := context.Background()
	ports, messages := newTestPorts()
	server, err := NewServer(ports, testUser)
	require.NoError(t, err)

	msg, err := messages.Add(ctx, testUser, "", domain.RoleAssistant, reply)
	require.NoError(t, err)
	result, err := ports.Vote.Upvote(ctx, testUser, msg.ChatID, msg.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Document)

	return server, msg.ChatID, result.Document.ID
}

func TestServer_handleTodosResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns todos as JSON", func(t *testing.T) {
		server, chatID, _ := seededServer(t)

		result, err := server.handleTodosResource(ctx, makeReadResourceRequest("habitplan://chats/"+chatID+"/todos"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "写下三个目标")
		assert.Contains(t, result.Contents[0].Text, `"tag": "积极主动"`)
	})

	t.Run("empty chat returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Todo: &mockTodoService{}}, testUser)
		require.NoError(t, err)

		result, err := server.handleTodosResource(ctx, makeReadResourceRequest("habitplan://chats/c1/todos"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("invalid URI is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Todo: &mockTodoService{}}, testUser)
		require.NoError(t, err)

		_, err = server.handleTodosResource(ctx, makeReadResourceRequest("habitplan://chats/"))

		assert.Error(t, err)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Todo: &mockTodoService{err: errors.New("database error")}}, testUser)
		require.NoError(t, err)

		_, err = server.handleTodosResource(ctx, makeReadResourceRequest("habitplan://chats/c1/todos"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing todos")
	})
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns markdown content", func(t *testing.T) {
		server, chatID, _ := seededServer(t)

		result, err := server.handleDocumentResource(ctx, makeReadResourceRequest("habitplan://chats/"+chatID+"/document"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "text/markdown", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, domain.DefaultInitialContent)
		assert.Contains(t, result.Contents[0].Text, "### 以终为始\n- 写使命宣言")
	})

	t.Run("unknown chat is not found", func(t *testing.T) {
		server, _, _ := seededServer(t)

		_, err := server.handleDocumentResource(ctx, makeReadResourceRequest("habitplan://chats/nope/document"))

		assert.Error(t, err)
	})
}

func TestServer_handleVersionsResource(t *testing.T) {
	ctx := context.Background()
	server, chatID, docID := seededServer(t)

	_, err := server.ports.Todo.Complete(ctx, testUser, chatID, "以终为始-2-写使命宣言")
	require.NoError(t, err)

	result, err := server.handleVersionsResource(ctx, makeReadResourceRequest("habitplan://documents/"+docID+"/versions"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, `"version": 1`)
	assert.Contains(t, result.Contents[0].Text, `"version": 2`)

	_, err = server.handleVersionsResource(ctx, makeReadResourceRequest("habitplan://documents/missing/versions"))
	assert.Error(t, err)
}
