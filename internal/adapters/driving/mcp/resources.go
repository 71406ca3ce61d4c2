package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for habitplan resources.
	uriScheme = "habitplan://"
)

// registerResources registers resource templates for the configured ports.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "chats/{chatId}/todos",
		Name:        "chat-todos",
		Description: "Todo items of a chat's document",
		MIMEType:    "application/json",
	}, s.handleTodosResource)

	if s.ports.Document == nil {
		return
	}

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "chats/{chatId}/document",
		Name:        "chat-document",
		Description: "Latest todo document of a chat",
		MIMEType:    "text/markdown",
	}, s.handleDocumentResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/versions",
		Name:        "document-versions",
		Description: "Version history of a document",
		MIMEType:    "application/json",
	}, s.handleVersionsResource)
}

// handleTodosResource returns the todo items of a chat.
func (s *Server) handleTodosResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	chatID := extractChatID(req.Params.URI, "/todos")
	if chatID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	items, err := s.ports.Todo.List(ctx, s.userID, chatID)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	if items == nil {
		items = []domain.TodoItem{}
	}
	return jsonResult(req.Params.URI, items)
}

// handleDocumentResource returns the latest document content of a chat.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	chatID := extractChatID(req.Params.URI, "/document")
	if chatID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Document.Latest(ctx, s.userID, chatID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     doc.Content,
		}},
	}, nil
}

// handleVersionsResource returns the versions of a document.
func (s *Server) handleVersionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	versions, err := s.ports.Document.Versions(ctx, s.userID, docID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}

	type versionInfo struct {
		Version   int    `json:"version"`
		CreatedAt string `json:"created_at"`
		Content   string `json:"content"`
	}
	infos := make([]versionInfo, len(versions))
	for i := range versions {
		infos[i] = versionInfo{
			Version:   versions[i].Version,
			CreatedAt: versions[i].CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
			Content:   versions[i].Content,
		}
	}
	return jsonResult(req.Params.URI, infos)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractChatID extracts the chat ID from a URI like habitplan://chats/{chatId}{suffix}.
func extractChatID(uri, suffix string) string {
	const prefix = uriScheme + "chats/"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, suffix)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}

// extractDocumentID extracts the document ID from a URI like habitplan://documents/{documentId}/versions.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"
	const suffix = "/versions"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, suffix)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
