// Package mcp provides an MCP (Model Context Protocol) server adapter for habitplan.
// It lets AI assistants read a chat's todo list, upvote replies into it and
// complete or edit its items.
package mcp

import "errors"

// ErrMissingTodoService is returned when the todo service is not provided.
var ErrMissingTodoService = errors.New("mcp: todo service is required")
