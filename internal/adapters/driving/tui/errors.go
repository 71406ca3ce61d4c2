package tui

import "errors"

// ErrMissingTodoService is returned when the todo service is not provided.
var ErrMissingTodoService = errors.New("tui: todo service is required")

// ErrMissingChat is returned when no chat id is given.
var ErrMissingChat = errors.New("tui: chat id is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
