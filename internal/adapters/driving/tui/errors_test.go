package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errs := []error{
		ErrMissingTodoService,
		ErrMissingChat,
		ErrInvalidPorts,
	}

	seen := make(map[string]bool)
	for _, err := range errs {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestErrMissingTodoService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingTodoService.Error(), "todo service")
}

func TestErrMissingChat_Message(t *testing.T) {
	assert.Contains(t, ErrMissingChat.Error(), "chat id")
}
