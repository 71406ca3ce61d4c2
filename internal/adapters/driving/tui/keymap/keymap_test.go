package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}},
		{"help", km.Help, []string{"?"}},
		{"back", km.Back, []string{"esc"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"complete", km.Complete, []string{"x", " "}},
		{"edit", km.Edit, []string{"e"}},
		{"confirm", km.Confirm, []string{"enter"}},
		{"refresh", km.Refresh, []string{"r"}},
		{"document", km.Document, []string{"d"}},
		{"previous version", km.PrevVersion, []string{"left", "h"}},
		{"next version", km.NextVersion, []string{"right", "l"}},
		{"revert", km.Revert, []string{"R"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keys, tt.binding.Keys())
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestKeyMap_ShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()

	require.Len(t, help, 2)
	assert.Equal(t, km.Quit.Keys(), help[0].Keys())
	assert.Equal(t, km.Help.Keys(), help[1].Keys())
}

func TestKeyMap_ViewHelp(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.TodoHelp(), 5)
	assert.Len(t, km.EditHelp(), 2)
	assert.Len(t, km.DocumentHelp(), 4)
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.FullHelp()

	require.Len(t, help, 4)
	total := 0
	for _, group := range help {
		total += len(group)
	}
	assert.Equal(t, 13, total)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("x", km.Complete))
	assert.True(t, Matches(" ", km.Complete))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.False(t, Matches("X", km.Complete))
	assert.False(t, Matches("r", km.Revert))
}
