package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/styles"
)

func TestNewEditInput(t *testing.T) {
	input := NewEditInput(styles.DefaultStyles())

	require.NotNil(t, input)
	assert.Equal(t, "", input.Value())
	assert.False(t, input.Focused())
}

func TestNewEditInput_NilStyles(t *testing.T) {
	input := NewEditInput(nil)

	require.NotNil(t, input)
	assert.NotNil(t, input.styles)
}

func TestEditInput_Start(t *testing.T) {
	input := NewEditInput(nil)

	cmd := input.Start("写下三个目标")

	assert.NotNil(t, cmd)
	assert.True(t, input.Focused())
	assert.Equal(t, "写下三个目标", input.Value())
}

func TestEditInput_TypingAppends(t *testing.T) {
	input := NewEditInput(nil)
	input.Start("早起")

	updated, _ := input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("跑步")})

	assert.Same(t, input, updated)
	assert.Equal(t, "早起跑步", input.Value())
}

func TestEditInput_Backspace(t *testing.T) {
	input := NewEditInput(nil)
	input.Start("abc")

	input.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	assert.Equal(t, "ab", input.Value())
}

func TestEditInput_Stop(t *testing.T) {
	input := NewEditInput(nil)
	input.Start("abc")

	input.Stop()

	assert.False(t, input.Focused())
	assert.Equal(t, "", input.Value())
}

func TestEditInput_View(t *testing.T) {
	input := NewEditInput(nil)
	input.Start("abc")

	view := input.View()

	assert.Contains(t, view, "Edit:")
	assert.Contains(t, view, "abc")
}

func TestEditInput_SetWidth(t *testing.T) {
	input := NewEditInput(nil)

	input.SetWidth(100)
	assert.Equal(t, 100, input.Width())
	assert.Equal(t, 88, input.textinput.Width)

	input.SetWidth(10)
	assert.Equal(t, 20, input.textinput.Width)
}
