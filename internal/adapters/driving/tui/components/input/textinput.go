// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/styles"
)

// EditInput wraps a bubbles textinput for rewriting a todo item.
// It starts blurred; Start focuses it with the current text.
type EditInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewEditInput creates a new edit input component.
func NewEditInput(s *styles.Styles) *EditInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "New text..."
	ti.CharLimit = 500
	ti.Width = 50

	return &EditInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Start fills the input with text and focuses it.
func (e *EditInput) Start(text string) tea.Cmd {
	e.textinput.SetValue(text)
	e.textinput.CursorEnd()
	return tea.Batch(e.textinput.Focus(), textinput.Blink)
}

// Update handles input messages.
func (e *EditInput) Update(msg tea.Msg) (*EditInput, tea.Cmd) {
	var cmd tea.Cmd
	e.textinput, cmd = e.textinput.Update(msg)
	return e, cmd
}

// View renders the edit input.
func (e *EditInput) View() string {
	label := e.styles.Title.Render("Edit: ")
	field := e.styles.InputField.Render(e.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (e *EditInput) Value() string {
	return e.textinput.Value()
}

// Focused returns whether the input is focused.
func (e *EditInput) Focused() bool {
	return e.textinput.Focused()
}

// Stop clears and blurs the input.
func (e *EditInput) Stop() {
	e.textinput.Reset()
	e.textinput.Blur()
}

// SetWidth sets the width of the input.
func (e *EditInput) SetWidth(width int) {
	e.width = width
	// Account for label and padding
	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	e.textinput.Width = inputWidth
}

// Width returns the current width.
func (e *EditInput) Width() int {
	return e.width
}
