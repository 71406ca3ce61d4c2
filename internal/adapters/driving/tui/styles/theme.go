// Package styles provides the colour theme for the checklist and the
// styled CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Habit colours habit section headings.
	Habit lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for ids, hints and other secondary text.
	Muted lipgloss.Color

	// Success marks completed items and confirmations.
	Success lipgloss.Color

	// Warning marks notices such as stale ids.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Habit:      lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title styles the document title.
	Title lipgloss.Style

	// Habit styles habit section headings.
	Habit lipgloss.Style

	// Item styles an open todo item.
	Item lipgloss.Style

	// Selected styles the item under the cursor.
	Selected lipgloss.Style

	// Done styles a completed item.
	Done lipgloss.Style

	// Muted styles ids and hints.
	Muted lipgloss.Style

	// Error styles error messages.
	Error lipgloss.Style

	// Success styles confirmations.
	Success lipgloss.Style

	// Warning styles notices.
	Warning lipgloss.Style

	// InputField styles the edit box.
	InputField lipgloss.Style

	// StatusBar styles the bottom status line.
	StatusBar lipgloss.Style

	// Help styles the key help line.
	Help lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Habit: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Habit),

		Item: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Done: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(theme.Success),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
