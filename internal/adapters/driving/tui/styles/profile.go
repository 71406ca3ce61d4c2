package styles

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ApplyColorProfile picks the lipgloss colour profile for the checklist.
// NO_COLOR disables colour; COLORTERM and TERM may raise what termenv
// detected, but never turn colour on for a terminal reported as plain.
func ApplyColorProfile() {
	lipgloss.SetColorProfile(colorProfile(termenv.ColorProfile()))
}

func colorProfile(detected termenv.Profile) termenv.Profile {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return termenv.Ascii
	}
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	term := strings.ToLower(os.Getenv("TERM"))

	switch {
	case detected == termenv.Ascii:
		return detected
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		return termenv.TrueColor
	case strings.Contains(term, "256color") && detected == termenv.ANSI:
		return termenv.ANSI256
	}
	return detected
}
