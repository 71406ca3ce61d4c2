package styles

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestColorProfile(t *testing.T) {
	tests := []struct {
		name      string
		noColor   string
		colorterm string
		term      string
		detected  termenv.Profile
		want      termenv.Profile
	}{
		{"no color wins", "1", "truecolor", "xterm-256color", termenv.TrueColor, termenv.Ascii},
		{"truecolor env", "", "truecolor", "", termenv.ANSI256, termenv.TrueColor},
		{"24bit env", "", "24bit", "", termenv.ANSI, termenv.TrueColor},
		{"256 term raises ansi", "", "", "xterm-256color", termenv.ANSI, termenv.ANSI256},
		{"plain terminal stays plain", "", "truecolor", "xterm-256color", termenv.Ascii, termenv.Ascii},
		{"detected kept", "", "", "xterm", termenv.ANSI, termenv.ANSI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("COLORTERM", tt.colorterm)
			t.Setenv("TERM", tt.term)

			assert.Equal(t, tt.want, colorProfile(tt.detected))
		})
	}
}
