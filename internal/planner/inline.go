package planner

import (
	"regexp"
	"strings"
)

var (
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
	imagePattern      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	boldPattern       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldAltPattern    = regexp.MustCompile(`__(.+?)__`)
	strikePattern     = regexp.MustCompile(`~~(.+?)~~`)
	italicPattern     = regexp.MustCompile(`\*([^*\s](?:[^*]*[^*\s])?)\*`)

	habitNumberPattern = regexp.MustCompile(`^\d+[.、][ \t]*`)
	quotePrefixPattern = regexp.MustCompile(`^(?:>[ \t]*)+`)
)

// cleanInline strips emphasis, inline code and link syntax, keeping text.
func cleanInline(s string) string {
	s = inlineCodePattern.ReplaceAllString(s, "$1")
	s = imagePattern.ReplaceAllString(s, "$1")
	s = linkPattern.ReplaceAllString(s, "$1")
	s = boldPattern.ReplaceAllString(s, "$1")
	s = boldAltPattern.ReplaceAllString(s, "$1")
	s = strikePattern.ReplaceAllString(s, "$1")
	s = italicPattern.ReplaceAllString(s, "$1")
	// Unbalanced bold markers left behind by a truncated response.
	s = strings.ReplaceAll(s, "**", "")
	return strings.TrimSpace(s)
}

// cleanHabitName normalises a heading payload into a habit tag:
// "**1. 积极主动：**" becomes "积极主动".
func cleanHabitName(s string) string {
	s = cleanInline(strings.TrimSpace(s))
	s = habitNumberPattern.ReplaceAllString(s, "")
	s = strings.TrimRight(s, " \t:：")
	return strings.TrimSpace(s)
}

// stripQuote removes any leading block-quote markers from a trimmed line.
func stripQuote(s string) string {
	return strings.TrimSpace(quotePrefixPattern.ReplaceAllString(s, ""))
}

// endsWithColon reports whether s ends in a half- or full-width colon.
func endsWithColon(s string) bool {
	return strings.HasSuffix(s, ":") || strings.HasSuffix(s, "：")
}

// firstRunes returns at most n runes of s.
func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
