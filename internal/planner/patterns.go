package planner

import (
	"regexp"
	"strings"
)

// headingStrategy recognises one generation of habit heading format.
// Prompt formats drifted over time, so a response may use any of them.
type headingStrategy struct {
	name    string
	pattern *regexp.Regexp
}

// headingStrategies are tried in order; the first that yields at least one
// section wins. Later entries are strictly more permissive.
var headingStrategies = []headingStrategy{
	{name: "numbered", pattern: regexp.MustCompile(`(?m)^[ \t]*###[ \t]+\d+\.[ \t]+`)},
	{name: "quoted", pattern: regexp.MustCompile(`(?m)^[ \t]*>[ \t]*###[ \t]+`)},
	{name: "plain", pattern: regexp.MustCompile(`(?m)^[ \t]*###[ \t]+`)},
}

var (
	// habitHeadingPattern matches a level-3 heading once quotes are stripped.
	// The space after ### is optional; "####" and deeper stay structural.
	habitHeadingPattern = regexp.MustCompile(`^###[ \t]*([^#\s].*)$`)

	// horizontalRulePattern matches "---", "***", "___" and spaced variants.
	horizontalRulePattern = regexp.MustCompile(`^(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`)

	// listMarkerPattern matches every list marker an action or plan line may
	// start with: "- ", "* ", "1. ", "1、", "一、", "步骤 1:".
	listMarkerPattern = regexp.MustCompile(
		`^(?:[-*][ \t]+|\d+\.[ \t]+|\d+、[ \t]*|[一二三四五六七八九十]+[、.．][ \t]*|步骤[ \t]*\d+[ \t]*[:：][ \t]*)`,
	)

	// linePrefixPattern captures indentation plus quote markers of a raw line.
	linePrefixPattern = regexp.MustCompile(`^[ \t]*(?:>[ \t]*)*`)
)

// analysisMarkers denote the reasoning appendix of a habit section.
var analysisMarkers = []string{"思路链", "洞察", "荟萃分析"}

// isTerminator reports whether a quote-stripped line ends plan extraction.
func isTerminator(body string) bool {
	for _, marker := range analysisMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return isHorizontalRule(body)
}

func isHorizontalRule(body string) bool {
	return strings.HasPrefix(body, "---") || horizontalRulePattern.MatchString(body)
}

// splitMarker splits a quote-stripped line into its list marker and payload.
// ok is false when the line is not a list item.
func splitMarker(body string) (marker, payload string, ok bool) {
	loc := listMarkerPattern.FindStringIndex(body)
	if loc == nil {
		return "", "", false
	}
	return body[:loc[1]], body[loc[1]:], true
}

type lineKind int

const (
	lineBlank lineKind = iota
	lineHabit
	lineStructural
	lineAction
	lineText
)

// classifiedLine is the result of classifying one raw document line.
type classifiedLine struct {
	kind lineKind

	// habit is the cleaned habit tag of a lineHabit.
	habit string

	// text is the cleaned payload of a lineAction; may be empty.
	text string
}

// classify assigns a raw document line to its kind.
func classify(raw string) classifiedLine {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return classifiedLine{kind: lineBlank}
	}

	body := stripQuote(trimmed)
	if body == "" {
		return classifiedLine{kind: lineBlank}
	}

	if m := habitHeadingPattern.FindStringSubmatch(body); m != nil {
		return classifiedLine{kind: lineHabit, habit: cleanHabitName(m[1])}
	}
	if strings.HasPrefix(body, "#") || isHorizontalRule(body) {
		return classifiedLine{kind: lineStructural}
	}
	if _, payload, ok := splitMarker(body); ok {
		return classifiedLine{kind: lineAction, text: cleanInline(payload)}
	}
	return classifiedLine{kind: lineText, text: cleanInline(body)}
}
