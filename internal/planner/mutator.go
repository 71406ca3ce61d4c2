package planner

import (
	"strings"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

// CompleteTodo removes the item with the given id together with its
// continuation lines. Every other line is kept byte for byte. Found is
// false, and content unchanged, when no item has that id.
func CompleteTodo(content, id string) domain.MutationResult {
	lines := splitLines(content)
	out := make([]string, 0, len(lines))

	var (
		w        walker
		found    bool
		skipping bool
	)
	for _, raw := range lines {
		s := w.next(raw)
		if skipping {
			if s.continuation {
				continue
			}
			skipping = false
		}
		if !found && s.id == id && id != "" {
			found = true
			skipping = true
			continue
		}
		out = append(out, raw)
	}

	if !found {
		return domain.MutationResult{NewContent: content}
	}
	return domain.MutationResult{NewContent: strings.Join(out, "\n"), Found: true}
}

// EditTodo replaces the text of one item in place.
//
// The item is located by id. When the id is not present, for instance
// because the document changed since it was listed, the first item whose
// text equals, contains or is contained in originalText is used instead.
// Only the payload of the action line is rewritten: indentation, quote
// markers and the list marker are preserved. Continuation lines are left
// as they are. A blank newText is never written.
func EditTodo(content, id, originalText, newText string) domain.MutationResult {
	unchanged := domain.MutationResult{NewContent: content}

	replacement := strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(newText))
	if cleanInline(replacement) == "" {
		return unchanged
	}

	lines := splitLines(content)
	target := findByID(lines, id)
	if target < 0 {
		target = findByText(lines, strings.TrimSpace(originalText))
	}
	if target < 0 {
		return unchanged
	}

	rewritten, ok := rewritePayload(lines[target], replacement)
	if !ok {
		return unchanged
	}

	out := make([]string, len(lines))
	copy(out, lines)
	out[target] = rewritten
	return domain.MutationResult{NewContent: strings.Join(out, "\n"), Found: true}
}

func findByID(lines []string, id string) int {
	if id == "" {
		return -1
	}
	var w walker
	for i, raw := range lines {
		if w.next(raw).id == id {
			return i
		}
	}
	return -1
}

func findByText(lines []string, original string) int {
	if original == "" {
		return -1
	}
	var w walker
	for i, raw := range lines {
		s := w.next(raw)
		if s.id == "" {
			continue
		}
		text := s.line.text
		if text == original || strings.Contains(text, original) || strings.Contains(original, text) {
			return i
		}
	}
	return -1
}

// rewritePayload swaps the text after the list marker of raw.
func rewritePayload(raw, payload string) (string, bool) {
	cr := ""
	if strings.HasSuffix(raw, "\r") {
		cr = "\r"
		raw = strings.TrimSuffix(raw, "\r")
	}

	prefix := linePrefixPattern.FindString(raw)
	marker, _, ok := splitMarker(raw[len(prefix):])
	if !ok {
		return "", false
	}
	line := prefix + marker + payload
	// The new payload must not turn the line into something else, e.g.
	// "- --" reads as a horizontal rule.
	if c := classify(line); c.kind != lineAction || c.text == "" {
		return "", false
	}
	return line + cr, true
}
