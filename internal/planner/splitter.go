package planner

import (
	"strings"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

// SplitSections splits an assistant response into per-habit sections.
// Heading strategies are tried in order and the first one that yields a
// section wins. Text before the first heading is preamble and dropped.
// Returns nil when the response has no recognisable habit structure.
func SplitSections(text string) []domain.HabitSection {
	text = normaliseNewlines(text)
	for _, strategy := range headingStrategies {
		if sections := strategy.split(text); len(sections) > 0 {
			return sections
		}
	}
	return nil
}

// split cuts text at every match of the strategy's heading marker.
func (s headingStrategy) split(text string) []domain.HabitSection {
	locs := s.pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	sections := make([]domain.HabitSection, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}

		name, body := splitHabitName(text[loc[1]:end])
		if name == "" && strings.TrimSpace(body) == "" {
			continue
		}
		sections = append(sections, domain.HabitSection{
			HabitName: name,
			RawBody:   body,
		})
	}
	return sections
}

// splitHabitName takes the first non-blank line of a segment as the habit
// name and returns the rest as the body.
func splitHabitName(segment string) (name, body string) {
	for {
		line, rest, found := strings.Cut(segment, "\n")
		if strings.TrimSpace(line) != "" {
			return cleanHabitName(line), rest
		}
		if !found {
			return "", ""
		}
		segment = rest
	}
}

func normaliseNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
