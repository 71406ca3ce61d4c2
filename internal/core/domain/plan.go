package domain

import "strings"

// HabitSection is one habit block split out of an assistant response.
// It only exists while a response is being extracted.
type HabitSection struct {
	// HabitName is the cleaned habit title (e.g. "积极主动").
	HabitName string

	// RawBody is everything below the habit heading up to the next one.
	RawBody string
}

// PlanItem holds the actionable lines extracted from one habit section.
type PlanItem struct {
	// HabitName is the habit the lines belong to. May be empty.
	HabitName string

	// Lines are the plan lines in source order, list markers included.
	Lines []string
}

// String serialises the plan into the markdown appended to a document.
func (p PlanItem) String() string {
	body := strings.TrimSpace(strings.Join(p.Lines, "\n"))
	if p.HabitName == "" {
		return body
	}
	return "### " + p.HabitName + "\n" + body
}

// FirstLine returns the first non-empty plan line, used as the dedup key.
func (p PlanItem) FirstLine() string {
	for _, line := range p.Lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// MergeResult is the outcome of merging extracted plans into a document.
type MergeResult struct {
	// NewContent is the document content after the merge.
	NewContent string

	// AppendedCount is the number of plan items appended.
	AppendedCount int

	// Skipped is the number of plan items discarded as already recorded.
	Skipped int

	// Fallback reports whether the fallback entry was appended because
	// nothing could be extracted.
	Fallback bool
}

// Changed reports whether the merge produced new content.
func (r MergeResult) Changed() bool {
	return r.AppendedCount > 0 || r.Fallback
}

// MutationResult is the outcome of completing or editing a todo item.
type MutationResult struct {
	// NewContent is the rewritten content; equal to the input when not found.
	NewContent string

	// Found reports whether the target item was located.
	Found bool
}
