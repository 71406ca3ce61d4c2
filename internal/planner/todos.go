package planner

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

// idTextLength is the number of characters of action text baked into an id.
const idTextLength = 50

// walker tracks the parse position while a document is scanned line by
// line. ParseTodos, CompleteTodo and EditTodo all drive the same walker so
// that ids computed for display always match the ids used for mutation.
// The item index runs across the whole document, so repeated sections for
// the same habit still yield distinct ids.
type walker struct {
	habit  string
	index  int
	inItem bool
}

// step is the outcome of feeding one line to the walker.
type step struct {
	line classifiedLine

	// id is set when the line is an action line that yields a todo item.
	id string

	// continuation is set for text lines that extend the previous item.
	continuation bool
}

func (w *walker) next(raw string) step {
	line := classify(raw)
	s := step{line: line}

	switch line.kind {
	case lineBlank, lineStructural:
		w.inItem = false
	case lineHabit:
		w.habit = line.habit
		w.inItem = false
	case lineAction:
		if line.text == "" {
			w.inItem = false
			break
		}
		s.id = makeID(w.habit, w.index, line.text)
		w.index++
		w.inItem = true
	case lineText:
		s.continuation = w.inItem && line.text != ""
	}
	return s
}

func makeID(habit string, index int, text string) string {
	return habit + "-" + strconv.Itoa(index) + "-" + firstRunes(text, idTextLength)
}

// splitLines splits content on "\n", keeping any "\r" on the lines so that
// untouched lines are written back byte for byte.
func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

// ParseTodos derives the todo items of a document.
//
// Items are emitted for list lines with non-empty text, tagged with the
// nearest preceding habit heading. Plain lines directly below an item are
// joined onto it with a space; LineText keeps the action line's own text,
// which is what EditTodo replaces. completed marks items as done by id; it may
// be nil.
func ParseTodos(content string, completed map[string]bool) []domain.TodoItem {
	var (
		items []domain.TodoItem
		w     walker
	)

	for _, raw := range splitLines(content) {
		s := w.next(raw)
		switch {
		case s.id != "":
			items = append(items, domain.TodoItem{
				ID:           s.id,
				Text:         s.line.text,
				LineText:     s.line.text,
				Tag:          w.habit,
				Completed:    completed[s.id],
				OriginalLine: strings.TrimRight(raw, "\r"),
			})
		case s.continuation:
			last := &items[len(items)-1]
			last.Text += " " + s.line.text
		}
	}
	return items
}
