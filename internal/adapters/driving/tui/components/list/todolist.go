// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/habitplan/internal/core/domain"
)

// TodoList displays todo items grouped by habit in a navigable list.
type TodoList struct {
	items    []domain.TodoItem
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewTodoList creates a new todo list component.
func NewTodoList(s *styles.Styles) *TodoList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &TodoList{
		styles: s,
		width:  80,
		height: 20,
	}
}

// Update handles list navigation messages.
func (l *TodoList) Update(msg tea.Msg) (*TodoList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.items) > 0 {
				l.selected = len(l.items) - 1
			}
		}
	}
	return l, nil
}

// View renders the list.
func (l *TodoList) View() string {
	if len(l.items) == 0 {
		return l.styles.Muted.Render("Nothing to do. Upvote a coaching reply to add plans.")
	}

	start, end := l.window()
	lines := make([]string, 0, (end-start)*2)

	tag := "\x00"
	if start > 0 {
		tag = l.items[start-1].Tag
	}
	for i := start; i < end; i++ {
		item := &l.items[i]
		if item.Tag != tag {
			tag = item.Tag
			if tag != "" {
				if len(lines) > 0 {
					lines = append(lines, "")
				}
				lines = append(lines, l.styles.Habit.Render(tag))
			}
		}
		lines = append(lines, l.renderItem(i, item))
	}

	if end < len(l.items) || start > 0 {
		lines = append(lines, "", l.styles.Muted.Render(fmt.Sprintf("  %d-%d of %d", start+1, end, len(l.items))))
	}
	return strings.Join(lines, "\n")
}

// window returns the visible item range around the selection.
func (l *TodoList) window() (int, int) {
	// Headings take extra rows, so leave room for roughly one per three items.
	visible := (l.height - 2) * 3 / 4
	if visible < 1 {
		visible = 1
	}

	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.items) {
		end = len(l.items)
	}
	return start, end
}

func (l *TodoList) renderItem(index int, item *domain.TodoItem) string {
	text := truncate(item.Text, l.width-8)

	if item.Completed {
		return "  " + l.styles.Done.Render("✓ "+text)
	}
	if index == l.selected {
		return l.styles.Selected.Render("> ○ " + text)
	}
	return "  " + l.styles.Muted.Render("○") + " " + l.styles.Item.Render(text)
}

// truncate cuts s to limit terminal cells. Wide CJK runes count twice.
func truncate(s string, limit int) string {
	if limit < 10 {
		limit = 10
	}
	return xansi.Truncate(s, limit, "…")
}

// SetItems replaces the items and keeps the selection in range.
func (l *TodoList) SetItems(items []domain.TodoItem) {
	l.items = items
	if l.selected >= len(items) {
		l.selected = len(items) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Items returns the current items.
func (l *TodoList) Items() []domain.TodoItem {
	return l.items
}

// Selected returns the index of the selected item.
func (l *TodoList) Selected() int {
	return l.selected
}

// SelectedItem returns the currently selected item, or nil if none.
func (l *TodoList) SelectedItem() *domain.TodoItem {
	if len(l.items) == 0 || l.selected < 0 || l.selected >= len(l.items) {
		return nil
	}
	return &l.items[l.selected]
}

// MoveUp moves selection up.
func (l *TodoList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *TodoList) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *TodoList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of items.
func (l *TodoList) Count() int {
	return len(l.items)
}
