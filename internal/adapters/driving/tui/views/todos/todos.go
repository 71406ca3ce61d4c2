// Package todos provides the checklist view: navigate, complete and edit
// the items of a chat's todo document.
package todos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
)

// staleNotice is shown when an item moved or vanished since the last load.
const staleNotice = "That item changed since the list was loaded; refreshed."

// View is the checklist view.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	todos  driving.TodoService
	ctx    context.Context
	userID string
	chatID string

	list  *list.TodoList
	input *input.EditInput

	// editing holds the item being edited, nil when not editing.
	editing *domain.TodoItem

	loading bool
	notice  string
	message string
	err     error
	width   int
	height  int
}

// NewView creates a checklist view for one chat.
func NewView(s *styles.Styles, todos driving.TodoService, userID, chatID string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		todos:  todos,
		ctx:    context.Background(),
		userID: userID,
		chatID: chatID,
		list:   list.NewTodoList(s),
		input:  input.NewEditInput(s),
	}
}

// SetContext sets the context used for service calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Load returns a command that reloads the checklist.
func (v *View) Load() tea.Cmd {
	v.loading = true
	ctx, todos, userID, chatID := v.ctx, v.todos, v.userID, v.chatID
	return func() tea.Msg {
		items, err := todos.List(ctx, userID, chatID)
		return messages.TodosLoaded{Items: items, Err: err}
	}
}

// Update handles messages for the checklist.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.editing != nil {
			return v.handleEditKey(msg)
		}
		return v.handleKey(msg)

	case messages.TodosLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.list.SetItems(msg.Items)
		return v, nil

	case messages.TodoCompleted:
		return v.afterWrite(msg.Err, "Completed: "+msg.Text)

	case messages.TodoEdited:
		return v.afterWrite(msg.Err, "Updated: "+msg.Text)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Complete):
		return v, v.complete()
	case keymap.Matches(k, v.keymap.Edit):
		item := v.list.SelectedItem()
		if item == nil {
			return v, nil
		}
		selected := *item
		v.editing = &selected
		v.notice, v.message = "", ""
		return v, v.input.Start(item.LineText)
	case keymap.Matches(k, v.keymap.Refresh):
		v.notice, v.message = "", ""
		return v, v.Load()
	case keymap.Matches(k, v.keymap.Document):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewDocument} }
	case keymap.Matches(k, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case keymap.Matches(k, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.stopEditing()
		return v, nil
	case tea.KeyEnter:
		return v, v.submitEdit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) complete() tea.Cmd {
	item := v.list.SelectedItem()
	if item == nil {
		return nil
	}
	v.notice, v.message = "", ""

	ctx, todos, userID, chatID := v.ctx, v.todos, v.userID, v.chatID
	id, text := item.ID, item.Text
	return func() tea.Msg {
		doc, err := todos.Complete(ctx, userID, chatID, id)
		return messages.TodoCompleted{Text: text, Document: doc, Err: err}
	}
}

func (v *View) submitEdit() tea.Cmd {
	newText := strings.TrimSpace(v.input.Value())
	item := v.editing
	v.stopEditing()

	if newText == "" {
		v.notice = "Text cannot be empty; edit cancelled."
		return nil
	}
	if newText == item.LineText {
		return nil
	}

	ctx, todos, userID, chatID := v.ctx, v.todos, v.userID, v.chatID
	edit := driving.TodoEdit{ID: item.ID, OriginalText: item.LineText, NewText: newText}
	return func() tea.Msg {
		doc, err := todos.Edit(ctx, userID, chatID, edit)
		return messages.TodoEdited{Text: newText, Document: doc, Err: err}
	}
}

func (v *View) stopEditing() {
	v.editing = nil
	v.input.Stop()
}

// afterWrite reloads the list after a completion or edit. A stale id is a
// notice, not an error.
func (v *View) afterWrite(err error, success string) (*View, tea.Cmd) {
	switch {
	case errors.Is(err, domain.ErrTodoNotFound):
		v.notice = staleNotice
	case errors.Is(err, domain.ErrInvalidInput):
		v.notice = err.Error()
		return v, nil
	case err != nil:
		v.err = err
		return v, nil
	default:
		v.message = success
	}
	return v, v.Load()
}

// View renders the checklist.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Todo list"))
	b.WriteString(v.styles.Muted.Render("  chat " + v.chatID))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	case v.loading && v.list.Count() == 0:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n\n")
	}

	b.WriteString(v.list.View())
	b.WriteString("\n\n")

	if v.editing != nil {
		b.WriteString(v.input.View())
		b.WriteString("\n")
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-6)
	v.input.SetWidth(width)
}

// Editing reports whether an item is being edited.
func (v *View) Editing() bool {
	return v.editing != nil
}

// Loading reports whether a reload is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Items returns the items shown.
func (v *View) Items() []domain.TodoItem {
	return v.list.Items()
}

// Selected returns the selected item, or nil.
func (v *View) Selected() *domain.TodoItem {
	return v.list.SelectedItem()
}

// Notice returns the last notice, such as a stale id.
func (v *View) Notice() string {
	return v.notice
}

// Message returns the last confirmation.
func (v *View) Message() string {
	return v.message
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
