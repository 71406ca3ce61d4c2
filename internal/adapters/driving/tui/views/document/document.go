// Package document provides the document view: the markdown of a chat's
// todo document with its version history.
package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
)

const timeLayout = "2006-01-02 15:04:05"

// View shows one version of the document at a time.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	docs   driving.DocumentService
	ctx    context.Context
	userID string
	chatID string

	versions []domain.Document
	shown    int
	offset   int

	notice string
	err    error
	width  int
	height int
}

// NewView creates a document view for one chat.
func NewView(s *styles.Styles, docs driving.DocumentService, userID, chatID string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		docs:   docs,
		ctx:    context.Background(),
		userID: userID,
		chatID: chatID,
		width:  80,
		height: 20,
	}
}

// SetContext sets the context used for service calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Load returns a command that fetches the chat's document and its versions.
func (v *View) Load() tea.Cmd {
	if v.docs == nil {
		return func() tea.Msg {
			return messages.DocumentLoaded{Err: domain.ErrNotImplemented}
		}
	}
	ctx, docs, userID, chatID := v.ctx, v.docs, v.userID, v.chatID
	return func() tea.Msg {
		doc, err := docs.Latest(ctx, userID, chatID)
		if err != nil {
			return messages.DocumentLoaded{Err: err}
		}
		versions, err := docs.Versions(ctx, userID, doc.ID)
		return messages.DocumentLoaded{Versions: versions, Err: err}
	}
}

// Update handles messages for the document view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.DocumentLoaded:
		v.offset = 0
		v.err = nil
		if msg.Err != nil {
			v.versions = nil
			if !errors.Is(msg.Err, domain.ErrNotFound) {
				v.err = msg.Err
			}
			return v, nil
		}
		v.versions = msg.Versions
		v.shown = len(v.versions) - 1
		return v, nil

	case messages.DocumentReverted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = fmt.Sprintf("Reverted to version %d, removed %d newer version(s).", msg.Version, msg.Removed)
		return v, v.Load()
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back), keymap.Matches(k, v.keymap.Quit) && k != "ctrl+c":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewTodos} }
	case keymap.Matches(k, v.keymap.Up):
		if v.offset > 0 {
			v.offset--
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.offset < v.maxOffset() {
			v.offset++
		}
	case keymap.Matches(k, v.keymap.PrevVersion):
		if v.shown > 0 {
			v.shown--
			v.offset = 0
			v.notice = ""
		}
	case keymap.Matches(k, v.keymap.NextVersion):
		if v.shown < len(v.versions)-1 {
			v.shown++
			v.offset = 0
			v.notice = ""
		}
	case keymap.Matches(k, v.keymap.Revert):
		return v, v.revert()
	}
	return v, nil
}

func (v *View) revert() tea.Cmd {
	doc := v.Shown()
	if doc == nil {
		return nil
	}
	if v.shown == len(v.versions)-1 {
		v.notice = "Already at the latest version."
		return nil
	}

	ctx, docs, userID := v.ctx, v.docs, v.userID
	id, ts, version := doc.ID, doc.CreatedAt, doc.Version
	return func() tea.Msg {
		n, err := docs.Revert(ctx, userID, id, ts)
		return messages.DocumentReverted{Version: version, Removed: n, Err: err}
	}
}

func (v *View) lines() []string {
	doc := v.Shown()
	if doc == nil {
		return nil
	}
	body := lipgloss.NewStyle().Width(max(v.width-2, 20)).Render(doc.Content)
	return strings.Split(body, "\n")
}

func (v *View) bodyHeight() int {
	return max(v.height-6, 3)
}

func (v *View) maxOffset() int {
	return max(len(v.lines())-v.bodyHeight(), 0)
}

// View renders the document.
func (v *View) View() string {
	var b strings.Builder

	doc := v.Shown()
	title := "Document"
	if doc != nil {
		title = doc.Title
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")

	switch {
	case v.err != nil:
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		return b.String()
	case doc == nil:
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("No document for this chat yet."))
		return b.String()
	}

	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("version %d of %d  %s",
		doc.Version, len(v.versions), doc.CreatedAt.Local().Format(timeLayout))))
	b.WriteString("\n\n")

	lines := v.lines()
	end := min(v.offset+v.bodyHeight(), len(lines))
	b.WriteString(strings.Join(lines[v.offset:end], "\n"))

	if v.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Warning.Render(v.notice))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.offset = min(v.offset, v.maxOffset())
}

// Shown returns the version currently displayed, or nil.
func (v *View) Shown() *domain.Document {
	if v.shown < 0 || v.shown >= len(v.versions) {
		return nil
	}
	return &v.versions[v.shown]
}

// VersionCount returns the number of versions loaded.
func (v *View) VersionCount() int {
	return len(v.versions)
}

// Offset returns the scroll offset.
func (v *View) Offset() int {
	return v.offset
}

// Notice returns the last notice.
func (v *View) Notice() string {
	return v.notice
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
