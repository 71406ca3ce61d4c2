package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/views/document"
	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/views/todos"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	chatID string

	todosView    *todos.View
	documentView *document.View
	statusBar    *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

var errNoDocumentView = errors.New("document view is not available")

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the checklist app for one chat.
func NewApp(ports *Ports, userID, chatID string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if chatID == "" {
		return nil, ErrMissingChat
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		help:         help.New(),
		chatID:       chatID,
		todosView:    todos.NewView(s, ports.Todo, userID, chatID),
		documentView: document.NewView(s, ports.Document, userID, chatID),
		statusBar:    status.NewBar(s, km),
		currentView:  messages.ViewTodos,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.todosView.SetContext(ctx)
	a.documentView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.statusBar.SetState(status.StateLoading)
	return tea.Batch(
		tea.SetWindowTitle("habitplan - "+a.chatID),
		a.todosView.Load(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	a.syncStatus()
	return a, cmd
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}
		switch a.currentView {
		case messages.ViewTodos:
			a.todosView, cmd = a.todosView.Update(msg)
		case messages.ViewDocument:
			a.documentView, cmd = a.documentView.Update(msg)
		case messages.ViewHelp:
			k := msg.String()
			if keymap.Matches(k, a.keymap.Back) || keymap.Matches(k, a.keymap.Help) ||
				keymap.Matches(k, a.keymap.Quit) {
				a.currentView = messages.ViewTodos
			}
		}
		return cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewDocument:
			if a.ports.Document == nil {
				a.currentView = messages.ViewTodos
				a.err = errNoDocumentView
				return nil
			}
			return a.documentView.Load()
		case messages.ViewTodos:
			return a.todosView.Load()
		case messages.ViewHelp:
		}
		return nil

	case messages.TodosLoaded, messages.TodoCompleted, messages.TodoEdited:
		a.err = nil
		a.todosView, cmd = a.todosView.Update(msg)
		return cmd

	case messages.DocumentLoaded, messages.DocumentReverted:
		a.documentView, cmd = a.documentView.Update(msg)
		return cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return nil

	case messages.Quit:
		return tea.Quit
	}

	// Cursor blinks and other component messages go to the active input.
	if a.currentView == messages.ViewTodos {
		a.todosView, cmd = a.todosView.Update(msg)
	}
	return cmd
}

// syncStatus mirrors the active view's state into the status bar.
func (a *App) syncStatus() {
	a.statusBar.SetCount(len(a.todosView.Items()))

	switch {
	case a.err != nil:
		a.statusBar.SetMessage(status.StateError, a.err.Error())
	case a.currentView == messages.ViewDocument:
		a.statusBar.SetMessage(status.StateDocument, a.documentView.Notice())
	case a.currentView == messages.ViewHelp:
		a.statusBar.SetState(status.StateReady)
	case a.todosView.Editing():
		a.statusBar.SetState(status.StateEditing)
	case a.todosView.Err() != nil:
		a.statusBar.SetMessage(status.StateError, a.todosView.Err().Error())
	case a.todosView.Notice() != "":
		a.statusBar.SetMessage(status.StateNotice, a.todosView.Notice())
	case a.todosView.Loading():
		a.statusBar.SetState(status.StateLoading)
	default:
		a.statusBar.SetMessage(status.StateReady, a.todosView.Message())
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewDocument:
		body = a.documentView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.todosView.View()
	}

	// Pin the status bar to the last line.
	gap := a.height - strings.Count(body, "\n") - 2
	if gap < 1 {
		gap = 1
	}
	return body + strings.Repeat("\n", gap) + a.statusBar.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to the list"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	styles.ApplyColorProfile()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// StatusBar returns the status bar.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.todosView.SetDimensions(width, height-1)
	a.documentView.SetDimensions(width, height-1)
	a.statusBar.SetWidth(width)
}
