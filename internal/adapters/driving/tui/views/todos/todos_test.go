package todos

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/habitplan/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
	"github.com/custodia-labs/habitplan/internal/core/services"
)

const (
	testUser = "alice"
	testChat = "chat-1"
	content  = "### 积极主动\n1. 写下三个目标\n2. 每周复盘一次\n\n### 以终为始\n- 写使命宣言\n"
)

// failingTodoService returns err from every call.
type failingTodoService struct {
	err error
}

func (f *failingTodoService) List(context.Context, string, string) ([]domain.TodoItem, error) {
	return nil, f.err
}

func (f *failingTodoService) Complete(context.Context, string, string, string) (*domain.Document, error) {
	return nil, f.err
}

func (f *failingTodoService) Edit(context.Context, string, string, driving.TodoEdit) (*domain.Document, error) {
	return nil, f.err
}

func newLoadedView(t *testing.T) (*View, driving.TodoService) {
	t.Helper()
	v, svc := newViewWithContent(t, content)
	require.Len(t, v.Items(), 3)
	return v, svc
}

func newViewWithContent(t *testing.T, content string) (*View, driving.TodoService) {
	t.Helper()

	docs := memory.NewDocumentStore()
	settings := domain.DefaultSettings().Document
	_, err := services.NewDocumentService(docs, settings).Save(context.Background(), testUser,
		driving.SaveDocumentRequest{ChatID: testChat, Content: content})
	require.NoError(t, err)

	svc := services.NewTodoService(docs, settings)
	v := NewView(nil, svc, testUser, testChat)
	run(t, v, v.Load())
	return v, svc
}

// run executes cmd and feeds its message back into the view, following
// reload commands until the view settles.
func run(t *testing.T, v *View, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 5; i++ {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = v.Update(msg)
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, testUser, testChat)

	require.NotNil(t, v)
	assert.False(t, v.Editing())
	assert.Empty(t, v.Items())
}

func TestView_Load(t *testing.T) {
	v, _ := newLoadedView(t)

	assert.False(t, v.Loading())
	assert.Equal(t, "积极主动-0-写下三个目标", v.Selected().ID)
	assert.Equal(t, "以终为始", v.Items()[2].Tag)
}

func TestView_LoadError(t *testing.T) {
	v := NewView(nil, &failingTodoService{err: errors.New("disk gone")}, testUser, testChat)

	run(t, v, v.Load())

	require.Error(t, v.Err())
	assert.Contains(t, v.View(), "disk gone")
}

func TestView_CompleteSelected(t *testing.T) {
	v, _ := newLoadedView(t)

	v.Update(key("j"))
	_, cmd := v.Update(key("x"))
	require.NotNil(t, cmd)
	run(t, v, cmd)

	assert.Equal(t, "Completed: 每周复盘一次", v.Message())
	require.Len(t, v.Items(), 2)
	assert.Equal(t, "写下三个目标", v.Items()[0].Text)
	assert.Equal(t, "写使命宣言", v.Items()[1].Text)
}

func TestView_CompleteStaleID(t *testing.T) {
	v, svc := newLoadedView(t)

	// Another client completes the first item behind the view's back.
	_, err := svc.Complete(context.Background(), testUser, testChat, "积极主动-0-写下三个目标")
	require.NoError(t, err)

	_, cmd := v.Update(key(" "))
	run(t, v, cmd)

	assert.Equal(t, staleNotice, v.Notice())
	assert.NoError(t, v.Err())
	assert.Len(t, v.Items(), 2, "reloads after a stale id")
}

func TestView_CompleteOnEmptyList(t *testing.T) {
	v := NewView(nil, &failingTodoService{}, testUser, testChat)

	_, cmd := v.Update(key("x"))

	assert.Nil(t, cmd)
}

func TestView_Edit(t *testing.T) {
	v, _ := newLoadedView(t)

	_, cmd := v.Update(key("e"))
	assert.NotNil(t, cmd)
	require.True(t, v.Editing())
	assert.Contains(t, v.View(), "Edit:")

	v.Update(key("，每天"))
	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, v.Editing())
	run(t, v, cmd)

	assert.Equal(t, "Updated: 写下三个目标，每天", v.Message())
	assert.Equal(t, "写下三个目标，每天", v.Items()[0].Text)
}

func TestView_EditMultiLineItem(t *testing.T) {
	v, _ := newViewWithContent(t, "### A\n- line one\n  line two")
	require.Len(t, v.Items(), 1)
	require.Equal(t, "line one line two", v.Items()[0].Text)

	v.Update(key("e"))
	require.True(t, v.Editing())
	assert.Equal(t, "line one", v.input.Value(), "only the action line is offered for editing")

	v.Update(key("!"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(t, v, cmd)

	assert.Equal(t, "Updated: line one!", v.Message())
	require.Len(t, v.Items(), 1)
	assert.Equal(t, "line one! line two", v.Items()[0].Text)
}

func TestView_EditKeysGoToInput(t *testing.T) {
	v, _ := newLoadedView(t)
	v.Update(key("e"))

	_, cmd := v.Update(key("q"))

	assert.True(t, v.Editing(), "q types into the input while editing")
	if cmd != nil {
		_, isQuit := cmd().(messages.Quit)
		assert.False(t, isQuit)
	}
}

func TestView_EditCancel(t *testing.T) {
	v, _ := newLoadedView(t)
	v.Update(key("e"))

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.False(t, v.Editing())
	assert.Equal(t, "写下三个目标", v.Items()[0].Text)
}

func TestView_EditUnchangedIsNoop(t *testing.T) {
	v, _ := newLoadedView(t)
	v.Update(key("e"))

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, v.Editing())
}

func TestView_EditEmptyText(t *testing.T) {
	v, _ := newLoadedView(t)
	v.Update(key("e"))
	v.input.Start("   ")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.NotEmpty(t, v.Notice())
}

func TestView_NavigationKeys(t *testing.T) {
	v, _ := newLoadedView(t)

	tests := []struct {
		key  string
		want messages.ViewType
	}{
		{"d", messages.ViewDocument},
		{"?", messages.ViewHelp},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, cmd := v.Update(key(tt.key))
			require.NotNil(t, cmd)
			msg, ok := cmd().(messages.ViewChanged)
			require.True(t, ok)
			assert.Equal(t, tt.want, msg.View)
		})
	}
}

func TestView_Quit(t *testing.T) {
	v, _ := newLoadedView(t)

	_, cmd := v.Update(key("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, messages.Quit{}, cmd())
}

func TestView_Refresh(t *testing.T) {
	v, _ := newLoadedView(t)

	_, cmd := v.Update(key("r"))

	require.NotNil(t, cmd)
	assert.True(t, v.Loading())
	run(t, v, cmd)
	assert.False(t, v.Loading())
}

func TestView_Render(t *testing.T) {
	v, _ := newLoadedView(t)
	v.SetDimensions(80, 24)

	out := v.View()

	assert.Contains(t, out, "Todo list")
	assert.Contains(t, out, testChat)
	assert.Contains(t, out, "积极主动")
	assert.Contains(t, out, "写使命宣言")
}
