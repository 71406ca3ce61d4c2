package inbox

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/habitplan/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
	"github.com/custodia-labs/habitplan/internal/core/services"
)

const (
	testUser = "alice"
	reply    = "### 1. 积极主动：\n1. 写下三个目标\n2. 每周复盘一次\n- **洞察：** 责任在我\n" +
		"### 2. 以终为始：\n- 写使命宣言"
)

type fixture struct {
	messages driving.MessageService
	votes    driving.VoteService
	todos    driving.TodoService
}

func newFixture() *fixture {
	docs := memory.NewDocumentStore()
	chats := memory.NewChatStore()
	settings := domain.DefaultSettings().Document
	messages := services.NewMessageService(memory.NewMessageStore(), chats)
	return &fixture{
		messages: messages,
		votes:    services.NewVoteService(memory.NewVoteStore(), chats, messages, docs, settings),
		todos:    services.NewTodoService(docs, settings),
	}
}

func (f *fixture) watcher(t *testing.T, cfg Config) *Watcher {
	t.Helper()
	if cfg.UserID == "" {
		cfg.UserID = testUser
	}
	if cfg.Rate == 0 {
		cfg.Rate = 1000
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = 10 * time.Millisecond
	}
	w, err := New(cfg, f.messages, f.votes)
	require.NoError(t, err)
	return w
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew_Validation(t *testing.T) {
	f := newFixture()

	_, err := New(Config{}, f.messages, f.votes)
	assert.ErrorIs(t, err, ErrNoDir)

	_, err = New(Config{Dir: t.TempDir()}, nil, f.votes)
	assert.ErrorIs(t, err, ErrMissingService)

	w, err := New(Config{Dir: t.TempDir()}, f.messages, f.votes)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultInboxRate, w.cfg.Rate)
	assert.Equal(t, domain.DefaultUserID, w.cfg.UserID)
	assert.Equal(t, DefaultDebounce, w.cfg.Debounce)
}

func TestIngest_AddsAndUpvotes(t *testing.T) {
	f := newFixture()
	dir := t.TempDir()
	w := f.watcher(t, Config{Dir: dir})
	path := writeFile(t, dir, "reply.md", reply)

	res, err := w.Ingest(context.Background(), path)

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, domain.RoleAssistant, res.Message.Role)
	assert.Equal(t, 2, res.Upvote.Merge.AppendedCount)

	items, err := f.todos.List(context.Background(), testUser, res.Message.ChatID)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestIngest_SkipsUnchangedAndEmpty(t *testing.T) {
	f := newFixture()
	dir := t.TempDir()
	w := f.watcher(t, Config{Dir: dir})
	ctx := context.Background()

	empty := writeFile(t, dir, "empty.md", "  \n")
	res, err := w.Ingest(ctx, empty)
	require.NoError(t, err)
	assert.Nil(t, res)

	path := writeFile(t, dir, "reply.md", reply)
	first, err := w.Ingest(ctx, path)
	require.NoError(t, err)
	require.NotNil(t, first)

	again, err := w.Ingest(ctx, path)
	require.NoError(t, err)
	assert.Nil(t, again, "same content is ingested once")
}

func TestIngest_FixedChat(t *testing.T) {
	f := newFixture()
	dir := t.TempDir()
	ctx := context.Background()
	msg, err := f.messages.Add(ctx, testUser, "", domain.RoleUser, "我想更高效")
	require.NoError(t, err)
	w := f.watcher(t, Config{Dir: dir, ChatID: msg.ChatID})

	a, err := w.Ingest(ctx, writeFile(t, dir, "a.md", reply))
	require.NoError(t, err)
	b, err := w.Ingest(ctx, writeFile(t, dir, "b.txt", "### 3. 要事第一：\n- 列出本周三件要事"))
	require.NoError(t, err)

	assert.Equal(t, msg.ChatID, a.Message.ChatID)
	assert.Equal(t, msg.ChatID, b.Message.ChatID)
	assert.Equal(t, 1, b.Upvote.Merge.AppendedCount)

	items, err := f.todos.List(ctx, testUser, msg.ChatID)
	require.NoError(t, err)
	assert.Len(t, items, 4)
}

func TestIngest_MissingFile(t *testing.T) {
	f := newFixture()
	w := f.watcher(t, Config{Dir: t.TempDir()})

	_, err := w.Ingest(context.Background(), filepath.Join(t.TempDir(), "gone.md"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScan(t *testing.T) {
	f := newFixture()
	dir := t.TempDir()
	writeFile(t, dir, "b.md", reply)
	writeFile(t, dir, "a.txt", "### 2. 以终为始：\n- 写使命宣言")
	writeFile(t, dir, ".hidden.md", reply)
	writeFile(t, dir, "notes.json", "{}")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0o755))

	var ingested []string
	w := f.watcher(t, Config{Dir: dir})
	w.OnIngest = func(r Result) { ingested = append(ingested, filepath.Base(r.Path)) }

	results, err := w.Scan(context.Background())

	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, []string{"a.txt", "b.md"}, ingested)
}

func TestScan_MissingDir(t *testing.T) {
	f := newFixture()
	w := f.watcher(t, Config{Dir: filepath.Join(t.TempDir(), "missing")})

	_, err := w.Scan(context.Background())

	assert.Error(t, err)
}

func TestHandleFsEvent(t *testing.T) {
	f := newFixture()
	dir := t.TempDir()
	w := f.watcher(t, Config{Dir: dir})
	file := writeFile(t, dir, "reply.md", reply)
	hidden := writeFile(t, dir, ".reply.md", reply)
	other := writeFile(t, dir, "image.png", "png")
	sub := filepath.Join(dir, "folder.md")
	require.NoError(t, os.Mkdir(sub, 0o755))

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"create", file, fsnotify.Create, true},
		{"write", file, fsnotify.Write, true},
		{"write and chmod", file, fsnotify.Write | fsnotify.Chmod, true},
		{"chmod only", file, fsnotify.Chmod, false},
		{"remove", file, fsnotify.Remove, false},
		{"hidden", hidden, fsnotify.Create, false},
		{"unsupported extension", other, fsnotify.Create, false},
		{"directory", sub, fsnotify.Create, false},
		{"vanished", filepath.Join(dir, "gone.md"), fsnotify.Create, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := w.handleFsEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.path, path)
			}
		})
	}
}

func TestIsReply(t *testing.T) {
	assert.True(t, isReply("/in/reply.md"))
	assert.True(t, isReply("REPLY.TXT"))
	assert.True(t, isReply("a.markdown"))
	assert.False(t, isReply("/in/.reply.md"))
	assert.False(t, isReply("reply.pdf"))
	assert.False(t, isReply("reply"))
}

func TestRun_IngestsNewFiles(t *testing.T) {
	f := newFixture()
	dir := t.TempDir()

	var mu sync.Mutex
	var results []Result
	w := f.watcher(t, Config{Dir: dir})
	w.OnIngest = func(r Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// The watch is registered asynchronously; move the file in until it is seen.
	require.Eventually(t, func() bool {
		tmp := filepath.Join(dir, ".reply.md")
		if os.WriteFile(tmp, []byte(reply), 0o600) == nil {
			_ = os.Rename(tmp, filepath.Join(dir, "reply.md"))
		}
		mu.Lock()
		defer mu.Unlock()
		return len(results) > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 1, "rewriting the same content is not ingested twice")
	assert.Equal(t, 2, results[0].Upvote.Merge.AppendedCount)
}

func TestRun_WaitsForWritesToSettle(t *testing.T) {
	f := newFixture()
	dir := t.TempDir()
	const quiet = 300 * time.Millisecond

	var mu sync.Mutex
	var results []Result
	w := f.watcher(t, Config{Dir: dir, Debounce: quiet})
	w.OnIngest = func(r Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(results)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// Wait for the watch with a marker file, ticking slower than the quiet period.
	require.Eventually(t, func() bool {
		tmp := filepath.Join(dir, ".ready.md")
		if os.WriteFile(tmp, []byte("### 积极主动\n- 准备"), 0o600) == nil {
			_ = os.Rename(tmp, filepath.Join(dir, "ready.md"))
		}
		return count() > 0
	}, 5*time.Second, quiet+100*time.Millisecond)

	path := filepath.Join(dir, "reply.md")
	half := len(reply) / 2
	require.NoError(t, os.WriteFile(path, []byte(reply[:half]), 0o600))
	time.Sleep(quiet / 3)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = file.WriteString(reply[half:])
	require.NoError(t, err)
	require.NoError(t, file.Close())

	require.Eventually(t, func() bool { return count() >= 2 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(2 * quiet)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 2, "a file written in two steps is ingested once")
	assert.Equal(t, path, results[1].Path)
	assert.Equal(t, reply, results[1].Message.Content)
	assert.Equal(t, 2, results[1].Upvote.Merge.AppendedCount)
}

func TestDebouncer_CoalescesPerPath(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := newDebouncer(ctx, 50*time.Millisecond)
	defer d.stop()

	d.touch("a")
	time.Sleep(20 * time.Millisecond)
	d.touch("a")
	d.touch("b")
	d.touch("a")

	var got []string
	timeout := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case path := <-d.ready:
			got = append(got, path)
		case <-timeout:
			t.Fatalf("only got %v", got)
		}
	}
	assert.ElementsMatch(t, []string{"a", "b"}, got)

	select {
	case path := <-d.ready:
		t.Fatalf("unexpected second delivery of %s", path)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := newDebouncer(ctx, 20*time.Millisecond)

	d.touch("a")
	d.stop()

	select {
	case path := <-d.ready:
		t.Fatalf("unexpected delivery of %s", path)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRun_MissingDir(t *testing.T) {
	f := newFixture()
	w := f.watcher(t, Config{Dir: filepath.Join(t.TempDir(), "missing")})

	err := w.Run(context.Background())

	assert.Error(t, err)
}
