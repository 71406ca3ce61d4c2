package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/habitplan/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/habitplan/internal/adapters/driving/inbox"
	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
	"github.com/custodia-labs/habitplan/internal/core/services"
)

const testUser = "alice"

const reply = "### 1. 积极主动：\n1. 写下三个目标\n2. 每周复盘一次\n- **思路链：** 先明确责任\n" +
	"### 2. 以终为始：\n- 写使命宣言"

// testEnv holds the services wired into the package for one test.
type testEnv struct {
	messages driving.MessageService
	settings driving.SettingsService
}

// setupTestServices wires real services over in-memory stores into the
// command package and resets every flag.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	docs := memory.NewDocumentStore()
	chats := memory.NewChatStore()
	settings := domain.DefaultSettings().Document
	messages := services.NewMessageService(memory.NewMessageStore(), chats)
	settingsSvc := services.NewSettingsService(memory.NewConfigStore())

	resetFlags()
	setServices(&Services{
		Vote:     services.NewVoteService(memory.NewVoteStore(), chats, messages, docs, settings),
		Todo:     services.NewTodoService(docs, settings),
		Plan:     services.NewPlanService(settings),
		Document: services.NewDocumentService(docs, settings),
		Message:  messages,
		Settings: settingsSvc,
	})
	userFlag = testUser

	t.Cleanup(func() {
		setServices(&Services{})
		resetFlags()
		bootstrap = nil
	})
	return &testEnv{messages: messages, settings: settingsSvc}
}

func resetFlags() {
	verbose = false
	configDir, dataDir, userFlag = "", "", ""
	voteType = string(domain.VoteUp)
	todoJSON, todoPlain, todoOriginal = false, false, ""
	documentRender, documentStyle, documentVersion, documentTitle = false, "dark", 0, ""
	messageChat, messageRole, messageFull = "", domain.RoleAssistant, false
	extractExisting = ""
	askChat, askRender = "", false
	serveAddr = ""
	watchDir, watchChat, watchExisting = "", "", false
	watchDebounce = inbox.DefaultDebounce
	versionShort = false
}

// execute runs the root command with args and returns everything written
// to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// seedChat adds the assistant reply and upvotes it, returning the chat id.
func (e *testEnv) seedChat(t *testing.T) (chatID, messageID string) {
	t.Helper()

	msg, err := e.messages.Add(context.Background(), testUser, "", domain.RoleAssistant, reply)
	require.NoError(t, err)
	_, err = execute(t, "", "upvote", msg.ChatID, msg.ID)
	require.NoError(t, err)
	return msg.ChatID, msg.ID
}
