package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Manage chat messages",
}

var messageAddCmd = &cobra.Command{
	Use:   "add [content...]",
	Short: "Add a message to a chat",
	Long: `Adds a message to a chat, creating the chat when --chat is empty or unknown.
Without content arguments the message is read from stdin.

Assistant messages can then be upvoted:
  habitplan message add --chat c1 < reply.md
  habitplan upvote c1 <message-id>`,
	RunE: runMessageAdd,
}

var messageListCmd = &cobra.Command{
	Use:   "list [chat-id]",
	Short: "List the messages of a chat",
	Args:  cobra.ExactArgs(1),
	RunE:  runMessageList,
}

var (
	messageChat string
	messageRole string
	messageFull bool
)

func init() {
	messageAddCmd.Flags().StringVarP(&messageChat, "chat", "c", "", "Chat id (new chat when empty)")
	messageAddCmd.Flags().StringVar(&messageRole, "role", domain.RoleAssistant, "Message role (user or assistant)")
	messageListCmd.Flags().BoolVar(&messageFull, "full", false, "Print full message content")

	messageCmd.AddCommand(messageAddCmd)
	messageCmd.AddCommand(messageListCmd)
	rootCmd.AddCommand(messageCmd)
}

func runMessageAdd(cmd *cobra.Command, args []string) error {
	if messageService == nil {
		return errors.New("message service not configured")
	}

	content := strings.Join(args, " ")
	if content == "" {
		var err error
		if content, err = readInput(cmd, "-"); err != nil {
			return err
		}
	}

	msg, err := messageService.Add(commandContext(cmd), currentUser(), messageChat, messageRole, content)
	if err != nil {
		return describeErr("failed to add message", err)
	}

	cmd.Printf("Added %s message %s to chat %s\n", msg.Role, msg.ID, msg.ChatID)
	return nil
}

func runMessageList(cmd *cobra.Command, args []string) error {
	if messageService == nil {
		return errors.New("message service not configured")
	}

	msgs, err := messageService.List(commandContext(cmd), currentUser(), args[0])
	if err != nil {
		return describeErr("failed to list messages", err)
	}
	if len(msgs) == 0 {
		cmd.Printf("No messages in chat %s\n", args[0])
		return nil
	}

	for i := range msgs {
		m := &msgs[i]
		cmd.Printf("%s  %-9s %s\n", m.ID, m.Role, m.CreatedAt.Local().Format("2006-01-02 15:04"))
		if messageFull {
			cmd.Println(m.Content)
		} else {
			cmd.Printf("  %s\n", preview(m.Content, 72))
		}
		cmd.Println()
	}
	return nil
}

// preview returns the first line of s, cut to limit runes.
func preview(s string, limit int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " …"
	}
	r := []rune(s)
	if len(r) > limit {
		return string(r[:limit]) + "…"
	}
	return s
}
