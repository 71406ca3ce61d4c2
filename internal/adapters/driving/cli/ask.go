package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Ask the coach for a seven-habit plan",
	Long: `Sends the question with the chat history to the configured language model
and stores the reply as an assistant message that can be upvoted.

Configure a model first:
  habitplan settings set llm.provider ollama`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var (
	askChat   string
	askRender bool
)

func init() {
	askCmd.Flags().StringVarP(&askChat, "chat", "c", "", "Chat id (new chat when empty)")
	askCmd.Flags().BoolVarP(&askRender, "render", "r", false, "Render the reply as markdown")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if coachService == nil || !coachService.Available() {
		return errors.New("no language model configured; run 'habitplan settings set llm.provider <provider>'")
	}

	reply, err := coachService.Ask(commandContext(cmd), currentUser(), askChat, strings.Join(args, " "))
	if err != nil {
		return describeErr("ask failed", err)
	}

	if askRender {
		cmd.Println(renderMarkdown(reply.Content, "dark", terminalWidth()))
	} else {
		cmd.Println(reply.Content)
	}
	cmd.Println()
	cmd.Printf("Chat %s, message %s. Upvote it with:\n", reply.ChatID, reply.ID)
	cmd.Printf("  habitplan upvote %s %s\n", reply.ChatID, reply.ID)
	return nil
}
