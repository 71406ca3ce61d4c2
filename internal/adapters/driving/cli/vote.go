package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

var upvoteCmd = &cobra.Command{
	Use:   "upvote [chat-id] [message-id]",
	Short: "Upvote an assistant reply and add its plan to the todo list",
	Long: `Records an upvote on an assistant message, extracts the action plan of
every habit section and appends the plans that are not in the chat's todo
document yet. A reply without a recognisable plan appends the fallback entry.`,
	Args: cobra.ExactArgs(2),
	RunE: runUpvote,
}

var voteCmd = &cobra.Command{
	Use:   "vote [chat-id] [message-id]",
	Short: "Vote on a message",
	Args:  cobra.ExactArgs(2),
	RunE:  runVote,
}

var votesCmd = &cobra.Command{
	Use:   "votes [chat-id]",
	Short: "List the votes of a chat",
	Args:  cobra.ExactArgs(1),
	RunE:  runVotes,
}

var voteType string

func init() {
	voteCmd.Flags().StringVarP(&voteType, "type", "t", string(domain.VoteUp), "Vote type (up or down)")
	rootCmd.AddCommand(upvoteCmd)
	rootCmd.AddCommand(voteCmd)
	rootCmd.AddCommand(votesCmd)
}

func runUpvote(cmd *cobra.Command, args []string) error {
	if voteService == nil {
		return errors.New("vote service not configured")
	}

	result, err := voteService.Upvote(commandContext(cmd), currentUser(), args[0], args[1])
	if err != nil {
		return describeErr("upvote failed", err)
	}
	printUpvote(cmd, result)
	return nil
}

func runVote(cmd *cobra.Command, args []string) error {
	if voteService == nil {
		return errors.New("vote service not configured")
	}

	vt := domain.VoteType(voteType)
	if !vt.Valid() {
		return fmt.Errorf("invalid vote type %q: use up or down", voteType)
	}

	result, err := voteService.Vote(commandContext(cmd), currentUser(), args[0], args[1], vt)
	if err != nil {
		return describeErr("vote failed", err)
	}
	if vt == domain.VoteDown {
		cmd.Printf("Downvoted message %s\n", result.Vote.MessageID)
		return nil
	}
	printUpvote(cmd, result)
	return nil
}

func printUpvote(cmd *cobra.Command, result *domain.UpvoteResult) {
	cmd.Printf("Upvoted message %s\n", result.Vote.MessageID)

	if result.DocumentErr != nil {
		cmd.Printf("Warning: todo list not updated: %v\n", result.DocumentErr)
		return
	}

	m := result.Merge
	switch {
	case m.Fallback:
		cmd.Println("No plan found in the reply; added the fallback entry.")
	case m.AppendedCount > 0:
		cmd.Printf("Added %d plan(s)", m.AppendedCount)
		if m.Skipped > 0 {
			cmd.Printf(", skipped %d already on the list", m.Skipped)
		}
		cmd.Println(".")
	case m.Skipped > 0:
		cmd.Printf("All %d plan(s) are already on the list.\n", m.Skipped)
	}

	if result.Document != nil {
		cmd.Printf("Document %s is at version %d\n", result.Document.ID, result.Document.Version)
	}
}

func runVotes(cmd *cobra.Command, args []string) error {
	if voteService == nil {
		return errors.New("vote service not configured")
	}

	votes, err := voteService.List(commandContext(cmd), currentUser(), args[0])
	if err != nil {
		return describeErr("failed to list votes", err)
	}
	if len(votes) == 0 {
		cmd.Printf("No votes in chat %s\n", args[0])
		return nil
	}

	for _, v := range votes {
		mark := "-"
		if v.IsUpvoted {
			mark = "+"
		}
		cmd.Printf("  %s %s\n", mark, v.MessageID)
	}
	cmd.Printf("\nTotal: %d votes\n", len(votes))
	return nil
}
