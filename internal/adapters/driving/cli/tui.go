package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [chat-id]",
	Short: "Open the interactive todo checklist",
	Long: `Open the todo list of a chat as an interactive checklist.

Controls:
  ↑/k, ↓/j - Navigate items
  x        - Complete the selected item
  e        - Edit the selected item (enter saves, esc cancels)
  d        - Show the document and its versions
  ←/h, →/l - Browse versions in the document view
  R        - Revert to the version shown
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// newTUIApp builds the checklist app from the configured services.
func newTUIApp(cmd *cobra.Command, chatID string) (*tui.App, error) {
	if todoService == nil {
		return nil, errors.New("todo service not configured")
	}
	app, err := tui.NewApp(&tui.Ports{
		Todo:     todoService,
		Document: documentService,
	}, currentUser(), chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	return app.WithContext(commandContext(cmd)), nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := newTUIApp(cmd, args[0])
	if err != nil {
		return err
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
