package cli

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/habitplan/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Work with the todo list of a chat",
	Long: `List, complete or edit the items of a chat's todo document.

Item ids are derived from the habit, the position of the item within its
habit section and its text, so they change when the list changes. List the
items again after completing or editing one.`,
}

var todoListCmd = &cobra.Command{
	Use:   "list [chat-id]",
	Short: "List todo items",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoList,
}

var todoCompleteCmd = &cobra.Command{
	Use:   "complete [chat-id] [todo-id]",
	Short: "Complete a todo item",
	Long:  `Removes the item and its continuation lines from the document and saves a new version.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runTodoComplete,
}

var todoEditCmd = &cobra.Command{
	Use:   "edit [chat-id] [todo-id] [new text]",
	Short: "Edit the text of a todo item",
	Long: `Rewrites the text of one item, keeping its indentation and list marker.

The new text replaces the action line only (lineText in --json output).
Continuation lines below it stay as they are.

When the id went stale, --original locates the item by its text instead.`,
	Args: cobra.MinimumNArgs(3),
	RunE: runTodoEdit,
}

var (
	todoJSON     bool
	todoPlain    bool
	todoOriginal string
)

func init() {
	todoListCmd.Flags().BoolVar(&todoJSON, "json", false, "Print items as JSON")
	todoListCmd.Flags().BoolVar(&todoPlain, "plain", false, "Disable styling even on a terminal")
	todoEditCmd.Flags().StringVar(&todoOriginal, "original", "", "Item line text used when the id is not found")

	todoCmd.AddCommand(todoListCmd)
	todoCmd.AddCommand(todoCompleteCmd)
	todoCmd.AddCommand(todoEditCmd)
	rootCmd.AddCommand(todoCmd)
}

func runTodoList(cmd *cobra.Command, args []string) error {
	if todoService == nil {
		return errors.New("todo service not configured")
	}

	items, err := todoService.List(commandContext(cmd), currentUser(), args[0])
	if err != nil {
		return describeErr("failed to list todos", err)
	}

	out := cmd.OutOrStdout()
	if todoJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if items == nil {
			items = []domain.TodoItem{}
		}
		return enc.Encode(items)
	}

	if len(items) == 0 {
		cmd.Printf("No todos in chat %s\n", args[0])
		return nil
	}

	if !todoPlain && isTerminal(out) {
		writeStyledTodos(out, items, styles.DefaultStyles())
	} else {
		writePlainTodos(out, items)
	}
	return nil
}

// writePlainTodos prints items grouped by habit, one id line and one text line each.
func writePlainTodos(w io.Writer, items []domain.TodoItem) {
	tag := "\x00"
	for _, item := range items {
		if item.Tag != tag {
			tag = item.Tag
			if tag != "" {
				_, _ = io.WriteString(w, "\n"+tag+"\n")
			}
		}
		_, _ = io.WriteString(w, "  [ ] "+item.Text+"\n")
		_, _ = io.WriteString(w, "      "+item.ID+"\n")
	}
}

func writeStyledTodos(w io.Writer, items []domain.TodoItem, st *styles.Styles) {
	var b strings.Builder
	tag := "\x00"
	for _, item := range items {
		if item.Tag != tag {
			tag = item.Tag
			if tag != "" {
				b.WriteString("\n" + st.Habit.Render(tag) + "\n")
			}
		}
		b.WriteString("  " + st.Muted.Render("○") + " " + st.Item.Render(item.Text) + "\n")
		b.WriteString("    " + st.Muted.Render(item.ID) + "\n")
	}
	_, _ = io.WriteString(w, b.String())
}

func runTodoComplete(cmd *cobra.Command, args []string) error {
	if todoService == nil {
		return errors.New("todo service not configured")
	}

	doc, err := todoService.Complete(commandContext(cmd), currentUser(), args[0], args[1])
	if err != nil {
		return describeErr("failed to complete todo", err)
	}

	cmd.Printf("Completed %s\n", args[1])
	cmd.Printf("Document %s is at version %d\n", doc.ID, doc.Version)
	return nil
}

func runTodoEdit(cmd *cobra.Command, args []string) error {
	if todoService == nil {
		return errors.New("todo service not configured")
	}

	edit := driving.TodoEdit{
		ID:           args[1],
		OriginalText: todoOriginal,
		NewText:      strings.Join(args[2:], " "),
	}
	doc, err := todoService.Edit(commandContext(cmd), currentUser(), args[0], edit)
	if err != nil {
		return describeErr("failed to edit todo", err)
	}

	cmd.Printf("Updated %s\n", args[1])
	cmd.Printf("Document %s is at version %d\n", doc.ID, doc.Version)
	return nil
}
