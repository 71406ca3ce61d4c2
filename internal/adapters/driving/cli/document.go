package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage todo documents",
	Long:  `Show, save, list versions of, or revert the todo document of a chat.`,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [chat-id]",
	Short: "Print the latest document of a chat",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentVersionsCmd = &cobra.Command{
	Use:   "versions [doc-id]",
	Short: "List the versions of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentVersions,
}

var documentRevertCmd = &cobra.Command{
	Use:   "revert [doc-id] [timestamp]",
	Short: "Delete the versions created after a point in time",
	Long: `Deletes every version created after the given timestamp, which is either
RFC 3339 or unix milliseconds. With --version, the versions after that
version number are deleted instead.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDocumentRevert,
}

var documentSaveCmd = &cobra.Command{
	Use:   "save [chat-id] [file]",
	Short: "Save a file as the next version of a chat's document",
	Long:  `Reads the content from file, or from stdin when file is "-" or omitted.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDocumentSave,
}

var (
	documentRender  bool
	documentStyle   string
	documentVersion int
	documentTitle   string
)

func init() {
	documentShowCmd.Flags().BoolVarP(&documentRender, "render", "r", false, "Render markdown for the terminal")
	documentShowCmd.Flags().StringVar(&documentStyle, "style", "dark", "Render style (dark, light, notty)")
	documentRevertCmd.Flags().IntVar(&documentVersion, "version", 0, "Keep versions up to this number")
	documentSaveCmd.Flags().StringVar(&documentTitle, "title", "", "Document title")

	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentVersionsCmd)
	documentCmd.AddCommand(documentRevertCmd)
	documentCmd.AddCommand(documentSaveCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Latest(commandContext(cmd), currentUser(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Printf("No document for chat %s yet. Upvote a reply to start one.\n", args[0])
			return nil
		}
		return describeErr("failed to get document", err)
	}

	cmd.Printf("%s (version %d, %s)\n\n", doc.Title, doc.Version, doc.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if documentRender {
		cmd.Println(renderMarkdown(doc.Content, documentStyle, terminalWidth()))
		return nil
	}
	cmd.Println(doc.Content)
	return nil
}

func runDocumentVersions(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	versions, err := documentService.Versions(commandContext(cmd), currentUser(), args[0])
	if err != nil {
		return describeErr("failed to list versions", err)
	}

	cmd.Printf("Versions of %s:\n\n", args[0])
	for i := range versions {
		v := &versions[i]
		cmd.Printf("  v%-4d %s  %d bytes\n", v.Version, v.CreatedAt.Format(time.RFC3339Nano), len(v.Content))
	}
	cmd.Printf("\nTotal: %d versions\n", len(versions))
	return nil
}

func runDocumentRevert(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := commandContext(cmd)
	id := args[0]

	var ts time.Time
	switch {
	case documentVersion > 0:
		versions, err := documentService.Versions(ctx, currentUser(), id)
		if err != nil {
			return describeErr("failed to list versions", err)
		}
		found := false
		for i := range versions {
			if versions[i].Version == documentVersion {
				ts, found = versions[i].CreatedAt, true
				break
			}
		}
		if !found {
			return fmt.Errorf("document %s has no version %d", id, documentVersion)
		}
	case len(args) == 2:
		var err error
		if ts, err = parseTimestamp(args[1]); err != nil {
			return fmt.Errorf("invalid timestamp %q: use RFC 3339 or unix milliseconds", args[1])
		}
	default:
		return errors.New("a timestamp or --version is required")
	}

	n, err := documentService.Revert(ctx, currentUser(), id, ts)
	if err != nil {
		return describeErr("failed to revert document", err)
	}
	cmd.Printf("Removed %d version(s) of %s\n", n, id)
	return nil
}

func runDocumentSave(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	path := "-"
	if len(args) == 2 {
		path = args[1]
	}
	content, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	doc, err := documentService.Save(commandContext(cmd), currentUser(), driving.SaveDocumentRequest{
		ChatID:  args[0],
		Title:   documentTitle,
		Content: content,
	})
	if err != nil {
		return describeErr("failed to save document", err)
	}
	cmd.Printf("Saved document %s version %d\n", doc.ID, doc.Version)
	return nil
}

// parseTimestamp accepts RFC 3339 or unix milliseconds.
func parseTimestamp(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w - 4
	}
	return 80
}
