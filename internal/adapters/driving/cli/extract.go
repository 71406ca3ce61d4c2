package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Show the plans found in a coaching reply",
	Long: `Runs the plan extractor over a reply without touching storage. Reads from
stdin when file is "-" or omitted.

With --existing, the plans are merged into that document and the merged
content is printed, as an upvote would.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

var extractExisting string

func init() {
	extractCmd.Flags().StringVar(&extractExisting, "existing", "", "Document file to merge into")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if planService == nil {
		return errors.New("plan service not configured")
	}

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	text, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	if extractExisting != "" {
		existing, err := readInput(cmd, extractExisting)
		if err != nil {
			return err
		}
		result := planService.Merge(text, existing)
		cmd.Println(result.NewContent)
		cmd.PrintErrf("appended %d, skipped %d, fallback %t\n", result.AppendedCount, result.Skipped, result.Fallback)
		return nil
	}

	plans := planService.Extract(text)
	if len(plans) == 0 {
		cmd.Println("No plans found.")
		return nil
	}
	for i, p := range plans {
		if i > 0 {
			cmd.Println()
		}
		cmd.Println(p.String())
	}
	return nil
}
