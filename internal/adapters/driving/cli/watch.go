package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/habitplan/internal/adapters/driving/inbox"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Upvote coaching replies dropped into a directory",
	Long: `Watches inbox.dir (or --dir) for .md, .markdown and .txt files. Each new
or changed file is added to a chat as an assistant message and upvoted, so
its plan lands on the todo list.

Files go to inbox.chat_id (or --chat); without one every file starts a new
chat. Use --existing to ingest files already in the directory first.

A file is read once it has had no writes for --debounce, so replies that are
still being saved are not ingested half-written.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var (
	watchDir      string
	watchChat     string
	watchExisting bool
	watchDebounce time.Duration
)

func init() {
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", "", "Inbox directory (default inbox.dir)")
	watchCmd.Flags().StringVarP(&watchChat, "chat", "c", "", "Chat id for every file (default inbox.chat_id)")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "Ingest files already in the directory")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", inbox.DefaultDebounce, "Quiet period before a written file is read")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if messageService == nil || voteService == nil {
		return errors.New("message service not configured")
	}

	cfg := inbox.Config{Dir: watchDir, ChatID: watchChat, UserID: currentUser(), Debounce: watchDebounce}
	if appSettings != nil {
		if cfg.Dir == "" {
			cfg.Dir = appSettings.Inbox.Dir
		}
		if cfg.ChatID == "" {
			cfg.ChatID = appSettings.Inbox.ChatID
		}
		cfg.Rate = appSettings.Inbox.Rate
	}
	if cfg.Dir == "" {
		return errors.New("no inbox directory: pass --dir or set inbox.dir")
	}

	w, err := inbox.New(cfg, messageService, voteService)
	if err != nil {
		return err
	}
	w.OnIngest = func(r inbox.Result) {
		cmd.Printf("%s: chat %s message %s, appended %d plan(s)\n",
			r.Path, r.Message.ChatID, r.Message.ID, r.Upvote.Merge.AppendedCount)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchExisting {
		if _, err := w.Scan(ctx); err != nil {
			return err
		}
	}

	cmd.Printf("Watching %s (ctrl+c to stop)\n", cfg.Dir)
	return w.Run(ctx)
}
