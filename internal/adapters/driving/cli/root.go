// Package cli implements the habitplan command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
	"github.com/custodia-labs/habitplan/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Options carries the persistent flag values to the bootstrap hook.
type Options struct {
	ConfigDir string
	DataDir   string
	UserID    string
}

// Services is what a command run needs.
type Services struct {
	Vote     driving.VoteService
	Todo     driving.TodoService
	Plan     driving.PlanService
	Document driving.DocumentService
	Message  driving.MessageService
	Coach    driving.CoachService
	Settings driving.SettingsService

	// Config is the effective configuration after flag overrides.
	Config *domain.Settings

	// ValidateLLM pings a model with the given settings. May be nil.
	ValidateLLM func(ctx context.Context, settings *domain.LLMSettings) error

	// Close releases storage. May be nil.
	Close func() error
}

// BootstrapFunc builds the services before a command runs.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, error)

var (
	voteService     driving.VoteService
	todoService     driving.TodoService
	planService     driving.PlanService
	documentService driving.DocumentService
	messageService  driving.MessageService
	coachService    driving.CoachService
	settingsService driving.SettingsService
	appSettings     *domain.Settings
	validateLLM     func(ctx context.Context, settings *domain.LLMSettings) error
	closeServices   func() error
)

var bootstrap BootstrapFunc

var (
	verbose   bool
	configDir string
	dataDir   string
	userFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "habitplan",
	Short: "Turn seven-habit coaching replies into a todo list",
	Long: `habitplan extracts action plans from "7 Habits" coaching replies when
you upvote them, merges them into a versioned todo document per chat, and
lets you complete or edit the items.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (default ~/.habitplan)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (overrides data_dir)")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "User id (overrides user.id)")
}

// SetBootstrap installs the hook that builds services before each command.
func SetBootstrap(b BootstrapFunc) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil {
		return nil
	}

	svc, err := bootstrap(cmd.Context(), Options{
		ConfigDir: configDir,
		DataDir:   dataDir,
		UserID:    userFlag,
	})
	if err != nil {
		return err
	}
	setServices(svc)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

func setServices(svc *Services) {
	voteService = svc.Vote
	todoService = svc.Todo
	planService = svc.Plan
	documentService = svc.Document
	messageService = svc.Message
	coachService = svc.Coach
	settingsService = svc.Settings
	appSettings = svc.Config
	validateLLM = svc.ValidateLLM
	closeServices = svc.Close
}

// currentUser resolves the acting user: --user, then user.id, then the default.
func currentUser() string {
	if userFlag != "" {
		return userFlag
	}
	if appSettings != nil && appSettings.UserID != "" {
		return appSettings.UserID
	}
	return domain.DefaultUserID
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// describeErr turns service errors into short user-facing messages.
func describeErr(action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrTodoNotFound):
		return errors.New("todo not found; list the todos again to refresh ids")
	case errors.Is(err, domain.ErrForbidden):
		return errors.New(action + ": chat belongs to another user")
	case errors.Is(err, domain.ErrVersionConflict):
		return errors.New(action + ": the document changed concurrently, try again")
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
