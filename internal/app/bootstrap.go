// Package app wires the storage, model and service layers behind the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/habitplan/internal/adapters/driven/ai"
	"github.com/custodia-labs/habitplan/internal/adapters/driven/config/file"
	"github.com/custodia-labs/habitplan/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/habitplan/internal/adapters/driving/cli"
	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driven"
	"github.com/custodia-labs/habitplan/internal/core/services"
	"github.com/custodia-labs/habitplan/internal/logger"
)

// Bootstrap builds the services for one command run. Settings come from
// config.toml under opts.ConfigDir; opts.DataDir and opts.UserID override
// the stored values for this run only.
func Bootstrap(_ context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsSvc := services.NewSettingsService(configStore)

	cfg, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.UserID != "" {
		cfg.UserID = opts.UserID
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	logger.Debug("store: %s", store.Path())

	promptDir := ""
	if opts.ConfigDir != "" {
		promptDir = filepath.Join(opts.ConfigDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	// A broken model config must not block the commands that need no model.
	llm, err := ai.CreateLLMService(&cfg.LLM)
	if err != nil {
		logger.Warn("llm disabled: %v", err)
		llm = nil
	}

	docs := store.DocumentStore()
	chats := store.ChatStore()
	messages := services.NewMessageService(store.MessageStore(), chats)

	return &cli.Services{
		Vote:     services.NewVoteService(store.VoteStore(), chats, messages, docs, cfg.Document),
		Todo:     services.NewTodoService(docs, cfg.Document),
		Plan:     services.NewPlanService(cfg.Document),
		Document: services.NewDocumentService(docs, cfg.Document),
		Message:  messages,
		Coach:    services.NewCoachService(llm, prompts, messages),
		Settings: settingsSvc,
		Config:   cfg,
		ValidateLLM: func(ctx context.Context, settings *domain.LLMSettings) error {
			svc, err := ai.CreateAndValidateLLMService(ctx, settings)
			if err != nil {
				return err
			}
			if svc != nil {
				return svc.Close()
			}
			return nil
		},
		Close: closer(store, llm),
	}, nil
}

func closer(store *sqlite.Store, llm driven.LLMService) func() error {
	return func() error {
		var errs []error
		if llm != nil {
			errs = append(errs, llm.Close())
		}
		errs = append(errs, store.Close())
		return errors.Join(errs...)
	}
}
