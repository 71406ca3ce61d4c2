package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driven"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataDir       = "data_dir"
	keyUserID        = "user.id"
	keyDocTitle      = "document.title"
	keyDocKind       = "document.kind"
	keyDocInitial    = "document.initial_content"
	keyDocFallback   = "document.fallback_text"
	keyDocMaxRetries = "document.max_retries"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"
	keyLLMRPM        = "llm.requests_per_minute"
	keyServerAddr    = "server.addr"
	keyInboxDir      = "inbox.dir"
	keyInboxChatID   = "inbox.chat_id"
	keyInboxRate     = "inbox.rate"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()
	if s.configStore == nil {
		return &defaults, nil
	}

	settings := &domain.Settings{
		DataDir: s.configStore.GetString(keyDataDir),
		UserID:  s.getString(keyUserID, defaults.UserID),
		Document: domain.DocumentSettings{
			Title:          s.getString(keyDocTitle, defaults.Document.Title),
			Kind:           s.getString(keyDocKind, defaults.Document.Kind),
			InitialContent: s.getString(keyDocInitial, defaults.Document.InitialContent),
			FallbackText:   s.getString(keyDocFallback, defaults.Document.FallbackText),
			MaxRetries:     s.getInt(keyDocMaxRetries, defaults.Document.MaxRetries),
		},
		LLM: domain.LLMSettings{
			Provider:          s.getProvider(defaults.LLM.Provider),
			Model:             s.configStore.GetString(keyLLMModel),
			BaseURL:           s.configStore.GetString(keyLLMBaseURL),
			APIKey:            s.configStore.GetString(keyLLMAPIKey),
			RequestsPerMinute: s.getInt(keyLLMRPM, defaults.LLM.RequestsPerMinute),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
		Inbox: domain.InboxSettings{
			Dir:    s.configStore.GetString(keyInboxDir),
			ChatID: s.configStore.GetString(keyInboxChatID),
			Rate:   s.getFloat(keyInboxRate, defaults.Inbox.Rate),
		},
	}
	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}

	values := []struct {
		key   string
		value any
	}{
		{keyDataDir, settings.DataDir},
		{keyUserID, settings.UserID},
		{keyDocTitle, settings.Document.Title},
		{keyDocKind, settings.Document.Kind},
		{keyDocInitial, settings.Document.InitialContent},
		{keyDocFallback, settings.Document.FallbackText},
		{keyDocMaxRetries, settings.Document.MaxRetries},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMRPM, settings.LLM.RequestsPerMinute},
		{keyServerAddr, settings.Server.Addr},
		{keyInboxDir, settings.Inbox.Dir},
		{keyInboxChatID, settings.Inbox.ChatID},
		{keyInboxRate, settings.Inbox.Rate},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Never overwrite a stored key with an empty one.
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
		}
	}
	return nil
}

// Set updates a single setting by key. Numeric settings are parsed.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}

	var stored any = value
	switch key {
	case keyDocMaxRetries, keyLLMRPM:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case keyInboxRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		stored = f
	case keyLLMProvider:
		if value != "" && !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: unknown llm provider %q", domain.ErrInvalidInput, value)
		}
	case keyDataDir, keyUserID, keyDocTitle, keyDocKind, keyDocInitial, keyDocFallback,
		keyLLMModel, keyLLMBaseURL, keyLLMAPIKey, keyServerAddr, keyInboxDir, keyInboxChatID:
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return s.configStore.Set(key, stored)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(keyLLMProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
