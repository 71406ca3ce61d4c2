package driving

import "github.com/custodia-labs/habitplan/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, defaults filled in.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// Set updates a single setting by key and persists it.
	Set(key, value string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
