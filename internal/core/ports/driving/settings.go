package driving

import "github.com/custodia-labs/lifeops/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// GetValue returns the raw value of a dotted config key.
	GetValue(key string) (any, bool)

	// SetValue validates and stores a dotted config key.
	SetValue(key, value string) error

	// Validate checks the current settings for consistency.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
