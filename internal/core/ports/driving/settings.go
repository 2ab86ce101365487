package driving

import "github.com/custodia-labs/sercha-assist/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, filled with defaults where unset.
	Get() (*domain.AppSettings, error)

	// Set validates and persists a single setting.
	Set(key, value string) error

	// Keys returns the recognised setting keys in display order.
	Keys() []string

	// Value returns the effective value of a key formatted for display.
	Value(key string) (string, error)
}
