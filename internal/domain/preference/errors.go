package preference

import "errors"

var (
	ErrInvalidTheme         = errors.New("Theme must be one of: light, dark, auto")
	ErrPreferencesNotFound  = errors.New("Preferences not found")
	ErrPreferencesCorrupted = errors.New("Stored preferences could not be decoded")
)
