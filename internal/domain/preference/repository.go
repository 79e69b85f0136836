package preference

import "context"

// PreferenceRepository persists Preferences under a single durable key
type PreferenceRepository interface {
	// Load returns ErrPreferencesNotFound when nothing has been saved yet
	Load(ctx context.Context) (Preferences, error)
	Save(ctx context.Context, prefs Preferences) error
}
