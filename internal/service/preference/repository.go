package preference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anyemp/global-dashboard-go/internal/domain/preference"
	"github.com/anyemp/global-dashboard-go/internal/pkg/storage"
)

// StorageKey is the single durable key holding the persisted preferences
const StorageKey = "global-dashboard-storage"

type blobRepository struct {
	store storage.BlobStore
}

// NewPreferenceRepository persists preferences as one JSON blob. Only theme,
// sidebarCollapsed and compactMode are ever written.
func NewPreferenceRepository(store storage.BlobStore) preference.PreferenceRepository {
	return &blobRepository{store: store}
}

func (r *blobRepository) Load(ctx context.Context) (preference.Preferences, error) {
	raw, err := r.store.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return preference.Preferences{}, preference.ErrPreferencesNotFound
	}
	if err != nil {
		return preference.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}

	prefs := preference.DefaultPreferences()
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return preference.Preferences{}, fmt.Errorf("%w: %v", preference.ErrPreferencesCorrupted, err)
	}
	if !prefs.Theme.Valid() {
		prefs.Theme = preference.ThemeLight
	}
	return prefs, nil
}

func (r *blobRepository) Save(ctx context.Context, prefs preference.Preferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := r.store.Put(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
