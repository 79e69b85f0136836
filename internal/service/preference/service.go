package preference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anyemp/global-dashboard-go/internal/domain/preference"
)

// PreferenceStore holds the whole store state in one immutable snapshot.
// Every change copies the snapshot and swaps it in with compare-and-swap, so
// readers never see a half-applied update.
type PreferenceStore struct {
	state   atomic.Pointer[preference.Snapshot]
	repo    preference.PreferenceRepository
	applier preference.ThemeApplier
	logger  *slog.Logger
	now     func() time.Time

	// persistMu orders saves so the last write carries the latest preferences
	persistMu sync.Mutex
}

func NewPreferenceStore(repo preference.PreferenceRepository, applier preference.ThemeApplier, logger *slog.Logger) preference.Store {
	return newPreferenceStore(repo, applier, logger, time.Now)
}

func newPreferenceStore(repo preference.PreferenceRepository, applier preference.ThemeApplier, logger *slog.Logger, now func() time.Time) *PreferenceStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &PreferenceStore{
		repo:    repo,
		applier: applier,
		logger:  logger.With("component", "preference-store"),
		now:     now,
	}
	s.state.Store(defaultSnapshot())
	return s
}

func defaultSnapshot() *preference.Snapshot {
	return &preference.Snapshot{
		Preferences:    preference.DefaultPreferences(),
		AppliedTheme:   preference.ThemeLight,
		DashboardCache: map[string]preference.CacheEntry{},
	}
}

// update applies fn to a copy of the current snapshot and publishes it. fn
// may run more than once under contention and must only touch next.
func (s *PreferenceStore) update(fn func(next *preference.Snapshot)) preference.Snapshot {
	for {
		cur := s.state.Load()
		next := *cur
		fn(&next)
		if s.state.CompareAndSwap(cur, &next) {
			return next
		}
	}
}

// updateCache is update with a private copy of the cache map
func (s *PreferenceStore) updateCache(fn func(cache map[string]preference.CacheEntry)) {
	s.update(func(next *preference.Snapshot) {
		cache := maps.Clone(next.DashboardCache)
		if cache == nil {
			cache = map[string]preference.CacheEntry{}
		}
		fn(cache)
		next.DashboardCache = cache
	})
}

func (s *PreferenceStore) persist(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.repo.Save(ctx, s.state.Load().Preferences); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist preferences", "error", err)
		return err
	}
	return nil
}

func (s *PreferenceStore) apply(ctx context.Context, theme preference.Theme) {
	applied := theme
	if s.applier != nil {
		applied = s.applier.Apply(ctx, theme)
	}
	s.update(func(next *preference.Snapshot) {
		next.AppliedTheme = applied
	})
}

func (s *PreferenceStore) Snapshot() preference.Snapshot {
	return *s.state.Load()
}

func (s *PreferenceStore) Preferences() preference.Preferences {
	return s.state.Load().Preferences
}

// ===== THEME =====

// InitTheme loads persisted preferences, if any, and applies the stored theme
// without changing it. Calling it again only re-applies.
func (s *PreferenceStore) InitTheme(ctx context.Context) error {
	var loadErr error
	if s.repo != nil {
		prefs, err := s.repo.Load(ctx)
		switch {
		case err == nil:
			s.update(func(next *preference.Snapshot) {
				next.Preferences = prefs
			})
		case errors.Is(err, preference.ErrPreferencesNotFound):
		default:
			s.logger.WarnContext(ctx, "Using default preferences", "error", err)
			loadErr = err
		}
	}

	s.apply(ctx, s.Preferences().Theme)
	return loadErr
}

func (s *PreferenceStore) SetTheme(ctx context.Context, theme preference.Theme) error {
	if !theme.Valid() {
		return preference.ErrInvalidTheme
	}

	s.update(func(next *preference.Snapshot) {
		next.Theme = theme
	})
	s.apply(ctx, theme)
	return s.persist(ctx)
}

// ToggleTheme flips dark to light and anything else, auto included, to dark
func (s *PreferenceStore) ToggleTheme(ctx context.Context) (preference.Theme, error) {
	snap := s.update(func(next *preference.Snapshot) {
		if next.Theme == preference.ThemeDark {
			next.Theme = preference.ThemeLight
		} else {
			next.Theme = preference.ThemeDark
		}
	})
	s.apply(ctx, snap.Theme)
	return snap.Theme, s.persist(ctx)
}

// ===== DASHBOARD CACHE =====

func (s *PreferenceStore) SetDashboardCache(id string, data interface{}) {
	ts := s.now()
	s.updateCache(func(cache map[string]preference.CacheEntry) {
		cache[id] = preference.CacheEntry{Data: data, Timestamp: ts}
	})
}

// GetDashboardCache returns the entry for id while it is at most maxAge old.
// A zero maxAge only accepts an entry written at this very instant; a negative
// one accepts nothing. Stale entries are left in place.
func (s *PreferenceStore) GetDashboardCache(id string, maxAge time.Duration) (interface{}, bool) {
	if maxAge < 0 {
		return nil, false
	}

	entry, ok := s.state.Load().DashboardCache[id]
	if !ok {
		return nil, false
	}
	if s.now().Sub(entry.Timestamp) > maxAge {
		return nil, false
	}
	return entry.Data, true
}

// ClearDashboardCache removes the entry for id, or every entry when id is empty
func (s *PreferenceStore) ClearDashboardCache(id string) {
	if id == "" {
		s.update(func(next *preference.Snapshot) {
			next.DashboardCache = map[string]preference.CacheEntry{}
		})
		return
	}
	s.updateCache(func(cache map[string]preference.CacheEntry) {
		delete(cache, id)
	})
}

// ===== UI PREFERENCES =====

func (s *PreferenceStore) SetSidebarCollapsed(ctx context.Context, collapsed bool) error {
	s.update(func(next *preference.Snapshot) {
		next.SidebarCollapsed = collapsed
	})
	return s.persist(ctx)
}

func (s *PreferenceStore) ToggleSidebar(ctx context.Context) (bool, error) {
	snap := s.update(func(next *preference.Snapshot) {
		next.SidebarCollapsed = !next.SidebarCollapsed
	})
	return snap.SidebarCollapsed, s.persist(ctx)
}

func (s *PreferenceStore) SetCompactMode(ctx context.Context, compact bool) error {
	s.update(func(next *preference.Snapshot) {
		next.CompactMode = compact
	})
	return s.persist(ctx)
}

func (s *PreferenceStore) ToggleCompactMode(ctx context.Context) (bool, error) {
	snap := s.update(func(next *preference.Snapshot) {
		next.CompactMode = !next.CompactMode
	})
	return snap.CompactMode, s.persist(ctx)
}

// Update changes any subset of the persisted preferences in one step
func (s *PreferenceStore) Update(ctx context.Context, req preference.UpdatePreferencesRequest) (preference.Preferences, error) {
	if err := req.Validate(); err != nil {
		return preference.Preferences{}, err
	}

	var theme preference.Theme
	if req.Theme != nil {
		t, err := preference.ParseTheme(*req.Theme)
		if err != nil {
			return preference.Preferences{}, err
		}
		theme = t
	}

	snap := s.update(func(next *preference.Snapshot) {
		if theme != "" {
			next.Theme = theme
		}
		if req.SidebarCollapsed != nil {
			next.SidebarCollapsed = *req.SidebarCollapsed
		}
		if req.CompactMode != nil {
			next.CompactMode = *req.CompactMode
		}
	})
	if theme != "" {
		s.apply(ctx, theme)
	}

	if err := s.persist(ctx); err != nil {
		return snap.Preferences, fmt.Errorf("preferences updated but not saved: %w", err)
	}
	return snap.Preferences, nil
}

// ===== RESET =====

// ResetStore restores every field to its default, re-applies the light theme
// and persists the defaults
func (s *PreferenceStore) ResetStore(ctx context.Context) error {
	s.state.Store(defaultSnapshot())
	s.apply(ctx, preference.ThemeLight)
	return s.persist(ctx)
}
