package preference

import (
	"context"
	"time"
)

// DefaultCacheMaxAge applies when a caller does not name a max age
const DefaultCacheMaxAge = 5 * time.Minute

// ThemeApplier pushes a theme to the presentation context and returns the
// concrete theme that was applied (auto resolves to light or dark).
type ThemeApplier interface {
	Apply(ctx context.Context, theme Theme) Theme
}

// SchemeDetector reports the environment's preferred color scheme
type SchemeDetector interface {
	PrefersDark() bool
}

// Store is the process-wide preference and dashboard cache state. It is
// created once at startup and injected into its consumers.
type Store interface {
	Snapshot() Snapshot
	Preferences() Preferences

	// Theme
	InitTheme(ctx context.Context) error
	SetTheme(ctx context.Context, theme Theme) error
	ToggleTheme(ctx context.Context) (Theme, error)

	// Dashboard cache, never persisted
	SetDashboardCache(id string, data interface{})
	GetDashboardCache(id string, maxAge time.Duration) (interface{}, bool)
	ClearDashboardCache(id string)

	// UI flags
	SetSidebarCollapsed(ctx context.Context, collapsed bool) error
	ToggleSidebar(ctx context.Context) (bool, error)
	SetCompactMode(ctx context.Context, compact bool) error
	ToggleCompactMode(ctx context.Context) (bool, error)
	Update(ctx context.Context, req UpdatePreferencesRequest) (Preferences, error)

	ResetStore(ctx context.Context) error
}
