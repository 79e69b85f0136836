package preference

import (
	"context"
	"log/slog"

	"github.com/anyemp/global-dashboard-go/internal/domain/preference"
)

// ThemeTopic is the SSE topic theme changes are published on
const ThemeTopic = "theme"

// Publisher is the part of the SSE hub the applier needs
type Publisher interface {
	Publish(topic, event string, data interface{})
}

// StaticSchemeDetector reports a fixed preference, read from configuration
type StaticSchemeDetector bool

func (d StaticSchemeDetector) PrefersDark() bool {
	return bool(d)
}

type broadcastApplier struct {
	detector  preference.SchemeDetector
	publisher Publisher
	logger    *slog.Logger
}

// NewThemeApplier resolves auto through detector and broadcasts every applied
// theme to connected clients
func NewThemeApplier(detector preference.SchemeDetector, publisher Publisher, logger *slog.Logger) preference.ThemeApplier {
	if logger == nil {
		logger = slog.Default()
	}
	return &broadcastApplier{detector: detector, publisher: publisher, logger: logger}
}

func (a *broadcastApplier) Apply(ctx context.Context, theme preference.Theme) preference.Theme {
	applied := theme
	if theme == preference.ThemeAuto {
		applied = preference.ThemeLight
		if a.detector != nil && a.detector.PrefersDark() {
			applied = preference.ThemeDark
		}
	}

	if a.publisher != nil {
		a.publisher.Publish(ThemeTopic, "theme", map[string]preference.Theme{
			"theme":        theme,
			"appliedTheme": applied,
		})
	}
	a.logger.DebugContext(ctx, "Theme applied", "theme", theme, "applied", applied)
	return applied
}
