package preference

import (
	"strings"
	"time"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

// ParseTheme accepts a theme name in any case
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidTheme
	}
	return t, nil
}

// Preferences is the persisted part of the store
type Preferences struct {
	Theme            Theme `json:"theme"`
	SidebarCollapsed bool  `json:"sidebarCollapsed"`
	CompactMode      bool  `json:"compactMode"`
}

func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight}
}

type CacheEntry struct {
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Snapshot is the complete store state. A snapshot is never mutated after it
// has been published; every change builds a new one.
type Snapshot struct {
	Preferences
	AppliedTheme   Theme                 `json:"appliedTheme"`
	DashboardCache map[string]CacheEntry `json:"-"`
}
