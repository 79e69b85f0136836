package preference

import "github.com/anyemp/global-dashboard-go/internal/pkg/validator"

type UpdatePreferencesRequest struct {
	Theme            *string `json:"theme,omitempty"`
	SidebarCollapsed *bool   `json:"sidebarCollapsed,omitempty"`
	CompactMode      *bool   `json:"compactMode,omitempty"`
}

func (r *UpdatePreferencesRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Theme != nil {
		if _, err := ParseTheme(*r.Theme); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "theme",
				Message: "theme must be one of: light, dark, auto",
			})
		}
	}

	if r.Theme == nil && r.SidebarCollapsed == nil && r.CompactMode == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one preference must be provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PreferencesResponse struct {
	Theme            Theme `json:"theme"`
	AppliedTheme     Theme `json:"appliedTheme"`
	SidebarCollapsed bool  `json:"sidebarCollapsed"`
	CompactMode      bool  `json:"compactMode"`
	CachedDashboards int   `json:"cachedDashboards"`
}
