package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/anyemp/global-dashboard-go/internal/domain/preference"
	"github.com/anyemp/global-dashboard-go/internal/handler/http/response"
)

type PreferenceHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	ToggleTheme(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
}

type PreferenceHandlerImpl struct {
	store preference.Store
}

func NewPreferenceHandler(store preference.Store) PreferenceHandler {
	return &PreferenceHandlerImpl{store: store}
}

func (h *PreferenceHandlerImpl) current() preference.PreferencesResponse {
	snap := h.store.Snapshot()
	return preference.PreferencesResponse{
		Theme:            snap.Theme,
		AppliedTheme:     snap.AppliedTheme,
		SidebarCollapsed: snap.SidebarCollapsed,
		CompactMode:      snap.CompactMode,
		CachedDashboards: len(snap.DashboardCache),
	}
}

func (h *PreferenceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.current())
}

// Update applies any subset of theme, sidebarCollapsed and compactMode
func (h *PreferenceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req preference.UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdatePreferences decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if _, err := h.store.Update(r.Context(), req); err != nil {
		slog.Error("UpdatePreferences service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Preferences updated", h.current())
}

func (h *PreferenceHandlerImpl) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.ToggleTheme(r.Context()); err != nil {
		slog.Error("ToggleTheme service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, h.current())
}

// Reset restores the default preferences and empties the dashboard cache
func (h *PreferenceHandlerImpl) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ResetStore(r.Context()); err != nil {
		slog.Error("ResetStore service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Preferences reset", h.current())
}
