package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceHandler_GetDefaults(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodGet, "/api/v1/preferences", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "light", data["theme"])
	assert.Equal(t, "light", data["appliedTheme"])
	assert.False(t, data["sidebarCollapsed"].(bool))
	assert.False(t, data["compactMode"].(bool))
	assert.Equal(t, float64(0), data["cachedDashboards"])
}

func TestPreferenceHandler_Update(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodPut, "/api/v1/preferences", `{"theme": "AUTO", "compactMode": true}`, "")

	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "auto", data["theme"])
	// the test environment prefers dark
	assert.Equal(t, "dark", data["appliedTheme"])
	assert.True(t, data["compactMode"].(bool))
	assert.False(t, data["sidebarCollapsed"].(bool))
}

func TestPreferenceHandler_Update_Invalid(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{name: "unknown theme", body: `{"theme": "sepia"}`, wantStatus: http.StatusUnprocessableEntity, wantField: "theme"},
		{name: "empty body", body: `{}`, wantStatus: http.StatusUnprocessableEntity, wantField: "body"},
		{name: "malformed", body: `{"theme":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := env.do(t, http.MethodPut, "/api/v1/preferences", tt.body, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, resp["success"].(bool))
			if tt.wantField != "" {
				details := resp["error"].(map[string]interface{})["details"].(map[string]interface{})
				assert.Contains(t, details, tt.wantField)
			}
		})
	}
	assert.Equal(t, "light", string(env.store.Preferences().Theme))
}

func TestPreferenceHandler_ToggleTheme(t *testing.T) {
	env := newTestEnv(t)

	_, resp := env.do(t, http.MethodPost, "/api/v1/preferences/theme/toggle", "", "")
	assert.Equal(t, "dark", resp["data"].(map[string]interface{})["theme"])

	_, resp = env.do(t, http.MethodPost, "/api/v1/preferences/theme/toggle", "", "")
	assert.Equal(t, "light", resp["data"].(map[string]interface{})["theme"])
}

func TestPreferenceHandler_Reset(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPut, "/api/v1/preferences", `{"theme": "dark", "sidebarCollapsed": true}`, "")
	env.do(t, http.MethodGet, "/api/v1/dashboards/yellow-card/data", "", "")

	w, resp := env.do(t, http.MethodPost, "/api/v1/preferences/reset", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "light", data["theme"])
	assert.Equal(t, "light", data["appliedTheme"])
	assert.False(t, data["sidebarCollapsed"].(bool))
	assert.Equal(t, float64(0), data["cachedDashboards"])
}
