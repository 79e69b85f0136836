package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_LoginWithPIN_Success(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodPost, "/api/v1/auth/pin", `{"dashboardId": "yellow-card", "pin": "1234"}`, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Bearer", data["token_type"])
	token := data["access_token"].(string)
	require.NotEmpty(t, token)

	// the issued token unlocks yellow card writes
	w, _ = env.do(t, http.MethodDelete, "/api/v1/yellow-card/violations/3", "", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_LoginWithPIN_Failures(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "wrong pin", body: `{"dashboardId": "yellow-card", "pin": "0000"}`, wantStatus: http.StatusUnauthorized},
		{name: "dashboard without pin", body: `{"dashboardId": "hr-attendance", "pin": "1234"}`, wantStatus: http.StatusUnauthorized},
		{name: "unknown dashboard", body: `{"dashboardId": "nope", "pin": "1234"}`, wantStatus: http.StatusNotFound},
		{name: "missing pin", body: `{"dashboardId": "yellow-card"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "invalid json", body: `invalid json`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := env.do(t, http.MethodPost, "/api/v1/auth/pin", tt.body, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, resp["success"].(bool))
		})
	}
}
