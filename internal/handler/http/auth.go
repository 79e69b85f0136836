package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/anyemp/global-dashboard-go/internal/domain/auth"
	"github.com/anyemp/global-dashboard-go/internal/handler/http/response"
)

type AuthHandler interface {
	LoginWithPIN(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{authService: authService}
}

// LoginWithPIN implements AuthHandler.
func (a *AuthHandlerImpl) LoginWithPIN(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.PinLoginRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("LoginWithPIN decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	token, err := a.authService.LoginWithPIN(r.Context(), loginReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", token)
}
