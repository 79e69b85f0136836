package auth

import "context"

type AuthService interface {
	// LoginWithPIN exchanges a dashboard PIN for a short-lived access token
	LoginWithPIN(ctx context.Context, req PinLoginRequest) (*TokenResponse, error)
}
