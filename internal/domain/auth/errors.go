package auth

import "errors"

var (
	ErrInvalidPIN   = errors.New("Invalid PIN")
	ErrInvalidToken = errors.New("invalid or expired token")
)
