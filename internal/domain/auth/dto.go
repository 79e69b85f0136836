package auth

import "github.com/anyemp/global-dashboard-go/internal/pkg/validator"

type PinLoginRequest struct {
	DashboardID string `json:"dashboardId"`
	PIN         string `json:"pin"`
}

func (r *PinLoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DashboardID) {
		errs = append(errs, validator.ValidationError{
			Field:   "dashboardId",
			Message: "dashboardId is required",
		})
	}

	if validator.IsEmpty(r.PIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "pin",
			Message: "pin is required",
		})
	}
	if len(r.PIN) > 64 {
		errs = append(errs, validator.ValidationError{
			Field:   "pin",
			Message: "pin must not exceed 64 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}
