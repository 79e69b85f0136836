package response

import (
	"errors"
	"net/http"

	"github.com/anyemp/global-dashboard-go/internal/domain/auth"
	"github.com/anyemp/global-dashboard-go/internal/domain/dashboard"
	"github.com/anyemp/global-dashboard-go/internal/domain/preference"
	"github.com/anyemp/global-dashboard-go/internal/pkg/apiclient"
	"github.com/anyemp/global-dashboard-go/internal/pkg/validator"
)

// HandleError maps domain and upstream errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidPIN):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// Dashboard domain errors
	case errors.Is(err, dashboard.ErrDashboardNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, dashboard.ErrNoAPI):
		BadRequest(w, err.Error(), nil)

	// Preference domain errors
	case errors.Is(err, preference.ErrInvalidTheme):
		BadRequest(w, err.Error(), map[string]string{"theme": err.Error()})

	default:
		handleUpstreamError(w, err)
	}
}

// upstream messages are passed through verbatim, they are what the dashboards show
func handleUpstreamError(w http.ResponseWriter, err error) {
	switch apiclient.Kind(err) {
	case apiclient.KindTimeout:
		GatewayTimeout(w, err.Error())
	case apiclient.KindNetwork:
		BadGateway(w, "UPSTREAM_UNREACHABLE", err.Error())
	case apiclient.KindHTTP:
		BadGateway(w, "UPSTREAM_HTTP_ERROR", err.Error())
	case apiclient.KindMalformed:
		BadGateway(w, "UPSTREAM_MALFORMED", err.Error())
	case apiclient.KindUpstream:
		BadGateway(w, "UPSTREAM_ERROR", err.Error())
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
