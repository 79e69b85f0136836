package middleware

import (
	"net/http"

	"github.com/anyemp/global-dashboard-go/internal/domain/auth"
	"github.com/anyemp/global-dashboard-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired admits requests carrying a verified access token issued for
// dashboardID. It must run after jwtauth.Verifier.
func AuthRequired(dashboardID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if scope, _ := claims["dashboard_id"].(string); scope != dashboardID {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
