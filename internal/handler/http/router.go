package http

import (
	"log/slog"
	"net/http"

	"github.com/anyemp/global-dashboard-go/internal/fixtures"
	"github.com/anyemp/global-dashboard-go/internal/handler/http/middleware"
	"github.com/anyemp/global-dashboard-go/internal/handler/http/response"
	"github.com/anyemp/global-dashboard-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type RouterOptions struct {
	Logger      *slog.Logger
	FrontendURL string
	// RateLimit and RateBurst bound every write route per client IP
	RateLimit rate.Limit
	RateBurst int
	Gatherer  prometheus.Gatherer
}

type Handlers struct {
	Dashboard  DashboardHandler
	YellowCard YellowCardHandler
	Attendance AttendanceHandler
	Preference PreferenceHandler
	Auth       AuthHandler
	Events     EventsHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{opts.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	limit := middleware.RateLimitByIP(opts.RateLimit, opts.RateBurst)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/dashboards", func(r chi.Router) {
			r.Get("/", h.Dashboard.List)
			r.Get("/categories", h.Dashboard.Categories)
			r.Get("/overview", h.Dashboard.Overview)
			r.With(limit).Delete("/cache", h.Dashboard.ClearAllCache)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Dashboard.Get)
				r.Get("/data", h.Dashboard.GetData)
				r.With(limit).Delete("/cache", h.Dashboard.ClearCache)
			})
		})

		r.Route("/yellow-card", func(r chi.Router) {
			r.Get("/", h.YellowCard.State)
			r.With(limit).Post("/refresh", h.YellowCard.Refresh)

			// Writes need a PIN-issued token for the yellow card dashboard
			r.Group(func(r chi.Router) {
				r.Use(limit)
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(fixtures.YellowCardID))

				r.Post("/violations", h.YellowCard.AddViolation)
				r.Delete("/violations/{id}", h.YellowCard.DeleteViolation)
				r.Post("/green-cards", h.YellowCard.AddGreenCard)
				r.Delete("/green-cards/{id}", h.YellowCard.DeleteGreenCard)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", h.Attendance.State)
			r.With(limit).Post("/refresh", h.Attendance.Refresh)
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", h.Preference.Get)

			r.Group(func(r chi.Router) {
				r.Use(limit)
				r.Put("/", h.Preference.Update)
				r.Post("/theme/toggle", h.Preference.ToggleTheme)
				r.Post("/reset", h.Preference.Reset)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(limit).Post("/pin", h.Auth.LoginWithPIN)
		})

		r.Get("/events", h.Events.Stream)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
