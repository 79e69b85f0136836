package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anyemp/global-dashboard-go/internal/config"
	"github.com/anyemp/global-dashboard-go/internal/domain/attendance"
	"github.com/anyemp/global-dashboard-go/internal/domain/dashboard"
	"github.com/anyemp/global-dashboard-go/internal/domain/yellowcard"
	"github.com/anyemp/global-dashboard-go/internal/fixtures"
	appHTTP "github.com/anyemp/global-dashboard-go/internal/handler/http"
	"github.com/anyemp/global-dashboard-go/internal/pkg/apiclient"
	"github.com/anyemp/global-dashboard-go/internal/pkg/database"
	"github.com/anyemp/global-dashboard-go/internal/pkg/fetch"
	"github.com/anyemp/global-dashboard-go/internal/pkg/jwt"
	"github.com/anyemp/global-dashboard-go/internal/pkg/sse"
	"github.com/anyemp/global-dashboard-go/internal/pkg/storage"
	attendanceService "github.com/anyemp/global-dashboard-go/internal/service/attendance"
	serviceAuth "github.com/anyemp/global-dashboard-go/internal/service/auth"
	dashboardService "github.com/anyemp/global-dashboard-go/internal/service/dashboard"
	preferenceService "github.com/anyemp/global-dashboard-go/internal/service/preference"
	yellowCardService "github.com/anyemp/global-dashboard-go/internal/service/yellowcard"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "global-dashboard"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	clientMetrics := apiclient.NewMetrics(registry)

	newClient := func(name, baseURL string) *apiclient.Client {
		return apiclient.New(baseURL,
			apiclient.WithName(name),
			apiclient.WithTimeout(cfg.Upstream.UpstreamTimeout),
			apiclient.WithMetrics(clientMetrics),
			apiclient.WithLogger(logger),
		)
	}

	ycService := yellowCardService.NewYellowCardService(newClient(fixtures.YellowCardID, cfg.Upstream.YellowCardURL), logger)
	attService := attendanceService.NewAttendanceService(newClient(fixtures.HRAttendanceID, cfg.Upstream.AttendanceURL), logger)

	blobStore, closeStore, err := newBlobStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize %s store: %w", cfg.Store.Driver, err)
	}
	defer closeStore()

	hub := sse.NewHub()
	applier := preferenceService.NewThemeApplier(preferenceService.StaticSchemeDetector(cfg.App.PrefersDark), hub, logger)
	store := preferenceService.NewPreferenceStore(preferenceService.NewPreferenceRepository(blobStore), applier, logger)
	if err := store.InitTheme(ctx); err != nil {
		logger.Warn("Stored preferences could not be loaded", "error", err)
	}

	dashboardRegistry := fixtures.NewDefaultRegistry()
	dashboardSvc := dashboardService.NewDashboardService(dashboardRegistry, store, map[string]dashboard.Source{
		fixtures.YellowCardID:   dashboardService.SourceOf(ycService.GetEmployeesWithStats),
		fixtures.HRAttendanceID: dashboardService.SourceOf(attService.GetAttendanceWithStats),
	}, logger)

	// Pollers keep the cards fresh, warm the dashboard cache and push every
	// state change to SSE clients
	ycPoller := fetch.NewPoller(fetch.FromPointer(ycService.GetEmployeesWithStats), cfg.Polling.Interval,
		fetch.PollerOptions[yellowcard.EmployeesWithStats]{
			Name:   fixtures.YellowCardID,
			Logger: logger,
			OnSuccess: func(v yellowcard.EmployeesWithStats) {
				store.SetDashboardCache(fixtures.YellowCardID, &v)
			},
		})
	ycPoller.Subscribe(func(s fetch.State[yellowcard.EmployeesWithStats]) {
		hub.Publish(fixtures.YellowCardID, "state", s)
	})

	attPoller := fetch.NewPoller(fetch.FromPointer(attService.GetAttendanceWithStats), cfg.Polling.Interval,
		fetch.PollerOptions[attendance.AttendanceWithStats]{
			Name:   fixtures.HRAttendanceID,
			Logger: logger,
			OnSuccess: func(v attendance.AttendanceWithStats) {
				store.SetDashboardCache(fixtures.HRAttendanceID, &v)
			},
		})
	attPoller.Subscribe(func(s fetch.State[attendance.AttendanceWithStats]) {
		hub.Publish(fixtures.HRAttendanceID, "state", s)
	})

	accessExpiration, err := time.ParseDuration(cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, accessExpiration)
	authService := serviceAuth.NewAuthService(dashboardRegistry, map[string]string{
		fixtures.YellowCardID: cfg.JWT.PINHash,
	}, JWTService, logger)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:      logger,
		FrontendURL: cfg.App.FrontendURL,
		RateLimit:   rate.Limit(cfg.RateLimit.RPS),
		RateBurst:   cfg.RateLimit.Burst,
		Gatherer:    registry,
	}, JWTService, appHTTP.Handlers{
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc, cfg.Polling.CacheMaxAge),
		YellowCard: appHTTP.NewYellowCardHandler(ycService, ycPoller),
		Attendance: appHTTP.NewAttendanceHandler(attPoller),
		Preference: appHTTP.NewPreferenceHandler(store),
		Auth:       appHTTP.NewAuthHandler(authService),
		Events: appHTTP.NewEventsHandler(hub, []string{
			fixtures.YellowCardID,
			fixtures.HRAttendanceID,
			preferenceService.ThemeTopic,
		}),
	})

	if err := ycPoller.Start(ctx); err != nil {
		return err
	}
	defer ycPoller.Stop()
	if err := attPoller.Start(ctx); err != nil {
		return err
	}
	defer attPoller.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Upstream.DefaultTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newBlobStore opens the preference backend selected by STORE_DRIVER. The
// returned function releases its connections.
func newBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, func(), error) {
	switch cfg.Store.Driver {
	case "redis":
		rdb, err := database.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisStorage(rdb, "global-dashboard:"), func() { _ = rdb.Close() }, nil

	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, nil, err
		}
		store := storage.NewPostgresStorage(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	default:
		store, err := storage.NewLocalStorage(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
