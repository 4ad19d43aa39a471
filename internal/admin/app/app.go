package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	httpapi "github.com/aussiebroadwan/backoffice/internal/admin/http"
	"github.com/aussiebroadwan/backoffice/internal/admin/service"
	"github.com/aussiebroadwan/backoffice/internal/admin/session"
	"github.com/aussiebroadwan/backoffice/internal/admin/store"
	"github.com/aussiebroadwan/backoffice/internal/admin/store/drivers/sqlite"
	"github.com/aussiebroadwan/backoffice/pkg/cryptox"
	"github.com/aussiebroadwan/backoffice/pkg/httpx"
	"github.com/aussiebroadwan/backoffice/pkg/jwtx"
	"github.com/aussiebroadwan/backoffice/pkg/metrics"
	"github.com/aussiebroadwan/backoffice/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the back-office services together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   *jwtx.HS256
	registry *prometheus.Registry

	userService         *service.UserService
	levelService        *service.UserLevelService
	authService         *service.AuthService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "backoffice-admin",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Fail at startup rather than on the first login.
	cryptox.SetPepperPath(app.cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, err := InitSessionKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.signer = signer

	app.initServices()

	if err := app.bootstrap(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Handler exposes the routed HTTP handler, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("admin service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return multierr.Append(fmt.Errorf("server failed: %w", err), app.Shutdown())
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown stops the HTTP server, the background sweeper and the database,
// returning every error it ran into.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down admin service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	var errs error
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		errs = multierr.Append(errs, err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
			errs = multierr.Append(errs, err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		errs = multierr.Append(errs, err)
	}

	app.logger.Info("admin service stopped")
	return errs
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	if err := os.MkdirAll(filepath.Dir(app.cfg.DatabaseFile), 0o750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

func (app *Application) initServices() {
	app.userService = &service.UserService{Store: app.db}
	app.levelService = &service.UserLevelService{Store: app.db}
	app.authService = &service.AuthService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		metrics.NewJobMetrics(app.registry),
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) bootstrap(ctx context.Context) error {
	_, err := app.bootstrapService.EnsureAdmin(slogx.WithContext(ctx, app.logger), service.BootstrapAdmin{
		Email:    app.cfg.BootstrapEmail,
		Password: app.cfg.BootstrapPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	return nil
}

func (app *Application) initHTTP() error {
	renderer, err := httpapi.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	proxies, err := httpx.ParseTrustedProxies(app.cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	sessions := &session.Manager{
		Store:  app.db.Sessions(),
		Tokens: app.signer,
		TTL:    app.cfg.SessionTTL,
		Secure: app.cfg.CookieSecure,
	}

	router := httpapi.NewRouter(BuildVersion, app.db, sessions, renderer, app.logger)
	router.Users = app.userService
	router.Levels = app.levelService
	router.Auth = app.authService
	router.LoginLimit = app.cfg.LoginRateLimit
	router.TrustedProxies = proxies
	router.Gatherer = app.registry
	router.HTTPMetrics = metrics.NewHTTPMetrics(app.registry)
	router.AuthMetrics = metrics.NewAuthMetrics(app.registry)
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
