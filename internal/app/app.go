// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/bissquit/bloodbridge/internal/config"
	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/donors"
	"github.com/bissquit/bloodbridge/internal/events"
	"github.com/bissquit/bloodbridge/internal/identity"
	"github.com/bissquit/bloodbridge/internal/identity/session"
	"github.com/bissquit/bloodbridge/internal/inventory"
	"github.com/bissquit/bloodbridge/internal/pkg/ctxlog"
	"github.com/bissquit/bloodbridge/internal/pkg/httputil"
	"github.com/bissquit/bloodbridge/internal/requests"
	"github.com/bissquit/bloodbridge/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OpenAPISpecPath is where the API contract is served from, relative to the
// working directory.
const OpenAPISpecPath = "api/openapi/openapi.yaml"

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	store         *store
	server        *http.Server
	metricsServer *http.Server
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer connectCancel()

	st, err := openStore(connectCtx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Database.Driver, err)
	}

	app, err := newApp(cfg, logger, st)
	if err != nil {
		_ = st.close(context.Background())
		return nil, err
	}

	return app, nil
}

func newApp(cfg *config.Config, logger *slog.Logger, st *store) (*App, error) {
	app := &App{
		config: cfg,
		logger: logger,
		store:  st,
	}

	router, err := app.setupRouter()
	if err != nil {
		return nil, fmt.Errorf("setup router: %w", err)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers and blocks until the main one stops.
func (a *App) Run() error {
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
		"driver", a.config.Database.Driver,
		"version", version.Version,
	)

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown drains both servers, then closes the store.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	for name, srv := range map[string]*http.Server{"server": a.server, "metrics server": a.metricsServer} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Shutdown(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("shutdown %s: %w", name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if err := a.store.close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}

	return errors.Join(errs...)
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

func (a *App) setupRouter() (*chi.Mux, error) {
	sessions, err := session.NewManager(session.Config{
		SecretKey: a.config.Session.Secret,
		Duration:  a.config.Session.Duration,
		Issuer:    a.config.Session.Issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("create session manager: %w", err)
	}

	identityService := identity.NewService(a.store.identity, sessions)
	identityHandler := identity.NewHandler(identityService, identity.CookieSettings{
		Secure: a.config.Cookie.Secure,
		Domain: a.config.Cookie.Domain,
	})

	requestsHandler := requests.NewHandler(requests.NewService(a.store.requests))
	inventoryHandler := inventory.NewHandler(inventory.NewService(a.store.inventory))
	donorsHandler := donors.NewHandler(donors.NewService(a.store.donors))
	eventsHandler := events.NewHandler(events.NewService(a.store.events))

	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	// CORS must be early to answer preflight before other middleware
	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.readyzHandler)
	r.Get("/version", a.versionHandler)

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")
		http.ServeFile(w, r, OpenAPISpecPath)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(httputil.SessionMiddleware(identityService))

		identityHandler.RegisterRoutes(r)
		requestsHandler.RegisterPublicRoutes(r)
		inventoryHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(httputil.RequireSession)
			donorsHandler.RegisterRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(httputil.RequireRole(domain.RoleHospital))
			requestsHandler.RegisterHospitalRoutes(r)
			inventoryHandler.RegisterHospitalRoutes(r)
			eventsHandler.RegisterHospitalRoutes(r)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(httputil.RequireRole(domain.RoleAdmin))
			donorsHandler.RegisterAdminRoutes(r)
			inventoryHandler.RegisterAdminRoutes(r)
			eventsHandler.RegisterAdminRoutes(r)
		})
	})

	return r, nil
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) readyzHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.store.ping(ctx); err != nil {
		ctxlog.FromContext(r.Context()).Error("readiness check failed", "error", err)
		httputil.Text(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, version.Get())
}

func initLogger(cfg config.LogConfig, out io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(out, opts))
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}
