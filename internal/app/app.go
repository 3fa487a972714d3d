package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"databazar/internal/auth"
	"databazar/internal/config"
	"databazar/internal/infrastructure"
	customMiddleware "databazar/internal/middleware"
	"databazar/internal/store"
	handlers "databazar/internal/transport/http"
)

// Version is the databazar server version
const Version = "0.4.1"

// Application is the dependency container: every shared client is built
// once here and passed by reference to the components that need it.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB
	Auth   *auth.Client
	Store  *store.Store
	Router *chi.Mux
	Server *http.Server
}

// New builds the application from configuration
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := infrastructure.NewLogger(cfg.Logging)

	logger.Info("application starting",
		slog.String("name", "databazar"),
		slog.String("version", Version),
	)

	db, err := store.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	a := &Application{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Auth:   auth.NewClient(cfg.Supabase, logger),
		Store:  store.New(db, logger),
	}
	a.setupRouter()

	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return a, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))

	healthHandler := handlers.NewHealthHandler(a.DB, Version, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		if a.Config.Security.RateLimit.Enabled {
			limiter := customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			)
			// Only the export path is throttled; previews and catalog
			// browsing stay unmetered like the storefront UI expects.
			r.Group(func(r chi.Router) {
				r.Use(exportOnly(limiter.Handler))
				datasetHandler := handlers.NewDatasetHandler(a.Store, a.Auth, a.Logger)
				r.Mount("/datasets", datasetHandler.Routes())
			})
		} else {
			datasetHandler := handlers.NewDatasetHandler(a.Store, a.Auth, a.Logger)
			r.Mount("/datasets", datasetHandler.Routes())
		}

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

			filtersHandler := handlers.NewFiltersHandler(a.Store, a.Logger)
			r.Get("/filters", filtersHandler.Get)

			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
		})
	})

	r.Get("/version", healthHandler.Version)

	// Prometheus metrics outside the API middleware group
	r.Handle("/metrics", promhttp.Handler())

	a.Router = r
}

// exportOnly applies mw only to requests that select CSV export mode
func exportOnly(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("format") == "csv" {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Run starts the server and blocks until an interrupt, then shuts down
// gracefully.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		a.Logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Warn("database close failed", slog.String("error", err.Error()))
	}

	a.Logger.Info("shutdown complete")
	return nil
}
