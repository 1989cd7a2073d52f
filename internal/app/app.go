// Package app wires configuration, the sales pipeline, services and the
// HTTP transport into one runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"salesboard/internal/config"
	apierrors "salesboard/internal/errors"
	"salesboard/internal/exporter"
	"salesboard/internal/infrastructure"
	custommw "salesboard/internal/middleware"
	"salesboard/internal/sales"
	"salesboard/internal/services"
	handlers "salesboard/internal/transport/http"
	ws "salesboard/internal/websocket"
)

const (
	Version = "1.0.0"
	AppName = "salesboard"
)

// Application is the main application container
type Application struct {
	Config    *config.Config
	Router    *chi.Mux
	Server    *http.Server
	Store     *sales.Store
	Dashboard *services.DashboardService
	Watcher   *services.DatasetWatcher
	Hub       *ws.Hub
	Metrics   *infrastructure.Metrics
	Logger    *slog.Logger

	registry *prometheus.Registry
}

// NewApplication loads configuration, initializes the global logger and
// builds the full application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return NewApplicationWithConfig(cfg, logger)
}

// NewApplicationWithConfig builds the application from an explicit
// configuration and logger. Tests use this to avoid global logger state.
func NewApplicationWithConfig(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("dataset", cfg.Dataset.Path))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := infrastructure.NewMetrics(registry)

	loader := sales.NewLoader(cfg.Dataset.Columns, logger)
	store := sales.NewStore(cfg.Dataset.Path, loader, logger)

	hub := ws.NewHub(logger, metrics)

	dashboard := services.NewDashboardService(store, logger, metrics)

	app := &Application{
		Config:    cfg,
		Store:     store,
		Dashboard: dashboard,
		Hub:       hub,
		Metrics:   metrics,
		Logger:    logger,
		registry:  registry,
	}

	if cfg.Dataset.Watch {
		app.Watcher = services.NewDatasetWatcher(store, logger, func() {
			metrics.DatasetReloadsTotal.Inc()
			hub.BroadcastDatasetChanged(store.Path())
		})
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Minimal middleware that will not wrap the ResponseWriter, so the
	// WebSocket upgrade still works.
	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)

	r.HandleFunc("/ws", a.handleWebSocket)
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(custommw.StructuredLogger(a.Logger))
		r.Use(custommw.Recoverer(a.Logger))
		r.Use(custommw.SecurityHeaders)
		r.Use(custommw.Compress(5))

		if a.Config.Security.EnableCORS {
			r.Use(custommw.CORS(custommw.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				Logger:         a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(custommw.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		r.Use(custommw.Metrics(a.Metrics))

		healthHandler := handlers.NewHealthHandler(a.Logger, Version, func(req *http.Request) error {
			_, err := a.Store.Get(req.Context())
			return err
		})
		r.Mount("/healthz", healthHandler.Routes())

		errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)
		writer := exporter.NewReportWriter(a.Logger)
		dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, writer, a.Logger, errorHandler)
		r.Route("/api", func(r chi.Router) {
			r.Mount("/dashboard", dashboardHandler.Routes())
		})
	})

	a.Router = r
}

// createServer builds the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start runs the server and background services until the context is
// cancelled, then shuts down gracefully.
func (a *Application) Start(ctx context.Context) error {
	a.Hub.Start()
	defer a.Hub.Stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "server listening",
			slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if a.Watcher != nil {
		g.Go(func() error {
			if err := a.Watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("dataset watcher: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		a.Logger.Info("shutting down")
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.Logger.Info("application shutdown complete")
	return err
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Start(ctx)
}

// handleWebSocket upgrades the connection and hands it to the hub
func (a *Application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	a.Logger.InfoContext(r.Context(), "websocket upgrade request",
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("origin", r.Header.Get("Origin")))

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || a.Config.Logging.Development {
				return true
			}
			for _, allowed := range a.Config.Security.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.Logger.ErrorContext(r.Context(), "websocket upgrade failed",
			slog.String("error", err.Error()))
		return
	}

	ws.ServeWS(a.Hub, conn)
}
