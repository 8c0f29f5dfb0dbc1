package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/klauspost/compress/gzhttp"

	"hospitalpulse/internal/charts"
	"hospitalpulse/internal/config"
	"hospitalpulse/internal/dataset"
	apierrors "hospitalpulse/internal/errors"
	"hospitalpulse/internal/infrastructure"
	customMiddleware "hospitalpulse/internal/middleware"
	"hospitalpulse/internal/services"
	handlers "hospitalpulse/internal/transport/http"
	ws "hospitalpulse/internal/websocket"
	"hospitalpulse/pkg/contracts"
)

// AppName is the name logged at startup
const AppName = "Hospital Pulse"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	WebSocketHub  *ws.Hub
	Dashboard     *services.DashboardService
	HealthService *services.HealthService
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics

	errorHandler *apierrors.ErrorHandler
	validator    *customMiddleware.Validator
}

// NewApplication loads configuration and logging from the environment and
// builds the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires every component for cfg. Nothing is started until Start.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, contracts.Version, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		errorHandler:  apierrors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
		validator:     customMiddleware.NewValidator(),
	}

	if err := app.initializeServices(); err != nil {
		otelProviders.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	metrics, err := infrastructure.CreateBusinessMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create business metrics: %w", err)
	}
	a.Metrics = metrics

	wsMetrics, err := ws.NewOTelMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create websocket metrics: %w", err)
	}
	a.WebSocketHub = ws.NewHub(a.Logger, wsMetrics)

	a.Dashboard = services.NewDashboardService(services.DashboardOptions{
		Ingest: dataset.IngestOptions{
			Encoding: a.Config.Ingest.Encoding,
			MaxBytes: a.Config.Ingest.MaxUploadBytes,
		},
		Charts: charts.Options{
			Width:         a.Config.Dashboard.ChartWidth,
			Height:        a.Config.Dashboard.ChartHeight,
			HistogramBins: a.Config.Dashboard.HistogramBins,
		},
		Hub:     a.WebSocketHub,
		Tracer:  a.OTelProviders.Tracer,
		Metrics: metrics,
		Logger:  a.Logger,
	})

	a.HealthService = services.NewHealthService(
		contracts.Version,
		contracts.BuildTime,
		contracts.GitCommit,
		a.Dashboard,
		a.WebSocketHub,
		a.Logger,
	)

	a.Logger.Info("Services initialized",
		slog.String("encoding", a.Config.Ingest.Encoding),
		slog.Int64("max_upload_bytes", a.Config.Ingest.MaxUploadBytes))
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Minimal middleware only; the rest wraps the ResponseWriter and would
	// break the WebSocket hijack.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Method(http.MethodGet, "/ws", handlers.NewWebSocketHandler(a.WebSocketHub, a.Config.WebSocket, a.Logger))

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → ... → Timeout
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.errorHandler))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(compress)

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.errorHandler,
			).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger, a.errorHandler))

		r.NotFound(a.errorHandler.NotFound)
		r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

		a.setupAPIRoutes(r)
		a.setupHTMLRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		handlers.NewHealthHandler(a.HealthService, a.Logger).Routes(r)
		handlers.NewDatasetHandler(a.Dashboard, a.validator, a.errorHandler, a.Config.Ingest.MaxUploadBytes, a.Logger).Routes(r)

		r.With(customMiddleware.ContentTypeValidator(a.errorHandler, "application/json")).
			Post("/logs", handlers.NewClientLogHandler(a.validator, a.errorHandler, a.Logger).Handle)
	})
}

// setupHTMLRoutes configures the dashboard page, charts and downloads
func (a *Application) setupHTMLRoutes(r chi.Router) {
	handlers.NewPageHandler(
		a.Dashboard,
		a.validator,
		a.errorHandler,
		a.Config.Ingest.MaxUploadBytes,
		a.Config.Dashboard.ExportFilename,
		a.Logger,
	).Routes(r)
}

// compress gzips responses for clients that accept it
func compress(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the hub and serves HTTP on ln. A serve failure other than
// shutdown is reported on the returned channel.
func (a *Application) Start(ctx context.Context, ln net.Listener) <-chan error {
	a.WebSocketHub.Start()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("address", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	a.WebSocketHub.Stop()

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run serves on the configured port until SIGINT or SIGTERM
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	errCh := a.Start(ctx, ln)
	a.Logger.InfoContext(ctx, "Dashboard available",
		slog.String("url", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	select {
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case err := <-errCh:
		if err != nil {
			a.Stop(context.Background())
			return err
		}
	}

	// The signal context is already cancelled; give shutdown a fresh one.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+5*time.Second)
	defer cancel()
	return a.Stop(shutdownCtx)
}
