// Package main is the entry point for the product registry API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/product-registry/internal/config"
	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/events"
	"github.com/pkordes/product-registry/internal/gateway"
	"github.com/pkordes/product-registry/internal/handler"
	"github.com/pkordes/product-registry/internal/local"
	"github.com/pkordes/product-registry/internal/media"
	"github.com/pkordes/product-registry/internal/metrics"
	"github.com/pkordes/product-registry/internal/middleware"
	"github.com/pkordes/product-registry/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// The default logger writes plain text to stderr until replaced below.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// --- Local store ------------------------------------------------------
	// The SQLite file always opens; it serves every call the remote store
	// cannot.
	store, err := local.Open(cfg.LocalStorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	mediaDir, err := media.NewDirStore(cfg.MediaDir, "/media")
	if err != nil {
		return err
	}

	// --- Remote store -----------------------------------------------------
	// Connecting is lazy: the first request that needs Postgres dials it.
	var connect gateway.ConnectFunc
	if cfg.RemoteConfigured() {
		connect = gateway.PostgresConnector(gateway.PostgresConfig{
			DatabaseURL: cfg.DatabaseURL,
			Migrate:     cfg.MigrateOnStart,
		}, logger)
	} else {
		logger.Info("remote store not configured, using local store only")
	}
	client := gateway.NewClient(connect)
	defer client.Close()

	s3Store, err := media.NewS3Store(ctx, media.S3Config{
		Bucket:          cfg.S3.Bucket,
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		PathStyle:       cfg.S3.PathStyle,
		PublicBaseURL:   cfg.S3.PublicBaseURL,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	})
	if err != nil {
		return err
	}

	// --- Gateway, metrics, events -----------------------------------------
	m := metrics.New()
	opts := []gateway.Option{gateway.WithFallbackRecorder(m)}
	if s3Store.Configured() {
		opts = append(opts, gateway.WithRemoteMedia(s3Store))
	}
	gw := gateway.New(client, gateway.Local{
		Registrations: local.NewRegistrationRepo(store),
		References:    local.NewReferenceRepo(store),
		Media:         mediaDir,
	}, logger, opts...)

	hub := events.NewHub()
	defer hub.Close()

	// --- Services ---------------------------------------------------------
	loc, _ := cfg.Display.Location() // validated by config.Load
	format := domain.DisplayFormat{
		DateLayout: cfg.Display.DateLayout,
		TimeLayout: cfg.Display.TimeLayout,
		Location:   loc,
	}

	srv := handler.NewServer(handler.Deps{
		Registrations:  service.NewRegistrationService(gw, hub, format),
		References:     service.NewReferenceService(gw, hub),
		Imports:        service.NewImportService(gw, hub),
		Photos:         service.NewPhotoService(gw),
		Stats:          service.NewStatsService(gw, format),
		Export:         service.NewExportService(gw),
		Categories:     service.NewProductCategoryService(gw),
		Backend:        client,
		Events:         hub,
		Metrics:        m.Handler(),
		MediaDir:       mediaDir.Dir(),
		MaxBodyBytes:   cfg.MaxBodyBytes,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Log:            logger,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → Metrics. Body size limits are applied per route group inside
	// the handler's router.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMetricsHandler(m))
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// The event stream clears its own write deadline.
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}
	logger.Info("shutting down server")

	// Open event streams only end when their subscription closes.
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
